package testutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeLoyaltyAPILifecycle(t *testing.T) {
	fake := NewFakeLoyaltyAPI()
	defer fake.Close()
	fake.Seed("CUST-001", "Jane", 100)

	// List serializes the backend's customerId key, never id.
	resp, err := http.Get(fake.BaseURL() + "/customers/all")
	require.NoError(t, err)
	defer resp.Body.Close()
	var listed []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "CUST-001", listed[0]["customerId"])
	assert.NotContains(t, listed[0], "id")

	// Purchase awards one point per full 50 and appends to the ledger.
	resp, err = http.Post(fake.BaseURL()+"/transactions/purchase", "application/json",
		strings.NewReader(`{"customerId":"CUST-001","amount":120}`))
	require.NoError(t, err)
	resp.Body.Close()
	rec, ok := fake.Customer("CUST-001")
	require.True(t, ok)
	assert.Equal(t, 102, rec.TotalPoints)

	// Redeem overdraft is a 400 with a detail field.
	resp, err = http.Post(fake.BaseURL()+"/points/redeem", "application/json",
		strings.NewReader(`{"customerId":"CUST-001","pointsToRedeem":999,"rewardDescription":"TV"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload["detail"], "Insufficient points")

	// Delete responds 204 and hides the customer from reads.
	req, err := http.NewRequest(http.MethodDelete, fake.BaseURL()+"/customers/CUST-001", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(fake.BaseURL() + "/customers/CUST-001")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScriptedResponsesAndCounting(t *testing.T) {
	fake := NewFakeLoyaltyAPI()
	defer fake.Close()
	fake.ScriptResponse("GET", "/api/customers/all", 502, `{"error":"upstream down"}`)

	resp, err := http.Get(fake.BaseURL() + "/customers/all")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int64(1), fake.Requests())
}

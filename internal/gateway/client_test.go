package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elahi-market/points-console/internal/loyalty"
	"github.com/elahi-market/points-console/internal/normalize"
	"github.com/elahi-market/points-console/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: baseURL, Log: logger.NewNop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() accepted empty BaseURL")
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := newTestClient(t, "http://localhost:8080/api/")
	if c.baseURL != "http://localhost:8080/api" {
		t.Errorf("baseURL = %s", c.baseURL)
	}
}

func TestDoRejectsUnknownMethod(t *testing.T) {
	c := newTestClient(t, "http://localhost:8080/api")
	if _, err := c.Do(context.Background(), http.MethodPatch, "/customers/all", nil); err == nil {
		t.Fatal("Do() accepted PATCH")
	}
}

func TestListCustomers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/all" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"customerId":"CUST-001","name":"Jane","totalPoints":120}]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api")
	customers, err := c.ListCustomers(context.Background())
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(customers) != 1 || customers[0].ID != "CUST-001" || customers[0].TotalPoints != 120 {
		t.Errorf("ListCustomers() = %+v", customers)
	}
}

func TestStructuredErrorUsesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Customer not found.","message":"ignored","error":"ignored"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api")
	_, err := c.GetCustomer(context.Background(), "CUST-404")
	var f *normalize.Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *normalize.Failure", err)
	}
	if f.Kind != normalize.FailureStructured {
		t.Errorf("Kind = %v, want FailureStructured", f.Kind)
	}
	if f.Message != "Customer not found." {
		t.Errorf("Message = %q, want the detail field", f.Message)
	}
}

func TestNonJSONBodyIsConnectivityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api")
	_, err := c.ListCustomers(context.Background())
	var f *normalize.Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *normalize.Failure", err)
	}
	if f.Kind != normalize.FailureConnectivity {
		t.Errorf("Kind = %v, want FailureConnectivity", f.Kind)
	}
}

func TestUnreachableServerIsConnectivityFailure(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1/api")
	_, err := c.ListCustomers(context.Background())
	var f *normalize.Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *normalize.Failure", err)
	}
	if f.Kind != normalize.FailureConnectivity {
		t.Errorf("Kind = %v, want FailureConnectivity", f.Kind)
	}
}

func TestDelete204IsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api")
	if err := c.DeleteCustomer(context.Background(), "CUST-001"); err != nil {
		t.Fatalf("DeleteCustomer() error = %v", err)
	}
}

func TestRegisterSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %s", r.Header.Get("Content-Type"))
		}
		var req loyalty.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.CustomerID != "CUST-003" || req.InitialPoints != 10 {
			t.Errorf("body = %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"customerId":"CUST-003","name":"Mina","totalPoints":10}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api")
	customer, err := c.RegisterCustomer(context.Background(), loyalty.RegisterRequest{
		CustomerID: "CUST-003", Name: "Mina", InitialPoints: 10,
	})
	if err != nil {
		t.Fatalf("RegisterCustomer() error = %v", err)
	}
	if customer.ID != "CUST-003" {
		t.Errorf("ID = %q, want CUST-003", customer.ID)
	}
}

func TestPointsByTimeQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("startDate") != "2024-02-29" || q.Get("endDate") != "2024-03-31" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"customerId":"CUST-001","startDate":"2024-02-29","endDate":"2024-03-31","pointsEarned":42}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api")
	res, err := c.PointsByTime(context.Background(), "CUST-001", "2024-02-29", "2024-03-31")
	if err != nil {
		t.Fatalf("PointsByTime() error = %v", err)
	}
	if res.PointsEarned != 42 {
		t.Errorf("PointsEarned = %d, want 42", res.PointsEarned)
	}
}

func TestPauseHonorsCancellation(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:8080/api", Delay: time.Minute, Log: logger.NewNop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	_, err = c.Get(ctx, "/customers/all")
	if err == nil {
		t.Fatal("Get() succeeded with cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Fatal("pause did not observe cancellation")
	}
}

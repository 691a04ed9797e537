package normalize

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntityCanonicalizesID(t *testing.T) {
	c, err := Entity([]byte(`{"id":"CUST-001","name":"Jane","totalPoints":120}`))
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}
	if c.ID != "CUST-001" || c.Name != "Jane" || c.TotalPoints != 120 {
		t.Errorf("Entity() = %+v", c)
	}
}

func TestEntityFallsBackToCustomerID(t *testing.T) {
	c, err := Entity([]byte(`{"customerId":"CUST-002","name":"Ravi","totalPoints":45,"isDeleted":0}`))
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}
	if c.ID != "CUST-002" {
		t.Errorf("ID = %q, want CUST-002", c.ID)
	}
	if c.Extra["customerId"] != "CUST-002" {
		t.Errorf("customerId not preserved in Extra: %v", c.Extra)
	}
	if got, ok := c.Extra["isDeleted"]; !ok || got.(float64) != 0 {
		t.Errorf("isDeleted not passed through: %v", c.Extra)
	}
}

func TestEntityPrefersExistingID(t *testing.T) {
	c, err := Entity([]byte(`{"id":"A","customerId":"B","totalPoints":1}`))
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}
	if c.ID != "A" {
		t.Errorf("ID = %q, want A", c.ID)
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	body := []byte(`[
		{"customerId":"CUST-001","name":"Jane","totalPoints":120},
		{"id":"CUST-002","name":"Ravi","totalPoints":0},
		{"customerId":"CUST-003","name":"Mina","totalPoints":7,"isDeleted":0}
	]`)
	customers, err := Collection(body)
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if len(customers) != 3 {
		t.Fatalf("len = %d, want 3", len(customers))
	}
	wantIDs := []string{"CUST-001", "CUST-002", "CUST-003"}
	wantPoints := []int{120, 0, 7}
	for i, c := range customers {
		if c.ID != wantIDs[i] {
			t.Errorf("customers[%d].ID = %q, want %q", i, c.ID, wantIDs[i])
		}
		if c.TotalPoints != wantPoints[i] {
			t.Errorf("customers[%d].TotalPoints = %d, want %d", i, c.TotalPoints, wantPoints[i])
		}
	}
}

func TestCollectionRejectsObject(t *testing.T) {
	if _, err := Collection([]byte(`{"customerId":"X"}`)); err == nil {
		t.Fatal("Collection() accepted a non-array body")
	}
}

func TestErrorMessagePrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"all three", `{"detail":"D","message":"M","error":"E"}`, "D"},
		{"message over error", `{"message":"M","error":"E"}`, "M"},
		{"error only", `{"error":"E"}`, "E"},
		{"detail wins over later keys", `{"error":"E","detail":"D"}`, "D"},
		{"empty detail skipped", `{"detail":"","message":"M"}`, "M"},
		{"none present", `{"timestamp":"now","status":404}`, "API request failed with status 404."},
		{"empty body", ``, "API request failed with status 500."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := 404
			if tc.name == "empty body" {
				status = 500
			}
			if got := ErrorMessage(status, []byte(tc.body)); got != tc.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFailureClassification(t *testing.T) {
	s := Structured("Customer not found.")
	if s.Kind != FailureStructured || s.Error() != "Customer not found." {
		t.Errorf("Structured() = %+v", s)
	}
	c := Connectivity("network down")
	if c.Kind != FailureConnectivity {
		t.Errorf("Connectivity() kind = %v", c.Kind)
	}
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("call: %w", Structured("Insufficient points."))
	if got := MessageOf(wrapped); got != "Insufficient points." {
		t.Errorf("MessageOf(wrapped failure) = %q", got)
	}
	if got := MessageOf(errors.New("plain")); got != "plain" {
		t.Errorf("MessageOf(plain) = %q", got)
	}
}

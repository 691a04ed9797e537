// Package loyalty defines the domain types exchanged with the points API.
package loyalty

// Customer is the canonical client-side view of a loyalty account.
//
// ID is externally assigned and immutable once created. TotalPoints is
// server-authoritative: it is always the last value received from the server,
// never computed locally. Extra holds server fields outside the canonical
// shape, preserved verbatim.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`

	Extra map[string]any `json:"-"`
}

// TransactionResult is the outcome of a purchase or redemption. It is
// consumed once to update the UI and then discarded.
type TransactionResult struct {
	Message        string `json:"message"`
	CustomerID     string `json:"customerId"`
	NewTotalPoints int    `json:"newTotalPoints"`
}

// PointsByTime reports points earned within an inclusive calendar-date range.
type PointsByTime struct {
	CustomerID   string `json:"customerId"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	PointsEarned int    `json:"pointsEarned"`
}

// RegisterRequest is the body for POST /customers/register.
type RegisterRequest struct {
	CustomerID    string `json:"customerId"`
	Name          string `json:"name"`
	InitialPoints int    `json:"initialPoints"`
}

// UpdateRequest is the body for PUT /customers/{id}.
type UpdateRequest struct {
	Name string `json:"name"`
}

// PurchaseRequest is the body for POST /transactions/purchase.
type PurchaseRequest struct {
	CustomerID string  `json:"customerId"`
	Amount     float64 `json:"amount"`
}

// RedeemRequest is the body for POST /points/redeem.
type RedeemRequest struct {
	CustomerID        string `json:"customerId"`
	PointsToRedeem    int    `json:"pointsToRedeem"`
	RewardDescription string `json:"rewardDescription"`
}

// Package testutil provides an in-process fake of the points-management API
// for exercising the gateway and view controllers against realistic wire
// shapes, including the server's customerId identity quirk.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Record is a stored customer. It serializes the way the real backend does:
// the primary key goes out as customerId, never id.
type Record struct {
	CustomerID  string `json:"customerId"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
	IsDeleted   int    `json:"isDeleted"`
}

// LedgerEntry is one points event, dated for points-by-time queries.
type LedgerEntry struct {
	CustomerID  string
	PointChange int
	Date        string // YYYY-MM-DD
}

type scriptedResponse struct {
	status int
	body   string
}

// FakeLoyaltyAPI is a seedable in-memory points API server.
type FakeLoyaltyAPI struct {
	mu       sync.Mutex
	records  map[string]*Record
	order    []string
	ledger   []LedgerEntry
	today    string
	scripted map[string]scriptedResponse

	requests atomic.Int64
	srv      *httptest.Server
}

// NewFakeLoyaltyAPI starts a fake points API server. Close it when done.
func NewFakeLoyaltyAPI() *FakeLoyaltyAPI {
	f := &FakeLoyaltyAPI{
		records:  make(map[string]*Record),
		scripted: make(map[string]scriptedResponse),
		today:    "2024-06-15",
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(f.countRequests)
	api.HandleFunc("/customers/all", f.handleList).Methods(http.MethodGet)
	api.HandleFunc("/customers/register", f.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}/points-by-time", f.handlePointsByTime).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", f.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", f.handleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", f.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/transactions/purchase", f.handlePurchase).Methods(http.MethodPost)
	api.HandleFunc("/points/redeem", f.handleRedeem).Methods(http.MethodPost)

	f.srv = httptest.NewServer(r)
	return f
}

// BaseURL returns the API root (including the /api prefix).
func (f *FakeLoyaltyAPI) BaseURL() string { return f.srv.URL + "/api" }

// Close shuts the server down.
func (f *FakeLoyaltyAPI) Close() { f.srv.Close() }

// Requests reports how many API requests have been received. Tests use it to
// assert zero-network-call invariants.
func (f *FakeLoyaltyAPI) Requests() int64 { return f.requests.Load() }

// Seed adds an active customer.
func (f *FakeLoyaltyAPI) Seed(id, name string, points int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		f.order = append(f.order, id)
	}
	f.records[id] = &Record{CustomerID: id, Name: name, TotalPoints: points}
}

// SeedLedger adds a dated points event for points-by-time queries.
func (f *FakeLoyaltyAPI) SeedLedger(id string, pointChange int, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ledger = append(f.ledger, LedgerEntry{CustomerID: id, PointChange: pointChange, Date: date})
}

// Customer returns the stored record for id.
func (f *FakeLoyaltyAPI) Customer(id string) (Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// ScriptResponse forces the next requests matching "METHOD /path" to return
// the given status and raw body instead of normal handling.
func (f *FakeLoyaltyAPI) ScriptResponse(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripted[method+" "+path] = scriptedResponse{status: status, body: body}
}

func (f *FakeLoyaltyAPI) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.mu.Lock()
		scripted, ok := f.scripted[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if ok {
			w.WriteHeader(scripted.status)
			fmt.Fprint(w, scripted.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeLoyaltyAPI) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	out := make([]Record, 0, len(f.order))
	for _, id := range f.order {
		if rec := f.records[id]; rec.IsDeleted == 0 {
			out = append(out, *rec)
		}
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeLoyaltyAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	rec, ok := f.records[id]
	active := ok && rec.IsDeleted == 0
	var out Record
	if active {
		out = *rec
	}
	f.mu.Unlock()
	if !active {
		writeDetail(w, http.StatusNotFound, "Customer not found.")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeLoyaltyAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID    string `json:"customerId"`
		Name          string `json:"name"`
		InitialPoints int    `json:"initialPoints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	f.mu.Lock()
	if rec, ok := f.records[req.CustomerID]; ok && rec.IsDeleted == 0 {
		f.mu.Unlock()
		writeDetail(w, http.StatusBadRequest,
			fmt.Sprintf("Customer ID '%s' already exists (and is active).", req.CustomerID))
		return
	}
	rec := &Record{CustomerID: req.CustomerID, Name: req.Name, TotalPoints: req.InitialPoints}
	if _, ok := f.records[req.CustomerID]; !ok {
		f.order = append(f.order, req.CustomerID)
	}
	f.records[req.CustomerID] = rec
	out := *rec
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (f *FakeLoyaltyAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	f.mu.Lock()
	rec, ok := f.records[id]
	if !ok || rec.IsDeleted == 1 {
		f.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Customer not found or is deactivated.")
		return
	}
	if req.Name == nil {
		f.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "No valid fields provided for update.")
		return
	}
	rec.Name = *req.Name
	out := *rec
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeLoyaltyAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	rec, ok := f.records[id]
	if !ok {
		f.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Customer not found.")
		return
	}
	if rec.IsDeleted == 1 {
		f.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Customer is already deleted.")
		return
	}
	rec.IsDeleted = 1
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeLoyaltyAPI) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string  `json:"customerId"`
		Amount     float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	f.mu.Lock()
	rec, ok := f.records[req.CustomerID]
	if !ok || rec.IsDeleted == 1 {
		f.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Customer not found. Cannot process transaction.")
		return
	}
	// One point per full 50 spent, like the real backend.
	earned := int(req.Amount / 50)
	var msg string
	if earned > 0 {
		rec.TotalPoints += earned
		f.ledger = append(f.ledger, LedgerEntry{
			CustomerID: req.CustomerID, PointChange: earned, Date: f.today,
		})
		msg = fmt.Sprintf("Successfully recorded purchase of %.2f. Points awarded: %d. (txn %s)",
			req.Amount, earned, uuid.NewString()[:8])
	} else {
		msg = fmt.Sprintf("Purchase of %.2f recorded, but the amount did not qualify for loyalty points.", req.Amount)
	}
	out := statusResponse{Message: msg, CustomerID: req.CustomerID, NewTotalPoints: rec.TotalPoints}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeLoyaltyAPI) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID        string `json:"customerId"`
		PointsToRedeem    int    `json:"pointsToRedeem"`
		RewardDescription string `json:"rewardDescription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	f.mu.Lock()
	rec, ok := f.records[req.CustomerID]
	if !ok || rec.IsDeleted == 1 {
		f.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Customer not found.")
		return
	}
	if req.PointsToRedeem > rec.TotalPoints {
		detail := fmt.Sprintf("Insufficient points. Customer has %d but tried to redeem %d.",
			rec.TotalPoints, req.PointsToRedeem)
		f.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, detail)
		return
	}
	rec.TotalPoints -= req.PointsToRedeem
	f.ledger = append(f.ledger, LedgerEntry{
		CustomerID: req.CustomerID, PointChange: -req.PointsToRedeem, Date: f.today,
	})
	out := statusResponse{
		Message:        fmt.Sprintf("Successfully redeemed %d points for '%s'.", req.PointsToRedeem, req.RewardDescription),
		CustomerID:     req.CustomerID,
		NewTotalPoints: rec.TotalPoints,
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeLoyaltyAPI) handlePointsByTime(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")

	f.mu.Lock()
	rec, ok := f.records[id]
	active := ok && rec.IsDeleted == 0
	earned := 0
	for _, entry := range f.ledger {
		if entry.CustomerID == id && entry.PointChange > 0 &&
			entry.Date >= start && entry.Date <= end {
			earned += entry.PointChange
		}
	}
	f.mu.Unlock()
	if !active {
		writeDetail(w, http.StatusNotFound, "Customer not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customerId":   id,
		"startDate":    start,
		"endDate":      end,
		"pointsEarned": earned,
	})
}

type statusResponse struct {
	Message        string `json:"message"`
	CustomerID     string `json:"customerId"`
	NewTotalPoints int    `json:"newTotalPoints"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail, "status": status})
}

// Package normalize canonicalizes points API payloads and classifies
// failures.
//
// The server is inconsistent about identity: list and get responses carry a
// customerId field while other responses carry id. Normalization maps either
// onto the canonical Customer.ID and preserves every other server field
// verbatim.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/elahi-market/points-console/internal/loyalty"
)

// Entity maps a single-object response body onto the canonical customer
// shape.
func Entity(body []byte) (loyalty.Customer, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return loyalty.Customer{}, fmt.Errorf("decode customer: %w", err)
	}
	return fromRaw(raw), nil
}

// Collection maps an array response body onto canonical customers, element by
// element.
func Collection(body []byte) ([]loyalty.Customer, error) {
	var raws []map[string]any
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode customer list: %w", err)
	}
	out := make([]loyalty.Customer, 0, len(raws))
	for _, raw := range raws {
		out = append(out, fromRaw(raw))
	}
	return out, nil
}

func fromRaw(raw map[string]any) loyalty.Customer {
	c := loyalty.Customer{Extra: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case "id":
			c.ID = asString(v)
		case "name":
			c.Name = asString(v)
		case "totalPoints":
			c.TotalPoints = asInt(v)
		default:
			c.Extra[k] = v
		}
	}
	if c.ID == "" {
		// The Spring entity serializes its primary key as customerId.
		c.ID = asString(raw["customerId"])
	}
	return c
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case json.Number:
		f, _ := n.Float64()
		return int(f)
	case int:
		return n
	default:
		return 0
	}
}

// ErrorMessage extracts the most specific message from an error payload.
// Precedence: detail, then message, then error, then a generic fallback
// embedding the HTTP status.
func ErrorMessage(status int, body []byte) string {
	for _, key := range []string{"detail", "message", "error"} {
		if v := gjson.GetBytes(body, key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return fmt.Sprintf("API request failed with status %d.", status)
}

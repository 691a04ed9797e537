package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/elahi-market/points-console/internal/loyalty"
	"github.com/elahi-market/points-console/internal/normalize"
)

// ListCustomers fetches the full customer collection.
func (c *Client) ListCustomers(ctx context.Context) ([]loyalty.Customer, error) {
	res, err := c.Get(ctx, "/customers/all")
	if err != nil {
		return nil, err
	}
	customers, err := normalize.Collection(res.Body)
	if err != nil {
		return nil, normalize.Connectivity(
			fmt.Sprintf("Server returned an unexpected customer list shape (status %d).", res.StatusCode))
	}
	return customers, nil
}

// GetCustomer fetches a single customer by id.
func (c *Client) GetCustomer(ctx context.Context, id string) (loyalty.Customer, error) {
	res, err := c.Get(ctx, "/customers/"+url.PathEscape(id))
	if err != nil {
		return loyalty.Customer{}, err
	}
	return c.entity(res)
}

// RegisterCustomer creates a new loyalty account.
func (c *Client) RegisterCustomer(ctx context.Context, req loyalty.RegisterRequest) (loyalty.Customer, error) {
	res, err := c.Post(ctx, "/customers/register", req)
	if err != nil {
		return loyalty.Customer{}, err
	}
	return c.entity(res)
}

// UpdateCustomer replaces a customer's display name and returns the server's
// updated record.
func (c *Client) UpdateCustomer(ctx context.Context, id, name string) (loyalty.Customer, error) {
	res, err := c.Put(ctx, "/customers/"+url.PathEscape(id), loyalty.UpdateRequest{Name: name})
	if err != nil {
		return loyalty.Customer{}, err
	}
	return c.entity(res)
}

// DeleteCustomer removes a customer. A 204 response is success regardless of
// body.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, "/customers/"+url.PathEscape(id))
	return err
}

// Purchase records a purchase and accrues points.
func (c *Client) Purchase(ctx context.Context, req loyalty.PurchaseRequest) (loyalty.TransactionResult, error) {
	res, err := c.Post(ctx, "/transactions/purchase", req)
	if err != nil {
		return loyalty.TransactionResult{}, err
	}
	var out loyalty.TransactionResult
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return loyalty.TransactionResult{}, c.badShape(res.StatusCode)
	}
	return out, nil
}

// Redeem exchanges points for a reward.
func (c *Client) Redeem(ctx context.Context, req loyalty.RedeemRequest) (loyalty.TransactionResult, error) {
	res, err := c.Post(ctx, "/points/redeem", req)
	if err != nil {
		return loyalty.TransactionResult{}, err
	}
	var out loyalty.TransactionResult
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return loyalty.TransactionResult{}, c.badShape(res.StatusCode)
	}
	return out, nil
}

// PointsByTime queries points earned within an inclusive date range.
func (c *Client) PointsByTime(ctx context.Context, id, startDate, endDate string) (loyalty.PointsByTime, error) {
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)
	path := "/customers/" + url.PathEscape(id) + "/points-by-time?" + params.Encode()

	res, err := c.Get(ctx, path)
	if err != nil {
		return loyalty.PointsByTime{}, err
	}
	var out loyalty.PointsByTime
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return loyalty.PointsByTime{}, c.badShape(res.StatusCode)
	}
	return out, nil
}

func (c *Client) entity(res *Result) (loyalty.Customer, error) {
	customer, err := normalize.Entity(res.Body)
	if err != nil {
		return loyalty.Customer{}, c.badShape(res.StatusCode)
	}
	return customer, nil
}

func (c *Client) badShape(status int) *normalize.Failure {
	return normalize.Connectivity(
		fmt.Sprintf("Server returned an unexpected response shape (status %d).", status))
}

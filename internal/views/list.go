package views

import (
	"context"
	"fmt"

	"github.com/elahi-market/points-console/internal/gateway"
	"github.com/elahi-market/points-console/internal/loyalty"
	"github.com/elahi-market/points-console/internal/normalize"
	"github.com/elahi-market/points-console/internal/notify"
	"github.com/elahi-market/points-console/pkg/logger"
)

// ListController drives the all-customers screen. It owns the collection
// snapshot and the update/delete actions reachable from the list.
type ListController struct {
	screen
	api   *gateway.Client
	notes *notify.Center
	log   *logger.Logger

	customers []loyalty.Customer
}

// NewList constructs the list screen controller.
func NewList(api *gateway.Client, notes *notify.Center, log *logger.Logger) *ListController {
	if log == nil {
		log = logger.NewDefault("views.list")
	}
	return &ListController{api: api, notes: notes, log: log}
}

// Customers returns a copy of the current collection snapshot.
func (c *ListController) Customers() []loyalty.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]loyalty.Customer, len(c.customers))
	copy(out, c.customers)
	return out
}

// Refresh replaces the collection from the server. On failure the collection
// is cleared and the classified message surfaces as an error notification.
func (c *ListController) Refresh(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	customers, err := c.api.ListCustomers(ctx)
	if err != nil {
		c.mu.Lock()
		c.customers = nil
		c.state = StateFailed
		c.mu.Unlock()
		c.log.WithError(err).Warn("customer list refresh failed")
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.customers = customers
	c.state = StateSucceeded
	c.mu.Unlock()
	c.notes.Info(fmt.Sprintf("Successfully loaded %d customers.", len(customers)))
	return nil
}

// UpdateName renames a customer from the list, then re-fetches the
// collection. The refresh runs only after the mutation's success response is
// observed; the server stays the source of truth for every field.
func (c *ListController) UpdateName(ctx context.Context, id, name string) error {
	if err := c.begin(); err != nil {
		return err
	}
	if _, err := c.api.UpdateCustomer(ctx, id, name); err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.finish(true)
	c.log.WithField("customer_id", id).Info("customer updated")
	c.notes.Success(fmt.Sprintf("Customer %s updated successfully.", id))
	return c.Refresh(ctx)
}

// Delete removes a customer after explicit confirmation, then re-fetches the
// collection. On failure the prior collection is preserved so the user can
// retry.
func (c *ListController) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := c.begin(); err != nil {
		return err
	}
	if err := c.api.DeleteCustomer(ctx, id); err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.finish(true)
	c.log.WithField("customer_id", id).Info("customer deleted")
	c.notes.Success(fmt.Sprintf("Customer %s successfully deleted.", id))
	return c.Refresh(ctx)
}

package views

import (
	"context"
	"errors"
	"strings"

	"github.com/elahi-market/points-console/internal/gateway"
	"github.com/elahi-market/points-console/internal/loyalty"
	"github.com/elahi-market/points-console/internal/normalize"
	"github.com/elahi-market/points-console/internal/notify"
	"github.com/elahi-market/points-console/internal/numeric"
	"github.com/elahi-market/points-console/pkg/logger"
)

// EarnForm is the purchase screen's input snapshot.
type EarnForm struct {
	CustomerID string
	Amount     string
}

// EarnController drives the record-purchase screen.
type EarnController struct {
	screen
	api   *gateway.Client
	notes *notify.Center
	log   *logger.Logger

	form EarnForm
}

// NewEarn constructs the purchase screen controller.
func NewEarn(api *gateway.Client, notes *notify.Center, log *logger.Logger) *EarnController {
	if log == nil {
		log = logger.NewDefault("views.earn")
	}
	return &EarnController{api: api, notes: notes, log: log}
}

// SetForm replaces the form snapshot.
func (c *EarnController) SetForm(f EarnForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// Form returns the current form snapshot.
func (c *EarnController) Form() EarnForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submit records the purchase. A non-positive parsed amount fails locally
// with no network call. On success the server's own message is published and
// the amount field is cleared, keeping the customer id for the next entry.
func (c *EarnController) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	amount := numeric.Parse(form.Amount)
	if amount <= 0 {
		msg := "Purchase amount must be greater than zero."
		c.notes.Error(msg)
		return errors.New(msg)
	}

	if err := c.begin(); err != nil {
		return err
	}
	result, err := c.api.Purchase(ctx, loyalty.PurchaseRequest{
		CustomerID: strings.TrimSpace(form.CustomerID),
		Amount:     amount,
	})
	if err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.form.Amount = ""
	c.state = StateSucceeded
	c.mu.Unlock()
	c.log.WithField("customer_id", result.CustomerID).
		WithField("new_total", result.NewTotalPoints).
		Info("purchase recorded")
	c.notes.Success(result.Message)
	return nil
}

package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elahi-market/points-console/internal/gateway"
	"github.com/elahi-market/points-console/internal/loyalty"
	"github.com/elahi-market/points-console/internal/normalize"
	"github.com/elahi-market/points-console/internal/notify"
	"github.com/elahi-market/points-console/internal/numeric"
	"github.com/elahi-market/points-console/pkg/logger"
)

// RedeemForm is the redemption screen's input snapshot.
type RedeemForm struct {
	CustomerID        string
	PointsToRedeem    string
	RewardDescription string
}

// RedeemController drives the redeem-points screen.
type RedeemController struct {
	screen
	api   *gateway.Client
	notes *notify.Center
	log   *logger.Logger

	form RedeemForm
}

// NewRedeem constructs the redemption screen controller.
func NewRedeem(api *gateway.Client, notes *notify.Center, log *logger.Logger) *RedeemController {
	if log == nil {
		log = logger.NewDefault("views.redeem")
	}
	return &RedeemController{api: api, notes: notes, log: log}
}

// SetForm replaces the form snapshot.
func (c *RedeemController) SetForm(f RedeemForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// Form returns the current form snapshot.
func (c *RedeemController) Form() RedeemForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submit redeems points. A non-positive parsed point count fails locally
// with no network call. A business-rule rejection (insufficient balance)
// surfaces the server's specific message. The reported new total comes from
// the server response, never from local arithmetic.
func (c *RedeemController) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	points := numeric.ParseInt(form.PointsToRedeem)
	if points <= 0 {
		msg := "Points to redeem must be a positive number."
		c.notes.Error(msg)
		return errors.New(msg)
	}

	if err := c.begin(); err != nil {
		return err
	}
	result, err := c.api.Redeem(ctx, loyalty.RedeemRequest{
		CustomerID:        strings.TrimSpace(form.CustomerID),
		PointsToRedeem:    points,
		RewardDescription: form.RewardDescription,
	})
	if err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.form.PointsToRedeem = ""
	c.form.RewardDescription = ""
	c.state = StateSucceeded
	c.mu.Unlock()
	c.log.WithField("customer_id", result.CustomerID).
		WithField("points", points).
		WithField("new_total", result.NewTotalPoints).
		Info("points redeemed")
	c.notes.Success(fmt.Sprintf("Redeemed %d points successfully. New total: %d.", points, result.NewTotalPoints))
	return nil
}

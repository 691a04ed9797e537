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

// RegisterForm is the register screen's input snapshot. InitialPoints is the
// raw user-typed string; it parses tolerantly, defaulting to 0.
type RegisterForm struct {
	CustomerID    string
	Name          string
	InitialPoints string
}

// RegisterController drives the new-customer screen.
type RegisterController struct {
	screen
	api   *gateway.Client
	notes *notify.Center
	log   *logger.Logger

	form RegisterForm
}

// NewRegister constructs the register screen controller.
func NewRegister(api *gateway.Client, notes *notify.Center, log *logger.Logger) *RegisterController {
	if log == nil {
		log = logger.NewDefault("views.register")
	}
	return &RegisterController{api: api, notes: notes, log: log}
}

// SetForm replaces the form snapshot.
func (c *RegisterController) SetForm(f RegisterForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// Form returns the current form snapshot.
func (c *RegisterController) Form() RegisterForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submit registers the customer described by the form. Required fields are
// validated locally before any network call; on success the form is cleared.
func (c *RegisterController) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	id := strings.TrimSpace(form.CustomerID)
	name := strings.TrimSpace(form.Name)
	if id == "" || name == "" {
		msg := "Customer ID and name are required."
		c.notes.Error(msg)
		return errors.New(msg)
	}

	if err := c.begin(); err != nil {
		return err
	}
	customer, err := c.api.RegisterCustomer(ctx, loyalty.RegisterRequest{
		CustomerID:    id,
		Name:          name,
		InitialPoints: numeric.ParseInt(form.InitialPoints),
	})
	if err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.form = RegisterForm{}
	c.state = StateSucceeded
	c.mu.Unlock()
	c.log.WithField("customer_id", customer.ID).Info("customer registered")
	c.notes.Success(fmt.Sprintf("Customer %s registered successfully with ID: %s.", customer.Name, customer.ID))
	return nil
}

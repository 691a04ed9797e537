package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elahi-market/points-console/internal/datecalc"
	"github.com/elahi-market/points-console/internal/gateway"
	"github.com/elahi-market/points-console/internal/loyalty"
	"github.com/elahi-market/points-console/internal/normalize"
	"github.com/elahi-market/points-console/internal/notify"
	"github.com/elahi-market/points-console/pkg/logger"
)

const fetchFirstPrompt = "Please fetch a customer ID first."

// DetailController drives the view-and-manage screen: fetching a single
// customer, renaming, deletion, and points-by-time queries over custom or
// predefined ranges.
type DetailController struct {
	screen
	api   *gateway.Client
	notes *notify.Center
	calc  *datecalc.Calculator
	log   *logger.Logger

	customerID string
	customer   *loyalty.Customer
	editName   string

	rangeStart string
	rangeEnd   string
	result     *loyalty.PointsByTime
	dialogOpen bool
}

// NewDetail constructs the view-and-manage screen controller. A nil
// calculator defaults to the wall clock.
func NewDetail(api *gateway.Client, notes *notify.Center, calc *datecalc.Calculator, log *logger.Logger) *DetailController {
	if calc == nil {
		calc = datecalc.New(nil)
	}
	if log == nil {
		log = logger.NewDefault("views.detail")
	}
	return &DetailController{api: api, notes: notes, calc: calc, log: log}
}

// Customer returns the loaded customer snapshot, if any.
func (c *DetailController) Customer() (loyalty.Customer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.customer == nil {
		return loyalty.Customer{}, false
	}
	return *c.customer, true
}

// EditName returns the editable-name field.
func (c *DetailController) EditName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editName
}

// Result returns the last points-by-time result, if any.
func (c *DetailController) Result() (loyalty.PointsByTime, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return loyalty.PointsByTime{}, false
	}
	return *c.result, true
}

// DialogOpen reports whether the range dialog / result display is open.
func (c *DetailController) DialogOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialogOpen
}

// Range returns the displayed date range.
func (c *DetailController) Range() (start, end string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rangeStart, c.rangeEnd
}

// Fetch loads a customer by id and populates the editable name. Prior screen
// state is cleared first, so a failed fetch leaves the screen empty.
func (c *DetailController) Fetch(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("customer id is required")
	}
	if err := c.begin(); err != nil {
		return err
	}
	c.mu.Lock()
	c.customerID = ""
	c.customer = nil
	c.editName = ""
	c.result = nil
	c.mu.Unlock()

	customer, err := c.api.GetCustomer(ctx, id)
	if err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.customerID = id
	c.customer = &customer
	c.editName = customer.Name
	c.state = StateSucceeded
	c.mu.Unlock()
	return nil
}

// UpdateName renames the loaded customer. Empty or unchanged names are a
// no-op. On success the snapshot is replaced wholesale with the server's
// returned object; on failure it is left untouched.
func (c *DetailController) UpdateName(ctx context.Context, name string) error {
	c.mu.Lock()
	current := c.customer
	id := c.customerID
	c.mu.Unlock()

	name = strings.TrimSpace(name)
	if current == nil || name == "" || name == strings.TrimSpace(current.Name) {
		return ErrNoChange
	}

	if err := c.begin(); err != nil {
		return err
	}
	updated, err := c.api.UpdateCustomer(ctx, id, name)
	if err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.customer = &updated
	c.editName = updated.Name
	c.state = StateSucceeded
	c.mu.Unlock()
	c.log.WithField("customer_id", id).Info("customer renamed")
	c.notes.Success(fmt.Sprintf("Customer name updated to %s.", updated.Name))
	return nil
}

// Delete removes the loaded customer after explicit confirmation. Success
// clears the whole screen; failure preserves it so the user can retry.
func (c *DetailController) Delete(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	c.mu.Lock()
	id := c.customerID
	c.mu.Unlock()
	if id == "" {
		return errors.New("no customer loaded")
	}

	if err := c.begin(); err != nil {
		return err
	}
	if err := c.api.DeleteCustomer(ctx, id); err != nil {
		c.finish(false)
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.customerID = ""
	c.customer = nil
	c.editName = ""
	c.result = nil
	c.rangeStart = ""
	c.rangeEnd = ""
	c.dialogOpen = false
	c.state = StateSucceeded
	c.mu.Unlock()
	c.log.WithField("customer_id", id).Info("customer deleted")
	c.notes.Success(fmt.Sprintf("Customer %s successfully deleted.", id))
	return nil
}

// OpenRangeDialog opens the custom-range dialog with cleared inputs. It
// requires a loaded customer.
func (c *DetailController) OpenRangeDialog() error {
	c.mu.Lock()
	loaded := c.customer != nil
	if loaded {
		c.rangeStart = ""
		c.rangeEnd = ""
		c.result = nil
		c.dialogOpen = true
	}
	c.mu.Unlock()
	if !loaded {
		c.notes.Info(fetchFirstPrompt)
		return errors.New("no customer loaded")
	}
	return nil
}

// CloseRangeDialog closes the range dialog.
func (c *DetailController) CloseRangeDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialogOpen = false
}

// PointsByRange queries points earned in a user-chosen range. A start date
// after the end date is rejected locally with no network call, and the
// dialog stays open for correction. ISO dates order lexicographically.
func (c *DetailController) PointsByRange(ctx context.Context, start, end string) error {
	if start > end {
		msg := "Start date cannot be after the end date."
		c.notes.Error(msg)
		return errors.New(msg)
	}
	c.mu.Lock()
	id := c.customerID
	name := ""
	if c.customer != nil {
		name = c.customer.Name
	}
	c.mu.Unlock()
	if id == "" {
		c.notes.Info(fetchFirstPrompt)
		return errors.New("no customer loaded")
	}

	if err := c.begin(); err != nil {
		return err
	}
	c.mu.Lock()
	c.result = nil
	c.mu.Unlock()

	result, err := c.api.PointsByTime(ctx, id, start, end)
	if err != nil {
		c.finish(false)
		// Dialog stays open so the range can be corrected.
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.result = &result
	c.rangeStart = start
	c.rangeEnd = end
	c.state = StateSucceeded
	c.mu.Unlock()
	c.notes.Info(fmt.Sprintf("Points data fetched successfully for %s.", name))
	return nil
}

// PointsByMonths queries the predefined range covering the last n whole
// months, ending today. Success opens the result display; failure closes it.
func (c *DetailController) PointsByMonths(ctx context.Context, months int) error {
	c.mu.Lock()
	id := c.customerID
	loaded := c.customer != nil
	c.mu.Unlock()
	if !loaded {
		c.notes.Info(fetchFirstPrompt)
		return errors.New("no customer loaded")
	}

	start, end := c.calc.Range(months)

	if err := c.begin(); err != nil {
		return err
	}
	c.mu.Lock()
	c.result = nil
	c.mu.Unlock()

	result, err := c.api.PointsByTime(ctx, id, start, end)
	if err != nil {
		c.mu.Lock()
		c.dialogOpen = false
		c.state = StateFailed
		c.mu.Unlock()
		c.notes.Error(normalize.MessageOf(err))
		return err
	}
	c.mu.Lock()
	c.result = &result
	c.rangeStart = start
	c.rangeEnd = end
	c.dialogOpen = true
	c.state = StateSucceeded
	c.mu.Unlock()
	c.notes.Info(fmt.Sprintf("Last %d months of points fetched. Total: %d.", months, result.PointsEarned))
	return nil
}

// Package datecalc computes the calendar-date strings used by time-scoped
// points queries.
package datecalc

import "time"

// ISO calendar-date layout used across the points API.
const layout = "2006-01-02"

// Calculator derives date ranges from a clock. The zero-value clock is
// time.Now; tests inject a fixed one.
type Calculator struct {
	now func() time.Time
}

// New constructs a calculator. A nil clock defaults to time.Now.
func New(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Today returns the current calendar date as YYYY-MM-DD.
func (c *Calculator) Today() string {
	return c.now().Format(layout)
}

// MonthsAgo returns the calendar date n whole months before today. When the
// current day-of-month does not exist in the target month, the result clamps
// to the last valid day of that month (2024-03-31 minus one month is
// 2024-02-29), never overflowing into the following month.
func (c *Calculator) MonthsAgo(n int) string {
	t := c.now()
	year, month, day := t.Date()

	target := time.Date(year, month-time.Month(n), day, 0, 0, 0, 0, t.Location())

	// time.Date normalizes an out-of-range day into the next month, so the
	// result must be checked against the month we asked for.
	want := (int(month) - 1 - n) % 12
	if want < 0 {
		want += 12
	}
	if int(target.Month())-1 != want {
		// Roll back to the last day of the intended month.
		target = target.AddDate(0, 0, -target.Day())
	}
	return target.Format(layout)
}

// Range returns the predefined range [MonthsAgo(n), Today()].
func (c *Calculator) Range(n int) (start, end string) {
	return c.MonthsAgo(n), c.Today()
}

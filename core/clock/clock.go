// Package clock holds the simulation's single source of time. The clock is
// owned by the simulation driver and is not safe for concurrent use.
package clock

import (
	"time"

	"github.com/kilianp07/assetsim/core/timeseries"
)

// Clock holds the current simulation timestamp and advances by fixed steps.
// Callers must only advance forward; direction is not validated.
type Clock struct {
	now timeseries.Timestamp
}

// New returns a clock starting at ts.
func New(ts timeseries.Timestamp) *Clock {
	return &Clock{now: ts}
}

// Now returns the current simulation timestamp.
func (c *Clock) Now() timeseries.Timestamp { return c.now }

// Advance moves the clock forward by d. Tick clocks advance by whole seconds
// of d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

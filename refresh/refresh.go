// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package refresh

import (
	"fmt"
	"sync"
)

// Mode selects whether the interval policy is active.
type Mode uint8

const (
	// Disabled makes the Controller ignore every call.
	Disabled Mode = 0
	// IntervalBased forces a full refresh after Opts.Interval partial ones.
	IntervalBased Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "Disabled"
	case IntervalBased:
		return "IntervalBased"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Depth is the refresh depth sent to the display driver.
//
// Only Partial and Full are produced by the Controller. Other values can be
// passed through ForceRefresh and are forwarded unmodified.
type Depth int

const (
	// Partial is the fast grayscale update without flashing.
	Partial Depth = 0
	// Full redraws the whole panel and clears ghosting.
	Full Depth = 1
)

func (d Depth) String() string {
	switch d {
	case Partial:
		return "Partial"
	case Full:
		return "Full"
	default:
		return fmt.Sprintf("Depth(%d)", int(d))
	}
}

// Driver applies a refresh depth to the panel.
type Driver interface {
	SetRefreshDepth(d Depth) error
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(d Depth) error

// SetRefreshDepth calls f(d).
func (f DriverFunc) SetRefreshDepth(d Depth) error {
	return f(d)
}

// Opts is the initial configuration of a Controller.
type Opts struct {
	Mode Mode
	// Interval is the number of partial refreshes allowed before a full
	// refresh is forced. 0 never forces one.
	Interval int
	// OnError receives errors returned by the Driver. The Controller itself
	// never fails; nil drops driver errors. It is called after the
	// Controller lock is released, so it may call back into the Controller.
	OnError func(err error)
}

// State is a snapshot of the Controller.
type State struct {
	Mode     Mode
	Interval int
	Counter  int
}

// Controller holds the refresh policy state of one display.
//
// It is safe for concurrent use. Each decision and the driver command it
// produces happen under the same lock.
type Controller struct {
	drv     Driver
	onError func(err error)

	mu       sync.Mutex
	mode     Mode
	interval int
	counter  int
}

// New returns a Controller dispatching to drv.
func New(drv Driver, opts *Opts) *Controller {
	c := &Controller{drv: drv}
	if opts != nil {
		c.mode = opts.Mode
		c.interval = clampInterval(opts.Interval)
		c.onError = opts.OnError
	}
	return c
}

// PrepareNextUpdate selects the depth of the upcoming update.
//
// The counter is compared before being incremented, so an Interval of N
// yields N partial refreshes followed by one full refresh.
func (c *Controller) PrepareNextUpdate() {
	c.report(c.prepareNextUpdate())
}

func (c *Controller) prepareNextUpdate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != IntervalBased {
		return nil
	}
	if c.interval > 0 && c.counter >= c.interval {
		c.counter = 0
		return c.send(Full)
	}
	err := c.send(Partial)
	if c.interval > 0 {
		c.counter++
	}
	return err
}

// ForceRefresh sends d to the driver as is and restarts the interval count.
//
// It is meant for callers knowing a refresh is due right now, e.g. on a
// screen transition.
func (c *Controller) ForceRefresh(d Depth) {
	c.report(c.forceRefresh(d))
}

func (c *Controller) forceRefresh(d Depth) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != IntervalBased {
		return nil
	}
	err := c.send(d)
	c.counter = 0
	return err
}

// SetMode changes the update mode. The counter is left untouched.
func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
}

// SetInterval changes the number of partial refreshes tolerated between full
// refreshes. Negative values are treated as 0.
func (c *Controller) SetInterval(n int) {
	c.mu.Lock()
	c.interval = clampInterval(n)
	c.mu.Unlock()
}

// State returns the current mode, interval and counter.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Mode: c.mode, Interval: c.interval, Counter: c.counter}
}

func (c *Controller) String() string {
	s := c.State()
	return fmt.Sprintf("refresh.Controller{%s, Interval: %d, Counter: %d}", s.Mode, s.Interval, s.Counter)
}

// send must be called with mu held.
func (c *Controller) send(d Depth) error {
	if c.drv == nil {
		return nil
	}
	return c.drv.SetRefreshDepth(d)
}

// report must be called without mu held; the hook may use the Controller.
func (c *Controller) report(err error) {
	if err != nil && c.onError != nil {
		c.onError(err)
	}
}

func clampInterval(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

var _ fmt.Stringer = &Controller{}

// Package clock supplies the wall-clock readings stamped onto bills and
// archive records.
//
// Stores never call time.Now directly; they receive a Clock so that tests
// can pin timestamps and replay the same ledger output.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock. Timestamps are truncated to whole
// seconds because they are persisted as YYYY-MM-DD HH:MM:SS.
type System struct{}

// Now returns the local time truncated to the second.
func (System) Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// Stepping is a deterministic clock for tests. Every call to Now returns the
// next instant, starting at Start and advancing by Step.
//
// Thread-safety: Stepping is safe for concurrent use.
type Stepping struct {
	mu    sync.Mutex
	next  time.Time
	step  time.Duration
	calls int
}

// NewStepping creates a clock whose first reading is start.
func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{next: start, step: step}
}

// NewFixed creates a clock that always returns t.
func NewFixed(t time.Time) *Stepping {
	return NewStepping(t, 0)
}

// Now returns the current reading and advances the clock.
func (c *Stepping) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	c.calls++
	return now
}

// Calls returns how many times Now has been read.
func (c *Stepping) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

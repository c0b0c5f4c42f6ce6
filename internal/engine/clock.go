package engine

import "sync/atomic"

// Sequencer hands out strictly increasing seq numbers.
// Implemented by Clock and by the deterministic test clock.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for event ordering.
//
// All lifecycle events are stamped with a seq from this clock. Wall-clock
// time is never used for ordering.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to resume after restart from the store's highest seq.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

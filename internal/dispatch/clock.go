package dispatch

import "sync/atomic"

// TickSource supplies the monotonically non-decreasing logical clock
// the ledger's rate limiting is defined against. The ledger core never
// reads a clock itself; the dispatcher stamps every call.
type TickSource interface {
	// Next returns the next tick and advances the clock.
	Next() uint64

	// Current returns the current tick without advancing.
	Current() uint64
}

// Clock is a monotonic counter TickSource. Each accepted or rejected
// call consumes one tick, so tick distance is call distance, never
// wall time.
//
// Thread-safety: safe for concurrent use (atomic operations), though
// the dispatcher's single-writer design means only one goroutine
// normally calls Next.
type Clock struct {
	tick atomic.Uint64
}

// NewClock creates a clock starting at 0; the first call runs at tick 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a recorded position. Used
// when reopening a journal to continue the tick sequence.
func NewClockAt(start uint64) *Clock {
	c := &Clock{}
	c.tick.Store(start)
	return c
}

// Next returns the next tick and advances the clock.
func (c *Clock) Next() uint64 {
	return c.tick.Add(1)
}

// Current returns the current tick without advancing.
func (c *Clock) Current() uint64 {
	return c.tick.Load()
}

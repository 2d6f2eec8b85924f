package testutil

import "sync"

// TickClock is a resettable deterministic tick source for tests.
//
// Unlike dispatch.Clock it can be advanced arbitrarily, which lets
// rate-limit tests jump the clock past the window without issuing
// filler calls.
type TickClock struct {
	mu   sync.Mutex
	tick uint64
}

// NewTickClock creates a clock starting at 0; the first Next returns 1.
func NewTickClock() *TickClock {
	return &TickClock{}
}

// Next increments and returns the next tick.
func (c *TickClock) Next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	return c.tick
}

// Current returns the current tick without incrementing.
func (c *TickClock) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Advance moves the clock forward by delta ticks.
func (c *TickClock) Advance(delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick += delta
}

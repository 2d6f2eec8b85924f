package ledger

import "fmt"

// Default capacity constants. They match the layout the ledger was
// deployed with: 8192 registrants, a 65536-entry proof log, and one
// proof per registrant per 10 ticks.
const (
	DefaultMaxRegistrants = 8192
	DefaultLogCapacity    = 65536
	DefaultRateLimitTicks = 10
)

// Params fixes the capacity constants for a state instance. They are
// baked into the persisted journal at creation; opening a journal with
// different params is a migration, not a config change.
type Params struct {
	// MaxRegistrants is the registry arena size. Slots are never
	// reused, so deactivated entries still consume capacity.
	MaxRegistrants int

	// LogCapacity is the delivery log ring size C. Only the most
	// recent C proofs are retrievable.
	LogCapacity int

	// RateLimitTicks is the minimum tick distance between two
	// accepted proofs from the same registrant.
	RateLimitTicks uint64
}

// DefaultParams returns the deployed capacity constants.
func DefaultParams() Params {
	return Params{
		MaxRegistrants: DefaultMaxRegistrants,
		LogCapacity:    DefaultLogCapacity,
		RateLimitTicks: DefaultRateLimitTicks,
	}
}

// Validate checks that all capacities are positive.
func (p Params) Validate() error {
	if p.MaxRegistrants <= 0 {
		return fmt.Errorf("max registrants must be positive, got %d", p.MaxRegistrants)
	}
	if p.LogCapacity <= 0 {
		return fmt.Errorf("log capacity must be positive, got %d", p.LogCapacity)
	}
	if p.RateLimitTicks == 0 {
		return fmt.Errorf("rate limit ticks must be positive")
	}
	return nil
}

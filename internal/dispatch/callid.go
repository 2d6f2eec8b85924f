package dispatch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// CallIDGenerator generates unique call IDs for journaling and
// idempotent retry. Implemented by UUIDv7Generator (production) and
// FixedGenerator (tests).
type CallIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 call IDs. The ID only
// identifies the call for journal idempotency; ordering still comes
// from the journal's seq column, never from the ID.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns sequential predictable call IDs for tests,
// enabling deterministic golden trace comparison.
type FixedGenerator struct {
	mu sync.Mutex
	n  int
}

// Generate returns "call-000001", "call-000002", ... in order.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("call-%06d", g.n)
}

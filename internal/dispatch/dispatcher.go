package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
	"github.com/Nubi305/qubic-messenger/internal/store"
)

// Dispatcher owns the state aggregate and serializes every call
// against it. One Dispatcher exists per journal; all mutations flow
// through Do under a single mutex, which is the whole of the
// concurrency model (the core is lock-free by contract).
type Dispatcher struct {
	mu      sync.Mutex
	state   *ledger.State
	journal *store.Store // nil for ephemeral state (tests, dry runs)
	clock   TickSource
	callIDs CallIDGenerator
	logger  *slog.Logger
}

// New creates a dispatcher over state. journal may be nil, in which
// case calls execute but are not persisted.
func New(state *ledger.State, journal *store.Store, clock TickSource, callIDs CallIDGenerator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		state:   state,
		journal: journal,
		clock:   clock,
		callIDs: callIDs,
		logger:  logger,
	}
}

// State returns the underlying state aggregate for read-only use.
// Callers must not retain it across Do calls in other goroutines.
func (d *Dispatcher) State() *ledger.State {
	return d.state
}

// Do executes one mutating operation as caller: stamp a tick, apply,
// journal, return the result. Ledger rejections come back inside
// Result with Success=false; the error return is reserved for
// malformed arguments and journal failures.
func (d *Dispatcher) Do(ctx context.Context, caller ledger.Identity, op Op, args any) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return Result{}, fmt.Errorf("encode %s args: %w", op, err)
	}

	tick := d.clock.Next()
	res, err := applyCall(d.state, caller, tick, op, argsJSON)
	if err != nil {
		return Result{}, err
	}

	callID := d.callIDs.Generate()
	if d.journal != nil {
		resultJSON, err := json.Marshal(res)
		if err != nil {
			return Result{}, fmt.Errorf("encode %s result: %w", op, err)
		}
		rec := store.CallRecord{
			ID:     callID,
			Op:     string(op),
			Caller: caller.String(),
			Args:   string(argsJSON),
			Tick:   tick,
			Result: string(resultJSON),
		}
		if err := d.journal.AppendCall(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("journal %s: %w", op, err)
		}
	}

	d.logger.Debug("call applied",
		"call_id", callID,
		"op", string(op),
		"tick", tick,
		"code", res.Code,
	)
	return res, nil
}

// LookupByHandle is the read-only handle lookup, serialized with
// mutations but never journaled.
func (d *Dispatcher) LookupByHandle(handle ledger.Handle) ledger.LookupByHandleOutput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.LookupByHandle(handle)
}

// LookupByOwner is the read-only owner lookup.
func (d *Dispatcher) LookupByOwner(owner ledger.Identity) ledger.LookupByOwnerOutput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.LookupByOwner(owner)
}

// GetDeliveryProof is the read-only windowed log lookup.
func (d *Dispatcher) GetDeliveryProof(index uint32) (ledger.DeliveryRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.GetDeliveryProof(index)
}

// NextNonce returns the next acceptable nonce for caller, or false if
// the caller has no active entry.
func (d *Dispatcher) NextNonce(caller ledger.Identity) (uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	last, ok := d.state.LastNonce(caller)
	if !ok {
		return 0, false
	}
	return last + 1, true
}

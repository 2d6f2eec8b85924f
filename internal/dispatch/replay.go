package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
	"github.com/Nubi305/qubic-messenger/internal/store"
)

// ReplayResult describes a rebuilt state.
type ReplayResult struct {
	State    *ledger.State
	Calls    int
	LastTick uint64
}

// DivergenceError reports the first journaled call whose recomputed
// result does not match the recorded one. Either the journal is
// corrupted or a transition stopped being deterministic; both are
// grounds to stop.
type DivergenceError struct {
	Seq      int64
	CallID   string
	Op       string
	Recorded Result
	Replayed Result
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("replay diverged at seq %d (%s %s): recorded %+v, replayed %+v",
		e.Seq, e.Op, e.CallID, e.Recorded, e.Replayed)
}

// IsDivergence reports whether err is a replay divergence. Uses
// errors.As to handle wrapped errors.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}

// Replay rebuilds the state aggregate by re-applying the journal in
// acceptance order.
func Replay(ctx context.Context, journal *store.Store) (*ReplayResult, error) {
	return replay(ctx, journal, false)
}

// Verify rebuilds the state and additionally recomputes every recorded
// result, returning a DivergenceError at the first mismatch. A clean
// Verify proves the journal replays deterministically end to end.
func Verify(ctx context.Context, journal *store.Store) (*ReplayResult, error) {
	return replay(ctx, journal, true)
}

func replay(ctx context.Context, journal *store.Store, verify bool) (*ReplayResult, error) {
	state, err := ledger.NewState(journal.Params())
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	records, err := journal.ReadCalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	out := &ReplayResult{State: state}
	for _, rec := range records {
		caller, err := ledger.ParseIdentity(rec.Caller)
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", rec.Seq, err)
		}
		replayed, err := applyCall(state, caller, rec.Tick, Op(rec.Op), []byte(rec.Args))
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", rec.Seq, err)
		}
		if verify {
			var recorded Result
			if err := json.Unmarshal([]byte(rec.Result), &recorded); err != nil {
				return nil, fmt.Errorf("replay seq %d: decode recorded result: %w", rec.Seq, err)
			}
			if replayed != recorded {
				return nil, &DivergenceError{
					Seq:      rec.Seq,
					CallID:   rec.ID,
					Op:       rec.Op,
					Recorded: recorded,
					Replayed: replayed,
				}
			}
		}
		out.Calls++
		out.LastTick = rec.Tick
	}
	return out, nil
}

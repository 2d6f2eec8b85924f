// Package ledger implements the deterministic messenger ledger state machine.
//
// The ledger is a replicated state machine: every operation is a pure,
// bounded, synchronous function of (prior state, input, tick, caller) to
// (new state, output). Given the same journal of calls, every replica
// reaches a bit-identical state. Three components make up the state:
//
//   - Registry: fixed-capacity directory mapping handles to public keys
//     and owning identities. Slots are assigned once, monotonically, and
//     never reused; removal is a soft-delete flag.
//   - Replay guard: per-slot last-accepted nonce and last-post tick,
//     enforcing strictly increasing nonces and a rate-limit window.
//   - Delivery log: fixed-capacity circular buffer of delivery proofs
//     (content hash + parties + nonce) with a monotonically increasing
//     write cursor and a windowed freshness check.
//
// DETERMINISM RULES:
//
// No wall-clock time, no randomness, no map iteration, no dynamic sizing.
// All storage is allocated once at state creation. Lookups are linear
// scans over the bounded arena in slot order (first-inserted-wins), so
// iteration order is part of the observable contract.
//
// Every operation validates all preconditions before mutating anything.
// A failed call returns a typed result code and leaves the state
// untouched; there are no partial writes.
//
// The package performs no internal locking. Callers (see package
// dispatch) must serialize operations externally; the whole state
// aggregate behaves as a single critical section per call.
package ledger

// Package dispatch is the host side of the ledger: it authenticates
// nothing itself, but stands where the authenticated host would,
// resolving caller identity, stamping each call with a tick from the
// logical clock, applying exactly one operation at a time to the state
// aggregate, and journaling accepted calls with their results.
//
// Serialization model: the ledger core performs no locking and the
// dispatcher enforces the one-call-at-a-time contract with a single
// mutex around apply+journal. There is no internal parallelism to
// manage; calls are strictly ordered and the journal's seq column
// records that order.
//
// Replay: because every state transition is a pure function of (prior
// state, caller, tick, args), re-applying the journal in seq order
// rebuilds a bit-identical state. Verify additionally recomputes every
// journaled result and reports the first divergence, which would
// indicate a non-deterministic transition or a corrupted journal.
package dispatch

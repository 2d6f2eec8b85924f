// Package store provides SQLite-backed durable storage for the ledger
// call journal.
//
// The journal is an append-only log of every mutating call the
// dispatcher accepted for execution: operation, caller, arguments,
// the tick it ran at, and the serialized result it produced. Failed
// calls are journaled too; they consume a tick, and replaying their
// rejection verifies that failures are as deterministic as successes.
//
// Determinism rules carried over from the ledger core:
//
//   - All ordering uses the seq column (logical order of acceptance),
//     never timestamps. Reads are ORDER BY seq ASC.
//   - Appends are idempotent: ON CONFLICT(id) DO NOTHING, keyed by the
//     call's UUID. Re-appending after a crash is a no-op.
//   - The capacity params the state was created with are recorded in
//     the meta table at journal creation. Reopening with different
//     params is refused; changing capacities is a migration.
//
// Database configuration follows the usual SQLite single-writer setup:
// WAL mode, synchronous=NORMAL, busy_timeout=5000, foreign_keys=ON,
// and a connection pool capped at one writer.
package store

package store

import (
	"context"
	"fmt"
)

// CallRecord is one journaled call: what ran, who ran it, at which
// tick, and the result it produced. Args and Result are serialized
// JSON; the journal does not interpret them.
type CallRecord struct {
	Seq    int64
	ID     string
	Op     string
	Caller string
	Args   string
	Tick   uint64
	Result string
}

// AppendCall appends a call record to the journal. Idempotent: a
// record whose ID is already journaled is silently ignored, so a crash
// between append and acknowledgment is safe to retry.
func (s *Store) AppendCall(ctx context.Context, rec CallRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calls (id, op, caller, args, tick, result)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Op, rec.Caller, rec.Args, rec.Tick, rec.Result)
	if err != nil {
		return fmt.Errorf("append call %s: %w", rec.ID, err)
	}
	return nil
}

// ReadCalls returns every journaled call in acceptance order.
func (s *Store) ReadCalls(ctx context.Context) ([]CallRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, op, caller, args, tick, result
		FROM calls
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read calls: %w", err)
	}
	defer rows.Close()

	var records []CallRecord
	for rows.Next() {
		var rec CallRecord
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Op, &rec.Caller, &rec.Args, &rec.Tick, &rec.Result); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read calls: %w", err)
	}
	return records, nil
}

// LastTick returns the tick of the most recently journaled call, or 0
// for an empty journal. The dispatcher resumes its clock from here.
func (s *Store) LastTick(ctx context.Context) (uint64, error) {
	var tick uint64
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(tick), 0) FROM calls").Scan(&tick)
	if err != nil {
		return 0, fmt.Errorf("last tick: %w", err)
	}
	return tick, nil
}

// CallCount returns the number of journaled calls.
func (s *Store) CallCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calls").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("call count: %w", err)
	}
	return n, nil
}

package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (meta + calls)
const currentSchemaVersion = 1

// Meta keys for the capacity params baked in at journal creation.
const (
	metaMaxRegistrants = "max_registrants"
	metaLogCapacity    = "log_capacity"
	metaRateLimitTicks = "rate_limit_ticks"
)

// Store is a SQLite-backed call journal.
type Store struct {
	db     *sql.DB
	params ledger.Params
}

// Open creates or opens a journal at the given path with the given
// capacity params.
//
// On first open the params are recorded in the meta table; on every
// later open they are checked against the recorded ones and a mismatch
// is an error, since the capacities are part of the persisted state
// layout and require a migration to change.
func Open(path string, params ledger.Params) (*Store, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite supports one writer at a time; cap the pool to avoid
	// SQLITE_BUSY during appends.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initOrCheckParams(db, params); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, params: params}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Params returns the capacity params recorded in the journal.
func (s *Store) Params() ledger.Params {
	return s.params
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("journal schema version %d is newer than supported %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// initOrCheckParams records params on first open and verifies them on
// every later open.
func initOrCheckParams(db *sql.DB, params ledger.Params) error {
	recorded := map[string]uint64{}
	rows, err := db.Query("SELECT key, value FROM meta")
	if err != nil {
		return fmt.Errorf("read meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan meta: %w", err)
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("meta %s=%q is not a number: %w", key, value, err)
		}
		recorded[key] = n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read meta: %w", err)
	}

	want := map[string]uint64{
		metaMaxRegistrants: uint64(params.MaxRegistrants),
		metaLogCapacity:    uint64(params.LogCapacity),
		metaRateLimitTicks: params.RateLimitTicks,
	}

	if len(recorded) == 0 {
		for key, value := range want {
			if _, err := db.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", key, strconv.FormatUint(value, 10)); err != nil {
				return fmt.Errorf("record %s: %w", key, err)
			}
		}
		return nil
	}

	for key, wantValue := range want {
		got, ok := recorded[key]
		if !ok {
			return fmt.Errorf("journal meta is missing %s", key)
		}
		if got != wantValue {
			return fmt.Errorf("journal was created with %s=%d, configured %d: capacity change requires a migration", key, got, wantValue)
		}
	}
	return nil
}

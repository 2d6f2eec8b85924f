package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Nubi305/qubic-messenger/internal/config"
	"github.com/Nubi305/qubic-messenger/internal/dispatch"
	"github.com/Nubi305/qubic-messenger/internal/identity"
	"github.com/Nubi305/qubic-messenger/internal/store"
)

// env is the assembled host environment a command runs against: config,
// the opened journal, and a dispatcher over the state rebuilt from it.
//
// Rebuilding on every invocation is the point, not a shortcut: the
// journal is the durable form of the state, and a CLI run is one host
// session that replays it, applies calls, and exits.
type env struct {
	cfg     config.Config
	journal *store.Store
	disp    *dispatch.Dispatcher
}

// openEnv loads config, opens the journal, and replays it into a fresh
// state aggregate.
func openEnv(ctx context.Context, opts *RootOptions) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "load config", Err: err}
	}
	if cfg.Verbose && !opts.Verbose {
		configureLogging(true)
	}

	journal, err := store.Open(cfg.JournalPath, cfg.Params())
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "open journal", Err: err}
	}

	rebuilt, err := dispatch.Replay(ctx, journal)
	if err != nil {
		journal.Close()
		return nil, &ExitError{Code: ExitCommandError, Message: "replay journal", Err: err}
	}
	slog.Debug("journal replayed", "calls", rebuilt.Calls, "last_tick", rebuilt.LastTick)

	disp := dispatch.New(
		rebuilt.State,
		journal,
		dispatch.NewClockAt(rebuilt.LastTick),
		dispatch.UUIDv7Generator{},
		slog.Default(),
	)
	return &env{cfg: cfg, journal: journal, disp: disp}, nil
}

// close releases the journal.
func (e *env) close() {
	e.journal.Close()
}

// keypair loads the client keypair for commands that act as a caller.
// The ledger identity is always derived from this original keypair,
// even after key rotation.
func (e *env) keypair() (*identity.KeyPair, error) {
	kp, err := identity.Load(e.cfg.IdentityPath)
	if err != nil {
		return nil, &ExitError{
			Code:    ExitCommandError,
			Message: fmt.Sprintf("load identity from %s (run 'qm init' first)", e.cfg.IdentityPath),
			Err:     err,
		}
	}
	return kp, nil
}

// boxKeypair loads the keypair whose public key is currently registered
// in the ledger: the rotated one from "<identity>.box" when rotate-key
// has run, otherwise the original.
func (e *env) boxKeypair() (*identity.KeyPair, error) {
	rotated := e.cfg.IdentityPath + ".box"
	if _, err := os.Stat(rotated); err == nil {
		kp, err := identity.Load(rotated)
		if err != nil {
			return nil, &ExitError{Code: ExitCommandError, Message: "load rotated key", Err: err}
		}
		return kp, nil
	}
	return e.keypair()
}

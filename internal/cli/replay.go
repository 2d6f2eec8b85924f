package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/config"
	"github.com/Nubi305/qubic-messenger/internal/dispatch"
	"github.com/Nubi305/qubic-messenger/internal/store"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild state from the journal and verify determinism",
		Long: `Re-apply every journaled call against a fresh state and compare each
recomputed result with the recorded one. A divergence means the journal
is corrupted or a state transition stopped being deterministic.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, cmd)
		},
	}
	return cmd
}

func runReplay(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "load config", Err: err}
	}
	journal, err := store.Open(cfg.JournalPath, cfg.Params())
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "open journal", Err: err}
	}
	defer journal.Close()

	out, err := dispatch.Verify(ctx, journal)
	if err != nil {
		if dispatch.IsDivergence(err) {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL: %v\n", err)
			return NewExitError(ExitFailure, "journal replay diverged")
		}
		return &ExitError{Code: ExitCommandError, Message: "verify journal", Err: err}
	}

	summary := struct {
		Calls       int    `json:"calls"`
		LastTick    uint64 `json:"last_tick"`
		Registered  int    `json:"registered"`
		ProofsEver  uint64 `json:"proofs_ever"`
		Determinism string `json:"determinism"`
	}{
		Calls:       out.Calls,
		LastTick:    out.LastTick,
		Registered:  out.State.RegisteredCount(),
		ProofsEver:  out.State.LogCursor(),
		Determinism: "verified",
	}
	return printOutput(cmd.OutOrStdout(), opts.Format, summary, func(w io.Writer) {
		fmt.Fprintf(w, "replayed %d calls to tick %d: determinism verified\n", summary.Calls, summary.LastTick)
		fmt.Fprintf(w, "registered entries: %d, proofs ever recorded: %d\n", summary.Registered, summary.ProofsEver)
	})
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/config"
	"github.com/Nubi305/qubic-messenger/internal/identity"
	"github.com/Nubi305/qubic-messenger/internal/store"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Force bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a client keypair and the call journal",
		Long: `Create an X25519 keypair and the SQLite call journal.

The ledger identity is the BLAKE2b-256 digest of the public key.
Existing key files are never overwritten unless --force is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing key file")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "load config", Err: err}
	}

	if _, err := os.Stat(cfg.IdentityPath); err == nil && !opts.Force {
		return NewExitError(ExitCommandError, fmt.Sprintf("key file %s already exists (use --force to replace it)", cfg.IdentityPath))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &ExitError{Code: ExitCommandError, Message: "stat key file", Err: err}
	}

	kp, err := identity.Generate()
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "generate keypair", Err: err}
	}
	if err := kp.Save(cfg.IdentityPath); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "save keypair", Err: err}
	}

	journal, err := store.Open(cfg.JournalPath, cfg.Params())
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "create journal", Err: err}
	}
	journal.Close()

	out := struct {
		Identity  string `json:"identity"`
		PublicKey string `json:"public_key"`
		Journal   string `json:"journal"`
	}{
		Identity:  kp.Identity().String(),
		PublicKey: kp.Public().String(),
		Journal:   cfg.JournalPath,
	}
	return printOutput(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
		fmt.Fprintf(w, "identity:   %s\n", out.Identity)
		fmt.Fprintf(w, "public key: %s\n", out.PublicKey)
		fmt.Fprintf(w, "journal:    %s\n", out.Journal)
	})
}

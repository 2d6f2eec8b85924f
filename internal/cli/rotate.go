package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/dispatch"
	"github.com/Nubi305/qubic-messenger/internal/identity"
)

// NewRotateKeyCommand creates the rotate-key command.
func NewRotateKeyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate-key",
		Short: "Replace the registered public key with a fresh one",
		Long: `Generate a fresh X25519 keypair and register its public key for the
caller's handle. The identity itself does not change; it is pinned to
the keypair created by 'qm init'. Peers sealing to the old key will
fail to reach the caller after rotation.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotateKey(rootOpts, cmd)
		},
	}
	return cmd
}

func runRotateKey(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer e.close()

	kp, err := e.keypair()
	if err != nil {
		return err
	}

	fresh, err := identity.Generate()
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "generate keypair", Err: err}
	}

	res, err := e.disp.Do(ctx, kp.Identity(), dispatch.OpUpdateKey, dispatch.UpdateKeyArgs{
		PublicKey: fresh.Public().String(),
	})
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "rotate key", Err: err}
	}

	if res.Success {
		// The sealing key must follow the registered key. The identity
		// scalar in the key file stays authoritative for who we are;
		// only the box keypair rotates, so store both.
		if err := fresh.Save(e.cfg.IdentityPath + ".box"); err != nil {
			slog.Error("registered new key but failed to store it", "err", err)
			return &ExitError{Code: ExitCommandError, Message: "store rotated key", Err: err}
		}
	}

	if printErr := printResult(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
		fmt.Fprintf(w, "rotated key to %s (tick %d)\n", fresh.Public(), res.Tick)
	}); printErr != nil {
		return printErr
	}
	return exitForResult(res)
}

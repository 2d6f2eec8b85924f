package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/dispatch"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <handle>",
		Short: "Claim a handle for the local identity",
		Long: `Claim a handle, binding it to the local identity and its current
X25519 public key. Each identity can hold at most one active handle.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRegister(opts *RootOptions, handle string, cmd *cobra.Command) error {
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

	res, err := e.disp.Do(ctx, kp.Identity(), dispatch.OpRegister, dispatch.RegisterArgs{
		Handle:    handle,
		PublicKey: kp.Public().String(),
	})
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "register", Err: err}
	}

	if printErr := printResult(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
		fmt.Fprintf(w, "registered %q at slot %d (tick %d)\n", handle, res.Slot, res.Tick)
	}); printErr != nil {
		return printErr
	}
	return exitForResult(res)
}

// printResult prints a call result: JSON verbatim, or failure code /
// success text.
func printResult(w io.Writer, format string, res dispatch.Result, text func(io.Writer)) error {
	return printOutput(w, format, res, func(out io.Writer) {
		if !res.Success {
			fmt.Fprintf(out, "rejected: %s (tick %d)\n", res.Code, res.Tick)
			return
		}
		text(out)
	})
}

// exitForResult maps a ledger rejection to ExitFailure so scripts can
// branch on the exit code.
func exitForResult(res dispatch.Result) error {
	if res.Success {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("call rejected: %s", res.Code))
}

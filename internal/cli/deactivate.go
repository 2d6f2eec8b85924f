package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/dispatch"
)

// NewDeactivateCommand creates the deactivate command.
func NewDeactivateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Give up the local identity's handle",
		Long: `Deactivate the caller's registry entry. Irreversible: the handle
becomes claimable by others, the old slot is never reassigned, and the
identity cannot post further delivery proofs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeactivate(rootOpts, cmd)
		},
	}
	return cmd
}

func runDeactivate(opts *RootOptions, cmd *cobra.Command) error {
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

	res, err := e.disp.Do(ctx, kp.Identity(), dispatch.OpDeactivate, dispatch.DeactivateArgs{})
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "deactivate", Err: err}
	}

	if printErr := printResult(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
		fmt.Fprintf(w, "deactivated (tick %d)\n", res.Tick)
	}); printErr != nil {
		return printErr
	}
	return exitForResult(res)
}

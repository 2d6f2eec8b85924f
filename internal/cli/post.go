package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/dispatch"
	"github.com/Nubi305/qubic-messenger/internal/ledger"
	"github.com/Nubi305/qubic-messenger/internal/sealing"
)

// PostOptions holds flags for the post command.
type PostOptions struct {
	*RootOptions
	Nonce uint64
}

// NewPostCommand creates the post command.
func NewPostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PostOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "post <receiver-handle> <blob>",
		Short: "Record a delivery proof for a sealed blob",
		Long: `Record on the ledger that the local identity sent the given sealed
blob to the receiver: content hash, parties, tick, and nonce. The blob
itself is not uploaded.

The nonce defaults to the next one in the caller's sequence; --nonce
overrides it for out-of-band coordination.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Nonce, "nonce", 0, "explicit nonce (default: next in sequence)")

	return cmd
}

func runPost(opts *PostOptions, name, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	kp, err := e.keypair()
	if err != nil {
		return err
	}
	caller := kp.Identity()

	handle, err := ledger.NewHandle(name)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "bad handle", Err: err}
	}
	got := e.disp.LookupByHandle(handle)
	if !got.Found {
		return NewExitError(ExitFailure, fmt.Sprintf("receiver handle %q not found", name))
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "read blob", Err: err}
	}
	hash := sealing.Digest(blob)

	nonce := opts.Nonce
	if nonce == 0 {
		next, ok := e.disp.NextNonce(caller)
		if !ok {
			return NewExitError(ExitFailure, "local identity is not registered")
		}
		nonce = next
	}

	res, err := e.disp.Do(ctx, caller, dispatch.OpPostProof, dispatch.PostProofArgs{
		Receiver:    got.Owner.String(),
		ContentHash: hash.String(),
		Nonce:       nonce,
	})
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "post proof", Err: err}
	}

	if printErr := printResult(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) {
		fmt.Fprintf(w, "proof recorded at log index %d (tick %d, nonce %d)\n", res.LogIndex, res.Tick, nonce)
		fmt.Fprintf(w, "content hash: %s\n", hash)
	}); printErr != nil {
		return printErr
	}
	return exitForResult(res)
}

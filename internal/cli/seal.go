package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
	"github.com/Nubi305/qubic-messenger/internal/sealing"
)

// SealOptions holds flags for the seal command.
type SealOptions struct {
	*RootOptions
	Out string
}

// NewSealCommand creates the seal command.
func NewSealCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SealOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seal <handle> <file>",
		Short: "Encrypt a payload to a handle's registered key",
		Long: `Encrypt a payload to the recipient handle's current public key and
print the BLAKE2b-256 content hash of the sealed blob. The blob travels
off-ledger; only its hash is ever recorded, by 'qm post'.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeal(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "output path (default <file>.sealed)")

	return cmd
}

func runSeal(opts *SealOptions, name, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	handle, err := ledger.NewHandle(name)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "bad handle", Err: err}
	}
	got := e.disp.LookupByHandle(handle)
	if !got.Found {
		return NewExitError(ExitFailure, fmt.Sprintf("handle %q not found", name))
	}

	kp, err := e.boxKeypair()
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "read payload", Err: err}
	}

	blob, hash, err := sealing.Seal(payload, got.PublicKey, kp)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "seal", Err: err}
	}

	outPath := opts.Out
	if outPath == "" {
		outPath = path + ".sealed"
	}
	if err := os.WriteFile(outPath, blob, 0o644); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "write sealed blob", Err: err}
	}

	out := struct {
		Blob        string `json:"blob"`
		ContentHash string `json:"content_hash"`
	}{Blob: outPath, ContentHash: hash.String()}
	return printOutput(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
		fmt.Fprintf(w, "sealed to:    %s\n", out.Blob)
		fmt.Fprintf(w, "content hash: %s\n", out.ContentHash)
	})
}

// OpenOptions holds flags for the open command.
type OpenOptions struct {
	*RootOptions
	Out string
}

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "open <sender-handle> <blob>",
		Short:         "Decrypt a blob sealed to the local identity",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "output path (default stdout)")

	return cmd
}

func runOpen(opts *OpenOptions, name, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	handle, err := ledger.NewHandle(name)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "bad handle", Err: err}
	}
	got := e.disp.LookupByHandle(handle)
	if !got.Found {
		return NewExitError(ExitFailure, fmt.Sprintf("handle %q not found", name))
	}

	kp, err := e.boxKeypair()
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "read blob", Err: err}
	}

	payload, err := sealing.Open(blob, got.PublicKey, kp)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "open blob", Err: err}
	}

	if opts.Out == "" {
		_, err = cmd.OutOrStdout().Write(payload)
		return err
	}
	if err := os.WriteFile(opts.Out, payload, 0o600); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "write payload", Err: err}
	}
	return nil
}

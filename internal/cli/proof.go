package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewProofCommand creates the proof command.
func NewProofCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof <log-index>",
		Short: "Retrieve a delivery proof by physical log index",
		Long: `Retrieve the delivery proof at a physical log index, as returned by
'qm post'. Proofs live in a fixed ring: once enough later proofs have
been recorded, the slot is overwritten and the old proof reports
valid=false.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProof(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runProof(opts *RootOptions, indexArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	index, err := strconv.ParseUint(indexArg, 10, 32)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "bad log index", Err: err}
	}

	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer e.close()

	rec, valid := e.disp.GetDeliveryProof(uint32(index))
	out := struct {
		Valid       bool   `json:"valid"`
		Sender      string `json:"sender,omitempty"`
		Receiver    string `json:"receiver,omitempty"`
		ContentHash string `json:"content_hash,omitempty"`
		Tick        uint64 `json:"tick,omitempty"`
		Nonce       uint64 `json:"nonce,omitempty"`
	}{Valid: valid}
	if valid {
		out.Sender = rec.Sender.String()
		out.Receiver = rec.Receiver.String()
		out.ContentHash = rec.ContentHash.String()
		out.Tick = rec.Tick
		out.Nonce = rec.Nonce
	}

	if printErr := printOutput(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
		if !valid {
			fmt.Fprintf(w, "no valid proof at index %d\n", index)
			return
		}
		fmt.Fprintf(w, "sender:       %s\n", out.Sender)
		fmt.Fprintf(w, "receiver:     %s\n", out.Receiver)
		fmt.Fprintf(w, "content hash: %s\n", out.ContentHash)
		fmt.Fprintf(w, "tick:         %d\n", out.Tick)
		fmt.Fprintf(w, "nonce:        %d\n", out.Nonce)
	}); printErr != nil {
		return printErr
	}
	if !valid {
		return NewExitError(ExitFailure, fmt.Sprintf("no valid proof at index %d", index))
	}
	return nil
}

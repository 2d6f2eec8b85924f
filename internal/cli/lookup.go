package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
)

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lookup <handle>",
		Short:         "Resolve a handle to its public key and owner",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLookup(opts *RootOptions, name string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer e.close()

	handle, err := ledger.NewHandle(name)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "bad handle", Err: err}
	}

	got := e.disp.LookupByHandle(handle)
	out := struct {
		Found        bool   `json:"found"`
		PublicKey    string `json:"public_key,omitempty"`
		Owner        string `json:"owner,omitempty"`
		RegisteredAt uint64 `json:"registered_at,omitempty"`
	}{Found: got.Found}
	if got.Found {
		out.PublicKey = got.PublicKey.String()
		out.Owner = got.Owner.String()
		out.RegisteredAt = got.RegisteredAt
	}

	if printErr := printOutput(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
		if !got.Found {
			fmt.Fprintf(w, "handle %q not found\n", name)
			return
		}
		fmt.Fprintf(w, "public key:    %s\n", out.PublicKey)
		fmt.Fprintf(w, "owner:         %s\n", out.Owner)
		fmt.Fprintf(w, "registered at: tick %d\n", out.RegisteredAt)
	}); printErr != nil {
		return printErr
	}
	if !got.Found {
		return NewExitError(ExitFailure, fmt.Sprintf("handle %q not found", name))
	}
	return nil
}

// NewWhoisCommand creates the whois command.
func NewWhoisCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "whois <identity-hex>",
		Short:         "Resolve an identity to its handle and public key",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhois(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runWhois(opts *RootOptions, identityHex string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer e.close()

	owner, err := ledger.ParseIdentity(identityHex)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "bad identity", Err: err}
	}

	got := e.disp.LookupByOwner(owner)
	out := struct {
		Found     bool   `json:"found"`
		Handle    string `json:"handle,omitempty"`
		PublicKey string `json:"public_key,omitempty"`
	}{Found: got.Found}
	if got.Found {
		out.Handle = got.Handle.String()
		out.PublicKey = got.PublicKey.String()
	}

	if printErr := printOutput(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
		if !got.Found {
			fmt.Fprintln(w, "identity has no active handle")
			return
		}
		fmt.Fprintf(w, "handle:     %s\n", out.Handle)
		fmt.Fprintf(w, "public key: %s\n", out.PublicKey)
	}); printErr != nil {
		return printErr
	}
	if !got.Found {
		return NewExitError(ExitFailure, "identity has no active handle")
	}
	return nil
}

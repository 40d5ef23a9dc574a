package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get <id>",
		Short:         "Print a lesson record by id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runGet(opts *RootOptions, id string, cmd *cobra.Command) error {
	store, err := openStore(opts)
	if err != nil {
		return err
	}

	l, ok := store.GetLesson(cmd.Context(), id)
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("lesson %q not found", id))
	}

	out := newFormatter(opts, cmd.OutOrStdout())
	if out.JSON() {
		return out.Success(l.Raw)
	}

	// Pretty-print the stored record for humans.
	var pretty map[string]any
	if err := json.Unmarshal(l.Raw, &pretty); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), string(l.Raw))
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(pretty)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "info",
		Short:         "Show the active storage backend and lesson count",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
	return cmd
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	store, err := openStore(opts)
	if err != nil {
		return err
	}

	info := store.Info(cmd.Context())

	out := newFormatter(opts, cmd.OutOrStdout())
	if out.JSON() {
		return out.Success(info)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n", info.Backend)
	fmt.Fprintf(cmd.OutOrStdout(), "Lessons: %d\n", info.Lessons)
	return nil
}

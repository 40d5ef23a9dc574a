package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a lesson record by id",
		Long:          "Delete a lesson record by id. Deleting an id that does not exist is a no-op.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDelete(opts *RootOptions, id string, cmd *cobra.Command) error {
	store, err := openStore(opts)
	if err != nil {
		return err
	}
	if err := store.DeleteLesson(cmd.Context(), id); err != nil {
		return WrapExitError(ExitFailure, "deleting lesson failed", err)
	}

	out := newFormatter(opts, cmd.OutOrStdout())
	if out.JSON() {
		return out.Success(map[string]string{"id": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted lesson %s\n", id)
	return nil
}

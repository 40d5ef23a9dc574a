package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyloop/lessonstore/internal/lesson"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all lessons as a JSON array",
		Long: `Export all lessons as a JSON array, to stdout or a file.

Export waits for any pending legacy-data migration first so the snapshot
is complete.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "write to a file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	store, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}

	// A backup should not race the one-time migration copy.
	store.AwaitMigration()

	data, err := lesson.EncodeArray(store.GetAllLessons(cmd.Context()))
	if err != nil {
		return WrapExitError(ExitFailure, "encoding lessons failed", err)
	}

	if opts.Out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(opts.Out, data, 0o600); err != nil {
		return WrapExitError(ExitCommandError, "writing export file failed", err)
	}
	if !newFormatter(opts.RootOptions, cmd.OutOrStdout()).JSON() {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", opts.Out)
	}
	return nil
}

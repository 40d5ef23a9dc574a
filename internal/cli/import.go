package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyloop/lessonstore/internal/lesson"
	"github.com/studyloop/lessonstore/internal/storage"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all lessons with the contents of a JSON array file",
		Long: `Replace all lessons with the contents of a JSON array file.

The entire collection is replaced, not merged. Under the fallback backend
an import larger than the storage quota fails and leaves the previously
stored lessons unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading import file failed", err)
	}
	lessons, err := lesson.DecodeArray(raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing import file failed", err)
	}

	store, err := openStore(opts)
	if err != nil {
		return err
	}
	if err := store.SaveAllLessons(cmd.Context(), lessons); err != nil {
		if storage.IsQuotaExceeded(err) {
			// The error text already carries the user guidance.
			return WrapExitError(ExitFailure, "import failed", err)
		}
		return WrapExitError(ExitFailure, "saving lessons failed", err)
	}

	out := newFormatter(opts, cmd.OutOrStdout())
	if out.JSON() {
		return out.Success(map[string]int{"imported": len(lessons)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lesson(s)\n", len(lessons))
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/studyloop/lessonstore/internal/lesson"
)

// PutOptions holds flags for the put command.
type PutOptions struct {
	*RootOptions
	File string
	ID   string
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "put [record-json]",
		Short: "Save a lesson record",
		Long: `Save a lesson record, replacing any existing record with the same id.

The record is an arbitrary JSON object. Its "id" attribute acts as the
primary key; when the record has none, one is generated.

Example:
  lessonstore put '{"id":"intro-1","title":"Getting started"}'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "read the record from a file instead of the argument")
	cmd.Flags().StringVar(&opts.ID, "id", "", "id to assign when the record has none")

	return cmd
}

func runPut(opts *PutOptions, args []string, cmd *cobra.Command) error {
	raw, err := readRecord(opts, args)
	if err != nil {
		return err
	}

	l, err := lesson.New(raw)
	if errors.Is(err, lesson.ErrMissingID) {
		id := opts.ID
		if id == "" {
			id = uuid.NewString()
		}
		if raw, err = injectID(raw, id); err != nil {
			return WrapExitError(ExitCommandError, "assigning id failed", err)
		}
		l, err = lesson.New(raw)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid lesson record", err)
	}

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	if err := store.SaveLesson(cmd.Context(), l); err != nil {
		return WrapExitError(ExitFailure, "saving lesson failed", err)
	}

	out := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	if out.JSON() {
		return out.Success(map[string]string{"id": l.ID})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved lesson %s\n", l.ID)
	return nil
}

func readRecord(opts *PutOptions, args []string) (json.RawMessage, error) {
	switch {
	case opts.File != "" && len(args) > 0:
		return nil, NewExitError(ExitCommandError, "pass the record as an argument or via --file, not both")
	case opts.File != "":
		raw, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "reading record file failed", err)
		}
		return raw, nil
	case len(args) > 0:
		return json.RawMessage(args[0]), nil
	default:
		return nil, NewExitError(ExitCommandError, "no record given")
	}
}

// injectID sets the "id" attribute on a raw record. Key order is not
// preserved; the record is otherwise unchanged.
func injectID(raw json.RawMessage, id string) (json.RawMessage, error) {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	record["id"] = id
	return json.Marshal(record)
}

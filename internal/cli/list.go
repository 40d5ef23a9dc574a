package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all stored lessons",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	store, err := openStore(opts)
	if err != nil {
		return err
	}

	lessons := store.GetAllLessons(cmd.Context())
	// The fallback backend keeps insertion order; sort for stable output.
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })

	out := newFormatter(opts, cmd.OutOrStdout())
	if out.JSON() {
		raws := make([]json.RawMessage, len(lessons))
		for i, l := range lessons {
			raws[i] = l.Raw
		}
		return out.Success(raws)
	}

	w := cmd.OutOrStdout()
	if len(lessons) == 0 {
		fmt.Fprintln(w, "no lessons stored")
		return nil
	}
	fmt.Fprintf(w, "%-36s  %s\n", "ID", "BYTES")
	for _, l := range lessons {
		fmt.Fprintf(w, "%-36s  %d\n", l.ID, len(l.Raw))
	}
	fmt.Fprintf(w, "%d lesson(s)\n", len(lessons))
	return nil
}

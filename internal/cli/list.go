package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/funvibe/funsql/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Store string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded catalog builds",
		Long: `List the catalog builds recorded in the sqlite store, newest first.

With --verbose, also print the stored declarations of every build.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "sqlite store path (default: store_path from funsql.yaml)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions)
	if err != nil {
		return err
	}

	store, err := catalog.OpenStore(env.storePath(opts.Store))
	if err != nil {
		return err
	}
	defer store.Close()

	builds, err := store.Builds(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(builds) == 0 {
		fmt.Fprintln(out, "no builds recorded")
		return nil
	}
	for _, b := range builds {
		fmt.Fprintf(out, "%s  %s  %s  (%d signatures)\n",
			b.ID, b.CreatedAt.Format(time.RFC3339), b.Source, b.Signatures)
		if !opts.Verbose {
			continue
		}
		rows, err := store.BuildSignatures(cmd.Context(), b.ID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(out, "  %-14s %s\n", row.EntityKind, row.Declaration)
		}
	}
	return nil
}

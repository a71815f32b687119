package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/funsql/internal/catalog"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Store string
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build [catalog.yaml...]",
		Short: "Record a catalog build in the store",
		Long: `Load the catalogs and record the resulting declarations as a build in
the sqlite store, together with the descriptor set backing PROTO and
ENUM types. Catalogs with errors are not recorded.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "sqlite store path (default: store_path from funsql.yaml)")

	return cmd
}

func runBuild(opts *BuildOptions, args []string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions)
	if err != nil {
		return err
	}
	paths, err := env.catalogPaths(args)
	if err != nil {
		return err
	}

	report := catalog.NewLoader(env.pool, env.opts, env.log).Load(paths...)
	if !report.OK() {
		for _, entryErr := range report.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), entryErr.Error())
		}
		return fmt.Errorf("catalog errors: %d", len(report.Errors))
	}

	store, err := catalog.OpenStore(env.storePath(opts.Store))
	if err != nil {
		return err
	}
	defer store.Close()

	source := strings.Join(paths, ",")
	id, err := store.WriteBuild(cmd.Context(), source, report, env.opts.ProductMode(), env.pool)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "recorded build %s (%d declarations)\n", id, report.NumEntities())
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/funsql/internal/catalog"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [catalog.yaml...]",
		Short: "Validate catalog declarations",
		Long: `Validate the functions, table-valued functions and procedures declared
in catalog files.

Each declaration that loads prints one PASS line; each one the loader
rejects prints one FAIL line with the reason. Without arguments the
catalogs listed in funsql.yaml are checked.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, args []string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts)
	if err != nil {
		return err
	}
	paths, err := env.catalogPaths(args)
	if err != nil {
		return err
	}

	report := catalog.NewLoader(env.pool, env.opts, env.log).Load(paths...)

	out := cmd.OutOrStdout()
	for _, fn := range report.Functions {
		fmt.Fprintf(out, "%s %s (%s)\n", passTag(), fn.FullName(true), countSignatures(fn.NumSignatures()))
	}
	for _, tvf := range report.TableFunctions {
		fmt.Fprintf(out, "%s %s\n", passTag(), tvf.FullName())
	}
	for _, proc := range report.Procedures {
		fmt.Fprintf(out, "%s %s\n", passTag(), proc.FullName())
	}
	for _, entryErr := range report.Errors {
		fmt.Fprintf(out, "%s %s\n", failTag(), entryErr.Error())
	}

	fmt.Fprintf(out, "\n%d declarations loaded, %d errors\n", report.NumEntities(), len(report.Errors))
	if !report.OK() {
		return fmt.Errorf("catalog check failed: %d error(s)", len(report.Errors))
	}
	return nil
}

func countSignatures(n int) string {
	if n == 1 {
		return "1 signature"
	}
	return fmt.Sprintf("%d signatures", n)
}

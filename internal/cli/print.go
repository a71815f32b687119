package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/funsql/internal/catalog"
)

// PrintOptions holds flags for the print command.
type PrintOptions struct {
	*RootOptions
	SQL bool
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "print [catalog.yaml...]",
		Short: "Print declared signatures",
		Long: `Print the signatures declared in catalog files.

The default form is the debug rendering, one signature per line, with
--verbose adding argument option detail. With --sql, functions print
their callable shapes and table-valued functions and procedures print
CREATE declarations.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "print SQL declarations instead of the debug form")

	return cmd
}

func runPrint(opts *PrintOptions, args []string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions)
	if err != nil {
		return err
	}
	paths, err := env.catalogPaths(args)
	if err != nil {
		return err
	}

	report := catalog.NewLoader(env.pool, env.opts, env.log).Load(paths...)

	out := cmd.OutOrStdout()
	mode := env.opts.ProductMode()
	for _, fn := range report.Functions {
		if opts.SQL {
			fmt.Fprintln(out, fn.SupportedSignaturesText(env.opts))
			continue
		}
		for _, sig := range fn.Signatures() {
			fmt.Fprintln(out, sig.DebugString(fn.SQLName(), opts.Verbose))
		}
	}
	for _, tvf := range report.TableFunctions {
		if opts.SQL {
			fmt.Fprintln(out, tvf.SQLDeclaration(tvf.Signature().ArgumentNames(), mode))
		} else {
			fmt.Fprintln(out, tvf.DebugString())
		}
	}
	for _, proc := range report.Procedures {
		if opts.SQL {
			fmt.Fprintln(out, proc.SQLDeclaration(proc.Signature().ArgumentNames(), mode))
		} else {
			fmt.Fprintln(out, proc.DebugString())
		}
	}

	if !report.OK() {
		for _, entryErr := range report.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), entryErr.Error())
		}
		return fmt.Errorf("catalog errors: %d", len(report.Errors))
	}
	return nil
}

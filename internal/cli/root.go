// Package cli implements the funsql command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	Config  string
	Verbose bool
}

// NewRootCommand creates the root command for the funsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "funsql",
		Short: "funsql - function signature tooling",
		Long: `Catalog tooling for SQL function signatures.

funsql validates and prints the functions, table-valued functions and
procedures declared in catalog YAML files, records catalog builds in a
sqlite store, and serves the signature codec over gRPC.`,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to funsql.yaml (default: search upward from the working directory)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

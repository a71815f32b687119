package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/funsql/internal/service"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the signature codec over gRPC",
		Long: `Serve the signature service: validation, formatting and template
expansion of wire-encoded signatures. PROTO and ENUM types resolve
against the descriptor pool from funsql.yaml.

The server runs until interrupted and stops gracefully on SIGINT or
SIGTERM.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (default: listen_addr from funsql.yaml)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions)
	if err != nil {
		return err
	}

	log := zap.Must(zap.NewProduction())
	if opts.Verbose {
		log = zap.Must(zap.NewDevelopment())
	}
	defer func() { _ = log.Sync() }()

	srv, err := service.NewServer(env.pool, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		srv.GracefulStop()
	}()

	addr := opts.Listen
	if addr == "" {
		addr = env.cfg.ListenAddr
	}
	return srv.Serve(addr)
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/adminshell/internal/config"
	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/internal/routes"
	"github.com/vango-dev/adminshell/internal/server"
	"github.com/vango-dev/adminshell/pkg/router"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		port int
		host string
		mode string
		base string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the console server",
		Long: `Start the HTTP server for the admin console.

Routes:
  /              redirects to /resources
  /api/routes    route table as JSON
  /api/resolve   resolve ?path= against the table
  /ws/navigate   live navigation socket
  /metrics       Prometheus metrics (when enabled)

Examples:
  adminshell serve
  adminshell serve --port=9000 --host=0.0.0.0
  adminshell serve --mode=hash --base=/console`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if mode != "" {
				cfg.History.Mode = mode
			}
			if cmd.Flags().Changed("base") {
				cfg.History.Base = base
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from adminshell.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from adminshell.json)")
	cmd.Flags().StringVar(&mode, "mode", "", "History mode: web, hash or memory")
	cmd.Flags().StringVar(&base, "base", "", "Path the console is mounted under")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	r, err := buildRouter(cfg, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	srv := server.New(cfg, r, server.WithLogger(logger))
	return srv.Run(ctx)
}

// buildRouter creates the console router over the configured history.
func buildRouter(cfg *config.Config, logger *slog.Logger) (*router.Router, error) {
	h, err := cfg.NewHistory("")
	if err != nil {
		return nil, err
	}
	r, err := routes.New(h, routes.DefaultComponents(), routes.WithLogger(logger))
	if err != nil {
		return nil, errors.New("E100").Wrap(err)
	}
	return r, nil
}

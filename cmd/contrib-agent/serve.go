package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/contrib-agent/internal/api"
	"github.com/p-blackswan/contrib-agent/internal/health"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the agent over HTTP: preference inspection and editing,
feedback recording, lifecycle simulation, health probes, and Prometheus
metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"))

		a, err := newApp(logger, false)
		if err != nil {
			return err
		}

		checker := health.NewChecker(logger)
		checker.Register("preferences", func(context.Context) health.Status {
			if err := a.prefs.Save(); err != nil {
				return health.StatusDown
			}
			return health.StatusOK
		})
		if a.gh != nil {
			checker.Register("github", func(ctx context.Context) health.Status {
				if _, err := a.gh.CurrentUser(ctx); err != nil {
					return health.StatusDegraded
				}
				return health.StatusOK
			})
		}

		addr := serveAddr
		if addr == "" {
			addr = a.cfg.APIListenAddr
		}

		handlers := api.NewHandlers(a.prefs, a.newSimulator(), a.metrics, logger)
		handlers.DefaultSimulationDays = a.cfg.SimulationDays
		srv := api.NewServer(api.ServerConfig{ListenAddr: addr}, handlers, checker, a.metrics, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			return srv.Shutdown()
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to API_LISTEN_ADDR)")
}

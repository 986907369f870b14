package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/okian/aigi/internal/adapters/http/api"
	"github.com/okian/aigi/internal/adapters/http/swagger"
	"github.com/okian/aigi/internal/domain/snapshot"
	"github.com/okian/aigi/pkg/logger"
	"github.com/okian/aigi/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCommand(c *cli) *cobra.Command {
	var (
		addr       string
		runOnStart bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest snapshot over HTTP",
		Long: `Serve publishes the newest snapshot and exposes /cis, /leaderboard,
/rank/{model}, /stats, /healthz (Prometheus metrics) and /openapi.yaml.
With --run a fresh scoring run is executed before serving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Addr = addr
			}
			if err := c.revalidate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			log := c.log

			registerRuntimeCollectors()

			svc, err := c.newService()
			if err != nil {
				return err
			}
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			if runOnStart {
				if _, err := svc.Run(ctx); err != nil {
					return err
				}
			} else if _, err := svc.LoadLatest(ctx); err != nil {
				if !errors.Is(err, snapshot.ErrNotFound) {
					return err
				}
				log.Warn(ctx, "no snapshot to serve yet", logger.String("snapshot_dir", c.cfg.SnapshotDir))
			}

			// HTTP mux and routes.
			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			api.NewServer(svc, svc, c.cfg.MaxLeaderboardLimit).Register(ctx, mux)

			srv := &http.Server{
				Addr:              c.cfg.Addr,
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			return serve(ctx, srv, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. :9080")
	cmd.Flags().BoolVar(&runOnStart, "run", false, "execute a scoring run before serving")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// registerRuntimeCollectors exposes Go runtime and process metrics on the
// custom registry served by /healthz.
func registerRuntimeCollectors() {
	reg := metrics.GetRegistry()
	for _, col := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(col); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}

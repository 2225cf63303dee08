package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yathushan/coldsweat/internal/bootstrap"
	"github.com/Yathushan/coldsweat/internal/infrastructure/metrics"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

const sessionPurgeInterval = time.Hour

func newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web reader as a standalone HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.NewWithRuntime()
			opts := bootstrap.Options{Metrics: m}
			if cfg.RateLimit.Enabled {
				limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
				limiter.Start(ctx, time.Minute)
				opts.LoginLimiter = middleware.RateLimit(limiter, m.RateLimited)
			}

			app, err := bootstrap.NewWithOptions(ctx, cfg, log, opts)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Error("Failed to release resources", err)
				}
			}()

			go purgeSessions(ctx, app, log)

			mux := http.NewServeMux()
			mux.Handle("GET /metrics", m.Handler())
			mux.Handle("/", middleware.Mount(cfg.App.MountPath)(app.Handler))

			server := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      mux,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP server starting", "port", cfg.Server.Port, "mount", cfg.App.MountPath)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					log.Error("HTTP server failed", err)
					return err
				}
			case <-ctx.Done():
				log.Info("Shutdown signal received, starting graceful shutdown...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Server shutdown error", err)
				return err
			}

			log.Info("Server stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides SERVER_PORT")

	return cmd
}

// purgeSessions drops expired web sessions until ctx is done.
func purgeSessions(ctx context.Context, app *bootstrap.Application, log *logger.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := app.PurgeSessions(ctx)
			if err != nil {
				log.Error("Failed to purge expired sessions", err)
				continue
			}
			if n > 0 {
				log.Info("Expired sessions purged", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

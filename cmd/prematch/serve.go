package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cricketml/prematch/internal/artifact"
	"github.com/cricketml/prematch/internal/config"
	"github.com/cricketml/prematch/internal/handlers"
	"github.com/cricketml/prematch/internal/logic"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the artifacts and serve the web app and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	log := logger.Sugar()

	bundle, err := artifact.Load(ctx, artifactOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	hcfg := handlers.Config{
		Logger:     logger,
		Prediction: logic.NewPredictionService(bundle, cfg.BatchConcurrency, logger),
		Dataset:    logic.NewDatasetService(bundle),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		limiter := logic.NewRateLimiter(rdb, cfg.RateLimitPerSecond, logger)
		if err := limiter.Ping(ctx); err != nil {
			log.Warnw("Redis not reachable at startup, rate limiter will fail open", "error", err)
		}
		hcfg.Limiter = limiter
	}

	h := handlers.New(hcfg)
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: h.Routes(handlers.RouterConfig{
			AllowedOrigins:    cfg.AllowedOrigins,
			RequestTimeout:    cfg.RequestTimeout,
			TrustProxyHeaders: cfg.TrustProxyHeaders,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server starting", "port", cfg.Port, "env", cfg.Env, "rateLimit", hcfg.Limiter != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("Shutting down server", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func artifactOptions(c *config.Config) artifact.Options {
	return artifact.Options{
		ModelPath:    c.Path(c.ModelFile),
		EncoderPath:  c.Path(c.EncoderFile),
		ColumnsPath:  c.Path(c.ColumnsFile),
		DatasetPath:  c.Path(c.DatasetFile),
		TargetColumn: c.TargetColumn,
		PostgresURL:  c.DatasetPostgresURL,
		Table:        c.DatasetTable,
	}
}

package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/http/routes"
	"taskhub/internal/core/port"
	"taskhub/internal/core/telemetry"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the container and the gin engine on top of db.
func NewRouter(ctx context.Context, db *database.DB, cfg *config.Config, log *logger.Logger, probe port.Telemetry, metrics *telemetry.AppMetrics) (*gin.Engine, *Container) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	container := NewContainer(ctx, db, cfg, log, probe, metrics)

	router := routes.SetupRouter(routes.HandlersConfig{
		AuthHandler:   container.AuthHandler,
		TaskHandler:   container.TaskHandler,
		FriendHandler: container.FriendHandler,
	}, routes.Options{
		Config:      cfg,
		Logger:      log,
		Metrics:     metrics,
		Verifier:    container.Tokens,
		RateLimiter: container.RateLimiter,
	})

	return router, container
}

// StartServer serves until ctx is cancelled, then drains in-flight requests.
func StartServer(ctx context.Context, db *database.DB, cfg *config.Config, log *logger.Logger, probe port.Telemetry, metrics *telemetry.AppMetrics) error {
	router, container := NewRouter(ctx, db, cfg, log, probe, metrics)
	defer container.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database", db.Dialect),
		zap.Bool("rate_limit_enabled", container.RateLimiter != nil),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

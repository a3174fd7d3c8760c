package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/database/postgres"
	"taskhub/internal/adapter/database/sqlite"
	api "taskhub/internal/adapter/http"
	"taskhub/internal/adapter/telemetry"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger, err := logger.New(cfg.ServiceName, cfg.Environment, cfg.LokiURL)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	tel, err := telemetry.NewContainer(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize telemetry", zap.Error(err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	tel.AppMetrics.StartSystemMetrics(ctx, 15*time.Second)

	db, err := openDatabase(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open database", zap.Error(err))
		return err
	}
	defer db.Close()

	return api.StartServer(ctx, db, cfg, appLogger, tel.NewTelemetryProbe(appLogger), tel.AppMetrics)
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	if cfg.DatabaseDriver == config.DriverPostgres {
		return postgres.NewDB(ctx, cfg, log)
	}

	return sqlite.NewDB(cfg, log)
}

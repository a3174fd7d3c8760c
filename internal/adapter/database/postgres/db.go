package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/database/migrations"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

const Dialect = "postgres"

const uniqueViolationCode = "23505"

// NewDB opens a pgx pool, migrates the schema and exposes the pool through
// database/sql so the shared repositories can use it.
func NewDB(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// the migrate driver closes the handle it is given, so it gets its own
	if err := RunMigrations(stdlib.OpenDB(*pool.Config().ConnConfig)); err != nil {
		pool.Close()
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	log.Info("PostgreSQL database ready",
		zap.Int32("max_conns", pool.Config().MaxConns))

	db := database.New(sqlDB, Dialect, IsUniqueViolation)
	db.OnClose(pool.Close)

	return db, nil
}

// RunMigrations applies the embedded schema and closes sqlDB afterwards.
func RunMigrations(sqlDB *sql.DB) error {
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	source, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == uniqueViolationCode
}

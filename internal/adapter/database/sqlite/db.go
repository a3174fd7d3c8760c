package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	gosqlite "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/database/migrations"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

const Dialect = "sqlite"

// DSN enables foreign keys and a busy timeout on every connection.
func DSN(path string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	return path + separator + "_foreign_keys=on&_busy_timeout=5000"
}

// NewDB migrates the file at cfg.DatabasePath and opens it with tracing and,
// when cfg.DBQueryLog is set, zerolog query logging.
func NewDB(cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	dsn := DSN(cfg.DatabasePath)

	migrationDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(migrationDB); err != nil {
		migrationDB.Close()
		return nil, err
	}
	migrationDB.Close()

	sqlDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName(cfg.ServiceName),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return nil, err
	}

	if cfg.DBQueryLog {
		zlog := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sql").Logger()
		logged := sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(zlog),
			sqldblogger.WithSQLQueryAsMessage(true),
		)
		sqlDB.Close()
		sqlDB = logged
	}

	// one writer at a time; SQLite serializes writes anyway
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info("SQLite database ready",
		zap.String("path", cfg.DatabasePath),
		zap.Bool("query_log", cfg.DBQueryLog))

	return database.New(sqlDB, Dialect, IsUniqueViolation), nil
}

// Wrap adapts an already migrated connection.
func Wrap(db *sql.DB) *database.DB {
	return database.New(db, Dialect, IsUniqueViolation)
}

// RunMigrations applies the embedded schema. It leaves db open.
func RunMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	source, err := iofs.New(migrations.SQLite, "sqlite")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("creating migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func IsUniqueViolation(err error) bool {
	var sqliteErr gosqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.ExtendedCode == gosqlite.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == gosqlite.ErrConstraintPrimaryKey
}

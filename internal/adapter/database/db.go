package database

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
)

// DB is the handle repositories work against. SQLite and PostgreSQL both sit
// behind database/sql, so the dialect differences are limited to the
// placeholder format and how unique violations are reported.
type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
	Dialect      string

	isUniqueViolation func(error) bool
	onClose           func()
}

func New(db *sql.DB, dialect string, isUniqueViolation func(error) bool) *DB {
	return &DB{
		DB:                db,
		QueryBuilder:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		Dialect:           dialect,
		isUniqueViolation: isUniqueViolation,
	}
}

// OnClose registers cleanup that runs after the pool is closed.
func (db *DB) OnClose(fn func()) {
	db.onClose = fn
}

func (db *DB) Close() error {
	err := db.DB.Close()

	if db.onClose != nil {
		db.onClose()
	}

	return err
}

func (db *DB) IsUniqueViolation(err error) bool {
	return err != nil && db.isUniqueViolation != nil && db.isUniqueViolation(err)
}

// InTx runs fn inside a transaction, rolling back when fn fails.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

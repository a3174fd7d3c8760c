package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskhub/internal/adapter/database"
	"taskhub/internal/core/port"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll closes its rows before returning. The SQLite pool holds a single
// connection, so callers must not issue another query while rows are open.
func queryAll[T any](ctx context.Context, q queryer, builder sq.Sqlizer, scan func(rowScanner) (T, error)) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func queryOne[T any](ctx context.Context, q queryer, builder sq.Sqlizer, scan func(rowScanner) (T, error)) (T, error) {
	var zero T

	query, args, err := builder.ToSql()
	if err != nil {
		return zero, err
	}

	item, err := scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, port.ErrNotFound
	}
	if err != nil {
		return zero, err
	}

	return item, nil
}

func count(ctx context.Context, q queryer, builder sq.Sqlizer) (int, error) {
	return queryOne(ctx, q, builder, func(row rowScanner) (int, error) {
		var n int
		err := row.Scan(&n)
		return n, err
	})
}

// execAffected runs builder and reports port.ErrNotFound when no row changed.
func execAffected(ctx context.Context, q queryer, builder sq.Sqlizer) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return port.ErrNotFound
	}

	return nil
}

func exec(ctx context.Context, q queryer, builder sq.Sqlizer) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, query, args...)
	return err
}

// mapWriteError turns unique violations into port.ErrDuplicate.
func mapWriteError(db *database.DB, err error) error {
	if db.IsUniqueViolation(err) {
		return errors.Join(port.ErrDuplicate, err)
	}

	return err
}

func repositorySpan(ctx context.Context, telemetry port.Telemetry, db *database.DB, entity, operation string) (context.Context, port.Span) {
	return telemetry.StartRepositorySpan(ctx, operation, entity, map[string]interface{}{
		"db.system": db.Dialect,
	})
}

// uuid.UUID is a byte array, which squirrel would expand into an IN list, so
// ids always go to the builder as strings.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}

func nullString[T ~string](value *T) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: string(*value), Valid: true}
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *value, Valid: true}
}

func stringPtr[T ~string](value sql.NullString) *T {
	if !value.Valid {
		return nil
	}

	v := T(value.String)
	return &v
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}

	v := int(value.Int64)
	return &v
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}

	v := value.Time
	return &v
}

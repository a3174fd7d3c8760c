package service

import (
	"errors"
	"time"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
)

// now is the single clock for persisted timestamps. Postgres keeps
// microseconds, so both stores round-trip the same value.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// translate maps a repository miss to notFound and wraps any other failure
// as an internal error. Domain errors pass through untouched.
func translate(err error, notFound error, message string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, port.ErrNotFound) {
		return notFound
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return err
	}

	return domain.NewInternalError(message, err)
}

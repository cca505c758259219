package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable marks transient store failures (timeouts, lost
// connections). The HTTP layer turns it into a 503 so callers know the
// request is retryable.
var ErrUnavailable = errors.New("store unavailable")

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

// uniqueConstraint returns the violated constraint name, or "".
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// wrapTransient converts cancellations and connectivity failures into
// ErrUnavailable; everything else passes through untouched.
func wrapTransient(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		// 57014 query_canceled, 53300 too_many_connections
		if pgErr.Code == "57014" || pgErr.Code == "53300" {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "connection") {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return err
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/termbridge/internal/domain"
)

// MapError converts pgx/pgconn errors to domain failures.
// context.DeadlineExceeded and context.Canceled are not mapped; they pass through.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	subject := entity + " " + key

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", subject, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Absent(subject, nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.IntegrityViolated(subject, err)
		case "23503": // foreign_key_violation
			return domain.Absent(subject, err)
		case "23514", "23502": // check_violation, not_null_violation
			return domain.Malformed(subject, err)
		}
	}

	return fmt.Errorf("%s: %w", subject, err)
}

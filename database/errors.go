package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"devtrack/models"
)

// PostgreSQL SQLSTATE codes translated into the error taxonomy.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

// mapError converts pgx errors raised by reads and inserts into taxonomy
// errors. A foreign key violation on insert means the referenced project is
// missing, so it maps to ErrNotFound. Context errors pass through.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", entity, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, models.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", entity, models.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", entity, models.ErrNotFound)
		case codeCheckViolation, codeStringTooLong:
			return fmt.Errorf("%s: %w", entity, models.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", entity, err)
}

// mapDeleteError is mapError for deletes of a parent row, where a foreign
// key violation means dependents still reference it.
func mapDeleteError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return fmt.Errorf("%s: still referenced by %s: %w", entity, pgErr.TableName, models.ErrConflict)
	}
	return mapError(err, entity)
}

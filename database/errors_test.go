package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"devtrack/models"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: models.ErrNotFound},
		{name: "unique", err: &pgconn.PgError{Code: codeUniqueViolation}, want: models.ErrAlreadyExists},
		{name: "foreign key", err: &pgconn.PgError{Code: codeForeignKeyViolation}, want: models.ErrNotFound},
		{name: "check", err: &pgconn.PgError{Code: codeCheckViolation}, want: models.ErrValidation},
		{name: "value too long", err: &pgconn.PgError{Code: codeStringTooLong}, want: models.ErrValidation},
		{name: "canceled", err: context.Canceled, want: context.Canceled},
		{name: "deadline", err: context.DeadlineExceeded, want: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "software")
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "software")
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "software"))
}

func TestMapError_Unknown(t *testing.T) {
	raw := errors.New("connection reset")
	got := mapError(raw, "comment")

	assert.ErrorIs(t, got, raw)
	assert.False(t, errors.Is(got, models.ErrNotFound))
	assert.False(t, errors.Is(got, models.ErrConflict))
}

func TestMapDeleteError_ForeignKeyIsConflict(t *testing.T) {
	got := mapDeleteError(&pgconn.PgError{Code: codeForeignKeyViolation, TableName: "comment"}, "software")

	assert.ErrorIs(t, got, models.ErrConflict)
	assert.Contains(t, got.Error(), "comment")
}

func TestMapDeleteError_NoRows(t *testing.T) {
	assert.ErrorIs(t, mapDeleteError(pgx.ErrNoRows, "software"), models.ErrNotFound)
}

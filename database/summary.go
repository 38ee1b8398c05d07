package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

// GetSummary returns ErrNotFound when the project has no summary yet.
func (db *DB) GetSummary(ctx context.Context, softwareID uuid.UUID) (*models.Summary, error) {
	sql, args, err := query.SummaryForSoftware(query.Postgres, softwareID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get summary: %w", err)
	}

	summary, err := scanSummary(db.querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("summary for software %s", softwareID))
	}
	return summary, nil
}

// UpsertSummary creates the project's summary or replaces its content with
// one INSERT ... ON CONFLICT statement, so concurrent callers can never
// produce two rows. On replace the stored id is kept and s.ID is ignored.
func (db *DB) UpsertSummary(ctx context.Context, s models.Summary) (*models.Summary, error) {
	sql, args, err := query.UpsertSummary(query.Postgres,
		s.ID, s.SoftwareID, s.Summary, s.NextSteps, s.Deadline, s.UpdatedAt,
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert summary: %w", err)
	}

	summary, err := scanSummary(db.querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("summary for software %s", s.SoftwareID))
	}
	return summary, nil
}

func (db *DB) DeleteSummaryForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	return db.deleteBySoftware(ctx, query.TableSummary, softwareID)
}

func scanSummary(row rowScanner) (*models.Summary, error) {
	var s models.Summary
	err := row.Scan(&s.ID, &s.SoftwareID, &s.Summary, &s.NextSteps, &s.Deadline, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

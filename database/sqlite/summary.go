package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

func (s *Store) GetSummary(ctx context.Context, softwareID uuid.UUID) (*models.Summary, error) {
	stmt, args, err := query.SummaryForSoftware(query.SQLite, softwareID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get summary: %w", err)
	}

	summary, err := scanSummary(s.querier(ctx).QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("summary for software %s", softwareID))
	}
	return summary, nil
}

// UpsertSummary is a single INSERT ... ON CONFLICT statement; see
// database.DB.UpsertSummary.
func (s *Store) UpsertSummary(ctx context.Context, sum models.Summary) (*models.Summary, error) {
	var deadline sql.NullInt64
	if sum.Deadline != nil {
		deadline = sql.NullInt64{Int64: toMillis(*sum.Deadline), Valid: true}
	}

	stmt, args, err := query.UpsertSummary(query.SQLite,
		sum.ID, sum.SoftwareID, sum.Summary, sum.NextSteps, deadline, toMillis(sum.UpdatedAt),
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert summary: %w", err)
	}

	summary, err := scanSummary(s.querier(ctx).QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("summary for software %s", sum.SoftwareID))
	}
	return summary, nil
}

func (s *Store) DeleteSummaryForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	return s.deleteBySoftware(ctx, query.TableSummary, softwareID)
}

func scanSummary(row rowScanner) (*models.Summary, error) {
	var sum models.Summary
	var deadline sql.NullInt64
	var updatedAt int64
	if err := row.Scan(&sum.ID, &sum.SoftwareID, &sum.Summary, &sum.NextSteps, &deadline, &updatedAt); err != nil {
		return nil, err
	}
	if deadline.Valid {
		d := fromMillis(deadline.Int64)
		sum.Deadline = &d
	}
	sum.UpdatedAt = fromMillis(updatedAt)
	return &sum, nil
}

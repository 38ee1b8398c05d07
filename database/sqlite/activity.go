package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

func (s *Store) InsertActivity(ctx context.Context, e models.ActivityLogEntry) (*models.ActivityLogEntry, error) {
	stmt, args, err := query.InsertActivity(query.SQLite,
		e.ID, e.SoftwareID, string(e.ActionType), e.Description, toMillis(e.CreatedAt),
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert activity: %w", err)
	}

	if _, err := s.querier(ctx).ExecContext(ctx, stmt, args...); err != nil {
		return nil, mapError(err, fmt.Sprintf("activity for software %s", e.SoftwareID))
	}

	e.CreatedAt = fromMillis(toMillis(e.CreatedAt))
	e.Software = nil
	return &e, nil
}

func (s *Store) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	stmt, args, err := query.RecentActivity(query.SQLite, uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent activity: %w", err)
	}

	rows, err := s.querier(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err, "recent activity")
	}
	defer rows.Close()

	entries := []models.ActivityLogEntry{}
	for rows.Next() {
		var e models.ActivityLogEntry
		var actionType, name string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.SoftwareID, &actionType, &e.Description, &createdAt, &name); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		e.ActionType = models.ActionType(actionType)
		e.CreatedAt = fromMillis(createdAt)
		e.Software = &models.SoftwareRef{Name: name}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}
	return entries, nil
}

func (s *Store) DeleteActivityForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	return s.deleteBySoftware(ctx, query.TableActivity, softwareID)
}

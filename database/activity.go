package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

// InsertActivity appends one ledger entry. A missing project is rejected by
// the foreign key and reported as ErrNotFound.
func (db *DB) InsertActivity(ctx context.Context, e models.ActivityLogEntry) (*models.ActivityLogEntry, error) {
	sql, args, err := query.InsertActivity(query.Postgres,
		e.ID, e.SoftwareID, string(e.ActionType), e.Description, e.CreatedAt,
	).Suffix("RETURNING id, software_id, action_type, description, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert activity: %w", err)
	}

	var entry models.ActivityLogEntry
	err = db.querier(ctx).QueryRow(ctx, sql, args...).Scan(
		&entry.ID, &entry.SoftwareID, &entry.ActionType, &entry.Description, &entry.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("activity for software %s", e.SoftwareID))
	}
	return &entry, nil
}

// RecentActivity returns at most limit entries across all projects, newest
// first, each enriched with its project's name.
// Returns an empty slice (not nil) when the ledger is empty.
func (db *DB) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	sql, args, err := query.RecentActivity(query.Postgres, uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent activity: %w", err)
	}

	rows, err := db.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "recent activity")
	}
	defer rows.Close()

	entries := []models.ActivityLogEntry{}
	for rows.Next() {
		var e models.ActivityLogEntry
		var name string
		if err := rows.Scan(&e.ID, &e.SoftwareID, &e.ActionType, &e.Description, &e.CreatedAt, &name); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		e.Software = &models.SoftwareRef{Name: name}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return entries, nil
}

func (db *DB) DeleteActivityForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	return db.deleteBySoftware(ctx, query.TableActivity, softwareID)
}

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devtrack/database/query"
	"devtrack/models"
)

// CreateSoftware inserts a project and returns the stored row.
func (db *DB) CreateSoftware(ctx context.Context, s models.Software) (*models.Software, error) {
	sql, args, err := query.InsertSoftware(query.Postgres,
		s.ID, s.Name, s.Version, s.Developer, s.Stack, s.Description, s.CreatedAt,
	).Suffix("RETURNING id, name, version, developer, stack, description, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert software: %w", err)
	}

	software, err := scanSoftware(db.querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "create software")
	}

	db.log.Debug("created software", zap.String("software_id", software.ID.String()))
	return software, nil
}

func (db *DB) ListSoftware(ctx context.Context) ([]models.Software, error) {
	sql, args, err := query.SelectSoftware(query.Postgres).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list software: %w", err)
	}

	rows, err := db.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "list software")
	}
	defer rows.Close()

	software := []models.Software{}
	for rows.Next() {
		s, err := scanSoftware(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan software: %w", err)
		}
		software = append(software, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating software: %w", err)
	}

	return software, nil
}

func (db *DB) GetSoftware(ctx context.Context, id uuid.UUID) (*models.Software, error) {
	sql, args, err := query.SoftwareByID(query.Postgres, id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get software: %w", err)
	}

	software, err := scanSoftware(db.querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("software %s", id))
	}
	return software, nil
}

// DeleteSoftware removes the project row. Dependents must already be gone;
// a remaining reference surfaces as ErrConflict, a missing row as ErrNotFound.
func (db *DB) DeleteSoftware(ctx context.Context, id uuid.UUID) error {
	sql, args, err := query.DeleteSoftware(query.Postgres, id).ToSql()
	if err != nil {
		return fmt.Errorf("build delete software: %w", err)
	}

	result, err := db.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapDeleteError(err, fmt.Sprintf("software %s", id))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("software %s: %w", id, models.ErrNotFound)
	}

	return nil
}

func scanSoftware(row rowScanner) (*models.Software, error) {
	var s models.Software
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Version,
		&s.Developer,
		&s.Stack,
		&s.Description,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

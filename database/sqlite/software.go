package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

func (s *Store) CreateSoftware(ctx context.Context, sw models.Software) (*models.Software, error) {
	var description sql.NullString
	if sw.Description != nil {
		description = sql.NullString{String: *sw.Description, Valid: true}
	}

	stmt, args, err := query.InsertSoftware(query.SQLite,
		sw.ID, sw.Name, sw.Version, sw.Developer, sw.Stack, description, toMillis(sw.CreatedAt),
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert software: %w", err)
	}

	if _, err := s.querier(ctx).ExecContext(ctx, stmt, args...); err != nil {
		return nil, mapError(err, "create software")
	}

	sw.CreatedAt = fromMillis(toMillis(sw.CreatedAt))
	return &sw, nil
}

func (s *Store) ListSoftware(ctx context.Context) ([]models.Software, error) {
	stmt, args, err := query.SelectSoftware(query.SQLite).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list software: %w", err)
	}

	rows, err := s.querier(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err, "list software")
	}
	defer rows.Close()

	software := []models.Software{}
	for rows.Next() {
		sw, err := scanSoftware(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan software: %w", err)
		}
		software = append(software, *sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating software: %w", err)
	}
	return software, nil
}

func (s *Store) GetSoftware(ctx context.Context, id uuid.UUID) (*models.Software, error) {
	stmt, args, err := query.SoftwareByID(query.SQLite, id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get software: %w", err)
	}

	sw, err := scanSoftware(s.querier(ctx).QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("software %s", id))
	}
	return sw, nil
}

func (s *Store) DeleteSoftware(ctx context.Context, id uuid.UUID) error {
	stmt, args, err := query.DeleteSoftware(query.SQLite, id).ToSql()
	if err != nil {
		return fmt.Errorf("build delete software: %w", err)
	}

	result, err := s.querier(ctx).ExecContext(ctx, stmt, args...)
	if err != nil {
		return mapDeleteError(err, fmt.Sprintf("software %s", id))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("software %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("software %s: %w", id, models.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSoftware(row rowScanner) (*models.Software, error) {
	var sw models.Software
	var description sql.NullString
	var createdAt int64
	err := row.Scan(&sw.ID, &sw.Name, &sw.Version, &sw.Developer, &sw.Stack, &description, &createdAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		sw.Description = &description.String
	}
	sw.CreatedAt = fromMillis(createdAt)
	return &sw, nil
}

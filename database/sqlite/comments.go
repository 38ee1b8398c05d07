package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

func (s *Store) InsertComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	stmt, args, err := query.InsertComment(query.SQLite,
		c.ID, c.SoftwareID, c.Comment, c.Author, toMillis(c.CreatedAt),
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert comment: %w", err)
	}

	if _, err := s.querier(ctx).ExecContext(ctx, stmt, args...); err != nil {
		return nil, mapError(err, fmt.Sprintf("comment for software %s", c.SoftwareID))
	}

	c.CreatedAt = fromMillis(toMillis(c.CreatedAt))
	c.Software = nil
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, softwareID uuid.UUID) ([]models.Comment, error) {
	stmt, args, err := query.CommentsForSoftware(query.SQLite, softwareID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments: %w", err)
	}

	rows, err := s.querier(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err, "list comments")
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var name string
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.SoftwareID, &c.Comment, &c.Author, &createdAt, &name); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		c.Software = &models.SoftwareRef{Name: name}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

func (s *Store) DeleteCommentsForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	return s.deleteBySoftware(ctx, query.TableComment, softwareID)
}

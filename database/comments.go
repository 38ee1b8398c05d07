package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devtrack/database/query"
	"devtrack/models"
)

func (db *DB) InsertComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	sql, args, err := query.InsertComment(query.Postgres,
		c.ID, c.SoftwareID, c.Comment, c.Author, c.CreatedAt,
	).Suffix("RETURNING id, software_id, comment, author, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert comment: %w", err)
	}

	var comment models.Comment
	err = db.querier(ctx).QueryRow(ctx, sql, args...).Scan(
		&comment.ID, &comment.SoftwareID, &comment.Comment, &comment.Author, &comment.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("comment for software %s", c.SoftwareID))
	}
	return &comment, nil
}

// ListComments returns a project's comments newest first, each enriched with
// the project name.
func (db *DB) ListComments(ctx context.Context, softwareID uuid.UUID) ([]models.Comment, error) {
	sql, args, err := query.CommentsForSoftware(query.Postgres, softwareID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments: %w", err)
	}

	rows, err := db.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "list comments")
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var name string
		if err := rows.Scan(&c.ID, &c.SoftwareID, &c.Comment, &c.Author, &c.CreatedAt, &name); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Software = &models.SoftwareRef{Name: name}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

func (db *DB) DeleteCommentsForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error) {
	return db.deleteBySoftware(ctx, query.TableComment, softwareID)
}

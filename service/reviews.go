package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devtrack/models"
)

// Reviews collects free-text feedback on projects.
type Reviews struct {
	software softwareRepo
	comments commentRepo
	log      *zap.Logger
}

// NewReviews builds a Reviews service.
func NewReviews(log *zap.Logger, software softwareRepo, comments commentRepo) *Reviews {
	return &Reviews{
		software: software,
		comments: comments,
		log:      log.With(zap.String("service", "reviews")),
	}
}

// ListForSoftware returns the project's comments, newest first. An unknown
// project, or an id that is not a UUID, simply has no comments.
func (r *Reviews) ListForSoftware(ctx context.Context, rawSoftwareID string) ([]models.Comment, error) {
	id, ok := lookupID(rawSoftwareID)
	if !ok {
		return []models.Comment{}, nil
	}

	comments, err := r.comments.ListComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Create stores a comment. Blank text and missing or placeholder project
// ids are ValidationErrors; an unknown project is ErrNotFound.
func (r *Reviews) Create(ctx context.Context, rawSoftwareID string, req models.CreateCommentRequest) (*models.Comment, error) {
	id, err := validateComment(rawSoftwareID, req)
	if err != nil {
		return nil, err
	}

	software, err := r.software.GetSoftware(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	comment, err := r.comments.InsertComment(ctx, models.Comment{
		ID:         uuid.New(),
		SoftwareID: id,
		Comment:    req.Comment,
		Author:     authorOrDefault(req.Author),
		CreatedAt:  now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.Software = &models.SoftwareRef{Name: software.Name}

	r.log.Info("comment created",
		zap.String("software_id", id.String()),
		zap.String("comment_id", comment.ID.String()),
		zap.String("author", comment.Author),
	)
	return comment, nil
}

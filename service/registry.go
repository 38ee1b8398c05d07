package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devtrack/models"
)

// Registry manages project records and owns their cascading deletion.
type Registry struct {
	tx        txRunner
	software  softwareRepo
	activity  activityRepo
	comments  commentRepo
	summaries summaryRepo
	log       *zap.Logger
}

// NewRegistry builds a Registry over the given repositories, which are
// normally all the same store.
func NewRegistry(
	log *zap.Logger,
	tx txRunner,
	software softwareRepo,
	activity activityRepo,
	comments commentRepo,
	summaries summaryRepo,
) *Registry {
	return &Registry{
		tx:        tx,
		software:  software,
		activity:  activity,
		comments:  comments,
		summaries: summaries,
		log:       log.With(zap.String("service", "registry")),
	}
}

// Create validates and stores a new project. Field values are stored as
// given; only blank checks trim.
func (r *Registry) Create(ctx context.Context, req models.CreateSoftwareRequest) (*models.Software, error) {
	if err := validateSoftware(req); err != nil {
		return nil, err
	}

	software, err := r.software.CreateSoftware(ctx, models.Software{
		ID:          uuid.New(),
		Name:        req.Name,
		Version:     req.Version,
		Developer:   req.Developer,
		Stack:       req.Stack,
		Description: req.Description,
		CreatedAt:   now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create software: %w", err)
	}

	r.log.Info("software created",
		zap.String("software_id", software.ID.String()),
		zap.String("name", software.Name),
	)
	return software, nil
}

// List returns every project, newest first.
func (r *Registry) List(ctx context.Context) ([]models.Software, error) {
	software, err := r.software.ListSoftware(ctx)
	if err != nil {
		return nil, fmt.Errorf("list software: %w", err)
	}
	return software, nil
}

// Get returns one project. An id that is not a UUID is ErrNotFound.
func (r *Registry) Get(ctx context.Context, rawID string) (*models.Software, error) {
	id, ok := lookupID(rawID)
	if !ok {
		return nil, fmt.Errorf("get software %q: %w", rawID, models.ErrNotFound)
	}

	software, err := r.software.GetSoftware(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get software: %w", err)
	}
	return software, nil
}

// Delete removes a project together with its activity entries, comments and
// summary in one transaction. Any failure rolls back all four deletes.
// A project that does not exist (including one deleted a moment ago) yields
// ErrNotFound, as does an id that is not a UUID.
func (r *Registry) Delete(ctx context.Context, rawID string) error {
	id, ok := lookupID(rawID)
	if !ok {
		return fmt.Errorf("delete software %q: %w", rawID, models.ErrNotFound)
	}

	var activity, comments, summaries int64
	err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if activity, err = r.activity.DeleteActivityForSoftware(txCtx, id); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		if comments, err = r.comments.DeleteCommentsForSoftware(txCtx, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if summaries, err = r.summaries.DeleteSummaryForSoftware(txCtx, id); err != nil {
			return fmt.Errorf("delete summary: %w", err)
		}
		if err := r.software.DeleteSoftware(txCtx, id); err != nil {
			return fmt.Errorf("delete software: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("software deleted",
		zap.String("software_id", id.String()),
		zap.Int64("activity", activity),
		zap.Int64("comments", comments),
		zap.Int64("summaries", summaries),
	)
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devtrack/models"
)

// Summaries keeps the single rolling summary of each project.
type Summaries struct {
	summaries summaryRepo
	log       *zap.Logger
}

// NewSummaries builds a Summaries service.
func NewSummaries(log *zap.Logger, summaries summaryRepo) *Summaries {
	return &Summaries{
		summaries: summaries,
		log:       log.With(zap.String("service", "summaries")),
	}
}

// Get returns the project's summary. found is false, with a nil error, when
// none has been written yet or the id cannot name a project.
func (s *Summaries) Get(ctx context.Context, rawSoftwareID string) (summary *models.Summary, found bool, err error) {
	id, ok := lookupID(rawSoftwareID)
	if !ok {
		return nil, false, nil
	}

	summary, err = s.summaries.GetSummary(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get summary: %w", err)
	}
	return summary, true, nil
}

// Upsert creates the summary or replaces its summary, next steps and
// deadline. The store performs it as one conditional write. A missing or
// placeholder id is a ValidationError; a malformed one is ErrNotFound.
func (s *Summaries) Upsert(ctx context.Context, rawSoftwareID string, req models.UpsertSummaryRequest) (*models.Summary, error) {
	id, err := targetID(rawSoftwareID)
	if err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	summary, err := s.summaries.UpsertSummary(ctx, models.Summary{
		ID:         uuid.New(),
		SoftwareID: id,
		Summary:    req.Summary,
		NextSteps:  req.NextSteps,
		Deadline:   deadline,
		UpdatedAt:  now(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert summary: %w", err)
	}

	s.log.Info("summary saved",
		zap.String("software_id", id.String()),
		zap.String("summary_id", summary.ID.String()),
	)
	return summary, nil
}

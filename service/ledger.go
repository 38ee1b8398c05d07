package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devtrack/models"
)

// Ledger is the append-only activity log.
type Ledger struct {
	activity     activityRepo
	defaultLimit int
	maxLimit     int
	log          *zap.Logger
}

// NewLedger builds a Ledger whose Recent view returns defaultLimit entries
// unless asked otherwise and never more than maxLimit.
func NewLedger(log *zap.Logger, activity activityRepo, defaultLimit, maxLimit int) *Ledger {
	return &Ledger{
		activity:     activity,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log.With(zap.String("service", "ledger")),
	}
}

// Append records one change against a project. Input is validated before
// the store is touched. The project's existence is enforced by the store's
// foreign key; a missing project surfaces as ErrNotFound.
func (l *Ledger) Append(ctx context.Context, req models.AppendActivityRequest) (*models.ActivityLogEntry, error) {
	softwareID, err := validateActivity(req)
	if err != nil {
		return nil, err
	}

	entry, err := l.activity.InsertActivity(ctx, models.ActivityLogEntry{
		ID:          uuid.New(),
		SoftwareID:  softwareID,
		ActionType:  models.ActionType(req.ActionType),
		Description: req.Description,
		CreatedAt:   now(),
	})
	if err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}

	l.log.Info("activity appended",
		zap.String("software_id", softwareID.String()),
		zap.String("action_type", req.ActionType),
	)
	return entry, nil
}

// Recent returns at most limit entries across all projects, newest first,
// each carrying its project's name. A non-positive limit means the default.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	limit = validateLimit(limit, l.defaultLimit, l.maxLimit)

	entries, err := l.activity.RecentActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return entries, nil
}

// Package service holds the project-tracking rules: input validation, the
// cascading delete transaction, summary upserts and the read-time views.
// It depends only on the storage interfaces below; *database.DB and
// *sqlite.Store both satisfy Store.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devtrack/config"
	"devtrack/models"
)

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type softwareRepo interface {
	CreateSoftware(ctx context.Context, s models.Software) (*models.Software, error)
	ListSoftware(ctx context.Context) ([]models.Software, error)
	GetSoftware(ctx context.Context, id uuid.UUID) (*models.Software, error)
	DeleteSoftware(ctx context.Context, id uuid.UUID) error
}

type activityRepo interface {
	InsertActivity(ctx context.Context, e models.ActivityLogEntry) (*models.ActivityLogEntry, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityLogEntry, error)
	DeleteActivityForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error)
}

type commentRepo interface {
	InsertComment(ctx context.Context, c models.Comment) (*models.Comment, error)
	ListComments(ctx context.Context, softwareID uuid.UUID) ([]models.Comment, error)
	DeleteCommentsForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error)
}

type summaryRepo interface {
	GetSummary(ctx context.Context, softwareID uuid.UUID) (*models.Summary, error)
	UpsertSummary(ctx context.Context, s models.Summary) (*models.Summary, error)
	DeleteSummaryForSoftware(ctx context.Context, softwareID uuid.UUID) (int64, error)
}

// Store is the full storage gateway surface.
type Store interface {
	txRunner
	softwareRepo
	activityRepo
	commentRepo
	summaryRepo
	Ping(ctx context.Context) error
	Close() error
}

// Services bundles the four operation groups exposed to the transport.
type Services struct {
	Registry  *Registry
	Ledger    *Ledger
	Reviews   *Reviews
	Summaries *Summaries
}

// New wires every service onto one store.
func New(log *zap.Logger, store Store, activity config.ActivityConfig) *Services {
	return &Services{
		Registry:  NewRegistry(log, store, store, store, store, store),
		Ledger:    NewLedger(log, store, activity.RecentDefault, activity.RecentMax),
		Reviews:   NewReviews(log, store, store),
		Summaries: NewSummaries(log, store),
	}
}

// now returns the current time at the precision every store keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devtrack/config"
	"devtrack/database/sqlite"
	"devtrack/models"
)

var errInjected = errors.New("injected failure")

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "devtrack.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newServices(t *testing.T) (*Services, *sqlite.Store) {
	t.Helper()
	store := openStore(t)
	return New(zap.NewNop(), store, config.ActivityConfig{RecentDefault: 10, RecentMax: 1000}), store
}

func satoCMS() models.CreateSoftwareRequest {
	return models.CreateSoftwareRequest{
		Name:      "Sato CMS",
		Version:   "v1.0.0",
		Developer: "Ken",
		Stack:     "Next.js",
	}
}

// seed creates a project with one of each dependent record.
func seed(t *testing.T, svc *Services) *models.Software {
	t.Helper()
	ctx := context.Background()

	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)
	_, err = svc.Ledger.Append(ctx, models.AppendActivityRequest{
		SoftwareID: sw.ID.String(), ActionType: "added", Description: "registered",
	})
	require.NoError(t, err)
	_, err = svc.Reviews.Create(ctx, sw.ID.String(), models.CreateCommentRequest{Comment: "Looks good"})
	require.NoError(t, err)
	_, err = svc.Summaries.Upsert(ctx, sw.ID.String(), models.UpsertSummaryRequest{Summary: "Phase 1", NextSteps: "QA"})
	require.NoError(t, err)
	return sw
}

type dependents struct {
	software  bool
	activity  int
	comments  int
	summaries int
}

func countDependents(t *testing.T, store *sqlite.Store, id uuid.UUID) dependents {
	t.Helper()
	ctx := context.Background()
	var d dependents

	_, err := store.GetSoftware(ctx, id)
	if err == nil {
		d.software = true
	} else {
		require.ErrorIs(t, err, models.ErrNotFound)
	}

	entries, err := store.RecentActivity(ctx, 1000)
	require.NoError(t, err)
	for _, e := range entries {
		if e.SoftwareID == id {
			d.activity++
		}
	}

	comments, err := store.ListComments(ctx, id)
	require.NoError(t, err)
	d.comments = len(comments)

	_, err = store.GetSummary(ctx, id)
	if err == nil {
		d.summaries = 1
	} else {
		require.ErrorIs(t, err, models.ErrNotFound)
	}
	return d
}

func TestRegistry_CreateThenListPreservesFields(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	req := models.CreateSoftwareRequest{
		Name:        "  Sato CMS ",
		Version:     "v1.0.0",
		Developer:   "Ken",
		Stack:       "Next.js",
		Description: strPtr("headless"),
	}
	created, err := svc.Registry.Create(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	list, err := svc.Registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "  Sato CMS ", list[0].Name)
	assert.Equal(t, req.Version, list[0].Version)
	assert.Equal(t, req.Developer, list[0].Developer)
	assert.Equal(t, req.Stack, list[0].Stack)
	require.NotNil(t, list[0].Description)
	assert.Equal(t, "headless", *list[0].Description)
}

func TestRegistry_CreateRejectsMissingFields(t *testing.T) {
	svc, _ := newServices(t)

	_, err := svc.Registry.Create(context.Background(), models.CreateSoftwareRequest{Name: "x"})
	assert.ErrorIs(t, err, models.ErrValidation)

	list, err := svc.Registry.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegistry_DuplicateNamesAllowed(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	a, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)
	b, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRegistry_Get(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	created, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	got, err := svc.Registry.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = svc.Registry.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)

	for _, raw := range []string{"undefined", "abc", ""} {
		_, err = svc.Registry.Get(ctx, raw)
		assert.ErrorIs(t, err, models.ErrNotFound, "id %q", raw)
	}
}

func TestRegistry_DeleteCascades(t *testing.T) {
	svc, store := newServices(t)
	ctx := context.Background()

	sw := seed(t, svc)
	other := seed(t, svc)

	require.NoError(t, svc.Registry.Delete(ctx, sw.ID.String()))

	assert.Equal(t, dependents{}, countDependents(t, store, sw.ID))
	assert.Equal(t, dependents{software: true, activity: 1, comments: 1, summaries: 1},
		countDependents(t, store, other.ID), "other projects are untouched")
}

func TestRegistry_DeleteUnknownAndTwice(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	err := svc.Registry.Delete(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)

	sw := seed(t, svc)
	require.NoError(t, svc.Registry.Delete(ctx, sw.ID.String()))
	err = svc.Registry.Delete(ctx, sw.ID.String())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRegistry_DeleteMalformedIDIsNotFound(t *testing.T) {
	svc, _ := newServices(t)
	sw := seed(t, svc)

	for _, raw := range []string{"abc", "not-a-uuid", "undefined"} {
		err := svc.Registry.Delete(context.Background(), raw)
		assert.ErrorIs(t, err, models.ErrNotFound, "id %q", raw)
		assert.NotErrorIs(t, err, models.ErrValidation)
	}

	_, err := svc.Registry.Get(context.Background(), sw.ID.String())
	assert.NoError(t, err)
}

// The wrappers below run the real delete and then fail, so a missing
// rollback would be visible as lost rows.

type failingActivity struct{ activityRepo }

func (f failingActivity) DeleteActivityForSoftware(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := f.activityRepo.DeleteActivityForSoftware(ctx, id); err != nil {
		return 0, err
	}
	return 0, errInjected
}

type failingComments struct{ commentRepo }

func (f failingComments) DeleteCommentsForSoftware(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := f.commentRepo.DeleteCommentsForSoftware(ctx, id); err != nil {
		return 0, err
	}
	return 0, errInjected
}

type failingSummaries struct{ summaryRepo }

func (f failingSummaries) DeleteSummaryForSoftware(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := f.summaryRepo.DeleteSummaryForSoftware(ctx, id); err != nil {
		return 0, err
	}
	return 0, errInjected
}

type failingSoftware struct{ softwareRepo }

func (f failingSoftware) DeleteSoftware(ctx context.Context, id uuid.UUID) error {
	if err := f.softwareRepo.DeleteSoftware(ctx, id); err != nil {
		return err
	}
	return errInjected
}

func TestRegistry_DeleteRollsBackOnAnyFailure(t *testing.T) {
	tests := []struct {
		name  string
		build func(store *sqlite.Store) *Registry
	}{
		{"activity", func(s *sqlite.Store) *Registry {
			return NewRegistry(zap.NewNop(), s, s, failingActivity{s}, s, s)
		}},
		{"comments", func(s *sqlite.Store) *Registry {
			return NewRegistry(zap.NewNop(), s, s, s, failingComments{s}, s)
		}},
		{"summary", func(s *sqlite.Store) *Registry {
			return NewRegistry(zap.NewNop(), s, s, s, s, failingSummaries{s})
		}},
		{"software", func(s *sqlite.Store) *Registry {
			return NewRegistry(zap.NewNop(), s, failingSoftware{s}, s, s, s)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newServices(t)
			sw := seed(t, svc)

			err := tt.build(store).Delete(context.Background(), sw.ID.String())
			require.ErrorIs(t, err, errInjected)

			assert.Equal(t, dependents{software: true, activity: 1, comments: 1, summaries: 1},
				countDependents(t, store, sw.ID))
		})
	}
}

func TestLedger_Append(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	before := time.Now().Add(-time.Second)
	entry, err := svc.Ledger.Append(ctx, models.AppendActivityRequest{
		SoftwareID: sw.ID.String(), ActionType: "updated", Description: "v1.1.0 released",
	})
	require.NoError(t, err)
	assert.Equal(t, sw.ID, entry.SoftwareID)
	assert.Equal(t, models.ActionUpdated, entry.ActionType)
	assert.True(t, entry.CreatedAt.After(before))
}

func TestLedger_AppendRejectsInvalidInput(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.AppendActivityRequest
	}{
		{"unknown action", models.AppendActivityRequest{SoftwareID: sw.ID.String(), ActionType: "deleted", Description: "x"}},
		{"empty description", models.AppendActivityRequest{SoftwareID: sw.ID.String(), ActionType: "added"}},
		{"missing software id", models.AppendActivityRequest{ActionType: "added", Description: "x"}},
		{"sentinel software id", models.AppendActivityRequest{SoftwareID: "undefined", ActionType: "added", Description: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ledger.Append(ctx, tt.req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	entries, err := svc.Ledger.Recent(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected appends must not create entries")
}

func TestLedger_AppendUnknownSoftware(t *testing.T) {
	svc, _ := newServices(t)

	_, err := svc.Ledger.Append(context.Background(), models.AppendActivityRequest{
		SoftwareID: uuid.NewString(), ActionType: "added", Description: "x",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLedger_RecentBoundsAndOrder(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	for range 15 {
		_, err := svc.Ledger.Append(ctx, models.AppendActivityRequest{
			SoftwareID: sw.ID.String(), ActionType: "updated", Description: "tick",
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"default", 0, 10},
		{"negative", -1, 10},
		{"smaller", 3, 3},
		{"larger than available", 50, 15},
		{"above max", 5000, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := svc.Ledger.Recent(ctx, tt.limit)
			require.NoError(t, err)
			require.Len(t, entries, tt.expected)
			for i, e := range entries {
				require.NotNil(t, e.Software)
				assert.Equal(t, "Sato CMS", e.Software.Name)
				if i > 0 {
					assert.False(t, e.CreatedAt.After(entries[i-1].CreatedAt), "entries must be newest first")
				}
			}
		})
	}
}

func TestReviews_Create(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	anon, err := svc.Reviews.Create(ctx, sw.ID.String(), models.CreateCommentRequest{Comment: "Nice", Author: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAuthor, anon.Author)
	require.NotNil(t, anon.Software)
	assert.Equal(t, "Sato CMS", anon.Software.Name)

	named, err := svc.Reviews.Create(ctx, sw.ID.String(), models.CreateCommentRequest{Comment: "Ship it", Author: strPtr("Yuki")})
	require.NoError(t, err)
	assert.Equal(t, "Yuki", named.Author)
}

func TestReviews_CreateRejects(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	tests := []struct {
		name       string
		softwareID string
		comment    string
		target     error
	}{
		{"blank comment", sw.ID.String(), "   ", models.ErrValidation},
		{"sentinel id", "undefined", "hi", models.ErrValidation},
		{"empty id", "", "hi", models.ErrValidation},
		{"malformed id", "abc", "hi", models.ErrValidation},
		{"unknown software", uuid.NewString(), "hi", models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reviews.Create(ctx, tt.softwareID, models.CreateCommentRequest{Comment: tt.comment})
			assert.ErrorIs(t, err, tt.target)
		})
	}

	comments, err := svc.Reviews.ListForSoftware(ctx, sw.ID.String())
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestReviews_ListUnknownSoftwareIsEmpty(t *testing.T) {
	svc, _ := newServices(t)

	for _, raw := range []string{uuid.NewString(), "abc", "undefined"} {
		comments, err := svc.Reviews.ListForSoftware(context.Background(), raw)
		require.NoError(t, err, "id %q", raw)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	}
}

func TestReviews_CreateRejectsLongAuthor(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	_, err = svc.Reviews.Create(ctx, sw.ID.String(), models.CreateCommentRequest{
		Comment: "Nice", Author: strPtr(strings.Repeat("a", 300)),
	})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "author", vErr.Errors[0].Field)

	comments, err := svc.Reviews.ListForSoftware(ctx, sw.ID.String())
	require.NoError(t, err)
	assert.Empty(t, comments, "rejected comments must not be stored")

	comment, err := svc.Reviews.Create(ctx, sw.ID.String(), models.CreateCommentRequest{
		Comment: "Nice", Author: strPtr(strings.Repeat("a", 255)),
	})
	require.NoError(t, err)
	assert.Len(t, comment.Author, 255)
}

func TestSummaries_GetMalformedIDIsAbsent(t *testing.T) {
	svc, _ := newServices(t)

	for _, raw := range []string{"abc", "undefined", ""} {
		summary, found, err := svc.Summaries.Get(context.Background(), raw)
		require.NoError(t, err, "id %q", raw)
		assert.False(t, found)
		assert.Nil(t, summary)
	}
}

func TestSummaries_UpsertKeepsOneRow(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	_, found, err := svc.Summaries.Get(ctx, sw.ID.String())
	require.NoError(t, err)
	assert.False(t, found)

	first, err := svc.Summaries.Upsert(ctx, sw.ID.String(), models.UpsertSummaryRequest{
		Summary: "Phase 1", NextSteps: "QA", Deadline: strPtr("2025-03-31"),
	})
	require.NoError(t, err)

	second, err := svc.Summaries.Upsert(ctx, sw.ID.String(), models.UpsertSummaryRequest{
		Summary: "Phase 2", NextSteps: "Launch",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert must update the existing row")

	got, found, err := svc.Summaries.Get(ctx, sw.ID.String())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Phase 2", got.Summary)
	assert.Equal(t, "Launch", got.NextSteps)
	assert.Nil(t, got.Deadline)
}

func TestSummaries_ConcurrentUpserts(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Summaries.Upsert(ctx, sw.ID.String(), models.UpsertSummaryRequest{
				Summary: "writer", NextSteps: string(rune('a' + i)),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, found, err := svc.Summaries.Get(ctx, sw.ID.String())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "writer", got.Summary)
}

func TestSummaries_UpsertRejects(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.Summaries.Upsert(ctx, uuid.NewString(), models.UpsertSummaryRequest{Summary: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Summaries.Upsert(ctx, "undefined", models.UpsertSummaryRequest{Summary: "x"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Summaries.Upsert(ctx, "abc", models.UpsertSummaryRequest{Summary: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)
	_, err = svc.Summaries.Upsert(ctx, sw.ID.String(), models.UpsertSummaryRequest{Deadline: strPtr("tomorrow")})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSatoCMSScenario(t *testing.T) {
	svc, store := newServices(t)
	ctx := context.Background()

	sw, err := svc.Registry.Create(ctx, satoCMS())
	require.NoError(t, err)
	id := sw.ID.String()

	_, err = svc.Ledger.Append(ctx, models.AppendActivityRequest{SoftwareID: id, ActionType: "added", Description: "Sato CMS registered"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Ledger.Append(ctx, models.AppendActivityRequest{SoftwareID: id, ActionType: "updated", Description: "Bumped to v1.1.0"})
	require.NoError(t, err)

	comment, err := svc.Reviews.Create(ctx, id, models.CreateCommentRequest{Comment: "Editor feels fast"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", comment.Author)

	_, err = svc.Summaries.Upsert(ctx, id, models.UpsertSummaryRequest{Summary: "Beta", NextSteps: "Collect feedback", Deadline: strPtr("2025-06-30")})
	require.NoError(t, err)
	summary, err := svc.Summaries.Upsert(ctx, id, models.UpsertSummaryRequest{Summary: "GA", NextSteps: "Marketing", Deadline: strPtr("2025-09-30")})
	require.NoError(t, err)
	assert.Equal(t, "GA", summary.Summary)

	recent, err := svc.Ledger.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Bumped to v1.1.0", recent[0].Description)
	assert.Equal(t, "Sato CMS", recent[0].Software.Name)

	require.NoError(t, svc.Registry.Delete(ctx, id))
	assert.Equal(t, dependents{}, countDependents(t, store, sw.ID))

	_, found, err := svc.Summaries.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

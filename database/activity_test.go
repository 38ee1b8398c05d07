package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devtrack/models"
)

func newActivity(softwareID uuid.UUID, description string, at time.Time) models.ActivityLogEntry {
	return models.ActivityLogEntry{
		ID:          uuid.New(),
		SoftwareID:  softwareID,
		ActionType:  models.ActionAdded,
		Description: description,
		CreatedAt:   at.UTC().Truncate(time.Millisecond),
	}
}

func TestInsertActivity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	software := createSoftware(t, db, "Sato CMS")

	input := newActivity(software.ID, "Initial import", time.Now())
	entry, err := db.InsertActivity(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, input.ID, entry.ID)
	assert.Equal(t, software.ID, entry.SoftwareID)
	assert.Equal(t, models.ActionAdded, entry.ActionType)
	assert.Equal(t, "Initial import", entry.Description)
	assert.True(t, input.CreatedAt.Equal(entry.CreatedAt))
}

func TestInsertActivity_UnknownSoftware(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	_, err := db.InsertActivity(context.Background(), newActivity(uuid.New(), "orphan", time.Now()))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecentActivity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	first := createSoftware(t, db, "Project 1")
	second := createSoftware(t, db, "Project 2")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		owner := first.ID
		if i%2 == 1 {
			owner = second.ID
		}
		_, err := db.InsertActivity(ctx, newActivity(owner, "change", base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "limit below total", limit: 10, want: 10},
		{name: "limit equals total", limit: 15, want: 15},
		{name: "limit above total", limit: 100, want: 15},
		{name: "limit one", limit: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := db.RecentActivity(ctx, tt.limit)
			require.NoError(t, err)
			require.Len(t, entries, tt.want)

			for i := 1; i < len(entries); i++ {
				assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt),
					"entries must be newest first")
			}
			for _, e := range entries {
				require.NotNil(t, e.Software)
				if e.SoftwareID == first.ID {
					assert.Equal(t, "Project 1", e.Software.Name)
				} else {
					assert.Equal(t, "Project 2", e.Software.Name)
				}
			}
		})
	}
}

func TestDeleteActivityForSoftware(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	keep := createSoftware(t, db, "Keep")
	drop := createSoftware(t, db, "Drop")

	for _, id := range []uuid.UUID{keep.ID, drop.ID, drop.ID} {
		_, err := db.InsertActivity(ctx, newActivity(id, "change", time.Now()))
		require.NoError(t, err)
	}

	n, err := db.DeleteActivityForSoftware(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := db.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].SoftwareID)
}

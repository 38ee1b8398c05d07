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

func newComment(softwareID uuid.UUID, text string, at time.Time) models.Comment {
	return models.Comment{
		ID:         uuid.New(),
		SoftwareID: softwareID,
		Comment:    text,
		Author:     models.DefaultAuthor,
		CreatedAt:  at.UTC().Truncate(time.Millisecond),
	}
}

func TestInsertComment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	software := createSoftware(t, db, "Sato CMS")

	input := newComment(software.ID, "Looks great", time.Now())
	input.Author = "Yuki"

	comment, err := db.InsertComment(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, input.ID, comment.ID)
	assert.Equal(t, "Looks great", comment.Comment)
	assert.Equal(t, "Yuki", comment.Author)
}

func TestInsertComment_UnknownSoftware(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	_, err := db.InsertComment(context.Background(), newComment(uuid.New(), "orphan", time.Now()))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListComments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	software := createSoftware(t, db, "Sato CMS")
	other := createSoftware(t, db, "Other")

	comments, err := db.ListComments(ctx, software.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	base := time.Now().Add(-time.Minute)
	for i, text := range []string{"oldest", "middle", "newest"} {
		_, err := db.InsertComment(ctx, newComment(software.ID, text, base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}
	_, err = db.InsertComment(ctx, newComment(other.ID, "elsewhere", time.Now()))
	require.NoError(t, err)

	comments, err = db.ListComments(ctx, software.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "newest", comments[0].Comment)
	assert.Equal(t, "middle", comments[1].Comment)
	assert.Equal(t, "oldest", comments[2].Comment)
	for _, c := range comments {
		require.NotNil(t, c.Software)
		assert.Equal(t, "Sato CMS", c.Software.Name)
	}
}

package repository

import (
	"context"
	"testing"
	"time"

	"tidepool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledPostListDue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduledPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	now := time.Now().UTC()

	past := models.ScheduledPost{Title: "past", Content: "c", UserID: alice.ID, CreatedAt: now.Add(-time.Hour)}
	exact := models.ScheduledPost{Title: "exact", Content: "c", UserID: alice.ID, CreatedAt: now}
	future := models.ScheduledPost{Title: "future", Content: "c", UserID: alice.ID, CreatedAt: now.Add(time.Hour)}
	require.NoError(t, db.Create(&past).Error)
	require.NoError(t, db.Create(&exact).Error)
	require.NoError(t, db.Create(&future).Error)

	due, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2, "a due time equal to now counts as due")
	assert.Equal(t, "past", due[0].Title)
	assert.Equal(t, "exact", due[1].Title)
}

func TestScheduledPostPromote(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduledPostRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	tag := models.Hashtag{Name: "#launch"}
	require.NoError(t, db.Create(&tag).Error)

	dueAt := time.Now().UTC().Add(-10 * time.Minute).Truncate(time.Second)
	sp := models.ScheduledPost{
		Title:     "announcement",
		Content:   "it is done",
		ImageURL:  "posts/banner.png",
		UserID:    alice.ID,
		CreatedAt: dueAt,
		Hashtags:  []models.Hashtag{tag},
	}
	require.NoError(t, db.Create(&sp).Error)

	loaded, err := repo.GetByID(ctx, sp.ID)
	require.NoError(t, err)

	post, err := repo.Promote(ctx, loaded)
	require.NoError(t, err)

	// Promoted post carries the scheduled row's content and timestamp.
	got, err := postRepo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "announcement", got.Title)
	assert.Equal(t, "it is done", got.Content)
	assert.Equal(t, "posts/banner.png", got.ImageURL)
	assert.Equal(t, alice.ID, got.UserID)
	assert.WithinDuration(t, dueAt, got.CreatedAt, time.Second)
	require.Len(t, got.Hashtags, 1)
	assert.Equal(t, "#launch", got.Hashtags[0].Name)

	// The scheduled row and its join rows are gone, the hashtag survives.
	_, err = repo.GetByID(ctx, sp.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	var joins, tags int64
	db.Table("scheduled_post_hashtags").Where("scheduled_post_id = ?", sp.ID).Count(&joins)
	db.Model(&models.Hashtag{}).Count(&tags)
	assert.Zero(t, joins)
	assert.Equal(t, int64(1), tags)
}

func TestScheduledPostCallerScopedListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduledPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	mine := models.ScheduledPost{Title: "mine", Content: "c", UserID: alice.ID, CreatedAt: time.Now().UTC()}
	theirs := models.ScheduledPost{Title: "theirs", Content: "c", UserID: bob.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)

	posts, err := repo.ListByAuthor(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Title)
}

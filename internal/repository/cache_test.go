package repository

import (
	"context"
	"testing"
	"time"

	"tidepool/internal/cache"
	"tidepool/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestPostReadCaching(t *testing.T) {
	db := setupTestDB(t)
	mr := setupCacheRedis(t)
	repo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "tideline")
	key := cache.PostKey(post.ID)

	t.Run("Viewer-less read populates the cache", func(t *testing.T) {
		got, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "tideline", got.Title)
		assert.True(t, mr.Exists(key))
	})

	t.Run("Repeat read is served from the cache", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
			Update("title", "renamed behind the cache").Error)

		got, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "tideline", got.Title)
	})

	t.Run("Like invalidates the cached post", func(t *testing.T) {
		require.NoError(t, repo.Like(ctx, alice.ID, post.ID))
		assert.False(t, mr.Exists(key))

		got, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, got.LikesCount)
	})

	t.Run("Viewer-scoped read bypasses the cache", func(t *testing.T) {
		cache.InvalidatePost(ctx, post.ID)

		got, err := repo.GetByID(ctx, post.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.Liked)
		assert.False(t, mr.Exists(key), "liked flags must never be shared between viewers")
	})

	t.Run("Comment writes invalidate the cached post", func(t *testing.T) {
		_, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		require.True(t, mr.Exists(key))

		comment := &models.Comment{UserID: alice.ID, PostID: post.ID, Content: "first"}
		require.NoError(t, commentRepo.Create(ctx, comment))
		assert.False(t, mr.Exists(key))

		got, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CommentsCount)
		require.True(t, mr.Exists(key))

		require.NoError(t, commentRepo.Delete(ctx, comment.ID))
		assert.False(t, mr.Exists(key))
	})
}

func TestPromoteInvalidatesAuthorProfile(t *testing.T) {
	db := setupTestDB(t)
	mr := setupCacheRedis(t)
	userRepo := NewUserRepository(db)
	repo := NewScheduledPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	before, err := userRepo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, before.PostsCount)
	require.True(t, mr.Exists(cache.UserKey(alice.ID)))

	sp := models.ScheduledPost{
		Title:     "queued",
		Content:   "c",
		UserID:    alice.ID,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&sp).Error)

	_, err = repo.Promote(ctx, &sp)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.UserKey(alice.ID)))

	after, err := userRepo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.PostsCount)
}

package repository

import (
	"context"
	"testing"

	"tidepool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostVisibility(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	alicePost := createTestPost(t, db, alice.ID, "alice post")
	bobPost := createTestPost(t, db, bob.ID, "bob post")
	createTestPost(t, db, carol.ID, "carol post")

	require.NoError(t, followRepo.Follow(ctx, alice.ID, bob.ID))

	t.Run("Viewer sees own and followed authors only", func(t *testing.T) {
		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)

		ids := []uint{posts[0].ID, posts[1].ID}
		assert.Contains(t, ids, alicePost.ID)
		assert.Contains(t, ids, bobPost.ID)
	})

	t.Run("Non-follower sees only their own posts", func(t *testing.T) {
		posts, err := postRepo.ListVisible(ctx, carol.ID, PostFilters{}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, carol.ID, posts[0].UserID)
	})

	t.Run("Author scope me", func(t *testing.T) {
		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{AuthorScope: AuthorScopeMe}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, alicePost.ID, posts[0].ID)
	})

	t.Run("Author scope followings", func(t *testing.T) {
		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{AuthorScope: AuthorScopeFollowings}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, bobPost.ID, posts[0].ID)
	})

	t.Run("Title filter narrows but never widens", func(t *testing.T) {
		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{Title: "CAROL"}, 50, 0)
		require.NoError(t, err)
		assert.Empty(t, posts, "a title match outside the visible set must stay hidden")

		posts, err = postRepo.ListVisible(ctx, alice.ID, PostFilters{Title: "BOB"}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, bobPost.ID, posts[0].ID)
	})

	t.Run("Hashtag filter", func(t *testing.T) {
		tag := models.Hashtag{Name: "#golang"}
		require.NoError(t, db.Create(&tag).Error)
		require.NoError(t, db.Model(bobPost).Association("Hashtags").Append(&tag))

		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{Hashtag: "golang"}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, bobPost.ID, posts[0].ID)
	})

	t.Run("Liked filter and annotation", func(t *testing.T) {
		require.NoError(t, postRepo.Like(ctx, alice.ID, bobPost.ID))

		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{LikedOnly: true}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, bobPost.ID, posts[0].ID)
		assert.True(t, posts[0].Liked)
		assert.Equal(t, 1, posts[0].LikesCount)

		// The same post is not annotated as liked for another viewer.
		got, err := postRepo.GetByID(ctx, bobPost.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, got.Liked)
		assert.Equal(t, 1, got.LikesCount)
	})

	t.Run("Listing is in creation order", func(t *testing.T) {
		posts, err := postRepo.ListVisible(ctx, alice.ID, PostFilters{}, 50, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.True(t, posts[0].ID < posts[1].ID)
	})
}

func TestPostLikeToggleParity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "self like is fine")

	// like, like again (idempotent insert), unlike, unlike again
	require.NoError(t, repo.Like(ctx, alice.ID, post.ID))
	require.NoError(t, repo.Like(ctx, alice.ID, post.ID))

	liked, err := repo.IsLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var count int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(1), count, "duplicate like insert must not create a second row")

	require.NoError(t, repo.Unlike(ctx, alice.ID, post.ID))
	require.NoError(t, repo.Unlike(ctx, alice.ID, post.ID))

	liked, err = repo.IsLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestPostGetDetail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "with comments")

	first := models.Comment{UserID: bob.ID, PostID: post.ID, Content: "first"}
	second := models.Comment{UserID: alice.ID, PostID: post.ID, Content: "second"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	got, err := repo.GetDetail(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User.Username)
	assert.Equal(t, 2, got.CommentsCount)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Content)
	assert.Equal(t, "bob", got.Comments[0].User.Username)

	// Detail retrieval has no follow requirement: bob does not follow alice.
	_, err = repo.GetDetail(ctx, 9999, bob.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "doomed")

	tag := models.Hashtag{Name: "#keepme"}
	require.NoError(t, db.Create(&tag).Error)
	require.NoError(t, db.Model(post).Association("Hashtags").Append(&tag))
	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))
	require.NoError(t, db.Create(&models.Comment{UserID: bob.ID, PostID: post.ID, Content: "hi"}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var likes, comments, joins, tags int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.Table("post_hashtags").Where("post_id = ?", post.ID).Count(&joins)
	db.Model(&models.Hashtag{}).Count(&tags)

	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Zero(t, joins)
	assert.Equal(t, int64(1), tags, "hashtags are shared and must survive")

	_, err := repo.GetByID(ctx, post.ID, 0)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

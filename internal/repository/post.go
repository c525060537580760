// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"tidepool/internal/cache"
	"tidepool/internal/models"

	"gorm.io/gorm"
)

// PostFilters narrow a visibility-filtered listing. Zero values mean
// "no filter".
type PostFilters struct {
	Hashtag     string // substring match on hashtag name
	Title       string // substring match on title
	AuthorScope string // "", AuthorScopeMe or AuthorScopeFollowings
	LikedOnly   bool   // only posts the viewer liked
}

// Author scope values accepted by ListVisible.
const (
	AuthorScopeMe         = "me"
	AuthorScopeFollowings = "followings"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	GetDetail(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	ListVisible(ctx context.Context, viewerID uint, f PostFilters, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	ReplaceHashtags(ctx context.Context, post *models.Post, tags []models.Hashtag) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	// The author's cached profile embeds posts_count.
	cache.InvalidateUser(ctx, post.UserID)
	return nil
}

// applyPostDetails adds subqueries fetching counts and the viewer's liked
// status in a single query, so listing needs no per-row lookups.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked", viewerID)
	}
	return db.Select(selectQuery + ", 1 = 0 AS liked")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	fetch := func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
			Preload("User").
			Preload("Hashtags").
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Viewer-scoped reads carry the viewer's liked flag and cannot be shared.
	if viewerID != 0 {
		if err := fetch(); err != nil {
			return nil, err
		}
		return &post, nil
	}

	if err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetDetail is GetByID plus the comment list, for single-post retrieval.
// It deliberately applies no visibility restriction beyond existence.
func (r *postRepository) GetDetail(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("User").
		Preload("Hashtags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListVisible returns, in creation order, the posts the viewer may see:
// their own and those of authors they follow. Filters narrow that set but
// never widen it.
func (r *postRepository) ListVisible(ctx context.Context, viewerID uint, f PostFilters, limit, offset int) ([]*models.Post, error) {
	q := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("User").
		Preload("Hashtags").
		Where("posts.user_id = ? OR posts.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)",
			viewerID, viewerID)

	switch f.AuthorScope {
	case AuthorScopeMe:
		q = q.Where("posts.user_id = ?", viewerID)
	case AuthorScopeFollowings:
		q = q.Where("posts.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)", viewerID)
	}

	if f.Hashtag != "" {
		q = q.Where("EXISTS(SELECT 1 FROM post_hashtags ph JOIN hashtags h ON h.id = ph.hashtag_id"+
			" WHERE ph.post_id = posts.id AND LOWER(h.name) LIKE LOWER(?))", "%"+f.Hashtag+"%")
	}
	if f.Title != "" {
		q = q.Where("LOWER(posts.title) LIKE LOWER(?)", "%"+f.Title+"%")
	}
	if f.LikedOnly {
		q = q.Where("EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?)", viewerID)
	}

	var posts []*models.Post
	err := q.Order("posts.created_at ASC, posts.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Updates(map[string]any{
			"title":     post.Title,
			"content":   post.Content,
			"image_url": post.ImageURL,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// ReplaceHashtags swaps the post's hashtag associations for the given set.
func (r *postRepository) ReplaceHashtags(ctx context.Context, post *models.Post, tags []models.Hashtag) error {
	assoc := make([]interface{}, len(tags))
	for i := range tags {
		assoc[i] = &tags[i]
	}
	if err := r.db.WithContext(ctx).Model(post).Association("Hashtags").Replace(assoc...); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post together with its comments, likes and hashtag
// join rows in one transaction. The hashtags themselves survive.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var authorIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("id = ?", id).
			Pluck("user_id", &authorIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM comments WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM likes WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_hashtags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	for _, authorID := range authorIDs {
		cache.InvalidateUser(ctx, authorID)
	}
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like inserts the row with ON CONFLICT DO NOTHING so two concurrent
// toggles can never produce duplicate likes; the unique index serializes
// them.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID, time.Now().UTC(),
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

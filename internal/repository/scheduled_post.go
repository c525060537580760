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

// ScheduledPostRepository defines persistence operations for scheduled posts,
// including their promotion into live posts.
type ScheduledPostRepository interface {
	Create(ctx context.Context, sp *models.ScheduledPost) error
	GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error)
	ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.ScheduledPost, error)
	Update(ctx context.Context, sp *models.ScheduledPost) error
	ReplaceHashtags(ctx context.Context, sp *models.ScheduledPost, tags []models.Hashtag) error
	Delete(ctx context.Context, id uint) error
	ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	Promote(ctx context.Context, sp *models.ScheduledPost) (*models.Post, error)
}

type scheduledPostRepository struct {
	db *gorm.DB
}

// NewScheduledPostRepository returns a new ScheduledPostRepository implementation.
func NewScheduledPostRepository(db *gorm.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, sp *models.ScheduledPost) error {
	if err := r.db.WithContext(ctx).Create(sp).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error) {
	var sp models.ScheduledPost
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Hashtags").
		First(&sp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Scheduled post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &sp, nil
}

func (r *scheduledPostRepository) ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.ScheduledPost, error) {
	var posts []*models.ScheduledPost
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *scheduledPostRepository) Update(ctx context.Context, sp *models.ScheduledPost) error {
	err := r.db.WithContext(ctx).
		Model(sp).
		Updates(map[string]any{
			"title":      sp.Title,
			"content":    sp.Content,
			"image_url":  sp.ImageURL,
			"created_at": sp.CreatedAt,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ReplaceHashtags swaps the scheduled post's hashtag associations.
func (r *scheduledPostRepository) ReplaceHashtags(ctx context.Context, sp *models.ScheduledPost, tags []models.Hashtag) error {
	assoc := make([]interface{}, len(tags))
	for i := range tags {
		assoc[i] = &tags[i]
	}
	if err := r.db.WithContext(ctx).Model(sp).Association("Hashtags").Replace(assoc...); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *scheduledPostRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM scheduled_post_hashtags WHERE scheduled_post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ScheduledPost{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListDue returns scheduled posts whose due time is at or before now,
// hashtags preloaded so promotion can copy them.
func (r *scheduledPostRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	var due []*models.ScheduledPost
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Where("created_at <= ?", now).
		Order("created_at ASC, id ASC").
		Find(&due).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return due, nil
}

// Promote converts one due scheduled post into an equivalent live post.
// Creating the post, copying the hashtag associations and deleting the
// scheduled row happen in a single transaction: a crash mid-batch leaves
// every row either fully promoted or untouched.
func (r *scheduledPostRepository) Promote(ctx context.Context, sp *models.ScheduledPost) (*models.Post, error) {
	var post *models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := &models.Post{
			Title:     sp.Title,
			Content:   sp.Content,
			ImageURL:  sp.ImageURL,
			UserID:    sp.UserID,
			CreatedAt: sp.CreatedAt,
			Hashtags:  sp.Hashtags,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM scheduled_post_hashtags WHERE scheduled_post_id = ?", sp.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ScheduledPost{}, sp.ID).Error; err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	// The author's cached profile embeds posts_count.
	cache.InvalidateUser(ctx, sp.UserID)
	return post, nil
}

// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"tidepool/internal/models"

	"gorm.io/gorm"
)

// HashtagRepository defines persistence operations for hashtags.
type HashtagRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Hashtag, error)
	GetOrCreateAll(ctx context.Context, names []string) ([]models.Hashtag, error)
	GetByID(ctx context.Context, id uint) (*models.Hashtag, error)
	List(ctx context.Context, limit, offset int) ([]models.Hashtag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository returns a new HashtagRepository implementation.
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// GetOrCreate resolves a tag by its normalized name, creating it if absent.
func (r *hashtagRepository) GetOrCreate(ctx context.Context, name string) (*models.Hashtag, error) {
	name = models.NormalizeHashtag(name)
	if name == "" || name == "#" {
		return nil, models.NewValidationError("Hashtag name is required")
	}

	var tag models.Hashtag
	err := r.db.WithContext(ctx).
		Where(models.Hashtag{Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		// A concurrent create can win the race; re-read by name.
		if isUniqueConstraintError(err) {
			if ferr := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; ferr == nil {
				return &tag, nil
			}
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

func (r *hashtagRepository) GetOrCreateAll(ctx context.Context, names []string) ([]models.Hashtag, error) {
	tags := make([]models.Hashtag, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		normalized := models.NormalizeHashtag(name)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		tag, err := r.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (r *hashtagRepository) GetByID(ctx context.Context, id uint) (*models.Hashtag, error) {
	var tag models.Hashtag
	err := r.db.WithContext(ctx).
		Preload("Posts").
		Preload("Posts.User").
		First(&tag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Hashtag", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

func (r *hashtagRepository) List(ctx context.Context, limit, offset int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

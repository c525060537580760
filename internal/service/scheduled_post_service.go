package service

import (
	"context"
	"time"

	"tidepool/internal/models"
	"tidepool/internal/repository"
)

// ScheduledPostService covers caller-scoped CRUD on scheduled posts.
// Promotion of due rows lives in the scheduler package.
type ScheduledPostService struct {
	scheduledRepo repository.ScheduledPostRepository
	hashtagRepo   repository.HashtagRepository
}

// CreateScheduledPostInput carries a scheduled-post creation request.
// DueAt becomes the row's created_at and, later, the promoted post's
// creation timestamp.
type CreateScheduledPostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
	Hashtags []string
	DueAt    time.Time
}

// UpdateScheduledPostInput carries a pre-promotion edit by the author.
type UpdateScheduledPostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
	Hashtags []string
	DueAt    time.Time
}

// NewScheduledPostService creates a new ScheduledPostService.
func NewScheduledPostService(scheduledRepo repository.ScheduledPostRepository, hashtagRepo repository.HashtagRepository) *ScheduledPostService {
	return &ScheduledPostService{scheduledRepo: scheduledRepo, hashtagRepo: hashtagRepo}
}

func (s *ScheduledPostService) Create(ctx context.Context, in CreateScheduledPostInput) (*models.ScheduledPost, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.DueAt.IsZero() {
		return nil, models.NewValidationError("Due time is required")
	}

	tags, err := s.hashtagRepo.GetOrCreateAll(ctx, in.Hashtags)
	if err != nil {
		return nil, err
	}

	sp := &models.ScheduledPost{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		UserID:    in.UserID,
		CreatedAt: in.DueAt,
		Hashtags:  tags,
	}
	if err := s.scheduledRepo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return s.scheduledRepo.GetByID(ctx, sp.ID)
}

// List returns the caller's own scheduled posts; nobody else's are visible.
func (s *ScheduledPostService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.ScheduledPost, error) {
	return s.scheduledRepo.ListByAuthor(ctx, userID, limit, offset)
}

// Get fetches one scheduled post, caller-scoped.
func (s *ScheduledPostService) Get(ctx context.Context, userID, id uint) (*models.ScheduledPost, error) {
	sp, err := s.scheduledRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp.UserID != userID {
		return nil, models.NewForbiddenError("You can only access your own scheduled posts")
	}
	return sp, nil
}

func (s *ScheduledPostService) Update(ctx context.Context, in UpdateScheduledPostInput) (*models.ScheduledPost, error) {
	sp, err := s.scheduledRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if sp.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own scheduled posts")
	}

	if in.Title != "" {
		sp.Title = in.Title
	}
	if in.Content != "" {
		sp.Content = in.Content
	}
	if in.ImageURL != "" {
		sp.ImageURL = in.ImageURL
	}
	if !in.DueAt.IsZero() {
		sp.CreatedAt = in.DueAt
	}

	if err := s.scheduledRepo.Update(ctx, sp); err != nil {
		return nil, err
	}

	if in.Hashtags != nil {
		tags, err := s.hashtagRepo.GetOrCreateAll(ctx, in.Hashtags)
		if err != nil {
			return nil, err
		}
		if err := s.scheduledRepo.ReplaceHashtags(ctx, sp, tags); err != nil {
			return nil, err
		}
	}

	return s.scheduledRepo.GetByID(ctx, in.PostID)
}

func (s *ScheduledPostService) Delete(ctx context.Context, userID, id uint) error {
	sp, err := s.scheduledRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sp.UserID != userID {
		return models.NewForbiddenError("You can only delete your own scheduled posts")
	}
	return s.scheduledRepo.Delete(ctx, id)
}

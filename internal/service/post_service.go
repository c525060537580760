package service

import (
	"context"
	"time"

	"tidepool/internal/models"
	"tidepool/internal/observability"
	"tidepool/internal/repository"
)

// Like toggle outcomes.
const (
	OutcomeLiked   = "liked"
	OutcomeUnliked = "unliked"
)

// PostService covers post CRUD, the visibility-filtered listing and the
// like toggle.
type PostService struct {
	postRepo    repository.PostRepository
	hashtagRepo repository.HashtagRepository
}

// CreatePostInput carries a post creation request. The author is always the
// acting identity; a client-supplied author is never honored.
type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
	Hashtags []string
	// CreatedAt overrides the creation timestamp when non-zero.
	CreatedAt time.Time
}

// ListPostsInput selects the viewer's slice of the feed.
type ListPostsInput struct {
	ViewerID uint
	Filters  repository.PostFilters
	Limit    int
	Offset   int
}

// UpdatePostInput carries a post update. Empty Title/Content/ImageURL leave
// the field untouched; a nil Hashtags slice keeps the current tags.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
	Hashtags []string
}

const (
	maxTitleLen   = 255
	maxContentLen = 50000
)

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository, hashtagRepo repository.HashtagRepository) *PostService {
	return &PostService{postRepo: postRepo, hashtagRepo: hashtagRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	tags, err := s.hashtagRepo.GetOrCreateAll(ctx, in.Hashtags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		UserID:    in.UserID,
		CreatedAt: in.CreatedAt,
		Hashtags:  tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListPosts returns the posts the viewer may see, liked annotation included.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.ListVisible(ctx, in.ViewerID, in.Filters, in.Limit, in.Offset)
}

// GetPost fetches one post with comments, hashtags and like count.
func (s *PostService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetDetail(ctx, id, viewerID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 255 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if in.Hashtags != nil {
		tags, err := s.hashtagRepo.GetOrCreateAll(ctx, in.Hashtags)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceHashtags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike removes the like if present and creates it otherwise.
// Self-like is not blocked.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (string, *models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return "", nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return "", nil, err
	}

	outcome := OutcomeLiked
	if liked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return "", nil, err
		}
		outcome = OutcomeUnliked
	} else if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return "", nil, err
	}
	observability.LikeToggles.WithLabelValues(outcome).Inc()

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return "", nil, err
	}
	return outcome, post, nil
}

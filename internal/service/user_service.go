// Package service implements the application's business rules on top of the
// repository layer. Every operation takes the acting identity explicitly;
// there is no ambient "current user".
package service

import (
	"context"

	"tidepool/internal/models"
	"tidepool/internal/observability"
	"tidepool/internal/repository"
	"tidepool/internal/validation"
)

// Follow toggle outcomes.
const (
	OutcomeFollowed   = "followed"
	OutcomeUnfollowed = "unfollowed"
)

// UserService covers profile management and the follow graph.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// RegisterInput carries a signup request. Password must already be hashed.
type RegisterInput struct {
	Email        string
	Username     string
	PasswordHash string
}

// UpdateProfileInput carries a profile update. Empty fields are left
// untouched; PasswordHash, when set, must already be hashed.
type UpdateProfileInput struct {
	UserID       uint
	Username     string
	Email        string
	Bio          *string
	ImageURL     *string
	PasswordHash string
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// Register creates a new account. Duplicate email/username and malformed
// input surface as validation errors.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Email already taken")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: in.PasswordHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile fetches one user.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ListUsers lists users, optionally filtered by a username substring.
func (s *UserService) ListUsers(ctx context.Context, usernameFilter string, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, usernameFilter, limit, offset)
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != user.ID {
			return nil, models.NewValidationError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != user.ID {
			return nil, models.NewValidationError("Email already taken")
		}
		user.Email = in.Email
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.ImageURL != nil {
		user.ImageURL = *in.ImageURL
	}
	if in.PasswordHash != "" {
		user.Password = in.PasswordHash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the caller's account and everything it owns.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// Followers lists the users following the given user.
func (s *UserService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.Followers(ctx, userID)
}

// Followings lists the users the given user follows.
func (s *UserService) Followings(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.Followings(ctx, userID)
}

// ToggleFollow removes the follow edge if present and creates it otherwise.
// Applied twice it restores the original graph. Self-follow is not blocked.
func (s *UserService) ToggleFollow(ctx context.Context, viewerID, targetID uint) (string, *models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return "", nil, err
	}

	following, err := s.followRepo.IsFollowing(ctx, viewerID, targetID)
	if err != nil {
		return "", nil, err
	}

	outcome := OutcomeFollowed
	if following {
		if err := s.followRepo.Unfollow(ctx, viewerID, targetID); err != nil {
			return "", nil, err
		}
		outcome = OutcomeUnfollowed
	} else {
		if err := s.followRepo.Follow(ctx, viewerID, targetID); err != nil {
			return "", nil, err
		}
	}
	observability.FollowToggles.WithLabelValues(outcome).Inc()

	// Re-read so the returned profile carries post-toggle counts.
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", nil, err
	}
	return outcome, target, nil
}

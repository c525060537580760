package server

import (
	"time"

	"tidepool/internal/models"
)

// UserSummary is the list-shaped view of a user: public profile plus
// aggregate counts, without the email address.
type UserSummary struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	ImageURL        string `json:"image_url"`
	PostsCount      int    `json:"posts_count"`
	FollowersCount  int    `json:"followers_count"`
	FollowingsCount int    `json:"followings_count"`
}

// UserProfile is the detail-shaped view of a user, returned for the
// caller's own profile and single-user lookups.
type UserProfile struct {
	ID              uint      `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Bio             string    `json:"bio"`
	ImageURL        string    `json:"image_url"`
	PostsCount      int       `json:"posts_count"`
	FollowersCount  int       `json:"followers_count"`
	FollowingsCount int       `json:"followings_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func toUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		Bio:             u.Bio,
		ImageURL:        u.ImageURL,
		PostsCount:      u.PostsCount,
		FollowersCount:  u.FollowersCount,
		FollowingsCount: u.FollowingsCount,
	}
}

func toUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, toUserSummary(&users[i]))
	}
	return out
}

func toUserProfile(u *models.User) UserProfile {
	return UserProfile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Bio:             u.Bio,
		ImageURL:        u.ImageURL,
		PostsCount:      u.PostsCount,
		FollowersCount:  u.FollowersCount,
		FollowingsCount: u.FollowingsCount,
		CreatedAt:       u.CreatedAt,
	}
}

package service

import (
	"context"
	"testing"

	"tidepool/internal/models"
	"tidepool/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testRepos struct {
	db        *gorm.DB
	users     repository.UserRepository
	follows   repository.FollowRepository
	posts     repository.PostRepository
	hashtags  repository.HashtagRepository
	comments  repository.CommentRepository
	scheduled repository.ScheduledPostRepository
}

func setupTestRepos(t *testing.T) testRepos {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Hashtag{},
		&models.Post{},
		&models.ScheduledPost{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return testRepos{
		db:        db,
		users:     repository.NewUserRepository(db),
		follows:   repository.NewFollowRepository(db),
		posts:     repository.NewPostRepository(db),
		hashtags:  repository.NewHashtagRepository(db),
		comments:  repository.NewCommentRepository(db),
		scheduled: repository.NewScheduledPostRepository(db),
	}
}

func registerTestUser(t *testing.T, svc *UserService, username string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hashed",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

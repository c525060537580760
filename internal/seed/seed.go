// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"tidepool/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumPosts     int
	NumScheduled int
	ShouldClean  bool
}

// seededPassword is the password every seeded account gets, for manual testing.
const seededPassword = "password123"

var hashtagPool = []string{
	"#golang", "#coffee", "#travel", "#music", "#books", "#fitness",
	"#photography", "#food", "#gaming", "#art", "#science", "#movies",
	"#nature", "#tech", "#running",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("seeding database with %d users and %d posts", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	hashtags, err := createHashtags(db)
	if err != nil {
		return fmt.Errorf("failed to create hashtags: %w", err)
	}

	posts, err := createPosts(db, users, hashtags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createScheduledPosts(db, users, hashtags, opts.NumScheduled); err != nil {
		return fmt.Errorf("failed to create scheduled posts: %w", err)
	}

	if err := createFollows(db, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Reverse dependency order so foreign keys never dangle.
	tables := []string{
		"likes", "comments", "post_hashtags", "scheduled_post_hashtags",
		"posts", "scheduled_posts", "hashtags", "follows", "users",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seededPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hashed),
			Bio:      gofakeit.Sentence(8),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createHashtags(db *gorm.DB) ([]models.Hashtag, error) {
	tags := make([]models.Hashtag, 0, len(hashtagPool))
	for _, name := range hashtagPool {
		tag := models.Hashtag{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func pickHashtags(tags []models.Hashtag) []models.Hashtag {
	n := rand.Intn(4)
	picked := make([]models.Hashtag, 0, n)
	for _, i := range rand.Perm(len(tags))[:n] {
		picked = append(picked, tags[i])
	}
	return picked
}

func createPosts(db *gorm.DB, users []models.User, tags []models.Hashtag, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			UserID:    author.ID,
			Hashtags:  pickHashtags(tags),
			CreatedAt: time.Now().UTC().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		if rand.Intn(4) == 0 {
			post.ImageURL = fmt.Sprintf("posts/%s.jpg", gofakeit.UUID())
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createScheduledPosts(db *gorm.DB, users []models.User, tags []models.Hashtag, n int) error {
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		sp := models.ScheduledPost{
			Title:    gofakeit.Sentence(5),
			Content:  gofakeit.Paragraph(1, 2, 8, "\n"),
			UserID:   author.ID,
			Hashtags: pickHashtags(tags),
			// Due sometime within the next week.
			CreatedAt: time.Now().UTC().Add(time.Duration(rand.Intn(7*24)) * time.Hour),
		}
		if err := db.Create(&sp).Error; err != nil {
			return err
		}
	}
	return nil
}

func createFollows(db *gorm.DB, users []models.User) error {
	for _, follower := range users {
		for _, i := range rand.Perm(len(users))[:rand.Intn(len(users)/2+1)] {
			followee := users[i]
			if followee.ID == follower.ID {
				continue
			}
			follow := models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
			if err := db.Where("follower_id = ? AND followee_id = ?",
				follower.ID, followee.ID).FirstOrCreate(&follow).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for _, i := range rand.Perm(len(users))[:rand.Intn(len(users)/3+1)] {
			like := models.Like{UserID: users[i].ID, PostID: post.ID}
			if err := db.Where("user_id = ? AND post_id = ?",
				like.UserID, like.PostID).FirstOrCreate(&like).Error; err != nil {
				return err
			}
		}
		for j := 0; j < rand.Intn(4); j++ {
			comment := models.Comment{
				UserID:  users[rand.Intn(len(users))].ID,
				PostID:  post.ID,
				Content: gofakeit.Sentence(12),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

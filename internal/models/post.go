// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a published post.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	Hashtags []Hashtag `gorm:"many2many:post_hashtags" json:"hashtags"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the requesting viewer liked this post (computed)
	Liked bool `gorm:"->" json:"is_liked"`

	// CreatedAt defaults to the insertion time but may be overridden,
	// which is how promoted scheduled posts keep their due time.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduledPost has the same shape as Post; CreatedAt doubles as the due
// time. Once due it is promoted into a Post and the row is removed.
type ScheduledPost struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	Hashtags []Hashtag `gorm:"many2many:scheduled_post_hashtags" json:"hashtags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

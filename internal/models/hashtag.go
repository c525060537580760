package models

import (
	"strings"

	"gorm.io/gorm"
)

// Hashtag is a shared tag referenced by posts and scheduled posts.
// It is never cascade-deleted with them.
type Hashtag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	Posts []Post `gorm:"many2many:post_hashtags" json:"posts,omitempty"`
}

// NormalizeHashtag canonicalizes a tag name by prepending '#' when absent.
// Idempotent: NormalizeHashtag(NormalizeHashtag(x)) == NormalizeHashtag(x).
func NormalizeHashtag(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "#") {
		return name
	}
	return "#" + name
}

// BeforeSave normalizes the name on every write path.
func (h *Hashtag) BeforeSave(_ *gorm.DB) error {
	h.Name = NormalizeHashtag(h.Name)
	return nil
}

// Package storage implements the image blob store behind a small
// interface, so handlers never care where bytes land.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded image bytes and returns an opaque reference.
type ImageStore interface {
	Store(kind string, name string, data []byte) (string, error)
}

// Image kinds, used as subdirectories.
const (
	KindUser = "users"
	KindPost = "posts"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// FileImageStore stores images on the local filesystem under a base
// directory, as <base>/<kind>/<slug>-<uuid><ext>.
type FileImageStore struct {
	baseDir string
}

// NewFileImageStore creates an ImageStore rooted at baseDir.
func NewFileImageStore(baseDir string) *FileImageStore {
	return &FileImageStore{baseDir: baseDir}
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "image"
	}
	return s
}

// Store writes data and returns a reference path relative to the base dir.
func (f *FileImageStore) Store(kind string, name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	dir := filepath.Join(f.baseDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	filename := fmt.Sprintf("%s-%s%s", slugify(base), uuid.NewString(), ext)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}

	return filepath.ToSlash(filepath.Join(kind, filename)), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"khichik-studio/models"
)

// ErrImageNotFound is returned when the store holds no image for an id
var ErrImageNotFound = errors.New("image not found")

var mimeExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var extensionMimes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bin":  "application/octet-stream",
}

// DiskImageStore keeps image bytes as files named {id}{ext} under a directory
// Implements ImageStoreInterface
type DiskImageStore struct {
	dir string
}

// NewDiskImageStore creates the store directory if needed
func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image store directory: %w", err)
	}
	return &DiskImageStore{dir: dir}, nil
}

// Ensure DiskImageStore implements ImageStoreInterface
var _ ImageStoreInterface = (*DiskImageStore)(nil)

// ImageURL is the path an image id is served under
func ImageURL(id string) string {
	return "/images/" + id
}

// Put writes the bytes under a fresh id and returns a ref served from /images/{id}
func (s *DiskImageStore) Put(ctx context.Context, data []byte, mimeType string) (models.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return models.ImageRef{}, err
	}
	if len(data) == 0 {
		return models.ImageRef{}, fmt.Errorf("failed to store image: empty data")
	}

	ext, ok := mimeExtensions[strings.ToLower(mimeType)]
	if !ok {
		ext = ".bin"
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return models.ImageRef{}, fmt.Errorf("failed to write image: %w", err)
	}

	log.Printf("💾 Image stored: %s (%d bytes)", path, len(data))
	return models.ImageRef{
		ID:       id,
		URL:      ImageURL(id),
		MimeType: extensionMimes[ext],
		Data:     data,
	}, nil
}

// Get reads the bytes and mime type for an id
func (s *DiskImageStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	path, err := s.find(id)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return data, extensionMimes[filepath.Ext(path)], nil
}

// Delete removes the image for an id; unknown ids are not an error
func (s *DiskImageStore) Delete(ctx context.Context, id string) error {
	path, err := s.find(id)
	if errors.Is(err, ErrImageNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func (s *DiskImageStore) find(id string) (string, error) {
	// ids are uuids, which also keeps the glob inside the store directory
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrImageNotFound
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, id+".*"))
	if err != nil {
		return "", fmt.Errorf("failed to look up image: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrImageNotFound
	}
	return matches[0], nil
}

package service

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DiskMockupLoader reads mockup images from a directory and keeps them decoded in memory.
// Failed loads are not cached, so a missing file is retried on the next render.
type DiskMockupLoader struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]image.Image
}

// NewDiskMockupLoader creates a loader rooted at dir
func NewDiskMockupLoader(dir string) *DiskMockupLoader {
	return &DiskMockupLoader{
		dir:   dir,
		cache: make(map[string]image.Image),
	}
}

// Ensure DiskMockupLoader implements MockupLoaderInterface
var _ MockupLoaderInterface = (*DiskMockupLoader)(nil)

// Path returns the file a resource such as "/mock-tB.jpg" resolves to
func (l *DiskMockupLoader) Path(resource string) string {
	return filepath.Join(l.dir, filepath.Clean("/"+resource))
}

// Load returns the decoded mockup for a resource path
func (l *DiskMockupLoader) Load(ctx context.Context, resource string) (image.Image, error) {
	l.mu.RLock()
	img, ok := l.cache[resource]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := l.Path(resource)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mockup %s: %w", resource, err)
	}
	img, err = DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mockup %s: %w", resource, err)
	}

	l.mu.Lock()
	l.cache[resource] = img
	l.mu.Unlock()

	log.Printf("✓ Mockup loaded: %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

package service

import (
	"context"
	"image"
)

// MockupLoaderInterface defines the contract for loading garment mockup images
type MockupLoaderInterface interface {
	Load(ctx context.Context, resource string) (image.Image, error)
}

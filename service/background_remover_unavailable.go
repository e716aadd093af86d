package service

import (
	"context"
	"errors"

	"khichik-studio/models"
)

// ErrRemoverUnavailable is returned by UnavailableRemover
var ErrRemoverUnavailable = errors.New("background removal engine not configured")

// UnavailableRemover always fails, so every upload takes the degraded path
type UnavailableRemover struct{}

// Ensure UnavailableRemover implements BackgroundRemover
var _ BackgroundRemover = UnavailableRemover{}

func (UnavailableRemover) Remove(ctx context.Context, imageData []byte, cfg models.RemovalConfig) ([]byte, error) {
	return nil, ErrRemoverUnavailable
}

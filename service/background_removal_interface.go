package service

import (
	"context"

	"khichik-studio/models"
)

// BackgroundRemover defines the contract for a background-removal engine.
// It returns encoded image bytes with the background made transparent.
type BackgroundRemover interface {
	Remove(ctx context.Context, imageData []byte, cfg models.RemovalConfig) ([]byte, error)
}

// BackgroundRemovalStageInterface defines the contract for the upload processing stage
type BackgroundRemovalStageInterface interface {
	Process(ctx context.Context, upload models.ArtworkUpload, hooks RemovalHooks) (*models.RemovalResult, error)
}

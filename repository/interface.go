package repository

import (
	"context"

	"khichik-studio/models"
)

// DesignSubmissionRepositoryInterface defines the contract for design submission persistence
type DesignSubmissionRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, submission *models.DesignSubmission) error
	GetByID(ctx context.Context, id string) (*models.DesignSubmission, error)
}

// ImageStoreInterface defines the contract for storing uploaded and processed image bytes
type ImageStoreInterface interface {
	Put(ctx context.Context, data []byte, mimeType string) (models.ImageRef, error)
	Get(ctx context.Context, id string) ([]byte, string, error)
	Delete(ctx context.Context, id string) error
}

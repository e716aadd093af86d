package service

import (
	"context"

	"khichik-studio/models"
)

// DesignSinkInterface defines the contract for persisting a committed design.
// The call resolves or fails; callers do not retry.
type DesignSinkInterface interface {
	SaveDesign(ctx context.Context, submission *models.DesignSubmission) error
}

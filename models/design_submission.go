package models

import (
	"fmt"
	"time"
)

// Design submission statuses
const (
	SubmissionStatusPending = "pending"
)

// DesignSubmission is the record handed to the persistence sink when a design is committed.
// The artwork Transform is not recorded.
type DesignSubmission struct {
	ID             string    `json:"id"`
	OriginalImage  ImageRef  `json:"originalImage"`
	ProcessedImage ImageRef  `json:"processedImage"`
	Color          string    `json:"color"`
	Size           string    `json:"size"`
	Price          int64     `json:"price"`
	CreatedAt      time.Time `json:"createdAt"`
	Status         string    `json:"status"`
}

// CommitDesignResponse is returned after a successful commit
type CommitDesignResponse struct {
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	Submission     *DesignSubmission `json:"submission"`
	FormattedPrice string            `json:"formattedPrice"`
}

// ValidationError is a missing-selection precondition failure with user-facing guidance
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

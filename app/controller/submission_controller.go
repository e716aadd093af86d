package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"khichik-studio/repository"
)

// SubmissionController exposes committed designs stored in Postgres
type SubmissionController struct {
	repository repository.DesignSubmissionRepositoryInterface
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(repo repository.DesignSubmissionRepositoryInterface) *SubmissionController {
	return &SubmissionController{repository: repo}
}

// GetSubmission handles GET /admin/submissions/{id}
func (c *SubmissionController) GetSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/admin/submissions/")
	if id == "" {
		http.Error(w, "id parameter is required", http.StatusBadRequest)
		return
	}

	submission, err := c.repository.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		http.Error(w, "Submission not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get submission: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"khichik-studio/repository"
)

// ImageController serves stored artwork bytes
type ImageController struct {
	store repository.ImageStoreInterface
}

// NewImageController creates a new ImageController
func NewImageController(store repository.ImageStoreInterface) *ImageController {
	return &ImageController{store: store}
}

// GetImage handles GET /images/{id}
func (c *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/images/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "image id is required", http.StatusBadRequest)
		return
	}

	data, mimeType, err := c.store.Get(r.Context(), id)
	if errors.Is(err, repository.ErrImageNotFound) {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("❌ GetImage: %v", err)
		http.Error(w, fmt.Sprintf("Failed to read image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	// ids are never reused
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetImage: error writing response: %v", err)
	}
}

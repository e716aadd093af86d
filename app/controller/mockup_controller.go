package controller

import (
	"net/http"

	"khichik-studio/utils"
)

// MockupController lists the garment colours and serves their mockup files
type MockupController struct {
	files http.Handler
}

// NewMockupController creates a controller serving mockup files from dir
func NewMockupController(dir string) *MockupController {
	return &MockupController{
		files: http.StripPrefix("/mockups", http.FileServer(http.Dir(dir))),
	}
}

// ListVariants handles GET /mockups
func (c *MockupController) ListVariants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"defaultColor": utils.DefaultColor,
		"variants":     utils.MockupVariants(),
		"sizes":        utils.AvailableSizes,
		"basePrice":    utils.FormatINR(utils.BasePrice),
	})
}

// ServeFile handles GET /mockups/{resource}, e.g. /mockups/mock-tB.jpg
func (c *MockupController) ServeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.files.ServeHTTP(w, r)
}

package models

// MockupVariant maps a garment color to its static mockup image
type MockupVariant struct {
	Name     string `json:"name"`     // Human-readable name (e.g., "Black")
	Color    string `json:"color"`    // Color key (hex, e.g., "#0b0b0f")
	Resource string `json:"resource"` // Mockup file name under the mockups directory
}

package utils

import (
	"strings"

	"khichik-studio/models"
)

// Default garment colour and the mockup used for unknown colours
const (
	DefaultColor  = "#e6e6eb"
	DefaultMockup = "/mockup-t.png"
)

var mockupVariants = []models.MockupVariant{
	{Name: "Black", Color: "#0b0b0f", Resource: "/mock-tBL.jpg"},
	{Name: "White", Color: "#e6e6eb", Resource: "/mockup-t.png"},
	{Name: "Navy", Color: "#1e2a44", Resource: "/mock-tB.jpg"},
	{Name: "Maroon", Color: "#6d1b1b", Resource: "/mock-tR.jpg"},
}

// NormalizeColor lowercases and trims a colour key
func NormalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

// ResolveMockup maps a colour key to its mockup resource path
// Input is normalized before mapping
// Unknown keys resolve to the white mockup
func ResolveMockup(color string) string {
	colorLower := NormalizeColor(color)

	for _, v := range mockupVariants {
		if v.Color == colorLower {
			return v.Resource
		}
	}

	return DefaultMockup
}

// MapColorToName maps a colour key to its display name
// Returns an empty string for unknown keys
func MapColorToName(color string) string {
	colorLower := NormalizeColor(color)

	for _, v := range mockupVariants {
		if v.Color == colorLower {
			return v.Name
		}
	}

	return ""
}

// IsValidColor reports whether the key is one of the offered garment colours
func IsValidColor(color string) bool {
	return MapColorToName(color) != ""
}

// MockupVariants returns a copy of the colour to mockup table
func MockupVariants() []models.MockupVariant {
	out := make([]models.MockupVariant, len(mockupVariants))
	copy(out, mockupVariants)
	return out
}

package placement

import (
	"math"

	"khichik-studio/models"
)

// Fit box for artwork before user scaling
const (
	MaxFitWidth  = 200
	MaxFitHeight = 200
)

// ComputeFittedSize returns the largest box within MaxFitWidth x MaxFitHeight that keeps
// the native aspect ratio. Artwork is never upscaled and both sides are at least 1.
func ComputeFittedSize(nativeWidth, nativeHeight int) models.FittedSize {
	if nativeWidth <= 0 || nativeHeight <= 0 {
		return models.FittedSize{}
	}

	w := float64(nativeWidth)
	h := float64(nativeHeight)
	s := math.Min(math.Min(MaxFitWidth/w, MaxFitHeight/h), 1)

	return models.FittedSize{
		Width:  max(1, int(math.Round(w*s))),
		Height: max(1, int(math.Round(h*s))),
	}
}

// NormalizeRotation maps any angle in degrees into [0, 360)
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

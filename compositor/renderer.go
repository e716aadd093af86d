package compositor

import (
	"image"
	"math"

	"khichik-studio/models"
	"khichik-studio/placement"
)

// FallbackFill is painted when no mockup image could be loaded
const FallbackFill = "#f0f0f0"

// Surface is a 2D draw target with a transform stack, modelled after a browser canvas
type Surface interface {
	Width() int
	Height() int
	Clear()
	Fill(hex string)
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)
	Scale(x, y float64)
	DrawImage(img image.Image, x, y, w, h float64)
}

// Renderer composes the garment mockup and the artwork layer onto a surface
type Renderer struct {
	fallbackFill string
}

// NewRenderer creates a renderer. An empty fill uses FallbackFill.
func NewRenderer(fallbackFill string) *Renderer {
	if fallbackFill == "" {
		fallbackFill = FallbackFill
	}
	return &Renderer{fallbackFill: fallbackFill}
}

// Render clears the surface and draws the mockup followed by the artwork.
// mockup is nil when its load failed; artwork is nil when nothing is loaded yet.
// The artwork is drawn rotated about the centre of its scaled box.
func (r *Renderer) Render(s Surface, mockup, artwork image.Image, t models.Transform, fs models.FittedSize) {
	width := float64(s.Width())
	height := float64(s.Height())

	s.Clear()
	if mockup != nil {
		s.DrawImage(mockup, 0, 0, width, height)
	} else {
		s.Fill(r.fallbackFill)
	}

	if artwork == nil || fs.IsZero() {
		return
	}

	fw := float64(fs.Width)
	fh := float64(fs.Height)

	s.Save()
	s.Translate(t.PositionX+fw*t.Scale/2, t.PositionY+fh*t.Scale/2)
	s.Rotate(placement.NormalizeRotation(t.RotationDeg) * math.Pi / 180)
	s.Scale(t.Scale, t.Scale)
	s.DrawImage(artwork, -fw/2, -fh/2, fw, fh)
	s.Restore()
}

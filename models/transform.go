package models

// Transform is the position/scale/rotation state of the artwork layer on the draw surface
type Transform struct {
	PositionX   float64 `json:"positionX"` // top-left, surface space
	PositionY   float64 `json:"positionY"`
	Scale       float64 `json:"scale"`       // bounded [0.5, 2.0]
	RotationDeg float64 `json:"rotationDeg"` // unbounded, normalized only when rendering
}

// FittedSize is the aspect-preserving box the artwork is drawn into before scaling
type FittedSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether no artwork size has been computed yet
func (f FittedSize) IsZero() bool {
	return f.Width == 0 || f.Height == 0
}

// SurfaceSize is the fixed size of the raster the composite is drawn on
type SurfaceSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PointerKind identifies a pointer/touch phase
type PointerKind string

const (
	PointerDown   PointerKind = "down"
	PointerMove   PointerKind = "move"
	PointerUp     PointerKind = "up"
	PointerCancel PointerKind = "cancel"
)

// PointerEvent is a mouse or single-touch input in surface coordinates.
// Mouse and touch go through the same path; Source is informational.
type PointerEvent struct {
	Kind      PointerKind `json:"kind"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Source    string      `json:"source,omitempty"` // "mouse" or "touch"
	PointerID int         `json:"pointerId"`
}

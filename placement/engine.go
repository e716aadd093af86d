package placement

import (
	"khichik-studio/models"
)

// Placement limits and control steps
const (
	MinScale     = 0.5
	MaxScale     = 2.0
	ScaleStep    = 0.1
	RotationStep = 15.0

	// DefaultOriginX/Y is where Reset puts the artwork's top-left corner
	DefaultOriginX = 125.0
	DefaultOriginY = 200.0
)

// DefaultSurface is the fixed draw surface of the designer
var DefaultSurface = models.SurfaceSize{Width: 400, Height: 500}

// Engine owns the transform of the single artwork layer and turns pointer input into it.
// It is not safe for concurrent use; the owning design session serializes access.
type Engine struct {
	surface   models.SurfaceSize
	fitted    models.FittedSize
	transform models.Transform

	dragging    bool
	dragPointer int
	dragOffsetX float64
	dragOffsetY float64
}

// NewEngine creates an engine for a surface with the default transform
func NewEngine(surface models.SurfaceSize) *Engine {
	e := &Engine{surface: surface}
	e.transform = e.defaultTransform()
	return e
}

// defaultTransform is the transform Reset restores, clamped for the current fitted size
func (e *Engine) defaultTransform() models.Transform {
	t := models.Transform{
		PositionX:   DefaultOriginX,
		PositionY:   DefaultOriginY,
		Scale:       1,
		RotationDeg: 0,
	}
	t.PositionX = clampAxis(t.PositionX, float64(e.surface.Width), float64(e.fitted.Width)*t.Scale)
	t.PositionY = clampAxis(t.PositionY, float64(e.surface.Height), float64(e.fitted.Height)*t.Scale)
	return t
}

// Surface returns the surface the engine clamps against
func (e *Engine) Surface() models.SurfaceSize {
	return e.surface
}

// Transform returns the current transform
func (e *Engine) Transform() models.Transform {
	return e.transform
}

// FittedSize returns the fitted size of the current artwork
func (e *Engine) FittedSize() models.FittedSize {
	return e.fitted
}

// Dragging reports whether a drag is in progress
func (e *Engine) Dragging() bool {
	return e.dragging
}

// SetFittedSize installs the fitted size of a newly loaded artwork and re-clamps the position.
// Any drag in progress is dropped since its offset refers to the previous artwork.
func (e *Engine) SetFittedSize(fs models.FittedSize) {
	e.fitted = fs
	e.dragging = false
	e.clampPosition()
}

// HitTest reports whether the point falls inside the artwork's unrotated, scaled box.
// Rotation is ignored on purpose.
func (e *Engine) HitTest(px, py float64) bool {
	if e.fitted.IsZero() {
		return false
	}
	left := e.transform.PositionX
	top := e.transform.PositionY
	right := left + float64(e.fitted.Width)*e.transform.Scale
	bottom := top + float64(e.fitted.Height)*e.transform.Scale

	return px >= left && px <= right && py >= top && py <= bottom
}

// BeginDrag starts a drag if the point hits the artwork. It returns false otherwise.
func (e *Engine) BeginDrag(px, py float64) bool {
	return e.beginDrag(px, py, 0)
}

func (e *Engine) beginDrag(px, py float64, pointerID int) bool {
	if e.dragging || !e.HitTest(px, py) {
		return false
	}
	e.dragging = true
	e.dragPointer = pointerID
	e.dragOffsetX = px - e.transform.PositionX
	e.dragOffsetY = py - e.transform.PositionY
	return true
}

// UpdateDrag moves the artwork so the grabbed point follows the pointer, clamped to the surface.
// The bool result is false when no drag is active; the transform is then unchanged.
func (e *Engine) UpdateDrag(px, py float64) (models.Transform, bool) {
	if !e.dragging {
		return e.transform, false
	}
	e.transform.PositionX = px - e.dragOffsetX
	e.transform.PositionY = py - e.dragOffsetY
	e.clampPosition()
	return e.transform, true
}

// EndDrag finishes the current drag, if any
func (e *Engine) EndDrag() {
	e.dragging = false
}

// SetScale adds delta to the scale, saturating at [MinScale, MaxScale], and keeps the box on the surface
func (e *Engine) SetScale(delta float64) models.Transform {
	s := e.transform.Scale + delta
	if s < MinScale {
		s = MinScale
	}
	if s > MaxScale {
		s = MaxScale
	}
	e.transform.Scale = s
	e.clampPosition()
	return e.transform
}

// SetRotation adds deltaDeg to the rotation. The stored angle is not normalized.
func (e *Engine) SetRotation(deltaDeg float64) models.Transform {
	e.transform.RotationDeg += deltaDeg
	return e.transform
}

// Reset restores the default transform
func (e *Engine) Reset() models.Transform {
	e.dragging = false
	e.transform = e.defaultTransform()
	return e.transform
}

// HandlePointer feeds a mouse or single-touch event through the drag contract.
// While a drag is active, events from other pointers are ignored.
// It returns true when the transform changed.
func (e *Engine) HandlePointer(ev models.PointerEvent) bool {
	switch ev.Kind {
	case models.PointerDown:
		e.beginDrag(ev.X, ev.Y, ev.PointerID)
		return false
	case models.PointerMove:
		if !e.dragging || ev.PointerID != e.dragPointer {
			return false
		}
		before := e.transform
		after, _ := e.UpdateDrag(ev.X, ev.Y)
		return before != after
	case models.PointerUp, models.PointerCancel:
		if e.dragging && ev.PointerID == e.dragPointer {
			e.EndDrag()
		}
		return false
	}
	return false
}

func (e *Engine) clampPosition() {
	e.transform.PositionX = clampAxis(e.transform.PositionX, float64(e.surface.Width), float64(e.fitted.Width)*e.transform.Scale)
	e.transform.PositionY = clampAxis(e.transform.PositionY, float64(e.surface.Height), float64(e.fitted.Height)*e.transform.Scale)
}

// clampAxis clamps v to [0, surface-extent]; an artwork larger than the surface pins to 0
func clampAxis(v, surface, extent float64) float64 {
	upper := surface - extent
	if upper < 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}

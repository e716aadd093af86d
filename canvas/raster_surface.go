package canvas

import (
	"image"
	"io"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RasterSurface is an in-memory RGBA surface backed by a gg context.
// gg keeps the transform stack and the pixel buffer; image sampling under
// arbitrary affine transforms goes through x/image/draw into the same buffer.
type RasterSurface struct {
	dc  *gg.Context
	pm  *gg.Pixmap
	dst *image.RGBA
}

// NewRasterSurface allocates a transparent surface of the given size
func NewRasterSurface(width, height int) *RasterSurface {
	pm := gg.NewPixmap(width, height)
	return &RasterSurface{
		dc: gg.NewContext(width, height, gg.WithPixmap(pm)),
		pm: pm,
		dst: &image.RGBA{
			Pix:    pm.Data(),
			Stride: 4 * width,
			Rect:   image.Rect(0, 0, width, height),
		},
	}
}

func (s *RasterSurface) Width() int  { return s.dc.Width() }
func (s *RasterSurface) Height() int { return s.dc.Height() }

// Clear makes every pixel transparent
func (s *RasterSurface) Clear() {
	s.dc.Clear()
}

// Fill paints the whole surface with a hex colour, ignoring the transform
func (s *RasterSurface) Fill(hex string) {
	s.dc.ClearWithColor(gg.Hex(hex))
}

func (s *RasterSurface) Save()    { s.dc.Push() }
func (s *RasterSurface) Restore() { s.dc.Pop() }

func (s *RasterSurface) Translate(x, y float64) { s.dc.Translate(x, y) }
func (s *RasterSurface) Rotate(radians float64) { s.dc.Rotate(radians) }
func (s *RasterSurface) Scale(x, y float64)     { s.dc.Scale(x, y) }

// DrawImage draws img stretched into the rectangle (x, y, w, h) of the current
// user space, composited over what is already on the surface.
func (s *RasterSurface) DrawImage(img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Empty() || w <= 0 || h <= 0 {
		return
	}

	m := s.dc.GetTransform().
		Multiply(gg.Translate(x, y)).
		Multiply(gg.Scale(w/float64(b.Dx()), h/float64(b.Dy()))).
		Multiply(gg.Translate(-float64(b.Min.X), -float64(b.Min.Y)))

	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	draw.BiLinear.Transform(s.dst, aff, img, b, draw.Over, nil)
}

// Image returns a copy of the current pixels
func (s *RasterSurface) Image() *image.RGBA {
	out := image.NewRGBA(s.dst.Rect)
	copy(out.Pix, s.dst.Pix)
	return out
}

// EncodePNG writes the current pixels as PNG
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

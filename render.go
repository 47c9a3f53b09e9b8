package sapling

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// Renderer receives drawing from the Draw traversal. Points and matrices
// are in world space.
type Renderer interface {
	DrawLine(from, to Vec2, width float64, c Color)
	DrawCircle(center Vec2, radius float64, c Color)
	// DrawAxes draws the X (red) and Y (green) axes of m with the given length.
	DrawAxes(m Mat3, length float64)
	DrawImage(img *ebiten.Image, m Mat3, tint Color)
}

// Axis colors used by DrawAxes.
var (
	AxisXColor = ColorFrom(colornames.Red)
	AxisYColor = ColorFrom(colornames.Lime)
)

// ColorFrom converts any color.Color to a Color.
func ColorFrom(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	fa := float64(a)
	return Color{R: float64(r) / fa, G: float64(g) / fa, B: float64(b) / fa, A: fa / 0xffff}
}

// axesEnds returns the origin and the two axis tips of m.
func axesEnds(m Mat3, length float64) (origin, x, y Vec2) {
	return translation(m), transformPoint(m, Vec2{length, 0}), transformPoint(m, Vec2{0, length})
}

// EbitenRenderer draws onto an ebiten image with the vector package.
type EbitenRenderer struct {
	Target    *ebiten.Image
	Antialias bool
	// View is applied to every point and matrix before drawing, mapping
	// world space to screen space. The zero value is treated as identity.
	View Mat3
}

// NewEbitenRenderer creates an antialiased renderer targeting dst.
func NewEbitenRenderer(dst *ebiten.Image) *EbitenRenderer {
	return &EbitenRenderer{Target: dst, Antialias: true}
}

func (r *EbitenRenderer) view(p Vec2) Vec2 {
	if r.View == (Mat3{}) {
		return p
	}
	return transformPoint(r.View, p)
}

func (r *EbitenRenderer) DrawLine(from, to Vec2, width float64, c Color) {
	a, b := r.view(from), r.view(to)
	vector.StrokeLine(r.Target, float32(a[0]), float32(a[1]), float32(b[0]), float32(b[1]),
		float32(width), c, r.Antialias)
}

func (r *EbitenRenderer) DrawCircle(center Vec2, radius float64, c Color) {
	p := r.view(center)
	vector.StrokeCircle(r.Target, float32(p[0]), float32(p[1]), float32(radius), 1, c, r.Antialias)
}

func (r *EbitenRenderer) DrawAxes(m Mat3, length float64) {
	o, x, y := axesEnds(m, length)
	r.DrawLine(o, x, 1, AxisXColor)
	r.DrawLine(o, y, 1, AxisYColor)
}

func (r *EbitenRenderer) DrawImage(img *ebiten.Image, m Mat3, tint Color) {
	if img == nil {
		return
	}
	if r.View != (Mat3{}) {
		m = r.View.Mul3(m)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM(m)
	a := float32(tint.A)
	op.ColorScale.Scale(float32(tint.R)*a, float32(tint.G)*a, float32(tint.B)*a, a)
	r.Target.DrawImage(img, op)
}

// geoM converts a column-major affine matrix to an ebiten.GeoM.
func geoM(m Mat3) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[3])
	g.SetElement(0, 2, m[6])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[7])
	return g
}

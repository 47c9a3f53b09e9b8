package sapling

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Vec2 is a 2D vector used for positions, offsets, and directions
// throughout the API.
type Vec2 = mgl64.Vec2

// Mat3 is a column-major homogeneous 2D affine matrix. The translation
// lives in elements 6 and 7.
type Mat3 = mgl64.Mat3

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to ebiten.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
)

// RGBA implements color.Color with premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A) * 0xffff)
	r = uint32(clamp01(c.R) * clamp01(c.A) * 0xffff)
	g = uint32(clamp01(c.G) * clamp01(c.A) * 0xffff)
	b = uint32(clamp01(c.B) * clamp01(c.A) * 0xffff)
	return
}

func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WhitePixel is a 1x1 white image used by default for solid color sprites.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// EventType identifies a kind of scene-graph event.
type EventType uint8

const (
	EventChildAdded         EventType = iota // a child was linked under a parent
	EventChildRemoved                        // a child was unlinked from its parent
	EventControllerAttached                  // a controller joined an owner's set
	EventControllerDetached                  // a controller left an owner's set
	EventControllerExpired                   // a controller returned false and was detached
)

func (e EventType) String() string {
	switch e {
	case EventChildAdded:
		return "child-added"
	case EventChildRemoved:
		return "child-removed"
	case EventControllerAttached:
		return "controller-attached"
	case EventControllerDetached:
		return "controller-detached"
	case EventControllerExpired:
		return "controller-expired"
	default:
		return "unknown"
	}
}

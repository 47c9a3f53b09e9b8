package sapling

import (
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// DrawRecorder is a Renderer that records every call as a line of text
// instead of drawing. Headless runs and tests use it to inspect what a
// traversal produced.
type DrawRecorder struct {
	Calls []string
}

func (r *DrawRecorder) DrawLine(from, to Vec2, width float64, c Color) {
	r.record("line %s -> %s width=%s %s", fmtVec(from), fmtVec(to), fmtFloat(width), fmtColor(c))
}

func (r *DrawRecorder) DrawCircle(center Vec2, radius float64, c Color) {
	r.record("circle %s r=%s %s", fmtVec(center), fmtFloat(radius), fmtColor(c))
}

func (r *DrawRecorder) DrawAxes(m Mat3, length float64) {
	o, x, y := axesEnds(m, length)
	r.record("axes %s x=%s y=%s", fmtVec(o), fmtVec(x), fmtVec(y))
}

func (r *DrawRecorder) DrawImage(img *ebiten.Image, m Mat3, tint Color) {
	if img == nil {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	r.record("image %dx%d at %s %s", w, h, fmtVec(translation(m)), fmtColor(tint))
}

// Len returns the number of recorded calls.
func (r *DrawRecorder) Len() int { return len(r.Calls) }

// Reset clears the recording.
func (r *DrawRecorder) Reset() { r.Calls = r.Calls[:0] }

// String returns the calls one per line with a trailing newline.
func (r *DrawRecorder) String() string {
	if len(r.Calls) == 0 {
		return ""
	}
	return strings.Join(r.Calls, "\n") + "\n"
}

func (r *DrawRecorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// fmtFloat prints v with three decimals, folding values that would print
// as -0.000 to 0.000.
func fmtFloat(v float64) string {
	if math.Abs(v) < 0.0005 {
		v = 0
	}
	return fmt.Sprintf("%.3f", v)
}

func fmtVec(v Vec2) string {
	return "(" + fmtFloat(v[0]) + ", " + fmtFloat(v[1]) + ")"
}

func fmtColor(c Color) string {
	return fmt.Sprintf("rgba(%.2f, %.2f, %.2f, %.2f)", c.R, c.G, c.B, c.A)
}

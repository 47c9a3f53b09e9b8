package sapling

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DebugOutput receives debug diagnostics. Defaults to stderr.
var DebugOutput io.Writer = os.Stderr

// globalDebug mirrors the most recently set Scene debug flag so that node
// and controller operations (which lack a Scene pointer) can check it
// cheaply. Only valid with a single Scene; multiple Scenes with differing
// debug modes reflect whichever called SetDebugMode last.
var globalDebug bool

// SetDebug toggles debug diagnostics without a Scene.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// DebugEnabled reports whether debug diagnostics are on.
func DebugEnabled() bool {
	return globalDebug
}

// Debugf writes a "[sapling]"-prefixed line to DebugOutput when debug mode
// is on. Sub-packages use it for their own diagnostics.
func Debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(DebugOutput, "[sapling] "+format+"\n", args...)
}

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	drawTime      time.Duration
	drawCallCount int
}

func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Debugf("draw: %v | draw calls: %d", stats.drawTime, stats.drawCallCount)
}

// debugCheckDisposed panics when a disposed node is used in a tree
// operation. Release mode skips the check entirely.
func debugCheckDisposed(n *NodeBase, op string) {
	if n.disposed {
		panic(&HierarchyError{Op: op, Child: n.name, Err: ErrDisposedNode})
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *NodeBase) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Debugf("warning: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *NodeBase) {
	if len(n.children) > debugMaxChildCount {
		Debugf("warning: node %q has %d children (threshold %d)",
			n.name, len(n.children), debugMaxChildCount)
	}
}

// countingRenderer forwards to another Renderer and counts calls.
type countingRenderer struct {
	Renderer
	calls int
}

func (c *countingRenderer) DrawLine(a, b Vec2, width float64, clr Color) {
	c.calls++
	c.Renderer.DrawLine(a, b, width, clr)
}

func (c *countingRenderer) DrawCircle(center Vec2, radius float64, clr Color) {
	c.calls++
	c.Renderer.DrawCircle(center, radius, clr)
}

func (c *countingRenderer) DrawAxes(m Mat3, length float64) {
	c.calls++
	c.Renderer.DrawAxes(m, length)
}

func (c *countingRenderer) DrawImage(img *ebiten.Image, m Mat3, tint Color) {
	c.calls++
	c.Renderer.DrawImage(img, m, tint)
}

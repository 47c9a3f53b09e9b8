package sapling

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/sapling/rtti"
)

// FPSNodeType is the type record for FPSNode.
var FPSNodeType = rtti.Register("sapling.FPSNode", SpriteNodeType)

// FPSNode is a sprite showing the current FPS and TPS. The text is redrawn
// every Interval seconds of the node's clock.
type FPSNode struct {
	SpriteNode
	Interval float64

	last    float64
	started bool
}

// NewFPSNode creates an FPS readout refreshed twice a second.
func NewFPSNode(name string) *FPSNode {
	// 100x32 fits "FPS: 60.0\nTPS: 60.0"
	n := &FPSNode{Interval: 0.5}
	n.Image = ebiten.NewImage(100, 32)
	n.Color = ColorWhite
	n.Init(n, name)
	return n
}

func (n *FPSNode) Type() *rtti.Type { return FPSNodeType }

func (n *FPSNode) OnUpdate(currentTime float64) {
	if n.started && currentTime-n.last < n.Interval {
		return
	}
	n.last, n.started = currentTime, true
	n.Refresh()
}

// Refresh redraws the readout immediately.
func (n *FPSNode) Refresh() {
	if n.Image == nil {
		return
	}
	n.Image.Clear()
	n.Image.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(n.Image, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

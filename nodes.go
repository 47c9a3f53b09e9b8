package sapling

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/sapling/rtti"
	"golang.org/x/image/colornames"
)

// Defaults for the built-in drawable nodes.
const (
	DefaultAxesLength = 20.0
	DefaultBoneRadius = 6.0
	DefaultLineWidth  = 2.0
)

// --- AxesNode ---

// AxesNode draws its own coordinate axes.
type AxesNode struct {
	NodeBase
	Length float64
}

// NewAxesNode creates an axes node with DefaultAxesLength.
func NewAxesNode(name string) *AxesNode {
	n := &AxesNode{Length: DefaultAxesLength}
	n.Init(n, name)
	return n
}

func (n *AxesNode) Type() *rtti.Type { return AxesNodeType }

func (n *AxesNode) OnDraw(r Renderer) {
	r.DrawAxes(n.World(), n.Length)
}

// --- BoneNode ---

// BoneNode draws a joint circle with axes and a line back to its parent.
// It owns a KeyframeController, attached at construction, that poses it.
type BoneNode struct {
	NodeBase
	Radius    float64
	Width     float64
	Color     Color
	Keyframes KeyframeController

	// ShowKeys draws a marker for every pose key, placed in the parent's
	// space the way the key would place the bone.
	ShowKeys bool
}

// NewBoneNode creates a bone with default styling and an attached,
// playing keyframe controller.
func NewBoneNode(name string) *BoneNode {
	n := &BoneNode{
		Radius: DefaultBoneRadius,
		Width:  DefaultLineWidth,
		Color:  ColorFrom(colornames.Gold),
	}
	n.Init(n, name)
	n.Keyframes.SetName(name + ".keys")
	n.Keyframes.Playing = true
	n.Attach(&n.Keyframes)
	return n
}

func (n *BoneNode) Type() *rtti.Type { return BoneNodeType }

func (n *BoneNode) OnDraw(r Renderer) {
	world := n.World()
	pos := translation(world)
	if p := n.parent; p != nil {
		r.DrawLine(p.WorldPosition(), pos, n.Width, n.Color)
	}
	r.DrawCircle(pos, n.Radius, n.Color)
	r.DrawAxes(world, n.Radius*2)

	if n.ShowKeys && len(n.Keyframes.PoseKeys) > 0 {
		pw := n.parentWorld()
		for _, key := range n.Keyframes.PoseKeys {
			t := n.Local
			t.Position, t.Rotation = key.Position, key.Rotation
			r.DrawAxes(pw.Mul3(t.Matrix()), n.Radius)
		}
	}
}

// --- SpriteNode ---

// SpriteNode draws an image with its world transform. A sprite without an
// image draws nothing.
type SpriteNode struct {
	NodeBase
	Image *ebiten.Image
	Color Color
}

// NewSpriteNode creates a sprite showing img with no tint.
func NewSpriteNode(name string, img *ebiten.Image) *SpriteNode {
	n := &SpriteNode{Image: img, Color: ColorWhite}
	n.Init(n, name)
	return n
}

func (n *SpriteNode) Type() *rtti.Type { return SpriteNodeType }

// SetImage replaces the sprite's image. nil hides the sprite.
func (n *SpriteNode) SetImage(img *ebiten.Image) {
	n.Image = img
}

func (n *SpriteNode) OnDraw(r Renderer) {
	if n.Image == nil {
		return
	}
	r.DrawImage(n.Image, n.World(), n.Color)
}

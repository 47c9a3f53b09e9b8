package sapling

import "golang.org/x/image/colornames"

// Visualizer draws debug geometry for a node it is assigned to. It runs
// after the node's own OnDraw and before its children.
type Visualizer interface {
	Visualize(n Node, r Renderer)
}

// VisualizerFunc adapts a plain function to Visualizer.
type VisualizerFunc func(n Node, r Renderer)

func (f VisualizerFunc) Visualize(n Node, r Renderer) { f(n, r) }

// BasicVisualizer marks the node's origin and links it to its parent.
// Parents that are roots are not linked.
type BasicVisualizer struct {
	Radius float64
	Width  float64
	Color  Color
}

// NewBasicVisualizer creates a visualizer with default styling.
func NewBasicVisualizer() *BasicVisualizer {
	return &BasicVisualizer{
		Radius: DefaultBoneRadius / 2,
		Width:  1,
		Color:  ColorFrom(colornames.Skyblue),
	}
}

func (v *BasicVisualizer) Visualize(n Node, r Renderer) {
	b := n.AsNode()
	pos := b.WorldPosition()
	if p := b.parent; p != nil && p.parent != nil {
		r.DrawLine(p.WorldPosition(), pos, v.Width, v.Color)
	}
	r.DrawCircle(pos, v.Radius, v.Color)
}

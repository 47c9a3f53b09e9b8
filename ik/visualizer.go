package ik

import (
	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/rtti"
	"golang.org/x/image/colornames"
)

// BoneColors cycle across the segments drawn by Visualizer.
var BoneColors = []sapling.Color{
	sapling.ColorFrom(colornames.Cornflowerblue),
	sapling.ColorFrom(colornames.Orange),
	sapling.ColorFrom(colornames.Mediumseagreen),
	sapling.ColorFrom(colornames.Hotpink),
}

// TargetColor marks the goal.
var TargetColor = sapling.ColorFrom(colornames.Grey)

// Visualizer draws an IK node's chain segments and goal. It ignores nodes
// that are not exactly IK nodes.
type Visualizer struct {
	Width        float64
	TargetRadius float64
}

// NewVisualizer creates a visualizer with default styling.
func NewVisualizer() *Visualizer {
	return &Visualizer{Width: sapling.DefaultLineWidth, TargetRadius: sapling.DefaultBoneRadius}
}

func (v *Visualizer) Visualize(n sapling.Node, r sapling.Renderer) {
	if !rtti.IsExactly(n, NodeType) {
		return
	}
	ikn, ok := rtti.As[*Node](n, NodeType)
	if !ok {
		return
	}
	chain := ikn.Chain()
	pos := chain.WorldPositions()
	for i := 0; i+1 < len(pos); i++ {
		r.DrawLine(pos[i], pos[i+1], v.Width, BoneColors[i%len(BoneColors)])
	}
	if goal, ok := chain.WorldGoal(); ok {
		r.DrawCircle(goal, v.TargetRadius, TargetColor)
	}
}

package sapling

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a node's local placement relative to its parent.
type Transform struct {
	Position Vec2
	Scale    Vec2
	Rotation float64 // radians
	Pivot    Vec2
}

// IdentityTransform returns a transform with unit scale and no offset.
func IdentityTransform() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

// Matrix computes the affine matrix for t.
//
// Composition order:
//
//	Translate(-Pivot) -> Scale -> Rotate -> Translate(Position)
func (t Transform) Matrix() Mat3 {
	sin, cos := math.Sincos(t.Rotation)
	sx, sy := t.Scale[0], t.Scale[1]
	px, py := t.Pivot[0], t.Pivot[1]

	// Rotate * Scale
	a, b := cos*sx, sin*sx
	c, d := -sin*sy, cos*sy

	return Mat3{
		a, b, 0,
		c, d, 0,
		-(a*px + c*py) + t.Position[0], -(b*px + d*py) + t.Position[1], 1,
	}
}

// translation extracts the translation column of m.
func translation(m Mat3) Vec2 {
	return Vec2{m[6], m[7]}
}

// transformPoint applies m to p.
func transformPoint(m Mat3, p Vec2) Vec2 {
	return m.Mul3x1(p.Vec3(1)).Vec2()
}

// invertAffine computes the inverse of m.
// Returns the identity matrix if m is singular (determinant near 0).
func invertAffine(m Mat3) Mat3 {
	det := m[0]*m[4] - m[3]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return mgl64.Ident3()
	}
	return m.Inv()
}

// --- Transform property setters ---

// SetPosition sets the node's local position.
func (n *NodeBase) SetPosition(x, y float64) {
	n.Local.Position = Vec2{x, y}
}

// SetScale sets the node's local scale.
func (n *NodeBase) SetScale(sx, sy float64) {
	n.Local.Scale = Vec2{sx, sy}
}

// SetRotation sets the node's rotation in radians.
func (n *NodeBase) SetRotation(r float64) {
	n.Local.Rotation = r
}

// SetPivot sets the node's pivot.
func (n *NodeBase) SetPivot(px, py float64) {
	n.Local.Pivot = Vec2{px, py}
}

// --- World transform ---

// World returns the world matrix computed during the most recent Update.
func (n *NodeBase) World() Mat3 {
	return n.world
}

// SetWorld stores m as the node's world matrix. Custom WorldUpdater hooks
// call it.
func (n *NodeBase) SetWorld(m Mat3) {
	n.world = m
}

// WorldPosition returns the translation of the world matrix.
func (n *NodeBase) WorldPosition() Vec2 {
	return translation(n.world)
}

// parentWorld returns the parent's world matrix, or identity for a root.
func (n *NodeBase) parentWorld() Mat3 {
	if n.parent == nil {
		return mgl64.Ident3()
	}
	return n.parent.world
}

// CurrentWorld composes the parent's world matrix with the local transform
// as they are now. During Update a node's controllers run before its own
// world matrix is refreshed, but after its parent's, so CurrentWorld gives
// them this frame's placement where World still holds the last one.
func (n *NodeBase) CurrentWorld() Mat3 {
	return n.parentWorld().Mul3(n.Local.Matrix())
}

// updateWorld composes the default world matrix.
func (n *NodeBase) updateWorld() {
	if n.parent == nil {
		n.world = n.Local.Matrix()
		return
	}
	n.world = n.parent.world.Mul3(n.Local.Matrix())
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *NodeBase) WorldToLocal(p Vec2) Vec2 {
	return transformPoint(invertAffine(n.world), p)
}

// LocalToWorld converts a local-space point to world-space.
func (n *NodeBase) LocalToWorld(p Vec2) Vec2 {
	return transformPoint(n.world, p)
}

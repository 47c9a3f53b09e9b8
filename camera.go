package sapling

import (
	"math"

	"github.com/phanxgames/sapling/rtti"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view into the scene: position, zoom, rotation, and viewport.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	followTarget  Node
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	scrollTween *scrollAnim
}

// NewCamera creates a Camera with default values and the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
	}
}

// Follow makes the camera track a target node with the given offset and lerp factor.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(node Node, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Advance runs follow, scroll, and bounds clamping for dt seconds.
func (c *Camera) Advance(dt float32) {
	// Follow target
	if c.followTarget != nil && !c.followTarget.AsNode().IsDisposed() {
		p := c.followTarget.AsNode().WorldPosition()
		targetX := p[0] + c.followOffsetX
		targetY := p[1] + c.followOffsetY
		c.X += (targetX - c.X) * c.followLerp
		c.Y += (targetY - c.Y) * c.followLerp
	}

	// Scroll animation
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	// Bounds clamping
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// ViewTransform expresses the camera as a node transform:
//
//	Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where cx, cy = viewport center. The camera position becomes the pivot,
// which is how a camera node places the world under it.
func (c *Camera) ViewTransform() Transform {
	return Transform{
		Position: Vec2{c.Viewport.X + c.Viewport.Width/2, c.Viewport.Y + c.Viewport.Height/2},
		Scale:    Vec2{c.Zoom, c.Zoom},
		Rotation: -c.Rotation,
		Pivot:    Vec2{c.X, c.Y},
	}
}

// ViewMatrix returns the world-to-screen matrix.
func (c *Camera) ViewMatrix() Mat3 {
	return c.ViewTransform().Matrix()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	p := transformPoint(c.ViewMatrix(), Vec2{wx, wy})
	return p[0], p[1]
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	p := transformPoint(invertAffine(c.ViewMatrix()), Vec2{sx, sy})
	return p[0], p[1]
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	inv := invertAffine(c.ViewMatrix())

	vx := c.Viewport.X
	vy := c.Viewport.Y
	vr := vx + c.Viewport.Width
	vb := vy + c.Viewport.Height

	// Transform the four viewport corners to world space.
	p0 := transformPoint(inv, Vec2{vx, vy})
	p1 := transformPoint(inv, Vec2{vr, vy})
	p2 := transformPoint(inv, Vec2{vr, vb})
	p3 := transformPoint(inv, Vec2{vx, vb})

	minX := math.Min(math.Min(p0[0], p1[0]), math.Min(p2[0], p3[0]))
	minY := math.Min(math.Min(p0[1], p1[1]), math.Min(p2[1], p3[1]))
	maxX := math.Max(math.Max(p0[0], p1[0]), math.Max(p2[0], p3[0]))
	maxY := math.Max(math.Max(p0[1], p1[1]), math.Max(p2[1], p3[1]))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// InView reports whether the world point p falls inside VisibleBounds.
func (c *Camera) InView(p Vec2) bool {
	return c.VisibleBounds().Contains(p[0], p[1])
}

// Overlaps reports whether the world-space rectangle r touches
// VisibleBounds.
func (c *Camera) Overlaps(r Rect) bool {
	return c.VisibleBounds().Intersects(r)
}

// --- CameraNode ---

// CameraNode places its subtree in the view of a Camera. Whatever local
// transform it is given, each update replaces it with the inverse of the
// camera placement, so children positioned in world units are drawn in
// screen units.
type CameraNode struct {
	NodeBase
	Camera *Camera

	last    float64
	started bool
}

// NewCameraNode creates a camera node driven by cam.
func NewCameraNode(name string, cam *Camera) *CameraNode {
	n := &CameraNode{Camera: cam}
	n.Init(n, name)
	return n
}

func (n *CameraNode) Type() *rtti.Type { return CameraNodeType }

// OnUpdate advances the camera by the time since the previous frame.
func (n *CameraNode) OnUpdate(currentTime float64) {
	if n.Camera == nil {
		return
	}
	dt := 0.0
	if n.started {
		dt = currentTime - n.last
	}
	n.last, n.started = currentTime, true
	n.Camera.Advance(float32(dt))
}

// UpdateWorld overrides the local transform with the camera view.
func (n *CameraNode) UpdateWorld(parent Mat3) {
	if n.Camera != nil {
		n.Local = n.Camera.ViewTransform()
	}
	n.SetWorld(parent.Mul3(n.Local.Matrix()))
}

// Package ik solves planar inverse kinematics for chains of joints.
//
// A [Chain] is a list of joints in the local space of a base node. Each
// joint rotates relative to the previous one and extends a segment along
// its rotated X axis. [Chain.Relax] moves the end of the last segment
// toward a target with FABRIK passes and converts the result back into
// joint angles. The solver never leaves the chain further from the target
// than it started.
//
// [Controller] runs the solver every frame from the owner's update, and
// [Node] bundles a controller with the node that serves as the chain base.
package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/sapling"
)

// DefaultTolerance is the end-effector distance at which solving stops.
const DefaultTolerance = 1e-9

// straightBend is added to every joint angle of a chain that lies on the
// line through its target, where FABRIK cannot pick a bending direction.
const straightBend = 0.1

// Joint is one link of a chain.
//
// A joint's Node, when set, receives Angle as its local rotation. Nodes of
// consecutive joints are expected to be nested: the first joint's node sits
// at the base origin and each later node is a child of the previous joint's
// node. Relax places later nodes at the end of the previous segment.
type Joint struct {
	Angle  float64
	Length float64
	Node   sapling.Node
}

// NewJoint creates a joint with the given relative angle and length.
func NewJoint(angle, length float64) *Joint {
	return &Joint{Angle: angle, Length: length}
}

// Chain is an ordered list of joints solved in the space of Base.
type Chain struct {
	Joints []*Joint

	// Base defines chain space. A nil Base means world space.
	Base sapling.Node
	// Target is the node the end effector reaches for. Its world position
	// is read as last computed, so a target updated before the chain's base
	// is tracked without a frame of lag.
	Target sapling.Node
	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64

	goal    mgl64.Vec2
	hasGoal bool

	pos    []mgl64.Vec2
	best   []mgl64.Vec2
	angles []float64
}

// AddJoint appends j to the end of the chain.
func (c *Chain) AddJoint(j *Joint) {
	c.Joints = append(c.Joints, j)
}

// InsertJoint inserts j before index i. An index past the end appends.
func (c *Chain) InsertJoint(i int, j *Joint) {
	if i < 0 {
		i = 0
	}
	if i >= len(c.Joints) {
		c.AddJoint(j)
		return
	}
	c.Joints = append(c.Joints, nil)
	copy(c.Joints[i+1:], c.Joints[i:])
	c.Joints[i] = j
}

// RemoveTail removes and returns the last joint, or nil for an empty chain.
func (c *Chain) RemoveTail() *Joint {
	n := len(c.Joints)
	if n == 0 {
		return nil
	}
	j := c.Joints[n-1]
	c.Joints[n-1] = nil
	c.Joints = c.Joints[:n-1]
	return j
}

// Len returns the number of joints.
func (c *Chain) Len() int { return len(c.Joints) }

// At returns joint i, or nil when i is out of range.
func (c *Chain) At(i int) *Joint {
	if i < 0 || i >= len(c.Joints) {
		return nil
	}
	return c.Joints[i]
}

// TotalLength returns the sum of the joint lengths.
func (c *Chain) TotalLength() float64 {
	total := 0.0
	for _, j := range c.Joints {
		total += j.Length
	}
	return total
}

// SetGoal sets a world-space goal used while Target is nil.
func (c *Chain) SetGoal(p mgl64.Vec2) {
	c.goal, c.hasGoal = p, true
}

// ClearGoal removes the goal set by SetGoal.
func (c *Chain) ClearGoal() {
	c.hasGoal = false
}

// WorldGoal returns the world-space point the chain reaches for.
func (c *Chain) WorldGoal() (mgl64.Vec2, bool) {
	if c.Target != nil {
		return c.Target.AsNode().WorldPosition(), true
	}
	return c.goal, c.hasGoal
}

// Goal returns the reach point in chain space.
func (c *Chain) Goal() (mgl64.Vec2, bool) {
	p, ok := c.WorldGoal()
	if !ok {
		return mgl64.Vec2{}, false
	}
	if m := c.baseWorld(); m.Det() != 0 {
		p = apply(m.Inv(), p)
	}
	return p, true
}

// baseWorld returns the base's world matrix for the current frame. The
// cached World of the base is only refreshed after its controllers run.
func (c *Chain) baseWorld() mgl64.Mat3 {
	if c.Base == nil {
		return mgl64.Ident3()
	}
	return c.Base.AsNode().CurrentWorld()
}

func apply(m mgl64.Mat3, p mgl64.Vec2) mgl64.Vec2 {
	return m.Mul3x1(p.Vec3(1)).Vec2()
}

// Positions returns the chain-space joint positions: the origin followed by
// the end of every segment.
func (c *Chain) Positions() []mgl64.Vec2 {
	return forward(nil, c.Joints)
}

// EndEffector returns the end of the last segment in chain space.
func (c *Chain) EndEffector() mgl64.Vec2 {
	p := mgl64.Vec2{}
	abs := 0.0
	for _, j := range c.Joints {
		abs += j.Angle
		p = p.Add(polar(abs, j.Length))
	}
	return p
}

// WorldPositions returns Positions mapped through the base's world matrix.
func (c *Chain) WorldPositions() []mgl64.Vec2 {
	pos := c.Positions()
	if c.Base != nil {
		m := c.baseWorld()
		for i, p := range pos {
			pos[i] = apply(m, p)
		}
	}
	return pos
}

// Error returns the chain-space distance between the end effector and the
// goal, or 0 without a goal.
func (c *Chain) Error() float64 {
	goal, ok := c.Goal()
	if !ok {
		return 0
	}
	return c.EndEffector().Sub(goal).Len()
}

// Relax runs up to iterations FABRIK passes toward the goal and stores the
// resulting angles. Chains without joints or without a goal are left
// untouched. A goal at or beyond full reach straightens the chain toward
// it. The end effector never ends up further from the goal than before,
// and never further than it would after fewer iterations.
func (c *Chain) Relax(iterations int) {
	n := len(c.Joints)
	if n == 0 {
		return
	}
	goal, ok := c.Goal()
	if !ok {
		return
	}
	tol := c.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	startErr := c.EndEffector().Sub(goal).Len()
	if startErr <= tol {
		c.pose()
		return
	}
	c.angles = c.angles[:0]
	for _, j := range c.Joints {
		c.angles = append(c.angles, j.Angle)
	}

	if goal.Len() >= c.TotalLength() {
		c.Joints[0].Angle = math.Atan2(goal[1], goal[0])
		for _, j := range c.Joints[1:] {
			j.Angle = 0
		}
	} else {
		c.fabrik(goal, iterations, tol)
	}

	if c.EndEffector().Sub(goal).Len() > startErr {
		for i, j := range c.Joints {
			j.Angle = c.angles[i]
		}
	}
	c.pose()
}

func (c *Chain) fabrik(goal mgl64.Vec2, iterations int, tol float64) {
	n := len(c.Joints)
	c.pos = forward(c.pos[:0], c.Joints)
	if n > 1 && collinear(c.pos, goal) {
		for _, j := range c.Joints {
			j.Angle += straightBend
		}
		c.pos = forward(c.pos[:0], c.Joints)
	}

	if iterations < 1 {
		iterations = 1
	}
	pos := c.pos
	bestErr := math.Inf(1)
	c.best = append(c.best[:0], pos...)
	for it := 0; it < iterations; it++ {
		// Backward: pin the end to the goal.
		pos[n] = goal
		for i := n - 1; i >= 0; i-- {
			pos[i] = pos[i+1].Add(direction(pos[i].Sub(pos[i+1])).Mul(c.Joints[i].Length))
		}
		// Forward: pin the root to the origin.
		pos[0] = mgl64.Vec2{}
		for i := 0; i < n; i++ {
			pos[i+1] = pos[i].Add(direction(pos[i+1].Sub(pos[i])).Mul(c.Joints[i].Length))
		}
		err := pos[n].Sub(goal).Len()
		if err < bestErr {
			bestErr = err
			c.best = append(c.best[:0], pos...)
		}
		if err <= tol {
			break
		}
	}
	pos = c.best

	prev := 0.0
	for i, j := range c.Joints {
		seg := pos[i+1].Sub(pos[i])
		abs := prev
		if j.Length > 0 && seg.Len() > 1e-12 {
			abs = math.Atan2(seg[1], seg[0])
		}
		j.Angle = WrapAngle(abs - prev)
		prev = abs
	}
}

// pose copies joint angles onto the joint nodes.
func (c *Chain) pose() {
	for i, j := range c.Joints {
		if j.Node == nil {
			continue
		}
		b := j.Node.AsNode()
		b.Local.Rotation = j.Angle
		if i > 0 {
			b.Local.Position = mgl64.Vec2{c.Joints[i-1].Length, 0}
		}
	}
}

// forward appends the chain-space positions of joints to dst.
func forward(dst []mgl64.Vec2, joints []*Joint) []mgl64.Vec2 {
	p := mgl64.Vec2{}
	dst = append(dst, p)
	abs := 0.0
	for _, j := range joints {
		abs += j.Angle
		p = p.Add(polar(abs, j.Length))
		dst = append(dst, p)
	}
	return dst
}

// collinear reports whether every position and the goal lie on one line
// through the origin.
func collinear(pos []mgl64.Vec2, goal mgl64.Vec2) bool {
	var dir mgl64.Vec2
	for _, p := range pos[1:] {
		if p.Len() > 1e-12 {
			dir = p.Normalize()
			break
		}
	}
	if dir == (mgl64.Vec2{}) {
		return true
	}
	onLine := func(p mgl64.Vec2) bool {
		return math.Abs(dir[0]*p[1]-dir[1]*p[0]) <= 1e-9*math.Max(1, p.Len())
	}
	for _, p := range pos[1:] {
		if !onLine(p) {
			return false
		}
	}
	return onLine(goal)
}

// direction normalizes v. Vectors too short to have a direction map to +X.
func direction(v mgl64.Vec2) mgl64.Vec2 {
	if l := v.Len(); l > 1e-12 {
		return v.Mul(1 / l)
	}
	return mgl64.Vec2{1, 0}
}

func polar(angle, length float64) mgl64.Vec2 {
	sin, cos := math.Sincos(angle)
	return mgl64.Vec2{cos * length, sin * length}
}

// WrapAngle maps a to the interval (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

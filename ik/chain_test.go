package ik

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/sapling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLink(a0, a1 float64) *Chain {
	c := &Chain{}
	c.AddJoint(NewJoint(a0, 1))
	c.AddJoint(NewJoint(a1, 1))
	return c
}

func segmentLengths(pos []mgl64.Vec2) []float64 {
	out := make([]float64, 0, len(pos)-1)
	for i := 0; i+1 < len(pos); i++ {
		out = append(out, pos[i+1].Sub(pos[i]).Len())
	}
	return out
}

func TestRelaxReachableTarget(t *testing.T) {
	c := twoLink(0.3, 0.4)
	c.SetGoal(mgl64.Vec2{1, 1})

	c.Relax(10)

	assert.InDelta(t, 0, c.Error(), 1e-4)
	end := c.EndEffector()
	assert.InDelta(t, 1, end[0], 1e-4)
	assert.InDelta(t, 1, end[1], 1e-4)
	for i, l := range segmentLengths(c.Positions()) {
		assert.InDelta(t, 1, l, 1e-12, "segment %d", i)
	}
}

func TestRelaxSinglePassImproves(t *testing.T) {
	c := twoLink(0.3, 0.4)
	c.SetGoal(mgl64.Vec2{1, 1})
	before := c.Error()

	c.Relax(1)

	assert.Less(t, c.Error(), before)
	assert.Less(t, c.Error(), 0.01)
}

func TestRelaxExactReach(t *testing.T) {
	c := twoLink(0.5, -0.2)
	c.SetGoal(mgl64.Vec2{2, 0})

	c.Relax(1)

	assert.InDelta(t, 0, c.Error(), 1e-12)
	assert.InDelta(t, 0, c.Joints[0].Angle, 1e-12)
	assert.InDelta(t, 0, c.Joints[1].Angle, 1e-12)
}

func TestRelaxUnreachableStraightens(t *testing.T) {
	c := twoLink(0.3, 0.4)
	c.SetGoal(mgl64.Vec2{3, 4})

	c.Relax(1)
	end := c.EndEffector()
	assert.InDelta(t, 2, end.Len(), 1e-9)
	assert.InDelta(t, math.Atan2(4, 3), c.Joints[0].Angle, 1e-12)
	assert.InDelta(t, 0, c.Joints[1].Angle, 1e-12)

	// Further passes keep the pose.
	a0, a1 := c.Joints[0].Angle, c.Joints[1].Angle
	c.Relax(5)
	assert.InDelta(t, a0, c.Joints[0].Angle, 1e-12)
	assert.InDelta(t, a1, c.Joints[1].Angle, 1e-12)
}

func TestRelaxStraightChainBends(t *testing.T) {
	c := twoLink(0, 0)
	c.SetGoal(mgl64.Vec2{1.5, 0})

	c.Relax(20)

	assert.InDelta(t, 0, c.Error(), 1e-6)
	assert.NotZero(t, c.Joints[1].Angle)
}

func TestRelaxNeverWorsens(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		c := &Chain{}
		n := 1 + rng.Intn(4)
		for i := 0; i < n; i++ {
			c.AddJoint(NewJoint(rng.Float64()*2*math.Pi-math.Pi, 0.2+rng.Float64()))
		}
		r := rng.Float64() * c.TotalLength() * 1.5
		a := rng.Float64() * 2 * math.Pi
		c.SetGoal(mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)})

		before := c.Error()
		c.Relax(1 + rng.Intn(3))
		require.LessOrEqual(t, c.Error(), before+1e-12, "trial %d", trial)
	}
}

func TestRelaxEmptyChainNoop(t *testing.T) {
	c := &Chain{}
	c.SetGoal(mgl64.Vec2{1, 1})
	assert.NotPanics(t, func() { c.Relax(3) })
	assert.Equal(t, 0, c.Len())
}

func TestRelaxWithoutGoalNoop(t *testing.T) {
	c := twoLink(0.3, 0.4)
	c.Relax(3)
	assert.Equal(t, 0.3, c.Joints[0].Angle)
	assert.Equal(t, 0.4, c.Joints[1].Angle)
}

func TestRelaxInBaseSpace(t *testing.T) {
	base := sapling.NewNode("base")
	base.SetPosition(10, 5)
	base.SetRotation(math.Pi / 2)
	base.Update(0)

	c := twoLink(0.3, 0.4)
	c.Base = base
	// Chain-space (1, 1) is world (10-1, 5+1) under a quarter turn.
	c.SetGoal(mgl64.Vec2{9, 6})

	c.Relax(10)

	assert.InDelta(t, 0, c.Error(), 1e-4)
	world := c.WorldPositions()
	end := world[len(world)-1]
	assert.InDelta(t, 9, end[0], 1e-4)
	assert.InDelta(t, 6, end[1], 1e-4)
}

func TestRelaxPosesJointNodes(t *testing.T) {
	j0 := sapling.NewNode("j0")
	j1 := sapling.NewNode("j1")
	j0.AddChild(j1)

	c := twoLink(0.3, 0.4)
	c.Joints[0].Node = j0
	c.Joints[1].Node = j1
	c.SetGoal(mgl64.Vec2{1, 1})
	c.Relax(10)

	assert.Equal(t, c.Joints[0].Angle, j0.Local.Rotation)
	assert.Equal(t, c.Joints[1].Angle, j1.Local.Rotation)
	assert.Equal(t, mgl64.Vec2{1, 0}, j1.Local.Position)

	j0.Update(0)
	tip := j1.LocalToWorld(mgl64.Vec2{1, 0})
	assert.InDelta(t, 1, tip[0], 1e-4)
	assert.InDelta(t, 1, tip[1], 1e-4)
}

func TestChainEditing(t *testing.T) {
	c := &Chain{}
	a, b, d := NewJoint(0, 1), NewJoint(0, 2), NewJoint(0, 3)
	c.AddJoint(a)
	c.AddJoint(d)
	c.InsertJoint(1, b)
	c.InsertJoint(99, NewJoint(0, 4))

	require.Equal(t, 4, c.Len())
	assert.Same(t, b, c.At(1))
	assert.Equal(t, 10.0, c.TotalLength())
	assert.Nil(t, c.At(4))
	assert.Nil(t, c.At(-1))

	tail := c.RemoveTail()
	assert.Equal(t, 4.0, tail.Length)
	assert.Equal(t, 3, c.Len())
	assert.Nil(t, (&Chain{}).RemoveTail())
}

func TestWrapAngle(t *testing.T) {
	cases := map[float64]float64{
		0:               0,
		math.Pi:         math.Pi,
		-math.Pi:        math.Pi,
		3 * math.Pi / 2: -math.Pi / 2,
		-3 * math.Pi:    math.Pi,
		7:               7 - 2*math.Pi,
	}
	for in, want := range cases {
		assert.InDelta(t, want, WrapAngle(in), 1e-12, "WrapAngle(%v)", in)
	}
}

func TestRelaxMoreIterationsNeverWorse(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 300; trial++ {
		n := 1 + rng.Intn(4)
		angles := make([]float64, n)
		lengths := make([]float64, n)
		for i := range angles {
			angles[i] = rng.Float64()*2*math.Pi - math.Pi
			lengths[i] = 0.2 + rng.Float64()
		}
		build := func() *Chain {
			c := &Chain{}
			for i := range angles {
				c.AddJoint(NewJoint(angles[i], lengths[i]))
			}
			return c
		}
		total := build().TotalLength()
		r := rng.Float64() * total * 1.5
		a := rng.Float64() * 2 * math.Pi
		goal := mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)}

		prev := math.Inf(1)
		for k := 1; k <= 6; k++ {
			c := build()
			c.SetGoal(goal)
			c.Relax(k)
			require.LessOrEqual(t, c.Error(), prev+1e-12, "trial %d, %d iterations", trial, k)
			prev = c.Error()
		}
	}
}

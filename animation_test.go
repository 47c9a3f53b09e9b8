package sapling

import (
	"math"
	"testing"

	"github.com/phanxgames/sapling/rtti"
	"github.com/tanema/gween/ease"
)

// --- NormalTime ---

func TestNormalTime(t *testing.T) {
	tests := []struct {
		name     string
		repeat   RepeatMode
		min, max float64
		in, want float64
	}{
		{"none before", RepeatNone, 1, 3, 0, 1},
		{"none inside", RepeatNone, 1, 3, 2, 2},
		{"none after", RepeatNone, 1, 3, 5, 3},
		{"loop inside", RepeatLoop, 0, 2, 0.5, 0.5},
		{"loop end lands on max", RepeatLoop, 0, 2, 2, 2},
		{"loop second lap", RepeatLoop, 0, 2, 3, 1},
		{"loop two laps", RepeatLoop, 0, 2, 4, 0},
		{"loop negative", RepeatLoop, 0, 2, -0.5, 1.5},
		{"loop offset range", RepeatLoop, 1, 3, 4.5, 2.5},
		{"cycle forward", RepeatCycle, 0, 2, 0.5, 0.5},
		{"cycle end lands on max", RepeatCycle, 0, 2, 2, 2},
		{"cycle backward", RepeatCycle, 0, 2, 2.5, 1.5},
		{"cycle forward again", RepeatCycle, 0, 2, 4.5, 0.5},
		{"loop empty range", RepeatLoop, 2, 2, 7, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &AnimationController{Repeat: tt.repeat, MinTime: tt.min, MaxTime: tt.max}
			assertNear(t, "NormalTime", a.NormalTime(tt.in), tt.want)
		})
	}
}

func TestRepeatModeString(t *testing.T) {
	if RepeatLoop.String() != "loop" || RepeatMode(9).String() != "unknown" {
		t.Error("RepeatMode strings")
	}
}

func TestAdvanceSkipsRepeatedTime(t *testing.T) {
	a := &AnimationController{Playing: true}
	if !a.Advance(1) {
		t.Fatal("first Advance should run")
	}
	if a.Advance(1) {
		t.Error("Advance at the same time should not run")
	}
	if !a.Advance(1.5) || a.LastTime() != 1.5 {
		t.Error("Advance to a new time should run")
	}
	a.ResetTime()
	if !a.Advance(1.5) {
		t.Error("Advance after ResetTime should run")
	}
	a.Playing = false
	if a.Advance(2) {
		t.Error("paused controller should not advance")
	}
}

// --- KeyframeController ---

func newKeyed(t *testing.T) (*NodeBase, *KeyframeController) {
	t.Helper()
	n := NewNode("n")
	k := NewKeyframeController("keys")
	k.PositionKeys = []PositionKey{
		{Time: 0, Position: Vec2{0, 0}},
		{Time: 2, Position: Vec2{10, 0}},
	}
	k.MaxTime = 2
	n.Attach(k)
	return n, k
}

func TestKeyframeInterpolatesPosition(t *testing.T) {
	n, _ := newKeyed(t)
	n.Update(1)
	assertVec(t, "position", n.Local.Position, Vec2{5, 0})
	n.Update(5)
	assertVec(t, "clamped", n.Local.Position, Vec2{10, 0})
}

func TestKeyframeEase(t *testing.T) {
	n, k := newKeyed(t)
	k.PositionKeys[0].Ease = ease.InQuad
	n.Update(1)
	assertVec(t, "position", n.Local.Position, Vec2{2.5, 0})
}

func TestKeyframeLoop(t *testing.T) {
	n, k := newKeyed(t)
	k.Repeat = RepeatLoop
	n.Update(2.5)
	assertVec(t, "position", n.Local.Position, Vec2{2.5, 0})
}

func TestKeyframePoseTrackWins(t *testing.T) {
	n, k := newKeyed(t)
	k.RotationKeys = []RotationKey{{Time: 0, Rotation: 1}}
	k.PoseKeys = []PoseKey{{Time: 0, Position: Vec2{3, 4}, Rotation: 2}}
	n.Update(1)
	assertVec(t, "position", n.Local.Position, Vec2{3, 4})
	assertNear(t, "rotation", n.Local.Rotation, 2)
}

func TestKeyframeSameTimeLeavesOwner(t *testing.T) {
	n, _ := newKeyed(t)
	n.Update(1)
	n.SetPosition(-1, -1)
	n.Update(0)
	assertVec(t, "position", n.Local.Position, Vec2{-1, -1})
}

func TestKeyframePausedStaysAttached(t *testing.T) {
	n, k := newKeyed(t)
	k.Playing = false
	n.Update(1)
	assertVec(t, "position", n.Local.Position, Vec2{0, 0})
	if k.Owner() != ControlledObject(n) {
		t.Error("paused keyframe controller should stay attached")
	}
}

func TestKeyframeTypes(t *testing.T) {
	k := NewKeyframeController("k")
	if !rtti.IsExactly(k, KeyframeType) || !rtti.Is(k, AnimationType) || !rtti.Is(k, ControllerType) {
		t.Errorf("type = %v", k.Type())
	}
	if rtti.Is(k, TweenType) {
		t.Error("keyframe is not a tween")
	}
}

func TestPoseKeyEditing(t *testing.T) {
	k := NewKeyframeController("k")
	k.InsertPoseKey(PoseKey{Time: 1, Rotation: 1})
	k.InsertPoseKey(PoseKey{Time: 0})
	k.InsertPoseKey(PoseKey{Time: 2})
	k.InsertPoseKey(PoseKey{Time: 1, Rotation: 5})

	if len(k.PoseKeys) != 3 {
		t.Fatalf("len = %d, want 3", len(k.PoseKeys))
	}
	for i, want := range []float64{0, 1, 2} {
		if k.PoseKeys[i].Time != want {
			t.Errorf("key %d time = %v, want %v", i, k.PoseKeys[i].Time, want)
		}
	}
	if k.PoseKeys[1].Rotation != 5 {
		t.Error("insert at an existing time should replace")
	}

	// The cursor sits on the last inserted key (time 1).
	if tm, _ := k.NextPoseKeyTime(); tm != 2 {
		t.Errorf("next = %v, want 2", tm)
	}
	if tm, _ := k.NextPoseKeyTime(); tm != 0 {
		t.Errorf("next wraps = %v, want 0", tm)
	}
	if tm, _ := k.PrevPoseKeyTime(); tm != 2 {
		t.Errorf("prev wraps = %v, want 2", tm)
	}

	if !k.RemovePoseKey(1) || k.RemovePoseKey(7) {
		t.Error("RemovePoseKey result")
	}
	k.FitTimeRange()
	if k.MinTime != 0 || k.MaxTime != 2 {
		t.Errorf("range = [%v, %v]", k.MinTime, k.MaxTime)
	}

	empty := NewKeyframeController("empty")
	if _, ok := empty.NextPoseKeyTime(); ok {
		t.Error("empty track has no next key")
	}
}

func TestKeyframeReset(t *testing.T) {
	_, k := newKeyed(t)
	k.InsertPoseKey(PoseKey{Time: 0})
	k.InsertPoseKey(PoseKey{Time: 1})
	k.InsertPoseKey(PoseKey{Time: 2})
	if !k.Advance(1) || k.Advance(1) {
		t.Fatal("time 1 should run once")
	}

	k.Reset()
	if !k.Advance(1) {
		t.Error("Advance after Reset should run")
	}
	if tm, _ := k.NextPoseKeyTime(); tm != 1 {
		t.Errorf("next after Reset = %v, want 1", tm)
	}
}

// --- TweenController ---

func TestTweenPositionReachesTarget(t *testing.T) {
	n := NewNode("n")
	n.SetPosition(10, 20)
	tw := TweenPosition(Vec2{100, 200}, 1, ease.Linear)
	n.Attach(tw)

	n.Update(0) // starts from the current position
	n.Update(0.5)
	if math.Abs(n.Local.Position[0]-55) > 0.01 {
		t.Errorf("halfway X = %v, want 55", n.Local.Position[0])
	}
	n.Update(0.5)

	if !tw.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(n.Local.Position[0]-100) > 0.01 || math.Abs(n.Local.Position[1]-200) > 0.01 {
		t.Errorf("position = %v, want (100, 200)", n.Local.Position)
	}
	if tw.Owner() != nil || n.Controllers().Len() != 0 {
		t.Error("finished tween should expire")
	}
}

func TestTweenScaleAndRotation(t *testing.T) {
	n := NewNode("n")
	n.Attach(TweenScale(Vec2{2, 3}, 0.5, nil))
	n.Attach(TweenRotation(math.Pi, 0.5, nil))

	n.Update(0)
	n.Update(0.25)
	n.Update(0.25)

	if math.Abs(n.Local.Scale[0]-2) > 0.01 || math.Abs(n.Local.Scale[1]-3) > 0.01 {
		t.Errorf("scale = %v", n.Local.Scale)
	}
	if math.Abs(n.Local.Rotation-math.Pi) > 0.01 {
		t.Errorf("rotation = %v", n.Local.Rotation)
	}
	if n.Controllers().Len() != 0 {
		t.Error("both tweens should expire")
	}
}

func TestTweenExpiryEmitsEvent(t *testing.T) {
	scene := NewScene()
	var expired int
	scene.SetEventSink(EventSinkFunc(func(e GraphEvent) {
		if e.Type == EventControllerExpired {
			expired++
		}
	}))
	scene.Root().Attach(TweenRotation(1, 0.1, nil))
	scene.Update(0)
	scene.Update(0.2)
	if expired != 1 {
		t.Errorf("expired events = %d, want 1", expired)
	}
}

func TestTweenWaitsForNodeOwner(t *testing.T) {
	def := NewDefinition("def")
	tw := TweenRotation(1, 0.1, nil)
	def.Controllers().Attach(tw)
	def.Controllers().Update(5)
	if tw.Owner() == nil || tw.Done {
		t.Error("tween on a non-node owner should wait")
	}
}

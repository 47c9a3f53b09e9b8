package sapling

import (
	"math"

	"github.com/phanxgames/sapling/rtti"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RepeatMode selects how an AnimationController maps times outside
// [MinTime, MaxTime] back into that range.
type RepeatMode uint8

const (
	RepeatNone  RepeatMode = iota // clamp to the range
	RepeatLoop                    // wrap around to MinTime
	RepeatCycle                   // play forward then backward
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatNone:
		return "none"
	case RepeatLoop:
		return "loop"
	case RepeatCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// AnimationController is the base for time-driven controllers. It has no
// OnUpdate of its own; concrete animations embed it and call Advance and
// NormalTime.
type AnimationController struct {
	ControllerBase

	Repeat  RepeatMode
	MinTime float64
	MaxTime float64
	Playing bool

	time    float64
	hasTime bool
}

func (a *AnimationController) Type() *rtti.Type { return AnimationType }

// Advance records currentTime as the last animated time. It returns false
// when the animation is paused or already ran for this exact time, in
// which case the owner should not be touched.
func (a *AnimationController) Advance(currentTime float64) bool {
	if !a.Playing {
		return false
	}
	if a.hasTime && a.time == currentTime {
		return false
	}
	a.time = currentTime
	a.hasTime = true
	return true
}

// LastTime returns the time passed to the most recent successful Advance.
func (a *AnimationController) LastTime() float64 {
	return a.time
}

// ResetTime forgets the last animated time so the next Advance always runs.
func (a *AnimationController) ResetTime() {
	a.hasTime = false
}

// NormalTime maps t into [MinTime, MaxTime] according to Repeat.
func (a *AnimationController) NormalTime(t float64) float64 {
	if a.Repeat == RepeatNone {
		return math.Max(a.MinTime, math.Min(t, a.MaxTime))
	}

	span := a.MaxTime - a.MinTime
	if span <= 0 {
		return a.MinTime
	}
	x := (t - a.MinTime) / span
	whole := math.Floor(x)
	frac := x - whole
	if x == 1 {
		// Land exactly on MaxTime rather than wrapping back to MinTime.
		frac, whole = 1, 0
	}
	if a.Repeat == RepeatCycle && int64(whole)&1 == 1 {
		return a.MaxTime - frac*span
	}
	return a.MinTime + frac*span
}

// --- TweenController ---

type tweenField uint8

const (
	tweenX tweenField = iota
	tweenY
	tweenScaleX
	tweenScaleY
	tweenRotation
)

// TweenController animates up to 4 transform fields of its owner node
// simultaneously with gween. The tweens start from the owner's values on the
// first update after attachment and run on the owner's clock. When every
// tween finishes the controller expires and is detached.
type TweenController struct {
	ControllerBase

	duration float32
	fn       ease.TweenFunc
	count    int
	fields   [4]tweenField
	to       [4]float64
	tweens   [4]*gween.Tween

	started bool
	last    float64
	Done    bool
}

func (t *TweenController) Type() *rtti.Type { return TweenType }

// OnUpdate advances all tweens by the time since the previous update and
// writes the values to the owner's transform. If the owner has been
// disposed, Done is set and the controller expires.
func (t *TweenController) OnUpdate(currentTime float64) bool {
	if t.Done {
		return false
	}
	node, ok := t.OwnerNode()
	if !ok {
		return true
	}
	b := node.AsNode()
	if b.IsDisposed() {
		t.Done = true
		return false
	}

	if !t.started {
		for i := 0; i < t.count; i++ {
			from := *tweenTarget(b, t.fields[i])
			t.tweens[i] = gween.New(float32(from), float32(t.to[i]), t.duration, t.fn)
		}
		t.started, t.last = true, currentTime
		return true
	}

	dt := float32(currentTime - t.last)
	t.last = currentTime
	allDone := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		*tweenTarget(b, t.fields[i]) = float64(val)
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone
	return !allDone
}

func tweenTarget(b *NodeBase, f tweenField) *float64 {
	switch f {
	case tweenX:
		return &b.Local.Position[0]
	case tweenY:
		return &b.Local.Position[1]
	case tweenScaleX:
		return &b.Local.Scale[0]
	case tweenScaleY:
		return &b.Local.Scale[1]
	default:
		return &b.Local.Rotation
	}
}

func newTween(duration float32, fn ease.TweenFunc) *TweenController {
	if fn == nil {
		fn = ease.Linear
	}
	t := &TweenController{duration: duration, fn: fn}
	t.SetName("tween")
	return t
}

func (t *TweenController) add(f tweenField, to float64) {
	t.fields[t.count] = f
	t.to[t.count] = to
	t.count++
}

// TweenPosition creates a TweenController that animates the owner's local
// position to the given target over the specified duration using the
// easing function.
func TweenPosition(to Vec2, duration float32, fn ease.TweenFunc) *TweenController {
	t := newTween(duration, fn)
	t.add(tweenX, to[0])
	t.add(tweenY, to[1])
	return t
}

// TweenScale creates a TweenController that animates the owner's local
// scale to the given target values.
func TweenScale(to Vec2, duration float32, fn ease.TweenFunc) *TweenController {
	t := newTween(duration, fn)
	t.add(tweenScaleX, to[0])
	t.add(tweenScaleY, to[1])
	return t
}

// TweenRotation creates a TweenController that animates the owner's local
// rotation to the target value in radians.
func TweenRotation(to float64, duration float32, fn ease.TweenFunc) *TweenController {
	t := newTween(duration, fn)
	t.add(tweenRotation, to)
	return t
}

package sapling

import (
	"sort"

	"github.com/phanxgames/sapling/rtti"
	"github.com/tanema/gween/ease"
)

// PositionKey pins the owner's local position at Time. Ease shapes the
// segment from this key to the next; nil means linear.
type PositionKey struct {
	Time     float64
	Position Vec2
	Ease     ease.TweenFunc
}

// RotationKey pins the owner's local rotation at Time.
type RotationKey struct {
	Time     float64
	Rotation float64
	Ease     ease.TweenFunc
}

// PoseKey pins both position and rotation at Time.
type PoseKey struct {
	Time     float64
	Position Vec2
	Rotation float64
	Ease     ease.TweenFunc
}

// KeyframeController interpolates its owner node's local transform between
// time-sorted keys. Position, rotation, and pose tracks are independent;
// the pose track is applied last and wins where tracks overlap.
type KeyframeController struct {
	AnimationController

	PositionKeys []PositionKey
	RotationKeys []RotationKey
	PoseKeys     []PoseKey

	poseCursor int
}

// NewKeyframeController creates a playing, clamped keyframe controller.
func NewKeyframeController(name string) *KeyframeController {
	k := &KeyframeController{}
	k.SetName(name)
	k.Playing = true
	return k
}

func (k *KeyframeController) Type() *rtti.Type { return KeyframeType }

// OnUpdate samples every track at the normalized owner time. Keyframe
// controllers never expire; a paused controller stays attached.
func (k *KeyframeController) OnUpdate(currentTime float64) bool {
	if !k.Advance(currentTime) {
		return true
	}
	node, ok := k.OwnerNode()
	if !ok {
		return true
	}
	k.Apply(node.AsNode(), k.NormalTime(currentTime))
	return true
}

// Apply writes the tracks sampled at t (already normalized) to n.
func (k *KeyframeController) Apply(n *NodeBase, t float64) {
	if len(k.PositionKeys) > 0 {
		i0, i1, u := segment(len(k.PositionKeys), func(i int) float64 { return k.PositionKeys[i].Time }, t)
		a, b := k.PositionKeys[i0], k.PositionKeys[i1]
		n.Local.Position = lerpVec(a.Position, b.Position, eased(a.Ease, u))
	}
	if len(k.RotationKeys) > 0 {
		i0, i1, u := segment(len(k.RotationKeys), func(i int) float64 { return k.RotationKeys[i].Time }, t)
		a, b := k.RotationKeys[i0], k.RotationKeys[i1]
		n.Local.Rotation = lerp(a.Rotation, b.Rotation, eased(a.Ease, u))
	}
	if len(k.PoseKeys) > 0 {
		i0, i1, u := segment(len(k.PoseKeys), func(i int) float64 { return k.PoseKeys[i].Time }, t)
		a, b := k.PoseKeys[i0], k.PoseKeys[i1]
		e := eased(a.Ease, u)
		n.Local.Position = lerpVec(a.Position, b.Position, e)
		n.Local.Rotation = lerp(a.Rotation, b.Rotation, e)
	}
}

// FitTimeRange sets MinTime and MaxTime to the span covered by all keys.
func (k *KeyframeController) FitTimeRange() {
	first, last, seen := 0.0, 0.0, false
	see := func(t float64) {
		if !seen || t < first {
			first = t
		}
		if !seen || t > last {
			last = t
		}
		seen = true
	}
	for _, key := range k.PositionKeys {
		see(key.Time)
	}
	for _, key := range k.RotationKeys {
		see(key.Time)
	}
	for _, key := range k.PoseKeys {
		see(key.Time)
	}
	k.MinTime, k.MaxTime = first, last
}

// --- Pose key editing ---

// InsertPoseKey adds key keeping the pose track sorted by time. A key at
// an existing time replaces it.
func (k *KeyframeController) InsertPoseKey(key PoseKey) {
	i := sort.Search(len(k.PoseKeys), func(i int) bool { return k.PoseKeys[i].Time >= key.Time })
	if i < len(k.PoseKeys) && k.PoseKeys[i].Time == key.Time {
		k.PoseKeys[i] = key
	} else {
		k.PoseKeys = append(k.PoseKeys, PoseKey{})
		copy(k.PoseKeys[i+1:], k.PoseKeys[i:])
		k.PoseKeys[i] = key
	}
	k.poseCursor = i
}

// RemovePoseKey deletes the pose key at exactly time t and reports whether
// one was found.
func (k *KeyframeController) RemovePoseKey(t float64) bool {
	for i, key := range k.PoseKeys {
		if key.Time == t {
			k.PoseKeys = append(k.PoseKeys[:i], k.PoseKeys[i+1:]...)
			if k.poseCursor >= len(k.PoseKeys) {
				k.poseCursor = 0
			}
			return true
		}
	}
	return false
}

// Reset forgets the last applied time and moves the pose cursor back to
// the first key.
func (k *KeyframeController) Reset() {
	k.ResetTime()
	k.poseCursor = 0
}

// NextPoseKeyTime steps the pose cursor forward, wrapping at the end, and
// returns the time of the key under it.
func (k *KeyframeController) NextPoseKeyTime() (float64, bool) {
	if len(k.PoseKeys) == 0 {
		return 0, false
	}
	k.poseCursor = (k.poseCursor + 1) % len(k.PoseKeys)
	return k.PoseKeys[k.poseCursor].Time, true
}

// PrevPoseKeyTime steps the pose cursor backward, wrapping at the start.
func (k *KeyframeController) PrevPoseKeyTime() (float64, bool) {
	if len(k.PoseKeys) == 0 {
		return 0, false
	}
	k.poseCursor = (k.poseCursor + len(k.PoseKeys) - 1) % len(k.PoseKeys)
	return k.PoseKeys[k.poseCursor].Time, true
}

// --- Sampling helpers ---

// segment finds the keys bracketing t in a track of n time-sorted keys.
// Before the first key or after the last one, both indices name that key.
func segment(n int, timeAt func(int) float64, t float64) (i0, i1 int, u float64) {
	if t <= timeAt(0) {
		return 0, 0, 0
	}
	if t >= timeAt(n-1) {
		return n - 1, n - 1, 0
	}
	i1 = sort.Search(n, func(i int) bool { return timeAt(i) > t })
	i0 = i1 - 1
	t0, t1 := timeAt(i0), timeAt(i1)
	return i0, i1, (t - t0) / (t1 - t0)
}

func eased(fn ease.TweenFunc, u float64) float64 {
	if fn == nil {
		return u
	}
	return float64(fn(float32(u), 0, 1, 1))
}

func lerp(a, b, u float64) float64 {
	return a + (b-a)*u
}

func lerpVec(a, b Vec2, u float64) Vec2 {
	return a.Add(b.Sub(a).Mul(u))
}

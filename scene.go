package sapling

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventSink is the interface for optional scene-graph observers such as
// the ECS bridge. When set on a Scene, structural changes and controller
// lifecycle changes are forwarded to it.
type EventSink interface {
	Emit(event GraphEvent)
}

// GraphEvent describes one structural or controller change.
type GraphEvent struct {
	Type EventType

	// Child events (EventChildAdded, EventChildRemoved)
	Parent Node
	Child  Node

	// Controller events (EventControllerAttached, EventControllerDetached,
	// EventControllerExpired)
	Owner      ControlledObject
	Controller Controller
}

// EventSinkFunc adapts a plain function to EventSink.
type EventSinkFunc func(GraphEvent)

func (f EventSinkFunc) Emit(e GraphEvent) { f(e) }

func emit(root *NodeBase, e GraphEvent) {
	if root != nil && root.sink != nil {
		root.sink.Emit(e)
	}
}

func emitFor(owner ControlledObject, e GraphEvent) {
	if n := nodeOf(owner); n != nil {
		emit(n.rootBase(), e)
	}
}

// Scene is the top-level object that owns the node tree and its clock.
type Scene struct {
	root  *NodeBase
	debug bool

	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir   string
	screenshotQueue []string

	testRunner *TestRunner
}

// NewScene creates a new scene with a pre-created root node.
func NewScene() *Scene {
	s := &Scene{root: NewNode("root"), ScreenshotDir: DefaultScreenshotDir}
	s.root.objects = NewObjectRegistry()
	s.root.objects.Register(s.root)
	return s
}

// Objects returns the registry of named objects in the scene. Nodes under
// the root are registered automatically; other objects such as a
// Definition may be registered by hand.
func (s *Scene) Objects() *ObjectRegistry {
	return s.root.objects
}

// Lookup returns the node registered under name, or nil.
func (s *Scene) Lookup(name string) Node {
	n, _ := s.root.objects.Lookup(name).(Node)
	return n
}

// Root returns the scene's root node.
func (s *Scene) Root() *NodeBase {
	return s.root
}

// Now returns the scene clock: the sum of all elapsed times passed to Update.
func (s *Scene) Now() float64 {
	return s.root.clock
}

// Update advances the scene clock by elapsed seconds and updates the tree.
// An attached TestRunner steps first.
func (s *Scene) Update(elapsed float64) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if !s.debug {
		s.root.Update(elapsed)
		return
	}
	t0 := time.Now()
	s.root.Update(elapsed)
	Debugf("update: %v (clock %.3f)", time.Since(t0), s.root.clock)
}

// UpdateTick advances the scene by one ebiten tick.
func (s *Scene) UpdateTick() {
	s.Update(1.0 / float64(ebiten.TPS()))
}

// Draw traverses the scene tree and submits drawing to r.
func (s *Scene) Draw(r Renderer) {
	if !s.debug {
		s.root.Draw(r)
		return
	}
	var stats debugStats
	t0 := time.Now()
	counter := &countingRenderer{Renderer: r}
	s.root.Draw(counter)
	stats.drawTime = time.Since(t0)
	stats.drawCallCount = counter.calls
	s.debugLog(stats)
}

// DrawScreen draws the scene onto an ebiten image and writes any queued
// screenshots of the result.
func (s *Scene) DrawScreen(screen *ebiten.Image) {
	s.Draw(NewEbitenRenderer(screen))
	s.flushScreenshots(screen)
}

// SetEventSink sets the optional event observer.
func (s *Scene) SetEventSink(sink EventSink) {
	s.root.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and per-frame
// timing stats are logged to DebugOutput.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

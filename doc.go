// Package sapling is the core of a small 2D game engine for [Ebitengine]: a
// runtime type registry, controllers attached to objects, a scene graph with
// per-frame update and draw traversal, and the drawing nodes built on it.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := sapling.NewScene()
//	// ... add nodes ...
//	sapling.Run(scene, sapling.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.DrawScreen] directly:
//
//	type Game struct{ scene *sapling.Scene }
//
//	func (g *Game) Update() error        { g.scene.UpdateTick(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.scene.DrawScreen(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Types
//
// Every engine type carries an [rtti.Type] naming itself and its base. Use
// [rtti.Is] and [rtti.IsExactly] to test an object's type without relying on
// Go type assertions across embedding.
//
// # Scene graph
//
// Every element of the tree is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. A node's world transform is its parent's world transform
// composed with its local position, rotation, and scale.
//
// Custom nodes embed [NodeBase] and call Init with themselves so that the
// tree can reach the outer value:
//
//	type Ship struct {
//		sapling.NodeBase
//	}
//
//	func NewShip(name string) *Ship {
//		s := &Ship{}
//		s.Init(s, name)
//		return s
//	}
//
// A node may implement [Updater] and [Drawer] to take part in traversal.
// During Update each node runs its controllers, then OnUpdate, then refreshes
// its world transform, then visits its children in order. Draw skips any
// subtree whose root is not Visible.
//
// Tree edits made while a traversal is running are checked at once and
// applied when the traversal finishes. A [Scene] reports edits to its
// [EventSink] as [GraphEvent] values.
//
// # Controllers
//
// A [Controller] is attached to at most one owner and updated once per frame
// with the owner's clock. Returning false from OnUpdate detaches it.
// [AnimationController] adds a time window with repeat modes and
// [KeyframeController] plays position, rotation, and pose keys.
//
// # Debug mode
//
// Call [Scene.SetDebugMode] to enable use-after-dispose panics and warnings
// for deep trees and wide nodes. Warnings go to [DebugOutput].
//
// The ik subpackage adds a FABRIK solver and an IK node. The ecs subpackage
// (a separate module) bridges scene graph events into a donburi world.
//
// [Ebitengine]: https://ebitengine.org
package sapling

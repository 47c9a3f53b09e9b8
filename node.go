package sapling

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/sapling/rtti"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; sapling is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the scene graph element. Concrete node kinds embed NodeBase and
// call Init with themselves so traversal can reach their hooks.
type Node interface {
	ControlledObject
	AsNode() *NodeBase
}

// Updater is implemented by nodes with per-frame logic of their own. It
// runs after the node's controllers and before its world transform.
type Updater interface {
	OnUpdate(currentTime float64)
}

// WorldUpdater replaces the default world-transform computation
// (parent world * local). parent is the identity for a root node.
// Implementations must store the result with SetWorld.
type WorldUpdater interface {
	UpdateWorld(parent Mat3)
}

// Drawer is implemented by nodes with a visual representation. OnDraw
// draws only the node itself; children are drawn by the traversal.
type Drawer interface {
	OnDraw(r Renderer)
}

// NodeBase holds the hierarchy, transform, and controller state shared by
// every node.
type NodeBase struct {
	// Identity
	ID   uint32
	name string
	this Node

	// Hierarchy
	parent   *NodeBase
	children []Node

	// Transform
	Local Transform
	world Mat3

	// Visibility
	Visible    bool // false skips the node and its whole subtree
	Renderable bool // false skips only the node's own drawing

	// Visualizer draws debug geometry after the node's own drawing.
	Visualizer Visualizer

	// Metadata
	UserData any

	controllers ControllerSet

	// Traversal state, meaningful on the root of a tree.
	clock   float64
	locked  int
	pending opQueue
	sink    EventSink
	objects *ObjectRegistry

	disposed bool
}

// Init prepares n for use as the base of this. this.AsNode() must return n.
func (n *NodeBase) Init(this Node, name string) {
	if this == nil || this.AsNode() != n {
		panic("sapling: Init requires the node that embeds this NodeBase")
	}
	n.ID = nextNodeID()
	n.name = name
	n.this = this
	n.Local = IdentityTransform()
	n.world = mgl64.Ident3()
	n.Visible = true
	n.Renderable = true
	n.controllers.Init(this)
}

// NewNode creates a plain grouping node with no visual representation.
func NewNode(name string) *NodeBase {
	n := &NodeBase{}
	n.Init(n, name)
	return n
}

// Type returns NodeType. Embedders override it.
func (n *NodeBase) Type() *rtti.Type { return NodeType }

// Name returns the node's name.
func (n *NodeBase) Name() string { return n.name }

// SetName renames the node. A node inside a scene keeps a unique name, so
// the scene may give it a suffixed form of name instead.
func (n *NodeBase) SetName(name string) {
	reg := n.rootBase().objects
	if reg == nil {
		n.name = name
		return
	}
	reg.Unregister(n.self())
	n.name = name
	reg.Register(n.self())
}

func (n *NodeBase) setName(name string) { n.name = name }

// AsNode returns n.
func (n *NodeBase) AsNode() *NodeBase { return n }

// Self returns the node that embeds n.
func (n *NodeBase) Self() Node { return n.this }

// Controllers returns the node's controller set.
func (n *NodeBase) Controllers() *ControllerSet { return &n.controllers }

// Attach attaches c to this node.
func (n *NodeBase) Attach(c Controller) { n.controllers.Attach(c) }

// Detach detaches c from this node.
func (n *NodeBase) Detach(c Controller) { n.controllers.Detach(c) }

// Clock returns the time accumulated by Update calls made on this node.
func (n *NodeBase) Clock() float64 { return n.clock }

func (n *NodeBase) String() string {
	return fmt.Sprintf("%s(%q)", n.self().Type(), n.name)
}

// self returns the embedding node, falling back to n for an uninitialized
// base.
func (n *NodeBase) self() Node {
	if n.this == nil {
		return n
	}
	return n.this
}

// --- Hierarchy queries ---

// Parent returns the parent node, or nil for a root.
func (n *NodeBase) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.self()
}

// Root returns the topmost ancestor of n, which is n itself for a root.
func (n *NodeBase) Root() Node {
	return n.rootBase().self()
}

func (n *NodeBase) rootBase() *NodeBase {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *NodeBase) Children() []Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *NodeBase) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index, or nil (with a debug
// warning) when index is out of range.
func (n *NodeBase) ChildAt(index int) Node {
	if index < 0 || index >= len(n.children) {
		Debugf("warning: child index %d out of range on %q (%d children)", index, n.name, len(n.children))
		return nil
	}
	return n.children[index]
}

// FindChild returns the first descendant named name in depth-first order.
func (n *NodeBase) FindChild(name string) Node {
	for _, c := range n.children {
		if c.Name() == name {
			return c
		}
		if found := c.AsNode().FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// IsAncestorOf reports whether n is other or one of other's ancestors.
func (n *NodeBase) IsAncestorOf(other Node) bool {
	if other == nil {
		return false
	}
	return isAncestor(n, other.AsNode())
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics with a *HierarchyError if child is nil, is this node, or is an
// ancestor of this node.
func (n *NodeBase) AddChild(child Node) {
	n.insertChild("AddChild", child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *NodeBase) AddChildAt(child Node, index int) {
	n.insertChild("AddChildAt", child, index)
}

func (n *NodeBase) insertChild(op string, child Node, index int) {
	if child == nil {
		hierarchyPanic(op, n, nil, ErrNilChild)
	}
	c := child.AsNode()
	if globalDebug {
		debugCheckDisposed(n, op)
		debugCheckDisposed(c, op)
	}
	if c == n {
		hierarchyPanic(op, n, c, ErrSelfParent)
	}
	q := deferredQueue(n, c)
	if q.isAncestor(c, n) {
		hierarchyPanic(op, n, c, ErrCycle)
	}
	if index > q.numChildren(n) {
		hierarchyPanic(op, n, c, ErrIndexRange)
	}
	if q != nil {
		q.setParent(c, n)
		q.push(func() { n.insertChild(op, child, index) })
		return
	}

	if old := c.parent; old != nil {
		if reg := old.rootBase().objects; reg != nil {
			reg.unregisterTree(c)
		}
		old.removeChildByPtr(c)
		c.parent = nil
		emit(old.rootBase(), GraphEvent{Type: EventChildRemoved, Parent: old.self(), Child: child})
	}
	c.parent = n
	if index > len(n.children) {
		index = len(n.children)
	}
	if index < 0 || index == len(n.children) {
		n.children = append(n.children, child)
	} else {
		n.children = append(n.children, nil)
		copy(n.children[index+1:], n.children[index:])
		n.children[index] = child
	}
	if reg := n.rootBase().objects; reg != nil {
		reg.registerTree(c)
	}
	emit(n.rootBase(), GraphEvent{Type: EventChildAdded, Parent: n.self(), Child: child})
	if globalDebug {
		debugCheckTreeDepth(c)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics with a *HierarchyError if child's parent is not this node.
func (n *NodeBase) RemoveChild(child Node) {
	if child == nil {
		hierarchyPanic("RemoveChild", n, nil, ErrNilChild)
	}
	c := child.AsNode()
	q := deferredQueue(n)
	if q.parentOf(c) != n {
		hierarchyPanic("RemoveChild", n, c, ErrNotChild)
	}
	if q != nil {
		q.setParent(c, nil)
		q.push(func() {
			if c.parent == n {
				n.RemoveChild(child)
			}
		})
		return
	}
	if reg := n.rootBase().objects; reg != nil {
		reg.unregisterTree(c)
	}
	n.removeChildByPtr(c)
	c.parent = nil
	emit(n.rootBase(), GraphEvent{Type: EventChildRemoved, Parent: n.self(), Child: child})
}

// RemoveChildAt removes and returns the child at the given index. During a
// traversal the removal is deferred but the child is returned immediately.
func (n *NodeBase) RemoveChildAt(index int) Node {
	if index < 0 || index >= len(n.children) {
		hierarchyPanic("RemoveChildAt", n, nil, ErrIndexRange)
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *NodeBase) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n.self())
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *NodeBase) RemoveChildren() {
	if q := deferredQueue(n); q != nil {
		for _, c := range q.childrenOf(n) {
			q.setParent(c, nil)
		}
		q.push(n.RemoveChildren)
		return
	}
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
}

// RemoveFromHierarchy unlinks n from the tree while keeping its subtree
// in place: n's children take n's slot under n's parent, in order. If n
// has no parent its children become roots.
func (n *NodeBase) RemoveFromHierarchy() {
	if q := deferredQueue(n); q != nil {
		parent := q.parentOf(n)
		for _, c := range q.childrenOf(n) {
			q.setParent(c, parent)
		}
		q.setParent(n, nil)
		q.push(n.RemoveFromHierarchy)
		return
	}
	parent := n.parent
	if parent == nil {
		if len(n.children) > 0 {
			Debugf("warning: %q has no parent, its %d children become roots", n.name, len(n.children))
		}
		n.RemoveChildren()
		return
	}
	index := parent.indexOf(n)
	children := append([]Node(nil), n.children...)
	parent.RemoveChild(n.self())
	for i, child := range children {
		parent.AddChildAt(child, index+i)
	}
}

// SetChildIndex moves child to a new index among its siblings.
func (n *NodeBase) SetChildIndex(child Node, index int) {
	c := child.AsNode()
	q := deferredQueue(n)
	if q.parentOf(c) != n {
		hierarchyPanic("SetChildIndex", n, c, ErrNotChild)
	}
	if index < 0 || index >= q.numChildren(n) {
		hierarchyPanic("SetChildIndex", n, c, ErrIndexRange)
	}
	if q != nil {
		q.push(func() {
			if c.parent == n && index < len(n.children) {
				n.SetChildIndex(child, index)
			}
		})
		return
	}
	oldIndex := n.indexOf(c)
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// --- Disposal ---

// Dispose removes this node from its parent, detaches its controllers,
// marks it as disposed, and recursively disposes all descendants.
func (n *NodeBase) Dispose() {
	if n.disposed {
		return
	}
	if q := deferredQueue(n); q != nil {
		q.setParent(n, nil)
		q.push(n.Dispose)
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *NodeBase) dispose() {
	n.controllers.DetachAll()
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		c := child.AsNode()
		c.parent = nil
		c.dispose()
	}
	n.children = nil
	n.parent = nil
	n.Visualizer = nil
	n.UserData = nil
	n.sink = nil
	n.objects = nil
	n.pending.reset()
}

// IsDisposed returns true if this node has been disposed.
func (n *NodeBase) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *NodeBase) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *NodeBase) indexOf(child *NodeBase) int {
	for i, c := range n.children {
		if c.AsNode() == child {
			return i
		}
	}
	return -1
}

// removeChildByPtr removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *NodeBase) removeChildByPtr(child *NodeBase) {
	if i := n.indexOf(child); i >= 0 {
		copy(n.children[i:], n.children[i+1:])
		n.children[len(n.children)-1] = nil
		n.children = n.children[:len(n.children)-1]
	}
}

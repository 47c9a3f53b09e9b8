package sapling

import "github.com/phanxgames/sapling/rtti"

// Controller is a per-frame behavior attached to a ControlledObject.
// Concrete controllers embed ControllerBase and implement OnUpdate.
type Controller interface {
	Object
	AsController() *ControllerBase

	// OnUpdate runs once per owner update with the owner's clock. Returning
	// false expires the controller: it is detached after the pass.
	OnUpdate(currentTime float64) bool
}

// ControllerBase carries the name and owner link shared by all controllers.
// It does not implement OnUpdate, so it cannot be attached on its own.
type ControllerBase struct {
	name  string
	owner ControlledObject
}

// Name returns the controller's name.
func (c *ControllerBase) Name() string { return c.name }

// SetName renames the controller.
func (c *ControllerBase) SetName(name string) { c.name = name }

func (c *ControllerBase) setName(name string) { c.name = name }

// Type returns ControllerType. Embedders override it.
func (c *ControllerBase) Type() *rtti.Type { return ControllerType }

// AsController returns c.
func (c *ControllerBase) AsController() *ControllerBase { return c }

// Owner returns the object the controller is attached to, or nil.
func (c *ControllerBase) Owner() ControlledObject { return c.owner }

// OwnerNode returns the owner as a Node when the owner is one.
func (c *ControllerBase) OwnerNode() (Node, bool) {
	if c.owner == nil {
		return nil, false
	}
	return rtti.As[Node](c.owner, NodeType)
}

// ControllerSet is the ordered list of controllers owned by one object.
// The zero value must be bound to its owner with Init before use; Node and
// Definition do this in their constructors.
type ControllerSet struct {
	owner ControlledObject
	list  []Controller
	iter  []Controller // reused snapshot buffer for Update
}

// Init binds the set to owner.
func (s *ControllerSet) Init(owner ControlledObject) {
	s.owner = owner
}

// Owner returns the object the set belongs to.
func (s *ControllerSet) Owner() ControlledObject { return s.owner }

// Len returns the number of attached controllers.
func (s *ControllerSet) Len() int { return len(s.list) }

// At returns the controller at index i, or nil when i is out of range.
func (s *ControllerSet) At(i int) Controller {
	if i < 0 || i >= len(s.list) {
		Debugf("warning: controller index %d out of range [0,%d)", i, len(s.list))
		return nil
	}
	return s.list[i]
}

// All returns the controller list. The returned slice MUST NOT be mutated
// by the caller.
func (s *ControllerSet) All() []Controller { return s.list }

// Find returns the first controller named name.
func (s *ControllerSet) Find(name string) Controller {
	for _, c := range s.list {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Contains reports whether c is in the set.
func (s *ControllerSet) Contains(c Controller) bool {
	for _, x := range s.list {
		if x == c {
			return true
		}
	}
	return false
}

// Attach appends c to the set. A controller attached elsewhere is detached
// from its previous owner first. Attaching a controller already in the set
// is a no-op. During a traversal of either owner's tree the change is
// deferred until the traversal ends.
func (s *ControllerSet) Attach(c Controller) {
	if c == nil {
		panic(&HierarchyError{Op: "Attach", Parent: objectName(s.owner), Err: ErrNilController})
	}
	cb := c.AsController()
	if cb.owner != nil && cb.owner == s.owner {
		return
	}
	if q := deferredQueue(nodeOf(s.owner), nodeOf(cb.owner)); q != nil {
		q.push(func() { s.Attach(c) })
		return
	}
	if prev := cb.owner; prev != nil {
		prev.Controllers().remove(c)
		cb.owner = nil
		emitFor(prev, GraphEvent{Type: EventControllerDetached, Owner: prev, Controller: c})
	}
	cb.owner = s.owner
	s.list = append(s.list, c)
	emitFor(s.owner, GraphEvent{Type: EventControllerAttached, Owner: s.owner, Controller: c})
}

// Detach removes c from the set and clears its owner. Detaching a
// controller that is not in the set is a no-op.
func (s *ControllerSet) Detach(c Controller) {
	if c == nil {
		return
	}
	cb := c.AsController()
	if cb.owner == nil || cb.owner != s.owner {
		return
	}
	if q := deferredQueue(nodeOf(s.owner)); q != nil {
		q.push(func() { s.Detach(c) })
		return
	}
	s.remove(c)
	cb.owner = nil
	emitFor(s.owner, GraphEvent{Type: EventControllerDetached, Owner: s.owner, Controller: c})
}

// DetachAll detaches every controller, leaving the set empty.
func (s *ControllerSet) DetachAll() {
	if q := deferredQueue(nodeOf(s.owner)); q != nil {
		q.push(s.DetachAll)
		return
	}
	for len(s.list) > 0 {
		s.Detach(s.list[len(s.list)-1])
	}
}

// Update runs every attached controller in attachment order. Controllers
// that return false are detached once the pass completes. Update reports
// whether any controller asked to stay attached.
func (s *ControllerSet) Update(currentTime float64) bool {
	if len(s.list) == 0 {
		return false
	}
	s.iter = append(s.iter[:0], s.list...)
	active := false
	expired := 0
	for i, c := range s.iter {
		if c.OnUpdate(currentTime) {
			active = true
			s.iter[i] = nil
		} else {
			expired++
		}
	}
	if expired > 0 {
		for _, c := range s.iter {
			if c != nil {
				s.expire(c)
			}
		}
	}
	clear(s.iter)
	s.iter = s.iter[:0]
	return active
}

// expire detaches c immediately; the owner is mid-traversal and the list
// is no longer being iterated.
func (s *ControllerSet) expire(c Controller) {
	cb := c.AsController()
	if cb.owner != s.owner {
		return
	}
	s.remove(c)
	cb.owner = nil
	Debugf("controller %q expired on %q", c.Name(), objectName(s.owner))
	emitFor(s.owner, GraphEvent{Type: EventControllerExpired, Owner: s.owner, Controller: c})
}

func (s *ControllerSet) remove(c Controller) {
	for i, x := range s.list {
		if x == c {
			copy(s.list[i:], s.list[i+1:])
			s.list[len(s.list)-1] = nil
			s.list = s.list[:len(s.list)-1]
			return
		}
	}
}

// Attach attaches c to owner. See ControllerSet.Attach.
func Attach(c Controller, owner ControlledObject) {
	owner.Controllers().Attach(c)
}

// Detach detaches c from whatever owns it. No-op for a free controller.
func Detach(c Controller) {
	if owner := c.AsController().owner; owner != nil {
		owner.Controllers().Detach(c)
	}
}

// nodeOf returns the NodeBase of o when o is a scene node.
func nodeOf(o ControlledObject) *NodeBase {
	if n, ok := rtti.As[Node](o, NodeType); ok {
		return n.AsNode()
	}
	return nil
}

func objectName(o Object) string {
	if o == nil {
		return ""
	}
	return o.Name()
}

package sapling

import (
	"errors"
	"fmt"
)

// Hierarchy violations. They reach callers as the Err of a panicking
// *HierarchyError.
var (
	ErrNilChild      = errors.New("nil child")
	ErrSelfParent    = errors.New("node cannot be its own child")
	ErrCycle         = errors.New("adding child would create a cycle")
	ErrNotChild      = errors.New("child's parent is not this node")
	ErrIndexRange    = errors.New("child index out of range")
	ErrDisposedNode  = errors.New("node is disposed")
	ErrNilController = errors.New("nil controller")
)

// HierarchyError describes a rejected scene-graph mutation. Tree operations
// panic with a *HierarchyError so that a malformed hierarchy is reported at
// the point of mutation rather than during traversal.
type HierarchyError struct {
	Op     string
	Parent string
	Child  string
	Err    error
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("sapling: %s: %v (parent %q, child %q)", e.Op, e.Err, e.Parent, e.Child)
}

func (e *HierarchyError) Unwrap() error {
	return e.Err
}

func hierarchyPanic(op string, parent, child *NodeBase, err error) {
	e := &HierarchyError{Op: op, Err: err}
	if parent != nil {
		e.Parent = parent.name
	}
	if child != nil {
		e.Child = child.name
	}
	panic(e)
}

package sapling

// opQueue holds structural mutations requested while a tree is being
// traversed. The traversal root owns the queue and flushes it when its
// outermost traversal ends, so every mutation lands between frames in the
// order it was requested.
type opQueue struct {
	ops []func()

	// parents records where queued operations will leave each node they
	// move, so later requests are validated against that hierarchy.
	parents map[*NodeBase]*NodeBase
}

func (q *opQueue) push(op func()) {
	q.ops = append(q.ops, op)
}

func (q *opQueue) len() int {
	return len(q.ops)
}

// flush applies queued operations in FIFO order. Operations run with the
// tree unlocked, so they apply immediately instead of re-queuing. If one
// panics, the operations after it stay queued for the next flush.
func (q *opQueue) flush() {
	q.parents = nil
	for len(q.ops) > 0 {
		op := q.ops[0]
		q.ops[0] = nil
		q.ops = q.ops[1:]
		op()
	}
	q.ops = nil
}

func (q *opQueue) reset() {
	q.ops = nil
	q.parents = nil
}

// setParent records that n will be under p once the queue is flushed.
func (q *opQueue) setParent(n, p *NodeBase) {
	if q.parents == nil {
		q.parents = make(map[*NodeBase]*NodeBase)
	}
	q.parents[n] = p
}

// parentOf returns n's parent as it will be once queued operations apply.
// A nil queue reports the current parent.
func (q *opQueue) parentOf(n *NodeBase) *NodeBase {
	if q != nil {
		if p, ok := q.parents[n]; ok {
			return p
		}
	}
	return n.parent
}

// childrenOf returns n's children as they will be once queued operations
// apply. Order is not meaningful.
func (q *opQueue) childrenOf(n *NodeBase) []*NodeBase {
	out := make([]*NodeBase, 0, len(n.children))
	for _, c := range n.children {
		if cb := c.AsNode(); q.parentOf(cb) == n {
			out = append(out, cb)
		}
	}
	if q != nil {
		for c, p := range q.parents {
			if p == n && c.parent != n {
				out = append(out, c)
			}
		}
	}
	return out
}

func (q *opQueue) numChildren(n *NodeBase) int {
	if q == nil || len(q.parents) == 0 {
		return len(n.children)
	}
	return len(q.childrenOf(n))
}

// isAncestor reports whether candidate is node or one of node's ancestors
// once queued operations apply.
func (q *opQueue) isAncestor(candidate, node *NodeBase) bool {
	for p := node; p != nil; p = q.parentOf(p) {
		if p == candidate {
			return true
		}
	}
	return false
}

// deferredQueue returns the pending queue of the first locked tree among
// nodes, or nil when none of them is being traversed.
func deferredQueue(nodes ...*NodeBase) *opQueue {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if r := n.rootBase(); r.locked > 0 {
			return &r.pending
		}
	}
	return nil
}

// beginTraversal locks n's tree and returns its root.
func (n *NodeBase) beginTraversal() *NodeBase {
	r := n.rootBase()
	r.locked++
	return r
}

// endTraversal unlocks the tree rooted at r and applies deferred mutations
// once the outermost traversal finishes.
func (r *NodeBase) endTraversal() {
	r.locked--
	if r.locked == 0 {
		r.pending.flush()
	}
}

// Traversing reports whether n's tree is in the middle of an Update or Draw.
func (n *NodeBase) Traversing() bool {
	return n.rootBase().locked > 0
}

// PendingOps returns the number of mutations waiting on n's tree.
func (n *NodeBase) PendingOps() int {
	return n.rootBase().pending.len()
}

package sapling

// Update advances n's clock by elapsed seconds and walks n's subtree
// depth-first. For each node it runs, in order: the attached controllers
// with the accumulated clock, the Updater hook, the world-transform
// computation, and then the children in child order.
//
// The tree is locked for the duration: structural mutations requested by
// controllers or hooks are validated immediately but applied after the
// outermost traversal returns.
func (n *NodeBase) Update(elapsed float64) {
	n.clock += elapsed
	root := n.beginTraversal()
	defer root.endTraversal()
	updateNode(n.self(), n.clock)
}

func updateNode(node Node, now float64) {
	b := node.AsNode()
	b.controllers.Update(now)
	if u, ok := node.(Updater); ok {
		u.OnUpdate(now)
	}
	if wu, ok := node.(WorldUpdater); ok {
		wu.UpdateWorld(b.parentWorld())
	} else {
		b.updateWorld()
	}
	for _, child := range b.children {
		updateNode(child, now)
	}
}

// Draw walks n's subtree depth-first and submits drawing to r. An invisible
// node is skipped together with its subtree; a non-renderable node skips
// only its own drawing and visualizer. Draw does not modify the tree.
func (n *NodeBase) Draw(r Renderer) {
	root := n.beginTraversal()
	defer root.endTraversal()
	drawNode(n.self(), r)
}

func drawNode(node Node, r Renderer) {
	b := node.AsNode()
	if !b.Visible {
		return
	}
	if b.Renderable {
		if d, ok := node.(Drawer); ok {
			d.OnDraw(r)
		}
		if b.Visualizer != nil {
			b.Visualizer.Visualize(node, r)
		}
	}
	for _, child := range b.children {
		drawNode(child, r)
	}
}

// Walk calls fn for n and each descendant in depth-first order. Returning
// false from fn skips that node's children.
func (n *NodeBase) Walk(fn func(Node) bool) {
	if !fn(n.self()) {
		return
	}
	for _, child := range n.children {
		child.AsNode().Walk(fn)
	}
}

package ik

import (
	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/rtti"
)

// Node is a scene node that owns an IK controller and serves as the base of
// its chain. Joint nodes are normally built as descendants of the IK node.
type Node struct {
	sapling.NodeBase
	Controller Controller
}

// NewNode creates an IK node with its controller attached.
func NewNode(name string) *Node {
	n := &Node{}
	n.Init(n, name)
	n.Controller.SetName(name + ".ik")
	n.Controller.Iterations = DefaultIterations
	n.Controller.Chain.Base = n
	n.Attach(&n.Controller)
	return n
}

func (n *Node) Type() *rtti.Type { return NodeType }

// Chain returns the controller's chain.
func (n *Node) Chain() *Chain {
	return &n.Controller.Chain
}

// SetTarget sets the node the chain reaches for.
func (n *Node) SetTarget(target sapling.Node) {
	n.Controller.Chain.Target = target
}

// SetIterations sets the passes per update.
func (n *Node) SetIterations(iterations int) {
	n.Controller.Iterations = iterations
}

// AddJoint appends a joint and, when jointNode is non-nil, nests the node
// under the previous joint's node (or under n for the first joint).
func (n *Node) AddJoint(angle, length float64, jointNode sapling.Node) *Joint {
	j := NewJoint(angle, length)
	j.Node = jointNode
	chain := n.Chain()
	if jointNode != nil {
		var parent sapling.Node = n
		if last := chain.At(chain.Len() - 1); last != nil && last.Node != nil {
			parent = last.Node
			jointNode.AsNode().Local.Position = sapling.Vec2{last.Length, 0}
		} else {
			jointNode.AsNode().Local.Position = sapling.Vec2{}
		}
		parent.AsNode().AddChild(jointNode)
		jointNode.AsNode().Local.Rotation = angle
	}
	chain.AddJoint(j)
	return j
}

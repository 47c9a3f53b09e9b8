package ik

import (
	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/rtti"
)

// Type records for the IK kinds.
var (
	ControllerType = rtti.Register("sapling.ik.Controller", sapling.ControllerType)
	NodeType       = rtti.Register("sapling.ik.Node", sapling.NodeType)
)

// DefaultIterations is the number of FABRIK passes a new controller runs
// per update.
const DefaultIterations = 1

// Controller relaxes its chain once per owner update. It never expires.
type Controller struct {
	sapling.ControllerBase
	Chain      Chain
	Iterations int
}

// NewController creates a controller running DefaultIterations passes.
func NewController(name string) *Controller {
	c := &Controller{Iterations: DefaultIterations}
	c.SetName(name)
	return c
}

func (c *Controller) Type() *rtti.Type { return ControllerType }

// OnUpdate relaxes the chain. Iteration counts below one run one pass.
func (c *Controller) OnUpdate(currentTime float64) bool {
	iterations := c.Iterations
	if iterations < 1 {
		iterations = 1
	}
	c.Chain.Relax(iterations)
	return true
}

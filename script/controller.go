// Package script drives node transforms from tengo scripts.
//
// A script sees the owner's local transform as the globals x, y, rotation,
// scale_x, and scale_y, plus the owner clock as time and the time since the
// previous run as dt. Whatever the script leaves in those globals is written
// back to the node. Setting keep to false expires the controller.
//
//	math := import("math")
//	x = 100 + math.cos(time) * 50
//	y = 100 + math.sin(time) * 50
//	keep = time < 10
package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/rtti"
)

// ControllerType is the type record for script controllers.
var ControllerType = rtti.Register("sapling.script.Controller", sapling.ControllerType)

var transformGlobals = []string{"x", "y", "rotation", "scale_x", "scale_y"}

// Controller runs a compiled tengo script once per owner update.
type Controller struct {
	sapling.ControllerBase

	compiled *tengo.Compiled
	last     float64
	started  bool
	err      error
}

// New compiles src with the full tengo standard library available.
func New(name string, src []byte) (*Controller, error) {
	s := tengo.NewScript(src)
	for _, g := range transformGlobals {
		_ = s.Add(g, 0.0)
	}
	_ = s.Add("time", 0.0)
	_ = s.Add("dt", 0.0)
	_ = s.Add("keep", true)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %q: compile: %w", name, err)
	}
	c := &Controller{compiled: compiled}
	c.SetName(name)
	return c, nil
}

// Load reads and compiles a script file.
func Load(name, path string) (*Controller, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script %q: read %s: %w", name, path, err)
	}
	return New(name, src)
}

func (c *Controller) Type() *rtti.Type { return ControllerType }

// Err returns the runtime error that expired the controller, if any.
func (c *Controller) Err() error { return c.err }

// Global returns the value a script global held after the last run.
func (c *Controller) Global(name string) (any, bool) {
	if !c.compiled.IsDefined(name) {
		return nil, false
	}
	return c.compiled.Get(name).Value(), true
}

// OnUpdate runs the script against the owner's transform. A runtime error
// expires the controller and is kept in Err.
func (c *Controller) OnUpdate(currentTime float64) bool {
	node, ok := c.OwnerNode()
	if !ok {
		return true
	}
	b := node.AsNode()

	dt := 0.0
	if c.started {
		dt = currentTime - c.last
	}
	c.last, c.started = currentTime, true

	vals := []float64{b.Local.Position[0], b.Local.Position[1], b.Local.Rotation, b.Local.Scale[0], b.Local.Scale[1]}
	for i, g := range transformGlobals {
		if err := c.compiled.Set(g, vals[i]); err != nil {
			return c.fail(err)
		}
	}
	if err := c.compiled.Set("time", currentTime); err != nil {
		return c.fail(err)
	}
	if err := c.compiled.Set("dt", dt); err != nil {
		return c.fail(err)
	}
	if err := c.compiled.Set("keep", true); err != nil {
		return c.fail(err)
	}

	if err := c.compiled.Run(); err != nil {
		return c.fail(err)
	}

	b.Local.Position = sapling.Vec2{c.compiled.Get("x").Float(), c.compiled.Get("y").Float()}
	b.Local.Rotation = c.compiled.Get("rotation").Float()
	b.Local.Scale = sapling.Vec2{c.compiled.Get("scale_x").Float(), c.compiled.Get("scale_y").Float()}
	return c.compiled.Get("keep").Bool()
}

func (c *Controller) fail(err error) bool {
	c.err = fmt.Errorf("script %q: %w", c.Name(), err)
	sapling.Debugf("%v", c.err)
	return false
}

package main

import (
	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/config"
	"github.com/phanxgames/sapling/ik"
	"github.com/phanxgames/sapling/script"
)

// orbitScript moves the target along a Lissajous path around the arm base.
const orbitScript = `
math := import("math")
x = math.cos(time * 0.8) * 150
y = math.sin(time * 1.3) * 100
`

var segmentLengths = []float64{80, 60, 40}

type demo struct {
	scene  *sapling.Scene
	camera *sapling.CameraNode
	target *sapling.AxesNode
	arm    *ik.Node
	bones  []*sapling.BoneNode
	fps    *sapling.FPSNode
}

func newDemo(cfg config.Config) (*demo, error) {
	d := &demo{scene: sapling.NewScene()}

	cam := sapling.NewCamera(sapling.Rect{
		Width:  float64(cfg.Window.Width),
		Height: float64(cfg.Window.Height),
	})
	d.camera = sapling.NewCameraNode("camera", cam)
	d.scene.Root().AddChild(d.camera)

	// The target comes first so its world position is current when the arm
	// solves later in the same frame.
	d.target = sapling.NewAxesNode("target")
	orbit, err := script.New("orbit", []byte(orbitScript))
	if err != nil {
		return nil, err
	}
	d.target.Attach(orbit)
	d.camera.AddChild(d.target)

	d.arm = ik.NewNode("arm")
	d.arm.SetTarget(d.target)
	d.arm.Visualizer = ik.NewVisualizer()
	d.camera.AddChild(d.arm)

	for i, length := range segmentLengths {
		bone := sapling.NewBoneNode(boneName(i))
		d.arm.AddJoint(0.3, length, bone)
		d.bones = append(d.bones, bone)
	}

	d.fps = sapling.NewFPSNode("fps")
	d.fps.SetPosition(4, 4)
	d.scene.Root().AddChild(d.fps)

	d.apply(cfg)
	return d, nil
}

// apply pushes tunable settings onto the live scene.
func (d *demo) apply(cfg config.Config) {
	d.scene.SetDebugMode(cfg.Debug)
	d.fps.Visible = cfg.Debug
	d.arm.SetIterations(cfg.IK.Iterations)
	d.arm.Chain().Tolerance = cfg.IK.Tolerance
	d.target.Length = cfg.Draw.AxesLength
	for _, b := range d.bones {
		b.Radius = cfg.Draw.BoneRadius
		b.Width = cfg.Draw.LineWidth
	}
}

// targetInView reports whether the orbiting target is inside the camera's
// visible area.
func (d *demo) targetInView() bool {
	return d.camera.Camera.InView(d.target.Local.Position)
}

func boneName(i int) string {
	return [...]string{"shoulder", "elbow", "wrist"}[i]
}

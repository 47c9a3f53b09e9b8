package sapling

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	Node   string  `yaml:"node,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type testScript struct {
	Steps []testStep `yaml:"steps"`
}

// TestRunner plays a scripted sequence of node moves, waits, and
// screenshots across frames for automated visual checks. Attach it to a
// Scene with SetTestRunner; it steps once per Scene.Update before the tree
// is traversed.
//
// Scripts are YAML (or JSON) documents:
//
//	steps:
//	  - {action: move, node: target, x: 40, y: 10}
//	  - {action: wait, frames: 30}
//	  - {action: screenshot, label: reached}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a test script and returns a runner for it.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "move":
			if st.Node == "" {
				return nil, fmt.Errorf("parse test script: step %d: move needs a node", i)
			}
		case "screenshot", "wait":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner to the scene. nil detaches it.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "move":
		if n := s.Lookup(st.Node); n != nil {
			n.AsNode().SetPosition(st.X, st.Y)
		} else {
			Debugf("test runner: no node named %q", st.Node)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/sapling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptMovesOwner(t *testing.T) {
	c, err := New("mover", []byte(`
x = x + 10
y = time * 2
rotation = 0.5
`))
	require.NoError(t, err)

	n := sapling.NewNode("n")
	n.SetPosition(1, 1)
	n.Attach(c)

	n.Update(1.5)

	assert.Equal(t, 11.0, n.Local.Position[0])
	assert.Equal(t, 3.0, n.Local.Position[1])
	assert.Equal(t, 0.5, n.Local.Rotation)
	assert.Equal(t, sapling.Vec2{1, 1}, n.Local.Scale)
	assert.Same(t, c, n.Controllers().At(0))
}

func TestScriptStdlibImports(t *testing.T) {
	c, err := New("orbit", []byte(`
math := import("math")
x = math.cos(0) * 5
`))
	require.NoError(t, err)

	n := sapling.NewNode("n")
	n.Attach(c)
	n.Update(0.1)

	assert.InDelta(t, 5, n.Local.Position[0], 1e-12)
}

func TestScriptDeltaTime(t *testing.T) {
	c, err := New("dt", []byte(`seen := dt`))
	require.NoError(t, err)

	n := sapling.NewNode("n")
	n.Attach(c)

	n.Update(0.25)
	v, ok := c.Global("seen")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	n.Update(0.5)
	v, _ = c.Global("seen")
	assert.Equal(t, 0.5, v)
}

func TestScriptKeepFalseExpires(t *testing.T) {
	c, err := New("once", []byte(`keep = time < 1`))
	require.NoError(t, err)

	var expired []sapling.Controller
	scene := sapling.NewScene()
	scene.SetEventSink(sapling.EventSinkFunc(func(e sapling.GraphEvent) {
		if e.Type == sapling.EventControllerExpired {
			expired = append(expired, e.Controller)
		}
	}))
	scene.Root().Attach(c)

	scene.Update(0.5)
	assert.Equal(t, 1, scene.Root().Controllers().Len())

	scene.Update(0.5)
	assert.Equal(t, 0, scene.Root().Controllers().Len())
	assert.Nil(t, c.Owner())
	require.Len(t, expired, 1)
	assert.Same(t, c, expired[0])
	assert.NoError(t, c.Err())
}

func TestScriptRuntimeErrorExpires(t *testing.T) {
	c, err := New("broken", []byte(`x = time + "s"`))
	require.NoError(t, err)

	n := sapling.NewNode("n")
	n.Attach(c)
	n.Update(0.1)

	assert.Error(t, c.Err())
	assert.Equal(t, 0, n.Controllers().Len())
}

func TestScriptCompileError(t *testing.T) {
	_, err := New("bad", []byte(`x = (`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `script "bad"`)
}

func TestScriptWithoutNodeOwnerWaits(t *testing.T) {
	c, err := New("idle", []byte(`keep = false`))
	require.NoError(t, err)

	def := sapling.NewDefinition("clock")
	def.Controllers().Attach(c)

	assert.True(t, def.Controllers().Update(1))
	assert.Same(t, def, c.Owner())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`rotation = rotation + 1`), 0o644))

	c, err := Load("spin", path)
	require.NoError(t, err)

	n := sapling.NewNode("n")
	n.Attach(c)
	n.Update(0)
	n.Update(0.1)
	assert.Equal(t, 2.0, n.Local.Rotation)

	_, err = Load("missing", filepath.Join(t.TempDir(), "nope.tengo"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

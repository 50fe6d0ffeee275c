package scene

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/physics"
	"github.com/tomz197/physics2d/internal/simulation"
)

const sample = `
name: sample
gravity: true
bodies:
  - name: floor
    shape: line
    position: [-10, 0]
    direction: [1, 0]
    static: true
  - name: ball
    shape: circle
    radius: 0.5
    density: 2
    position: [0, 5]
    velocity: [1, 0]
    ccd: true
    tags: [ball]
    ignore: [ghost]
    resolver: {type: elastic, restitution: 0.8}
    forces:
      - {name: wind, type: force, value: [0.5, 0]}
      - {type: velocity_change, value: [0, 1], once: true}
  - name: balloon
    shape: circle
    radius: 1
    position: [4, 5]
    gravity: false
    resolver: {type: push_out}
  - name: left
    shape: quad
    size: [1, 1]
    position: [-6, 8]
    gravity: false
    resolver: {type: push_out}
  - name: right
    shape: quad
    size: [1, 1]
    position: [-3, 8]
    gravity: false
    resolver: {type: push_out}
springs:
  - left: left
    right: right
    anchor: [-4.5, 8]
    stiffness: 10
`

func TestLoadAndBuild(t *testing.T) {
	doc, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, "sample", doc.Name)
	require.Len(t, doc.Bodies, 5)

	w, err := Build(doc)
	require.NoError(t, err)
	require.Len(t, w.Bodies(), 5)
	require.Len(t, w.Springs(), 1)
	assert.Equal(t, maths.V2(1, 1), w.Springs()[0].Stretch)

	floor, ok := w.Body("floor")
	require.True(t, ok)
	assert.True(t, floor.Static())
	assert.Nil(t, floor.Forces)
	assert.Equal(t, maths.V2(1, 0), floor.Collider.Direction)

	ball, ok := w.Body("ball")
	require.True(t, ok)
	assert.Equal(t, physics.ShapeCircle, ball.Collider.Shape)
	assert.Equal(t, 2.0, ball.Collider.Density)
	assert.True(t, ball.Collider.UseCCD)
	assert.Equal(t, []string{"ghost"}, ball.Collider.IgnoreTags)
	assert.Equal(t, physics.Elastic{Restitution: 0.8}, ball.Resolver)
	assert.Equal(t, maths.V3(1, 0, 0), ball.Velocity())
	_, ok = ball.Forces.Find(physics.GravityForceName)
	assert.True(t, ok)
	wind, ok := ball.Forces.Find("wind")
	require.True(t, ok)
	assert.Equal(t, physics.ForceTypeForce, wind.Type)
	assert.Len(t, ball.Forces.OneTime(), 1)

	balloon, ok := w.Body("balloon")
	require.True(t, ok)
	assert.Empty(t, balloon.Forces.Persistent(), "gravity disabled per body")
	assert.Equal(t, physics.PushOut{}, balloon.Resolver)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "unknown shape",
			yaml: "bodies:\n  - {name: tri, shape: triangle, position: [0, 0]}\n",
			err:  ErrUnknownShape,
		},
		{
			name: "unknown resolver",
			yaml: "bodies:\n  - {name: b, shape: circle, radius: 1, position: [0, 0], resolver: {type: sticky}}\n",
			err:  ErrUnknownResolver,
		},
		{
			name: "unknown force type",
			yaml: "bodies:\n  - {name: b, shape: circle, radius: 1, position: [0, 0], forces: [{type: torque, value: [1, 0]}]}\n",
			err:  ErrUnknownForce,
		},
		{
			name: "zero radius",
			yaml: "bodies:\n  - {name: b, shape: circle, position: [0, 0]}\n",
			err:  ErrInvalidBody,
		},
		{
			name: "zero direction",
			yaml: "bodies:\n  - {name: l, shape: line, position: [0, 0], static: true}\n",
			err:  ErrInvalidBody,
		},
		{
			name: "duplicate name",
			yaml: "bodies:\n  - {name: b, shape: circle, radius: 1, position: [0, 0]}\n  - {name: b, shape: circle, radius: 1, position: [3, 0]}\n",
			err:  ErrInvalidBody,
		},
		{
			name: "dangling spring",
			yaml: "bodies:\n  - {name: b, shape: quad, size: [1, 1], position: [0, 0]}\nsprings:\n  - {left: b, right: nobody, anchor: [0, 0], stiffness: 1}\n",
			err:  ErrInvalidSpring,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Load(strings.NewReader("bodies:\n  - {name: b, shape: circle, radius: 1, position: [0, 0], colour: red}\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = Load(strings.NewReader("bodies:\n  - {name: b, shape: circle, radius: 1, position: [0, 0, 0]}\n"))
	assert.Error(t, err, "positions are 2D")
}

func TestPresets(t *testing.T) {
	names := Presets()
	assert.Equal(t, []string{"billiards", "bounce", "springs", "tank"}, names)
	assert.Contains(t, names, DefaultPreset)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			doc, err := Preset(name)
			require.NoError(t, err)
			assert.Equal(t, name, doc.Name)

			w, err := Build(doc)
			require.NoError(t, err)
			for i := 0; i < 240; i++ {
				require.NoError(t, w.Step(context.Background(), 1.0/60), "step %d", i)
			}
		})
	}

	_, err := Preset("pinball")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestBilliardsSpawnIsSeeded(t *testing.T) {
	doc, err := Preset("billiards")
	require.NoError(t, err)

	a, err := Build(doc)
	require.NoError(t, err)
	b, err := Build(doc, simulation.WithWorkers(3))
	require.NoError(t, err)
	assert.Len(t, a.Bodies(), 4+doc.Spawn.Count)
	assert.Equal(t, a.Checksum(), b.Checksum())

	for _, body := range a.Bodies() {
		if body.Static() {
			continue
		}
		assert.Len(t, body.Forces.OneTime(), 1, body.Name)
		assert.GreaterOrEqual(t, body.Position.X(), -8.5)
		assert.LessOrEqual(t, body.Position.X(), 8.5)
		assert.GreaterOrEqual(t, body.Position.Y(), -4.5)
		assert.LessOrEqual(t, body.Position.Y(), 4.5)
	}

	doc.Spawn.Seed = 7
	c, err := Build(doc)
	require.NoError(t, err)
	assert.NotEqual(t, a.Checksum(), c.Checksum())
}

func TestTankFloats(t *testing.T) {
	doc, err := Preset("tank")
	require.NoError(t, err)
	w, err := Build(doc)
	require.NoError(t, err)

	cork, ok := w.Body("cork")
	require.True(t, ok)
	lowest := cork.Position.Y()
	for i := 0; i < 600; i++ {
		require.NoError(t, w.Step(context.Background(), 1.0/60))
		lowest = min(lowest, cork.Position.Y())
	}
	assert.Less(t, lowest, 0.0, "the cork reached the water")
	assert.Greater(t, lowest, -10.0, "and never sank to the floor")
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := Preset("springs")
	require.NoError(t, err)
	data, err := Marshal(doc)
	require.NoError(t, err)

	again, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestBounds(t *testing.T) {
	doc, err := Preset("billiards")
	require.NoError(t, err)
	lo, hi := doc.Bounds()
	assert.Equal(t, maths.V2(-10, -6), lo)
	assert.Equal(t, maths.V2(10, 6), hi)

	doc = Document{Bodies: []BodyDoc{
		{Name: "a", Shape: "circle", Radius: 1, Position: Vec2{0, 0}},
		{Name: "b", Shape: "quad", Size: Vec2{2, 2}, Position: Vec2{5, 5}},
	}}
	lo, hi = doc.Bounds()
	assert.Equal(t, maths.V2(-2, -2), lo)
	assert.Equal(t, maths.V2(7, 7), hi)
}

func TestOpen(t *testing.T) {
	doc, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset, doc.Name)

	doc, err = Open("tank")
	require.NoError(t, err)
	assert.Equal(t, "tank", doc.Name)

	file := filepath.Join(t.TempDir(), "ramp.yaml")
	require.NoError(t, os.WriteFile(file, []byte("bodies:\n  - {name: b, shape: circle, radius: 1, position: [0, 0]}\n"), 0o600))
	doc, err = Open(file)
	require.NoError(t, err)
	assert.Equal(t, "ramp", doc.Name, "named after the file")
	assert.Len(t, doc.Bodies, 1)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

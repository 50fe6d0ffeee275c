package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/physics2d/internal/maths"
)

func TestColliderAreaAndMass(t *testing.T) {
	tests := []struct {
		name     string
		collider Collider
		area     float64
	}{
		{"circle", NewCircle(2), 4 * math.Pi},
		{"quad", NewQuad(maths.V2(2, 3)), 6},
		{"line has nominal area", NewLine(maths.Right), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.area, tt.collider.Area(), 1e-12)
			c := tt.collider
			c.Density = 2.5
			assert.InDelta(t, tt.area*2.5, c.Mass(), 1e-12)
		})
	}
}

func TestColliderIgnores(t *testing.T) {
	a := NewCircle(1)
	a.Tags = []string{"ball"}
	a.IgnoreTags = []string{"fluid"}

	b := NewQuad(maths.V2(1, 1))
	b.Tags = []string{"fluid", "water"}

	assert.True(t, a.Ignores(b))
	assert.False(t, b.Ignores(a))

	b.IgnoreTags = []string{"Ball"}
	assert.False(t, b.Ignores(a), "tags match exactly")
}

func TestShapeNames(t *testing.T) {
	for _, s := range []Shape{ShapeCircle, ShapeLine, ShapeQuad} {
		parsed, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseShape("triangle")
	assert.Error(t, err)

	for _, ft := range []ForceType{ForceTypeForce, ForceTypeAcceleration, ForceTypeImpulse, ForceTypeVelocityChange} {
		parsed, err := ParseForceType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}
	_, err = ParseForceType("torque")
	assert.Error(t, err)
}

func TestBodyBoundsAndIntegrate(t *testing.T) {
	box := NewBody("box", maths.V3(1, 2, 0), NewQuad(maths.V2(2, 4)), PushOut{})
	assert.Equal(t, maths.V2(0, 0), box.Min())
	assert.Equal(t, maths.V2(2, 4), box.Max())
	require.NotNil(t, box.Forces)

	wallCollider := NewLine(maths.Up)
	wallCollider.Static = true
	wall := NewBody("wall", maths.V3(0, 0, 0), wallCollider, nil)
	assert.Nil(t, wall.Forces)
	assert.NoError(t, wall.Integrate(1))
	assert.Equal(t, maths.Vector3{}, wall.Velocity())

	orphan := &Body{Name: "orphan", Collider: NewCircle(1)}
	assert.ErrorIs(t, orphan.Integrate(1), ErrNoForces)
}

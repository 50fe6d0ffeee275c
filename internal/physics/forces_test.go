package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/physics2d/internal/maths"
)

func TestForceCompute(t *testing.T) {
	tests := []struct {
		name  string
		force Force
		mass  float64
		dt    float64
		want  maths.Vector3
	}{
		{"force", NewForce(maths.V3(4, 0, 0), ForceTypeForce), 2, 1, maths.V3(2, 0, 0)},
		{"force scales with dt", NewForce(maths.V3(4, 0, 0), ForceTypeForce), 2, 0.5, maths.V3(1, 0, 0)},
		{"acceleration ignores mass", NewForce(maths.V3(1, 2, 0), ForceTypeAcceleration), 10, 0.5, maths.V3(0.5, 1, 0)},
		{"impulse ignores dt", NewForce(maths.V3(4, 0, 0), ForceTypeImpulse), 2, 0.1, maths.V3(2, 0, 0)},
		{"velocity change as is", NewForce(maths.V3(0, 3, 0), ForceTypeVelocityChange), 2, 0.1, maths.V3(0, 3, 0)},
		{"massless force", NewForce(maths.V3(4, 0, 0), ForceTypeForce), 0, 1, maths.Vector3{}},
		{"massless impulse", NewForce(maths.V3(4, 0, 0), ForceTypeImpulse), 0, 1, maths.Vector3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.force.Compute(tt.mass, tt.dt))
		})
	}

	assert.Panics(t, func() { NewForce(maths.Vector3{}, ForceType(42)).Compute(1, 1) })
}

func TestForcesApply(t *testing.T) {
	f := NewForces(maths.Vector3{})
	f.AddForce(NewForce(maths.V3(4, 0, 0), ForceTypeForce))

	pos := f.Apply(2, 1, maths.Vector3{})
	assert.Equal(t, maths.V3(2, 0, 0), f.Velocity)
	assert.Equal(t, maths.V3(2, 0, 0), pos)

	pos = f.Apply(2, 1, pos)
	assert.Equal(t, maths.V3(4, 0, 0), f.Velocity, "persistent forces keep applying")
	assert.Equal(t, maths.V3(6, 0, 0), pos)
}

func TestForcesOneTimeAppliesOnce(t *testing.T) {
	f := NewForces(maths.Vector3{})
	f.AddOneTimeForce(NewForce(maths.V3(1, 0, 0), ForceTypeVelocityChange))
	require.Len(t, f.OneTime(), 1)

	f.Apply(1, 1, maths.Vector3{})
	assert.Equal(t, maths.V3(1, 0, 0), f.Velocity)
	assert.Empty(t, f.OneTime())

	f.Apply(1, 1, maths.Vector3{})
	assert.Equal(t, maths.V3(1, 0, 0), f.Velocity)
}

func TestForcesNamed(t *testing.T) {
	f := NewForces(maths.Vector3{})
	f.UpdateOrAdd(NewForce(maths.V3(1, 0, 0), ForceTypeForce).Named("wind"))
	f.UpdateOrAdd(NewForce(maths.V3(3, 0, 0), ForceTypeForce).Named("wind"))

	require.Len(t, f.Persistent(), 1)
	wind, ok := f.Find("wind")
	require.True(t, ok)
	assert.Equal(t, maths.V3(3, 0, 0), wind.Value)

	f.UpdateOrAdd(NewForce(maths.V3(1, 0, 0), ForceTypeForce))
	f.UpdateOrAdd(NewForce(maths.V3(1, 0, 0), ForceTypeForce))
	assert.Len(t, f.Persistent(), 3, "unnamed forces never replace")

	assert.True(t, f.RemoveForce("wind"))
	assert.False(t, f.RemoveForce("wind"))
	_, ok = f.Find("wind")
	assert.False(t, ok)

	snapshot := f.Persistent()
	snapshot[0].Value = maths.V3(100, 0, 0)
	assert.Equal(t, maths.V3(1, 0, 0), f.Persistent()[0].Value)
}

func TestGravity(t *testing.T) {
	b := NewBody("ball", maths.V3(0, 10, 0), NewCircle(1), PushOut{})
	b.Forces.UpdateOrAdd(GravityForce())
	b.Forces.UpdateOrAdd(GravityForce())

	require.NoError(t, b.Integrate(1))
	require.NoError(t, b.Integrate(1))
	assert.InDelta(t, -2*Gravity, b.Velocity().Y(), 1e-12)
	assert.InDelta(t, 10-3*Gravity, b.Position.Y(), 1e-12)
}

func TestBodyRollback(t *testing.T) {
	b := NewBody("ball", maths.V3(1, 2, 0), NewCircle(1), PushOut{})
	b.Forces.Velocity = maths.V3(3, 0, 0)
	b.Forces.AddOneTimeForce(NewForce(maths.V3(0, 1, 0), ForceTypeImpulse))
	cp := b.Checkpoint()

	b.Translate(maths.V2(5, 5))
	b.Forces.AddOneTimeForce(NewForce(maths.V3(9, 9, 0), ForceTypeVelocityChange))
	require.NoError(t, b.Integrate(0.5))
	b.Rollback(cp)

	assert.Equal(t, maths.V3(1, 2, 0), b.Position)
	assert.Equal(t, maths.V3(3, 0, 0), b.Velocity())
	require.Len(t, b.Forces.OneTime(), 1)
	assert.Equal(t, ForceTypeImpulse, b.Forces.OneTime()[0].Type)

	wall := NewBody("wall", maths.V3(0, 0, 0), NewLine(maths.Right), nil)
	wall.Collider.Static = true
	wall.Forces = nil
	wcp := wall.Checkpoint()
	wall.Position = maths.V3(1, 1, 0)
	wall.Rollback(wcp)
	assert.Equal(t, maths.V3(0, 0, 0), wall.Position)
}

package physics

import (
	"fmt"
	"slices"

	"github.com/tomz197/physics2d/internal/maths"
)

// Body is a simulated object: a transform, its collider, and for dynamic bodies
// the force accumulator and the response policy used when it collides.
type Body struct {
	Name     string
	Position maths.Vector3
	Collider Collider
	Forces   *Forces  // nil for static bodies
	Resolver Resolver // nil for bodies that never initiate a collision
}

// NewBody creates a body at position. Dynamic bodies get an accumulator at rest.
func NewBody(name string, position maths.Vector3, collider Collider, resolver Resolver) *Body {
	b := &Body{
		Name:     name,
		Position: position,
		Collider: collider,
		Resolver: resolver,
	}
	if !collider.Static {
		b.Forces = NewForces(maths.Vector3{})
	}
	return b
}

// Center returns the body's position in the xy plane.
func (b *Body) Center() maths.Vector2 {
	return maths.Truncate(b.Position)
}

// Velocity returns the current velocity, or zero if the body has no accumulator.
func (b *Body) Velocity() maths.Vector3 {
	if b.Forces == nil {
		return maths.Vector3{}
	}
	return b.Forces.Velocity
}

// Mass returns the collider mass.
func (b *Body) Mass() float64 {
	return b.Collider.Mass()
}

// Static reports whether the body is excluded from integration.
func (b *Body) Static() bool {
	return b.Collider.Static
}

// Min returns the lower-left corner of the body's bounds.
func (b *Body) Min() maths.Vector2 {
	return b.Center().Sub(b.Collider.Extents())
}

// Max returns the upper-right corner of the body's bounds.
func (b *Body) Max() maths.Vector2 {
	return b.Center().Add(b.Collider.Extents())
}

// Integrate applies the accumulated forces for one step of dt seconds.
// Static bodies are left untouched.
func (b *Body) Integrate(dt float64) error {
	if b.Static() {
		return nil
	}
	if b.Forces == nil {
		return fmt.Errorf("integrate %q: %w", b.Name, ErrNoForces)
	}
	b.Position = b.Forces.Apply(b.Mass(), dt, b.Position)
	return nil
}

// Translate moves the body by offset in the xy plane.
func (b *Body) Translate(offset maths.Vector2) {
	b.Position = b.Position.Add(maths.Extend(offset, 0))
}

// Checkpoint holds the state a step may change: position, velocity and the
// pending one-time forces. Persistent forces are not captured.
type Checkpoint struct {
	position maths.Vector3
	velocity maths.Vector3
	oneTime  []Force
}

// Checkpoint captures the body's current step state.
func (b *Body) Checkpoint() Checkpoint {
	cp := Checkpoint{position: b.Position}
	if b.Forces != nil {
		cp.velocity = b.Forces.Velocity
		cp.oneTime = slices.Clone(b.Forces.oneTime)
	}
	return cp
}

// Rollback restores the state captured by Checkpoint.
func (b *Body) Rollback(cp Checkpoint) {
	b.Position = cp.position
	if b.Forces != nil {
		b.Forces.Velocity = cp.velocity
		b.Forces.oneTime = slices.Clone(cp.oneTime)
	}
}

func (b *Body) circle() CircleInput {
	return CircleInput{Center: b.Center(), Radius: b.Collider.Radius}
}

func (b *Body) movingCircle() MovingCircleInput {
	return MovingCircleInput{CircleInput: b.circle(), Velocity: maths.Truncate(b.Velocity())}
}

func (b *Body) line() LineInput {
	return LineInput{Origin: b.Center(), Direction: b.Collider.Direction}
}

func (b *Body) quad() QuadInput {
	return QuadInput{Origin: b.Min(), Size: b.Collider.Size}
}

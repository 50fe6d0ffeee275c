// Package physics provides colliders, collision detection, force accumulation and
// collision response for 2D rigid bodies.
//
// Bodies only translate: there is no orientation or angular velocity. Velocities and
// forces are carried as 3D vectors with z left at zero so that they compose with
// 3D transforms; all geometry is evaluated in the xy plane.
package physics

import (
	"github.com/tomz197/physics2d/internal/maths"
)

// Gravity is the gravitational acceleration used by buoyancy, in m/s².
const Gravity = 9.81

// GravityForce returns the persistent acceleration pulling a body down (y up).
func GravityForce() Force {
	return NewForce(maths.V3(0, -Gravity, 0), ForceTypeAcceleration).Named(GravityForceName)
}

// GravityForceName is the name under which GravityForce is registered.
const GravityForceName = "gravity"

// perpendicular returns the left-hand normal of d, normalized.
func perpendicular(d maths.Vector2) maths.Vector2 {
	return maths.V2(-d.Y(), d.X()).Normalized()
}

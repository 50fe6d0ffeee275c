package physics

import (
	"fmt"

	"github.com/tomz197/physics2d/internal/maths"
)

// ForceType selects how a force vector turns into a velocity change.
type ForceType uint8

const (
	ForceTypeForce          ForceType = iota // F·dt/m
	ForceTypeAcceleration                    // a·dt
	ForceTypeImpulse                         // J/m
	ForceTypeVelocityChange                  // Δv as is
)

func (t ForceType) String() string {
	switch t {
	case ForceTypeForce:
		return "force"
	case ForceTypeAcceleration:
		return "acceleration"
	case ForceTypeImpulse:
		return "impulse"
	case ForceTypeVelocityChange:
		return "velocity_change"
	default:
		return fmt.Sprintf("force_type(%d)", uint8(t))
	}
}

// ParseForceType converts a force type name as written in scene files.
func ParseForceType(name string) (ForceType, error) {
	for t := ForceTypeForce; t <= ForceTypeVelocityChange; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown force type %q", name)
}

// Force is a vector tagged with its physical interpretation. Named forces can
// be updated in place in an accumulator.
type Force struct {
	Value maths.Vector3
	Type  ForceType
	Name  string
}

// NewForce returns an unnamed force.
func NewForce(value maths.Vector3, t ForceType) Force {
	return Force{Value: value, Type: t}
}

// Named returns a copy of f carrying name.
func (f Force) Named(name string) Force {
	f.Name = name
	return f
}

// Compute returns the velocity change f produces on a body of the given mass
// over dt. Mass-dependent types yield zero for a massless body.
func (f Force) Compute(mass, dt float64) maths.Vector3 {
	switch f.Type {
	case ForceTypeForce:
		if mass == 0 {
			return maths.Vector3{}
		}
		return f.Value.Scale(dt / mass)
	case ForceTypeAcceleration:
		return f.Value.Scale(dt)
	case ForceTypeImpulse:
		if mass == 0 {
			return maths.Vector3{}
		}
		return f.Value.DivScalar(mass)
	case ForceTypeVelocityChange:
		return f.Value
	}
	panic(fmt.Sprintf("physics: unsupported force type %s", f.Type))
}

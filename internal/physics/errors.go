package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPair is returned when no collision routine exists for two shapes.
	ErrUnsupportedPair = errors.New("unsupported collision pair")
	// ErrNoForces is returned when a body without a force accumulator is asked to move.
	ErrNoForces = errors.New("body has no force accumulator")
	// ErrNoResolver is returned when a colliding body has no response policy.
	ErrNoResolver = errors.New("body has no collision resolver")
	// ErrUnsupportedFluid is returned by buoyancy for non-quad fluids or bodies.
	ErrUnsupportedFluid = errors.New("unsupported fluid collider")
)

func unsupportedPair(from, to Shape) error {
	return fmt.Errorf("%w: %s and %s", ErrUnsupportedPair, from, to)
}

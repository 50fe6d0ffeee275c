package physics

import (
	"github.com/tomz197/physics2d/internal/maths"
)

// Spring joins two bodies with a Hooke spring measured between their facing
// bounds: Left's max corner and Right's min corner. Each step both ends get a
// one-time force toward the anchor proportional to how far the spring is
// stretched or compressed from its rest length.
type Spring struct {
	Left, Right *Body
	Anchor      maths.Vector2 // Point the ends are pulled toward or pushed from
	Stiffness   float64       // k, in N/m

	// Stretch is the current length over the rest length, per axis.
	Stretch maths.Vector2

	rest maths.Vector2
}

// NewSpring captures the rest length from the current gap between the bodies
// divided by the given initial stretch (use maths.One for a spring at rest).
func NewSpring(left, right *Body, anchor maths.Vector2, stiffness float64, stretch maths.Vector2) *Spring {
	s := &Spring{
		Left:      left,
		Right:     right,
		Anchor:    anchor,
		Stiffness: stiffness,
		Stretch:   stretch,
	}
	gap := s.gap()
	for axis := 0; axis < 2; axis++ {
		if st := stretch.At(axis); st != 0 {
			s.rest.Set(axis, gap.At(axis)/st)
		}
	}
	return s
}

// RestLength returns the per-axis rest gap.
func (s *Spring) RestLength() maths.Vector2 {
	return s.rest
}

func (s *Spring) gap() maths.Vector2 {
	return s.Right.Min().Sub(s.Left.Max())
}

// Update remeasures the stretch and queues the restoring force on both ends.
// An axis with a zero rest length never stretches.
func (s *Spring) Update() {
	gap := s.gap()
	for axis := 0; axis < 2; axis++ {
		st := 1.0
		if r := s.rest.At(axis); r != 0 {
			st = gap.At(axis) / r
		}
		s.Stretch.Set(axis, st)
	}

	restoring := maths.One[maths.D2]().Sub(s.Stretch).Scale(-s.Stiffness)
	s.pull(s.Left, restoring)
	s.pull(s.Right, restoring)
}

func (s *Spring) pull(end *Body, restoring maths.Vector2) {
	if end.Forces == nil {
		return
	}
	dir := s.Anchor.Sub(end.Center()).Normalized()
	end.Forces.AddOneTimeForce(NewForce(maths.Extend(dir.Mul(restoring), 0), ForceTypeForce))
}

package physics

import (
	"github.com/tomz197/physics2d/internal/maths"
)

// ContactPoint is a single point of contact. Normal is unit length and points
// from the "to" body toward the "from" body. Penetration is set for discrete
// overlaps and nil for continuous predictions.
type ContactPoint struct {
	Position    maths.Vector2
	Normal      maths.Vector2
	Penetration *float64
}

func newContact(position, normal maths.Vector2) ContactPoint {
	return ContactPoint{Position: position, Normal: normal}
}

func newOverlapContact(o Overlap) ContactPoint {
	penetration := o.Penetration
	return ContactPoint{Position: o.Position, Normal: o.Normal, Penetration: &penetration}
}

// HasPenetration reports whether the contact came from a discrete overlap.
func (c ContactPoint) HasPenetration() bool {
	return c.Penetration != nil
}

// Collision is produced fresh each step for one ordered pair of bodies.
type Collision struct {
	From     *Body
	To       *Body
	Contacts []ContactPoint
	TOI      float64 // Time of impact within the step, 0 for overlaps
	Step     float64 // Step length used for the continuous pass
}

// Detect computes the contacts of from against to. A discrete overlap test is
// run first; when it finds nothing and from has continuous detection enabled,
// the continuous test predicts an impact within step (0 means unbounded).
//
// ok is false when the bodies do not collide. An error is returned for shape
// pairs without a collision routine.
func Detect(from, to *Body, step float64) (c Collision, ok bool, err error) {
	c = Collision{From: from, To: to, Step: step}
	switch from.Collider.Shape {
	case ShapeCircle:
		switch to.Collider.Shape {
		case ShapeCircle:
			c.Contacts, c.TOI, ok = circleCircle(from, to, step)
			return c, ok, nil
		case ShapeLine:
			c.Contacts, c.TOI, ok = circleLine(from, to, step)
			return c, ok, nil
		}
	case ShapeQuad:
		switch to.Collider.Shape {
		case ShapeQuad:
			if o, hit := QuadQuadOverlap(from.quad(), to.quad()); hit {
				c.Contacts = []ContactPoint{newOverlapContact(o)}
				return c, true, nil
			}
			// No continuous routine for boxes.
			return c, false, nil
		case ShapeLine:
			if o, hit := QuadLineOverlap(from.quad(), to.line()); hit {
				c.Contacts = []ContactPoint{newOverlapContact(o)}
				return c, true, nil
			}
			return c, false, nil
		}
	}
	return c, false, unsupportedPair(from.Collider.Shape, to.Collider.Shape)
}

func circleCircle(from, to *Body, step float64) ([]ContactPoint, float64, bool) {
	if o, hit := CircleCircleOverlap(from.circle(), to.circle()); hit {
		return []ContactPoint{newOverlapContact(o)}, 0, true
	}
	if !from.Collider.UseCCD {
		return nil, 0, false
	}

	hit, ok := CircleCircleImpact(from.movingCircle(), to.movingCircle(), step)
	if !ok {
		return nil, 0, false
	}
	// hit.Normal points toward the other circle; contacts face the other way.
	contact := newContact(hit.Position.Add(hit.Normal.Scale(from.Collider.Radius)), hit.Normal.Scale(-1))
	return []ContactPoint{contact}, hit.TOI, true
}

func circleLine(from, to *Body, step float64) ([]ContactPoint, float64, bool) {
	line := to.line()
	if o, hit := CircleLineOverlap(from.circle(), line); hit {
		return []ContactPoint{newOverlapContact(o)}, 0, true
	}
	if !from.Collider.UseCCD {
		return nil, 0, false
	}

	hit, ok := CircleLineImpact(from.movingCircle(), line, step)
	if !ok {
		return nil, 0, false
	}
	contact := newContact(hit.Position.Sub(hit.Normal.Scale(from.Collider.Radius)), hit.Normal)
	return []ContactPoint{contact}, hit.TOI, true
}

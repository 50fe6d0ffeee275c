package physics

import (
	"fmt"
	"math"

	"github.com/tomz197/physics2d/internal/maths"
)

// Resolver is a collision response policy. It is invoked with a collision whose
// From body owns the resolver and may mutate that body's position and forces.
// The To body is only read. The collision itself is never modified.
//
// Resolutions in one step run one after another against geometry detected at
// the start of the step; a push-out applied by one resolution is not seen by
// the contacts of the next.
type Resolver interface {
	Resolve(c Collision) error
}

var (
	_ Resolver = PushOut{}
	_ Resolver = Elastic{}
	_ Resolver = Inelastic{}
	_ Resolver = Buoyancy{}
)

// PushOut moves the body out of every overlap along the contact normal.
type PushOut struct{}

func (PushOut) Resolve(c Collision) error {
	pushOut(c.From, c.Contacts)
	return nil
}

// pushOut translates body by normal × penetration for each discrete contact.
// Continuous predictions carry no penetration and are skipped.
func pushOut(body *Body, contacts []ContactPoint) {
	if body.Static() {
		return
	}
	for _, contact := range contacts {
		if !contact.HasPenetration() {
			continue
		}
		body.Translate(contact.Normal.Scale(*contact.Penetration))
	}
}

// Elastic bounces the body with the given restitution (1 keeps all energy).
// Against static bodies the velocity is reflected about the contact normal.
// Against dynamic ones a mass-weighted 1D impulse along the normal is used,
// and the remainder of the step after the impact is replayed with the new
// velocity.
type Elastic struct {
	Restitution float64
}

func (e Elastic) Resolve(c Collision) error {
	forces, err := forcesOf(c.From)
	if err != nil {
		return err
	}
	pushOut(c.From, c.Contacts)

	before := forces.Velocity
	after := before
	m1, m2 := c.From.Mass(), c.To.Mass()
	v2 := c.To.Velocity()
	bounced := false
	for _, contact := range c.Contacts {
		n := maths.Extend(contact.Normal, 0)
		if c.To.Static() || m1+m2 == 0 {
			after = after.Reflect(n).Scale(e.Restitution)
			continue
		}
		impulse := 2 * (after.Dot(n) - v2.Dot(n)) / (m1 + m2)
		after = after.Sub(n.Scale(impulse * m2)).Scale(e.Restitution)
		bounced = true
	}

	forces.AddOneTimeForce(NewForce(before.Scale(-1), ForceTypeVelocityChange))
	forces.AddOneTimeForce(NewForce(after, ForceTypeVelocityChange))

	if bounced {
		// The body should travel before·toi then after·(step-toi) this step.
		// Integration will add after·step, so only the difference is applied here.
		c.From.Position = c.From.Position.Add(before.Sub(after).Scale(c.TOI))
	}
	return nil
}

// Inelastic reflects the body's velocity about the contact normal and scales
// it by Damping (expected below 1).
type Inelastic struct {
	Damping float64
}

func (r Inelastic) Resolve(c Collision) error {
	forces, err := forcesOf(c.From)
	if err != nil {
		return err
	}
	pushOut(c.From, c.Contacts)

	before := forces.Velocity
	after := before
	for _, contact := range c.Contacts {
		after = after.Reflect(maths.Extend(contact.Normal, 0)).Scale(r.Damping)
	}
	forces.AddOneTimeForce(NewForce(before.Scale(-1), ForceTypeVelocityChange))
	forces.AddOneTimeForce(NewForce(after, ForceTypeVelocityChange))
	return nil
}

// BuoyancyForceName names the one-time force added by Buoyancy.
const BuoyancyForceName = "buoyancy"

// Buoyancy is owned by a fluid volume (a quad). When a body overlaps it, the
// body receives an upward force of fluid density × immersed area × Gravity.
// Unlike the other policies it pushes on the To body, which is the one
// floating; the fluid itself never moves.
type Buoyancy struct{}

func (Buoyancy) Resolve(c Collision) error {
	fluid, body := c.From, c.To
	if fluid.Collider.Shape != ShapeQuad {
		return fmt.Errorf("%w: fluid %q is a %s", ErrUnsupportedFluid, fluid.Name, fluid.Collider.Shape)
	}
	if body.Collider.Shape != ShapeQuad {
		return fmt.Errorf("%w: body %q is a %s", ErrUnsupportedFluid, body.Name, body.Collider.Shape)
	}
	if body.Static() || body.Forces == nil {
		return nil
	}

	area := ImmersedArea(fluid.quad(), body.quad())
	if area <= 0 {
		return nil
	}
	lift := fluid.Collider.Density * area * Gravity
	body.Forces.AddOneTimeForce(NewForce(maths.V3(0, lift, 0), ForceTypeForce).Named(BuoyancyForceName))
	return nil
}

// ImmersedArea estimates how much of body lies below the fluid surface (the
// top edge of fluid): body width × submerged height. This is not the body's
// full area scaled by the submerged height, so lift differs from that rule for
// any body wider than one unit; scene densities are tuned for this one.
func ImmersedArea(fluid, body QuadInput) float64 {
	surface := fluid.Origin.Y() + fluid.Size.Y()
	depth := math.Min(body.Size.Y(), surface-body.Origin.Y())
	if depth <= 0 {
		return 0
	}
	return body.Size.X() * depth
}

func forcesOf(b *Body) (*Forces, error) {
	if b.Forces == nil {
		return nil, fmt.Errorf("resolve %q: %w", b.Name, ErrNoForces)
	}
	return b.Forces, nil
}

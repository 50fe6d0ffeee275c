package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/physics"
	"github.com/tomz197/physics2d/internal/simulation"
)

// Build validates doc and creates a world holding its bodies and springs.
// Bodies are registered in document order, spawned balls last.
func Build(doc Document, opts ...simulation.Option) (*simulation.World, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	w := simulation.New(opts...)
	for _, bd := range doc.Bodies {
		b, err := bd.build(doc.Gravity)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", bd.Name, err)
		}
		if err := w.AddBody(b); err != nil {
			return nil, err
		}
	}

	if doc.Spawn != nil {
		for _, b := range doc.Spawn.spawn(doc.Gravity) {
			if err := w.AddBody(b); err != nil {
				return nil, err
			}
		}
	}

	for _, sd := range doc.Springs {
		left, _ := w.Body(sd.Left)
		right, _ := w.Body(sd.Right)
		stretch := vec(sd.Stretch)
		if sd.Stretch == (Vec2{}) {
			stretch = maths.One[maths.D2]()
		}
		if err := w.AddSpring(physics.NewSpring(left, right, vec(sd.Anchor), sd.Stiffness, stretch)); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Bounds returns the view rectangle of doc. Without one it frames every body
// (lines by their origin) and the spawner area, padded by one unit.
func (d Document) Bounds() (lo, hi maths.Vector2) {
	if d.View != nil {
		return vec(d.View.Min), vec(d.View.Max)
	}
	first := true
	grow := func(a, b maths.Vector2) {
		if first {
			lo, hi, first = a, b, false
			return
		}
		lo = maths.V2(min(lo.X(), a.X()), min(lo.Y(), a.Y()))
		hi = maths.V2(max(hi.X(), b.X()), max(hi.Y(), b.Y()))
	}
	for _, bd := range d.Bodies {
		p := vec(bd.Position)
		var ext maths.Vector2
		switch bd.Shape {
		case "circle":
			ext = maths.V2(bd.Radius, bd.Radius)
		case "quad":
			ext = vec(bd.Size).Scale(0.5)
		}
		grow(p.Sub(ext), p.Add(ext))
	}
	if d.Spawn != nil {
		grow(vec(d.Spawn.Min), vec(d.Spawn.Max))
	}
	pad := maths.V2(1, 1)
	return lo.Sub(pad), hi.Add(pad)
}

func (bd BodyDoc) build(gravity bool) (*physics.Body, error) {
	shape, err := physics.ParseShape(bd.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, bd.Shape)
	}

	var c physics.Collider
	switch shape {
	case physics.ShapeCircle:
		c = physics.NewCircle(bd.Radius)
	case physics.ShapeLine:
		c = physics.NewLine(vec(bd.Direction))
	case physics.ShapeQuad:
		c = physics.NewQuad(vec(bd.Size))
	}
	c.Static = bd.Static
	c.UseCCD = bd.CCD
	c.Tags = bd.Tags
	c.IgnoreTags = bd.Ignore
	if bd.Density > 0 {
		c.Density = bd.Density
	}

	var resolver physics.Resolver
	if bd.Resolver != nil {
		if resolver, err = bd.Resolver.build(); err != nil {
			return nil, err
		}
	}

	b := physics.NewBody(bd.Name, maths.Extend(vec(bd.Position), 0), c, resolver)
	if b.Forces == nil {
		return b, nil
	}
	b.Forces.Velocity = maths.Extend(vec(bd.Velocity), 0)
	if bd.Gravity != nil {
		gravity = *bd.Gravity
	}
	if gravity {
		b.Forces.UpdateOrAdd(physics.GravityForce())
	}
	for _, fd := range bd.Forces {
		t, err := physics.ParseForceType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownForce, fd.Type)
		}
		f := physics.NewForce(maths.Extend(vec(fd.Value), 0), t).Named(fd.Name)
		if fd.Once {
			b.Forces.AddOneTimeForce(f)
		} else {
			b.Forces.UpdateOrAdd(f)
		}
	}
	return b, nil
}

func (rd ResolverDoc) build() (physics.Resolver, error) {
	switch rd.Type {
	case "push_out":
		return physics.PushOut{}, nil
	case "elastic":
		return physics.Elastic{Restitution: rd.Restitution}, nil
	case "inelastic":
		return physics.Inelastic{Damping: rd.Damping}, nil
	case "buoyancy":
		return physics.Buoyancy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownResolver, rd.Type)
}

// spawn places the balls. Each one starts with a one-time velocity change, so
// the first step already moves it.
func (sp SpawnerDoc) spawn(gravity bool) []*physics.Body {
	rng := rand.New(rand.NewPCG(sp.Seed, sp.Seed))
	prefix := sp.Prefix
	if prefix == "" {
		prefix = "ball"
	}
	restitution := sp.Restitution
	if restitution == 0 {
		restitution = 1
	}

	between := func(lo, hi float64) float64 {
		if hi <= lo {
			return lo
		}
		return lo + rng.Float64()*(hi-lo)
	}

	bodies := make([]*physics.Body, 0, sp.Count)
	for i := 0; i < sp.Count; i++ {
		pos := maths.V2(
			between(sp.Min[0]+sp.Radius, sp.Max[0]-sp.Radius),
			between(sp.Min[1]+sp.Radius, sp.Max[1]-sp.Radius),
		)
		velocity := maths.V3(between(sp.Speed[0], sp.Speed[1]), between(sp.Speed[0], sp.Speed[1]), 0)

		c := physics.NewCircle(sp.Radius)
		c.UseCCD = true
		c.Tags = sp.Tags
		b := physics.NewBody(fmt.Sprintf("%s-%d", prefix, i), maths.Extend(pos, 0), c, physics.Elastic{Restitution: restitution})
		b.Forces.AddOneTimeForce(physics.NewForce(velocity, physics.ForceTypeVelocityChange))
		if gravity {
			b.Forces.UpdateOrAdd(physics.GravityForce())
		}
		bodies = append(bodies, b)
	}
	return bodies
}

func vec(v Vec2) maths.Vector2 {
	return maths.V2(v[0], v[1])
}

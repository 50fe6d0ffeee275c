// Package scene describes worlds as YAML documents and builds them.
//
// A document lists bodies, springs joining them and optionally a spawner that
// scatters balls with random velocities inside a rectangle:
//
//	name: bounce
//	gravity: true
//	bodies:
//	  - name: floor
//	    shape: line
//	    position: [-10, 0]
//	    direction: [1, 0]
//	    static: true
//	  - name: ball
//	    shape: circle
//	    radius: 0.5
//	    position: [0, 5]
//	    ccd: true
//	    resolver: {type: elastic, restitution: 0.8}
package scene

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/physics2d/internal/physics"
)

var (
	ErrUnknownShape    = errors.New("unknown shape")
	ErrUnknownResolver = errors.New("unknown resolver")
	ErrUnknownForce    = errors.New("unknown force type")
	ErrInvalidBody     = errors.New("invalid body")
	ErrInvalidSpring   = errors.New("invalid spring")
	ErrUnknownPreset   = errors.New("unknown preset")
)

// Vec2 is written as a two element sequence.
type Vec2 [2]float64

// Document is a whole scene.
type Document struct {
	Name    string      `yaml:"name"`
	Gravity bool        `yaml:"gravity"`
	View    *View       `yaml:"view,omitempty"`
	Bodies  []BodyDoc   `yaml:"bodies"`
	Springs []SpringDoc `yaml:"springs,omitempty"`
	Spawn   *SpawnerDoc `yaml:"spawn,omitempty"`
}

// View is the world rectangle a viewer should frame.
type View struct {
	Min Vec2 `yaml:"min"`
	Max Vec2 `yaml:"max"`
}

// BodyDoc describes one body. Only the geometry fields of its shape are read.
type BodyDoc struct {
	Name      string       `yaml:"name"`
	Shape     string       `yaml:"shape"`
	Position  Vec2         `yaml:"position"`
	Velocity  Vec2         `yaml:"velocity,omitempty"`
	Radius    float64      `yaml:"radius,omitempty"`
	Size      Vec2         `yaml:"size,omitempty"`
	Direction Vec2         `yaml:"direction,omitempty"`
	Static    bool         `yaml:"static,omitempty"`
	Density   float64      `yaml:"density,omitempty"` // 0 means 1
	CCD       bool         `yaml:"ccd,omitempty"`
	Gravity   *bool        `yaml:"gravity,omitempty"` // Overrides the document setting
	Tags      []string     `yaml:"tags,omitempty"`
	Ignore    []string     `yaml:"ignore,omitempty"`
	Resolver  *ResolverDoc `yaml:"resolver,omitempty"`
	Forces    []ForceDoc   `yaml:"forces,omitempty"`
}

// ResolverDoc selects a collision response: push_out, elastic, inelastic or
// buoyancy.
type ResolverDoc struct {
	Type        string  `yaml:"type"`
	Restitution float64 `yaml:"restitution,omitempty"`
	Damping     float64 `yaml:"damping,omitempty"`
}

// ForceDoc is a force registered on a body when it is built. Once forces are
// applied on the first step only.
type ForceDoc struct {
	Name  string `yaml:"name,omitempty"`
	Type  string `yaml:"type"`
	Value Vec2   `yaml:"value"`
	Once  bool   `yaml:"once,omitempty"`
}

// SpringDoc joins two bodies by name.
type SpringDoc struct {
	Left      string  `yaml:"left"`
	Right     string  `yaml:"right"`
	Anchor    Vec2    `yaml:"anchor"`
	Stiffness float64 `yaml:"stiffness"`
	Stretch   Vec2    `yaml:"stretch,omitempty"` // Zero means at rest
}

// SpawnerDoc scatters Count circles inside [Min, Max] with velocities drawn
// from [Speed[0], Speed[1]] on each axis. The same seed yields the same layout.
type SpawnerDoc struct {
	Prefix      string   `yaml:"prefix,omitempty"`
	Count       int      `yaml:"count"`
	Seed        uint64   `yaml:"seed"`
	Radius      float64  `yaml:"radius"`
	Min         Vec2     `yaml:"min"`
	Max         Vec2     `yaml:"max"`
	Speed       Vec2     `yaml:"speed"`
	Restitution float64  `yaml:"restitution,omitempty"` // 0 means 1
	Tags        []string `yaml:"tags,omitempty"`
}

// Load decodes and validates a scene document. Unknown fields are rejected.
func Load(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode scene: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks names, shapes, geometry and references without building.
func (d Document) Validate() error {
	names := make(map[string]struct{}, len(d.Bodies))
	for i, b := range d.Bodies {
		if b.Name == "" {
			return fmt.Errorf("body %d: %w: missing name", i, ErrInvalidBody)
		}
		if _, dup := names[b.Name]; dup {
			return fmt.Errorf("body %q: %w: duplicate name", b.Name, ErrInvalidBody)
		}
		names[b.Name] = struct{}{}
		if err := b.validate(); err != nil {
			return fmt.Errorf("body %q: %w", b.Name, err)
		}
	}

	for i, s := range d.Springs {
		for _, end := range []string{s.Left, s.Right} {
			if _, ok := names[end]; !ok {
				return fmt.Errorf("spring %d: %w: no body %q", i, ErrInvalidSpring, end)
			}
		}
		if s.Left == s.Right {
			return fmt.Errorf("spring %d: %w: both ends are %q", i, ErrInvalidSpring, s.Left)
		}
	}

	if sp := d.Spawn; sp != nil {
		if sp.Count < 0 || (sp.Count > 0 && sp.Radius <= 0) {
			return fmt.Errorf("spawn: %w: count %d radius %g", ErrInvalidBody, sp.Count, sp.Radius)
		}
	}
	return nil
}

func (b BodyDoc) validate() error {
	shape, err := physics.ParseShape(b.Shape)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownShape, b.Shape)
	}
	switch shape {
	case physics.ShapeCircle:
		if b.Radius <= 0 {
			return fmt.Errorf("%w: radius %g", ErrInvalidBody, b.Radius)
		}
	case physics.ShapeQuad:
		if b.Size[0] <= 0 || b.Size[1] <= 0 {
			return fmt.Errorf("%w: size %v", ErrInvalidBody, b.Size)
		}
	case physics.ShapeLine:
		if b.Direction == (Vec2{}) {
			return fmt.Errorf("%w: zero direction", ErrInvalidBody)
		}
	}
	if b.Density < 0 {
		return fmt.Errorf("%w: density %g", ErrInvalidBody, b.Density)
	}
	if b.Resolver != nil {
		if _, err := b.Resolver.build(); err != nil {
			return err
		}
	}
	for _, f := range b.Forces {
		if _, err := physics.ParseForceType(f.Type); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownForce, f.Type)
		}
	}
	return nil
}

// Marshal encodes a document as YAML.
func Marshal(d Document) ([]byte, error) {
	return yaml.Marshal(d)
}

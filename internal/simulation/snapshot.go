package simulation

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/tomz197/physics2d/internal/physics"
)

// BodyState is the render-facing copy of a body.
type BodyState struct {
	Name   string   `json:"name"`
	Shape  string   `json:"shape"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	VX     float64  `json:"vx"`
	VY     float64  `json:"vy"`
	Radius float64  `json:"radius,omitempty"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	DirX   float64  `json:"dirX,omitempty"`
	DirY   float64  `json:"dirY,omitempty"`
	Static bool     `json:"static,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// ContactState is one contact of the last step.
type ContactState struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	NX   float64 `json:"nx"`
	NY   float64 `json:"ny"`
	TOI  float64 `json:"toi,omitempty"`
}

// Snapshot is an immutable copy of the world after a step, safe to hand to
// other goroutines.
type Snapshot struct {
	Step     uint64         `json:"step"`
	Time     float64        `json:"time"`
	Checksum uint64         `json:"checksum"`
	Bodies   []BodyState    `json:"bodies"`
	Contacts []ContactState `json:"contacts"`
}

// Snapshot copies the current state of every body and the last contacts.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Step:     w.steps,
		Time:     w.time,
		Checksum: w.Checksum(),
		Bodies:   make([]BodyState, 0, len(w.bodies)),
	}
	for _, b := range w.bodies {
		s.Bodies = append(s.Bodies, bodyState(b))
	}
	for _, c := range w.last {
		for _, p := range c.Contacts {
			s.Contacts = append(s.Contacts, ContactState{
				From: c.From.Name,
				To:   c.To.Name,
				X:    p.Position.X(),
				Y:    p.Position.Y(),
				NX:   p.Normal.X(),
				NY:   p.Normal.Y(),
				TOI:  c.TOI,
			})
		}
	}
	return s
}

func bodyState(b *physics.Body) BodyState {
	v := b.Velocity()
	s := BodyState{
		Name:   b.Name,
		Shape:  b.Collider.Shape.String(),
		X:      b.Position.X(),
		Y:      b.Position.Y(),
		VX:     v.X(),
		VY:     v.Y(),
		Static: b.Static(),
		Tags:   b.Collider.Tags,
	}
	switch b.Collider.Shape {
	case physics.ShapeCircle:
		s.Radius = b.Collider.Radius
	case physics.ShapeQuad:
		s.Width, s.Height = b.Collider.Size.X(), b.Collider.Size.Y()
	case physics.ShapeLine:
		s.DirX, s.DirY = b.Collider.Direction.X(), b.Collider.Direction.Y()
	}
	return s
}

// Checksum fingerprints the name, position and velocity of every body in
// registry order. Two worlds stepped identically hash identically.
func (w *World) Checksum() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8*6)
	for _, b := range w.bodies {
		_, _ = d.WriteString(b.Name)
		buf = buf[:0]
		v := b.Velocity()
		for axis := 0; axis < 3; axis++ {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.Position.At(axis)))
		}
		for axis := 0; axis < 3; axis++ {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.At(axis)))
		}
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

package physics

import (
	"slices"

	"github.com/tomz197/physics2d/internal/maths"
)

// Forces is a body's force ledger and velocity. Persistent forces apply on every
// step until removed; one-time forces apply on the next step only.
type Forces struct {
	Velocity maths.Vector3

	persistent []Force
	oneTime    []Force
}

// NewForces returns an empty accumulator moving at velocity.
func NewForces(velocity maths.Vector3) *Forces {
	return &Forces{Velocity: velocity}
}

// AddForce registers a persistent force.
func (f *Forces) AddForce(force Force) {
	f.persistent = append(f.persistent, force)
}

// AddOneTimeForce registers a force for the next Apply only.
func (f *Forces) AddOneTimeForce(force Force) {
	f.oneTime = append(f.oneTime, force)
}

// UpdateOrAdd replaces the persistent force with the same name, or adds it.
// Unnamed forces are always added.
func (f *Forces) UpdateOrAdd(force Force) {
	if force.Name != "" {
		if i := f.indexOf(force.Name); i >= 0 {
			f.persistent[i] = force
			return
		}
	}
	f.persistent = append(f.persistent, force)
}

// RemoveForce drops the persistent force with the given name.
func (f *Forces) RemoveForce(name string) bool {
	i := f.indexOf(name)
	if i < 0 {
		return false
	}
	f.persistent = slices.Delete(f.persistent, i, i+1)
	return true
}

// Find returns the persistent force with the given name.
func (f *Forces) Find(name string) (Force, bool) {
	if i := f.indexOf(name); i >= 0 {
		return f.persistent[i], true
	}
	return Force{}, false
}

// Persistent returns a copy of the persistent forces.
func (f *Forces) Persistent() []Force {
	return slices.Clone(f.persistent)
}

// OneTime returns a copy of the pending one-time forces.
func (f *Forces) OneTime() []Force {
	return slices.Clone(f.oneTime)
}

func (f *Forces) indexOf(name string) int {
	return slices.IndexFunc(f.persistent, func(force Force) bool { return force.Name == name })
}

// Apply integrates one step: every force's contribution is summed into a
// velocity change, one-time forces are discarded, the velocity is updated and
// the returned position is advanced by velocity × dt.
func (f *Forces) Apply(mass, dt float64, position maths.Vector3) maths.Vector3 {
	var delta maths.Vector3
	for _, force := range f.persistent {
		delta = delta.Add(force.Compute(mass, dt))
	}
	for _, force := range f.oneTime {
		delta = delta.Add(force.Compute(mass, dt))
	}
	f.oneTime = f.oneTime[:0]

	f.Velocity = f.Velocity.Add(delta)
	return position.Add(f.Velocity.Scale(dt))
}

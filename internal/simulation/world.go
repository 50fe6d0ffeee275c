// Package simulation owns the body registry and runs the per-step pipeline:
// springs, narrow-phase detection over every ordered pair of bodies, serial
// resolution in detection order, then integration.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/physics"
)

var (
	// ErrDuplicateBody is returned when a body name is already registered.
	ErrDuplicateBody = errors.New("duplicate body name")
	// ErrUnknownBody is returned when a spring references an unregistered body.
	ErrUnknownBody = errors.New("unknown body")
)

// World is a flat registry of bodies stepped together. It is not safe for
// concurrent use; hosts serialize access.
type World struct {
	bodies  []*physics.Body
	springs []*physics.Spring

	workers int
	log     *zap.Logger

	last  []physics.Collision
	steps uint64
	time  float64
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithWorkers runs detection on up to n goroutines. n <= 1 detects serially.
func WithWorkers(n int) Option {
	return func(w *World) { w.workers = n }
}

// New returns an empty world.
func New(opts ...Option) *World {
	w := &World{log: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddBody registers b. Body names are unique within a world.
func (w *World) AddBody(b *physics.Body) error {
	if _, ok := w.Body(b.Name); ok {
		return fmt.Errorf("add %q: %w", b.Name, ErrDuplicateBody)
	}
	w.bodies = append(w.bodies, b)
	return nil
}

// RemoveBody unregisters the named body along with any spring attached to it.
func (w *World) RemoveBody(name string) bool {
	i := slices.IndexFunc(w.bodies, func(b *physics.Body) bool { return b.Name == name })
	if i < 0 {
		return false
	}
	b := w.bodies[i]
	w.bodies = slices.Delete(w.bodies, i, i+1)
	w.springs = slices.DeleteFunc(w.springs, func(s *physics.Spring) bool {
		return s.Left == b || s.Right == b
	})
	return true
}

// AddSpring registers a joint. Both ends must already be in the world.
func (w *World) AddSpring(s *physics.Spring) error {
	for _, end := range []*physics.Body{s.Left, s.Right} {
		if !slices.Contains(w.bodies, end) {
			return fmt.Errorf("spring end %q: %w", end.Name, ErrUnknownBody)
		}
	}
	w.springs = append(w.springs, s)
	return nil
}

// Body looks a body up by name.
func (w *World) Body(name string) (*physics.Body, bool) {
	for _, b := range w.bodies {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Bodies returns the registered bodies in insertion order.
func (w *World) Bodies() []*physics.Body {
	return slices.Clone(w.bodies)
}

// Springs returns the registered joints.
func (w *World) Springs() []*physics.Spring {
	return slices.Clone(w.springs)
}

// Steps returns how many steps have completed.
func (w *World) Steps() uint64 {
	return w.steps
}

// Time returns the simulated seconds elapsed.
func (w *World) Time() float64 {
	return w.time
}

// LastCollisions returns the collisions resolved by the most recent step.
// The bodies they point at are live; treat them as read-only.
func (w *World) LastCollisions() []physics.Collision {
	return slices.Clone(w.last)
}

// Step advances the world by dt seconds. Springs queue their forces first,
// then every dynamic body is tested against every other body it does not
// ignore. Collisions are resolved one by one in detection order, after which
// all dynamic bodies integrate. A step that fails is rolled back: bodies and
// springs are left as they were before the call.
func (w *World) Step(ctx context.Context, dt float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	saved := w.save()
	collisions, err := w.step(ctx, dt)
	if err != nil {
		saved.rollback()
		return fmt.Errorf("step %d: %w", w.steps, err)
	}
	w.last = collisions

	w.steps++
	w.time += dt
	w.log.Debug("step",
		zap.Uint64("step", w.steps),
		zap.Float64("dt", dt),
		zap.Int("bodies", len(w.bodies)),
		zap.Int("collisions", len(collisions)),
	)
	return nil
}

func (w *World) step(ctx context.Context, dt float64) ([]physics.Collision, error) {
	for _, s := range w.springs {
		s.Update()
	}

	collisions, err := w.detect(ctx, dt)
	if err != nil {
		return nil, err
	}

	for _, c := range collisions {
		if c.From.Resolver == nil {
			return nil, fmt.Errorf("%q hit %q: %w", c.From.Name, c.To.Name, physics.ErrNoResolver)
		}
		if err := c.From.Resolver.Resolve(c); err != nil {
			return nil, fmt.Errorf("resolve %q against %q: %w", c.From.Name, c.To.Name, err)
		}
	}

	for _, b := range w.bodies {
		if err := b.Integrate(dt); err != nil {
			return nil, err
		}
	}
	return collisions, nil
}

// checkpoint is the world state a step can change.
type checkpoint struct {
	bodies    []*physics.Body
	states    []physics.Checkpoint
	springs   []*physics.Spring
	stretches []maths.Vector2
}

func (w *World) save() checkpoint {
	cp := checkpoint{
		bodies:    w.bodies,
		states:    make([]physics.Checkpoint, len(w.bodies)),
		springs:   w.springs,
		stretches: make([]maths.Vector2, len(w.springs)),
	}
	for i, b := range w.bodies {
		cp.states[i] = b.Checkpoint()
	}
	for i, s := range w.springs {
		cp.stretches[i] = s.Stretch
	}
	return cp
}

func (cp checkpoint) rollback() {
	for i, b := range cp.bodies {
		b.Rollback(cp.states[i])
	}
	for i, s := range cp.springs {
		s.Stretch = cp.stretches[i]
	}
}

// detect returns the collisions of this step ordered by (from, to) index.
func (w *World) detect(ctx context.Context, dt float64) ([]physics.Collision, error) {
	if w.workers <= 1 || len(w.bodies) < 2 {
		var out []physics.Collision
		for i := range w.bodies {
			found, err := w.detectFrom(i, dt)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
		return out, nil
	}

	perBody := make([][]physics.Collision, len(w.bodies))
	errs := make([]error, len(w.bodies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i := range w.bodies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perBody[i], errs[i] = w.detectFrom(i, dt)
			return errs[i]
		})
	}
	waitErr := g.Wait()

	// Report the error serial detection would have hit first.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return slices.Concat(perBody...), nil
}

// detectFrom tests body i against every other body. Static bodies never
// initiate a collision.
func (w *World) detectFrom(i int, dt float64) ([]physics.Collision, error) {
	from := w.bodies[i]
	if from.Static() {
		return nil, nil
	}
	var out []physics.Collision
	for j, to := range w.bodies {
		if i == j || from.Collider.Ignores(to.Collider) {
			continue
		}
		c, ok, err := physics.Detect(from, to, dt)
		if err != nil {
			return nil, fmt.Errorf("detect %q against %q: %w", from.Name, to.Name, err)
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

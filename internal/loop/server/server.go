// Package server hosts one shared simulation for any number of viewers.
// The world is owned by the Run goroutine; viewers talk to it through
// channels and read immutable frames.
package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/scene"
	"github.com/tomz197/physics2d/internal/simulation"
)

// Host is the interface viewers use to communicate with the simulation host.
// Decouples the Client from the concrete Server implementation, enabling
// testing and other transports.
type Host interface {
	RegisterViewer(name string) *ViewerHandle
	UnregisterViewer(id uuid.UUID)
	SendCommand(id uuid.UUID, cmd Command)
	Frame() *Frame
}

// Server steps the shared world at a fixed rate and publishes frames.
type Server struct {
	cfg   config.Sim
	log   *zap.Logger
	open  func(name string) (scene.Document, error)
	world *simulation.World
	doc   scene.Document

	paused  bool
	lastErr string

	frame        atomic.Pointer[Frame]
	viewers      map[uuid.UUID]*ViewerHandle
	commandCh    chan viewerCommand
	registerCh   chan *ViewerHandle
	unregisterCh chan uuid.UUID
	mu           sync.RWMutex
}

// Compile-time check that Server implements Host.
var _ Host = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. The world gets a named child.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSceneOpener replaces scene.Open for resolving scene names.
func WithSceneOpener(open func(name string) (scene.Document, error)) Option {
	return func(s *Server) { s.open = open }
}

// NewServer loads cfg.Scene and returns a server ready to Run.
func NewServer(cfg config.Sim, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:          cfg,
		log:          zap.NewNop(),
		open:         scene.Open,
		viewers:      make(map[uuid.UUID]*ViewerHandle),
		commandCh:    make(chan viewerCommand, 256),
		registerCh:   make(chan *ViewerHandle, 16),
		unregisterCh: make(chan uuid.UUID, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.TickRate <= 0 {
		s.cfg.TickRate = config.TickRate
	}

	if err := s.load(cfg.Scene); err != nil {
		return nil, err
	}
	s.publish()
	return s, nil
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	tick := s.cfg.Tick()
	s.log.Info("simulation started",
		zap.String("scene", s.doc.Name),
		zap.Duration("tick", tick),
		zap.Int("workers", s.cfg.Workers),
	)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulation stopped", zap.Uint64("steps", s.world.Steps()))
			return
		default:
		}

		frameStart := time.Now()
		s.Tick(ctx)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < tick {
			time.Sleep(tick - elapsed)
		}
	}
}

// Tick runs one iteration of the loop without waiting: registrations,
// commands, at most one step, then a new frame.
func (s *Server) Tick(ctx context.Context) {
	s.processRegistrations()
	stepOnce := s.processCommands()
	if !s.paused || stepOnce {
		s.step(ctx)
	}
	s.publish()
}

// Shutdown notifies all connected viewers and waits for them to disconnect
// (up to the given timeout). The caller should cancel the server context
// after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ViewerEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.viewers)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterViewer registers a new viewer with the given name and returns its handle.
func (s *Server) RegisterViewer(name string) *ViewerHandle {
	handle := &ViewerHandle{
		ID:       uuid.New(),
		Name:     name,
		EventsCh: make(chan ViewerEvent, 16),
	}
	s.registerCh <- handle
	return handle
}

// UnregisterViewer removes a viewer from the server.
func (s *Server) UnregisterViewer(id uuid.UUID) {
	s.unregisterCh <- id
}

// SendCommand queues a command. Commands are dropped when the queue is full.
func (s *Server) SendCommand(id uuid.UUID, cmd Command) {
	select {
	case s.commandCh <- viewerCommand{ViewerID: id, Command: cmd}:
	default:
	}
}

// Frame returns the latest published frame.
func (s *Server) Frame() *Frame {
	return s.frame.Load()
}

// processRegistrations handles pending viewer registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.viewers[handle.ID] = handle
			s.mu.Unlock()
			s.log.Info("viewer joined", zap.Stringer("viewer", handle.ID), zap.String("name", handle.Name))
		case id := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.viewers[id]; ok {
				close(handle.EventsCh)
				delete(s.viewers, id)
				s.log.Info("viewer left", zap.Stringer("viewer", id), zap.String("name", handle.Name))
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// processCommands applies queued commands in arrival order. It reports
// whether a single step was requested.
func (s *Server) processCommands() (stepOnce bool) {
	for {
		select {
		case vc := <-s.commandCh:
			s.log.Debug("command",
				zap.Stringer("viewer", vc.ViewerID),
				zap.Stringer("type", vc.Command.Type),
				zap.String("scene", vc.Command.Scene),
			)
			switch vc.Command.Type {
			case CommandPause:
				s.paused = !s.paused
			case CommandStep:
				stepOnce = s.paused
			case CommandReset:
				s.reload(s.doc.Name, s.doc)
			case CommandScene:
				doc, err := s.open(vc.Command.Scene)
				if err != nil {
					s.log.Warn("scene rejected", zap.String("scene", vc.Command.Scene), zap.Error(err))
					s.broadcast(ViewerEvent{Type: EventSceneFailed, Scene: vc.Command.Scene, Err: err.Error()})
					continue
				}
				s.reload(vc.Command.Scene, doc)
			}
		default:
			return stepOnce
		}
	}
}

// load opens and builds the named scene during construction.
func (s *Server) load(name string) error {
	doc, err := s.open(name)
	if err != nil {
		return err
	}
	world, err := s.build(doc)
	if err != nil {
		return fmt.Errorf("build scene %q: %w", doc.Name, err)
	}
	s.world, s.doc = world, doc
	return nil
}

// reload swaps in a fresh world for doc. A scene that fails to build leaves
// the current world running.
func (s *Server) reload(name string, doc scene.Document) {
	world, err := s.build(doc)
	if err != nil {
		s.log.Warn("scene rejected", zap.String("scene", name), zap.Error(err))
		s.broadcast(ViewerEvent{Type: EventSceneFailed, Scene: name, Err: err.Error()})
		return
	}
	s.world, s.doc = world, doc
	s.paused = false
	s.lastErr = ""
	s.log.Info("scene loaded", zap.String("scene", doc.Name), zap.Int("bodies", len(world.Bodies())))
	s.broadcast(ViewerEvent{Type: EventSceneChanged, Scene: doc.Name})
}

func (s *Server) build(doc scene.Document) (*simulation.World, error) {
	return scene.Build(doc,
		simulation.WithLogger(s.log.Named("world")),
		simulation.WithWorkers(s.cfg.Workers),
	)
}

// step advances the world. A failing step pauses the simulation so the
// error stays on screen instead of repeating every tick.
func (s *Server) step(ctx context.Context) {
	err := s.world.Step(ctx, s.cfg.Step())
	if err == nil || ctx.Err() != nil {
		return
	}
	s.paused = true
	s.lastErr = err.Error()
	s.log.Error("step failed", zap.String("scene", s.doc.Name), zap.Uint64("step", s.world.Steps()), zap.Error(err))
	s.broadcast(ViewerEvent{Type: EventStepFailed, Err: s.lastErr})
}

// publish stores a new frame for viewers.
func (s *Server) publish() {
	s.mu.RLock()
	viewers := len(s.viewers)
	s.mu.RUnlock()

	lo, hi := s.doc.Bounds()
	s.frame.Store(&Frame{
		Snapshot: s.world.Snapshot(),
		Scene:    s.doc.Name,
		Paused:   s.paused,
		Viewers:  viewers,
		Lo:       lo,
		Hi:       hi,
		Err:      s.lastErr,
	})
}

// broadcast sends ev to every viewer without blocking.
func (s *Server) broadcast(ev ViewerEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.viewers {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

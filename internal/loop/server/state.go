package server

import (
	"github.com/google/uuid"

	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/simulation"
)

// Frame is an immutable view of the host state for rendering. Viewers load it
// from an atomic pointer and never lock.
type Frame struct {
	Snapshot *simulation.Snapshot
	Scene    string
	Paused   bool
	Viewers  int
	Lo, Hi   maths.Vector2 // World rectangle to frame
	Err      string        // Last step failure, empty while healthy
}

// ViewerHandle represents a viewer's connection to the host.
type ViewerHandle struct {
	ID       uuid.UUID
	Name     string           // Display name, e.g. the SSH user
	EventsCh chan ViewerEvent // Closed when the viewer is unregistered
}

// CommandType identifies a viewer command.
type CommandType int

const (
	CommandPause CommandType = iota // Toggle pause
	CommandStep                     // Advance one step while paused
	CommandReset                    // Rebuild the current scene
	CommandScene                    // Load Command.Scene
)

func (t CommandType) String() string {
	switch t {
	case CommandPause:
		return "pause"
	case CommandStep:
		return "step"
	case CommandReset:
		return "reset"
	case CommandScene:
		return "scene"
	}
	return "unknown"
}

// Command is a request from a viewer, applied between steps.
type Command struct {
	Type  CommandType
	Scene string // For CommandScene
}

// viewerCommand tags a command with its sender.
type viewerCommand struct {
	ViewerID uuid.UUID
	Command  Command
}

// ViewerEvent is sent from the host to viewers.
type ViewerEvent struct {
	Type  ViewerEventType
	Scene string // For EventSceneChanged
	Err   string // For EventStepFailed and EventSceneFailed
}

// ViewerEventType identifies the type of viewer event.
type ViewerEventType int

const (
	EventSceneChanged ViewerEventType = iota
	EventSceneFailed
	EventStepFailed
	EventServerShutdown
)

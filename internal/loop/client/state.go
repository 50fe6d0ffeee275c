package client

import (
	"time"

	"github.com/tomz197/physics2d/internal/input"
	"github.com/tomz197/physics2d/internal/maths"
)

// Zoom limits relative to the scene's own framing.
const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25
)

// ViewerState holds per-viewer state (input, camera, overlays).
// Each client has its own instance; the simulation itself is shared.
type ViewerState struct {
	Input    input.Input
	Contacts bool          // Draw contact points and normals
	Labels   bool          // Print body names
	Zoom     float64       // 1 shows the scene bounds
	Pan      maths.Vector2 // Camera offset from the scene center, in world units
	Running  bool          // Client loop running
	delta    time.Duration // Frame delta time (client-side)

	scene         string  // Scene of the last drawn frame
	notice        string  // Last host message, e.g. a rejected scene
	noticeTimer   float64 // Seconds left to show notice
	shutdown      bool    // Host is shutting down
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state
	wasInactive   bool
}

// NewViewerState creates a new initialized viewer state.
func NewViewerState() *ViewerState {
	return &ViewerState{
		Zoom:    1,
		Running: true,
	}
}

// view returns the world rectangle to draw given the scene bounds.
func (s *ViewerState) view(lo, hi maths.Vector2) (maths.Vector2, maths.Vector2) {
	center := lo.Add(hi).Scale(0.5).Add(s.Pan)
	half := hi.Sub(lo).Scale(0.5 / s.Zoom)
	return center.Sub(half), center.Add(half)
}

// zoomBy multiplies the zoom, clamped to [minZoom, maxZoom].
func (s *ViewerState) zoomBy(f float64) {
	s.Zoom = min(max(s.Zoom*f, minZoom), maxZoom)
}

package config

import "time"

// View resolution: the logical canvas every viewer renders into.
// Actual rendering scales to fit the terminal.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// Render area is clamped to this many terminal cells and centered.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Simulation tick rate.
const (
	TickRate = 60
	TickTime = time.Second / TickRate
)

// Viewer rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 3.0 // Seconds to show the shutdown notice before disconnecting
)

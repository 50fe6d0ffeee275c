package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/draw"
	"github.com/tomz197/physics2d/internal/loop/server"
)

const helpText = "space pause  n step  r reset  c contacts  b names  +/- zoom  arrows pan  q quit"

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	frame := c.host.Frame()
	if frame == nil {
		return c.chunkWriter.Flush()
	}

	// On scene or inactivity transitions, do a full terminal clear so UI
	// elements from the previous state don't persist on screen.
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if frame.Scene != c.state.scene || inactiveChanged {
		c.chunkWriter.ClearScreen()
		c.state.scene = frame.Scene
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	c.canvas.Frame(c.state.view(frame.Lo, frame.Hi))
	c.canvas.DrawSnapshot(frame.Snapshot, c.state.Contacts)

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	if c.state.Labels && !c.state.isInactive && !c.state.shutdown {
		c.chunkWriter.WriteLabels(c.canvas, frame.Snapshot)
	}

	c.drawUI(frame)

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay.
func (c *Client) drawUI(frame *server.Frame) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.shutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}
	c.drawHUD(termWidth, termHeight, frame)
}

// drawHUD draws the help line, scene keys, notices and the status line.
// Text fields are padded to the terminal width so shorter values
// overwrite longer ones.
func (c *Client) drawHUD(termWidth, termHeight int, frame *server.Frame) {
	cw := c.chunkWriter
	cw.WriteAt(1, 1, fit(" "+helpText, termWidth))

	var scenes strings.Builder
	for i, name := range c.scenes {
		fmt.Fprintf(&scenes, " %d %s ", i+1, name)
	}
	if termHeight > 2 {
		cw.WriteAt(1, 2, fit(scenes.String(), termWidth))
	}

	msg := c.state.notice
	if frame.Err != "" {
		msg = "error: " + frame.Err
	}
	if msg != "" && termHeight > 3 {
		cw.WriteAt(1, termHeight-1, fit(" "+msg, termWidth))
	}

	st := draw.Status{Scene: frame.Scene, Paused: frame.Paused, Viewers: frame.Viewers}
	cw.WriteAt(1, termHeight, draw.StatusLine(frame.Snapshot, st, termWidth))
}

// fit pads or truncates s to exactly width bytes.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the host shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SIMULATION SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

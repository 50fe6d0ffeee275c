// Package client renders host frames on a terminal and turns key presses into
// host commands. One Client serves one terminal, local or over SSH.
package client

import (
	"bufio"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/draw"
	"github.com/tomz197/physics2d/internal/input"
	"github.com/tomz197/physics2d/internal/loop/server"
	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/scene"
)

// panSpeed is how many view half-widths the camera moves per second.
const panSpeed = 1.0

// Client handles rendering and input for a single connection.
type Client struct {
	host         server.Host
	handle       *server.ViewerHandle
	state        *ViewerState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	scenes       []string // Scenes selectable with the number keys
	log          *zap.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Name         string
	Logger       *zap.Logger
}

// NewClient creates a new client connected to the given host.
func NewClient(host server.Host, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	handle := host.RegisterViewer(opts.Name)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		host:         host,
		handle:       handle,
		state:        NewViewerState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		scenes:       scene.Presets(),
		log:          log.With(zap.Stringer("viewer", handle.ID)),
	}
}

// Run starts the client loop. Blocks until the viewer quits or the host stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.updateTimers()

		if err := c.drawFrame(); err != nil {
			c.host.UnregisterViewer(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.host.UnregisterViewer(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, applies local view changes and forwards
// simulation commands to the host.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.log.Info("disconnecting inactive viewer")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Pause {
		c.send(server.Command{Type: server.CommandPause})
	}
	if in.Step {
		c.send(server.Command{Type: server.CommandStep})
	}
	if in.Reset {
		c.send(server.Command{Type: server.CommandReset})
		c.state.Pan = maths.Vector2{}
		c.state.Zoom = 1
	}
	if in.Number > 0 && in.Number <= len(c.scenes) {
		c.send(server.Command{Type: server.CommandScene, Scene: c.scenes[in.Number-1]})
	}
	if in.Contacts {
		c.state.Contacts = !c.state.Contacts
	}
	if in.Labels {
		c.state.Labels = !c.state.Labels
	}
	if in.ZoomIn {
		c.state.zoomBy(zoomStep)
	}
	if in.ZoomOut {
		c.state.zoomBy(1 / zoomStep)
	}
	c.pan(in)

	if in.Quit {
		c.state.Running = false
	}
}

func (c *Client) send(cmd server.Command) {
	c.host.SendCommand(c.handle.ID, cmd)
}

// pan moves the camera by held arrow keys, scaled to the visible area.
func (c *Client) pan(in input.Input) {
	var dir maths.Vector2
	if in.Left {
		dir = dir.Add(maths.Left)
	}
	if in.Right {
		dir = dir.Add(maths.Right)
	}
	if in.Up {
		dir = dir.Add(maths.Up)
	}
	if in.Down {
		dir = dir.Add(maths.Down)
	}
	if dir.SqrMagnitude() == 0 {
		return
	}
	f := c.host.Frame()
	if f == nil {
		return
	}
	halfWidth := (f.Hi.X() - f.Lo.X()) / 2 / c.state.Zoom
	c.state.Pan = c.state.Pan.Add(dir.Scale(halfWidth * panSpeed * c.state.delta.Seconds()))
}

// processServerEvents handles events from the host.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Host closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventSceneChanged:
				c.state.Pan = maths.Vector2{}
				c.state.Zoom = 1
				c.showNotice("loaded " + event.Scene)
			case server.EventSceneFailed:
				c.showNotice(event.Err)
			case server.EventStepFailed:
				c.showNotice("paused: " + event.Err)
			case server.EventServerShutdown:
				c.state.shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// noticeSeconds is how long a host message stays on screen.
const noticeSeconds = 4.0

func (c *Client) showNotice(msg string) {
	c.state.notice = msg
	c.state.noticeTimer = noticeSeconds
}

// updateTimers counts down the notice and shutdown timers.
func (c *Client) updateTimers() {
	dt := c.state.delta.Seconds()
	if c.state.noticeTimer > 0 {
		c.state.noticeTimer -= dt
		if c.state.noticeTimer <= 0 {
			c.state.notice = ""
		}
	}
	if c.state.shutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

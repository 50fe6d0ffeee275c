// Package web streams host frames to browsers over a websocket and accepts
// the same commands as the terminal viewer.
package web

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tomz197/physics2d/internal/config"
	"github.com/tomz197/physics2d/internal/loop/server"
	"github.com/tomz197/physics2d/internal/scene"
	"github.com/tomz197/physics2d/internal/simulation"
)

//go:embed index.html
var indexPage string

// writeWait bounds a single frame write to a slow browser.
const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

// FrameMessage is what the page receives, once per rendered frame.
type FrameMessage struct {
	Scene    string               `json:"scene"`
	Paused   bool                 `json:"paused"`
	Viewers  int                  `json:"viewers"`
	Min      [2]float64           `json:"min"`
	Max      [2]float64           `json:"max"`
	Error    string               `json:"error,omitempty"`
	Notice   string               `json:"notice,omitempty"`
	Snapshot *simulation.Snapshot `json:"snapshot"`
}

// CommandMessage is sent by the page: {"type": "scene", "scene": "tank"}.
type CommandMessage struct {
	Type  string `json:"type"`
	Scene string `json:"scene,omitempty"`
}

// Command converts the message to a host command.
func (m CommandMessage) Command() (server.Command, error) {
	switch m.Type {
	case "pause":
		return server.Command{Type: server.CommandPause}, nil
	case "step":
		return server.Command{Type: server.CommandStep}, nil
	case "reset":
		return server.Command{Type: server.CommandReset}, nil
	case "scene":
		if m.Scene == "" {
			return server.Command{}, errors.New("scene command without a scene")
		}
		return server.Command{Type: server.CommandScene, Scene: m.Scene}, nil
	}
	return server.Command{}, fmt.Errorf("unknown command %q", m.Type)
}

// Handler serves the page, the preset list and the websocket stream.
type Handler struct {
	host server.Host
	log  *zap.Logger
	mux  *http.ServeMux
	tick time.Duration
}

// NewHandler returns a handler streaming frames from host.
func NewHandler(host server.Host, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{host: host, log: log, mux: http.NewServeMux(), tick: config.ClientTargetFrameTime}
	h.mux.HandleFunc("/", h.serveIndex)
	h.mux.HandleFunc("/scenes", h.serveScenes)
	h.mux.HandleFunc("/ws", h.serveStream)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := strings.ReplaceAll(indexPage, "{{.SSHHost}}", config.GetEnv("SSH_DISPLAY_HOST", "localhost"))
	fmt.Fprint(w, page)
}

func (h *Handler) serveScenes(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scene.Presets()); err != nil {
		h.log.Warn("write scenes", zap.Error(err))
	}
}

// serveStream registers a viewer and pushes frames until either side leaves.
// Only this goroutine writes to the connection.
func (h *Handler) serveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	handle := h.host.RegisterViewer(r.RemoteAddr)
	log := h.log.With(zap.Stringer("viewer", handle.ID), zap.String("remote", r.RemoteAddr))
	log.Info("web viewer connected")
	defer func() {
		h.host.UnregisterViewer(handle.ID)
		log.Info("web viewer disconnected")
	}()

	gone := make(chan struct{})
	go h.readCommands(conn, handle, log, gone)

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	var last *server.Frame
	var notice string
	for {
		select {
		case <-gone:
			return
		case ev, ok := <-handle.EventsCh:
			if !ok || ev.Type == server.EventServerShutdown {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			notice = eventNotice(ev)
		case <-ticker.C:
			frame := h.host.Frame()
			if frame == nil || (frame == last && notice == "") {
				continue
			}
			last = frame
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(newFrameMessage(frame, notice)); err != nil {
				log.Debug("write frame", zap.Error(err))
				return
			}
			notice = ""
		}
	}
}

// readCommands forwards page commands to the host and closes gone when the
// connection ends.
func (h *Handler) readCommands(conn *websocket.Conn, handle *server.ViewerHandle, log *zap.Logger, gone chan<- struct{}) {
	defer close(gone)
	for {
		var msg CommandMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		cmd, err := msg.Command()
		if err != nil {
			log.Debug("bad command", zap.Error(err))
			continue
		}
		h.host.SendCommand(handle.ID, cmd)
	}
}

func newFrameMessage(f *server.Frame, notice string) FrameMessage {
	return FrameMessage{
		Scene:    f.Scene,
		Paused:   f.Paused,
		Viewers:  f.Viewers,
		Min:      [2]float64{f.Lo.X(), f.Lo.Y()},
		Max:      [2]float64{f.Hi.X(), f.Hi.Y()},
		Error:    f.Err,
		Notice:   notice,
		Snapshot: f.Snapshot,
	}
}

func eventNotice(ev server.ViewerEvent) string {
	switch ev.Type {
	case server.EventSceneChanged:
		return "loaded " + ev.Scene
	case server.EventSceneFailed:
		return ev.Err
	case server.EventStepFailed:
		return "paused: " + ev.Err
	}
	return ""
}

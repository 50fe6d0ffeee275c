// Package input turns raw terminal bytes into viewer commands.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
//
// Pan directions are held keys. The rest are edge triggered: they are true only
// in the frame the key arrived, so a toggle flips once per press.
type Input struct {
	Quit     bool
	Pause    bool // Space or p
	Step     bool // n, advances one step while paused
	Reset    bool // r
	Contacts bool // c toggles contact markers
	Labels   bool // b toggles body names
	ZoomIn   bool // + or =
	ZoomOut  bool // - or _
	Left     bool
	Right    bool
	Up       bool
	Down     bool
	Number   int // 1-9 selects a scene, -1 when none
	Pressed  []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for held keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	input := Input{Number: -1, Pressed: buf, Quit: s.closed}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		applyByte(&input, &s.state, b, now)
	}

	input.Left = now.Sub(s.state.left) < keyHoldDuration
	input.Right = now.Sub(s.state.right) < keyHoldDuration
	input.Up = now.Sub(s.state.up) < keyHoldDuration
	input.Down = now.Sub(s.state.down) < keyHoldDuration
	return input
}

// applyByte records a single key press.
func applyByte(in *Input, state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ', 'p', 'P':
		in.Pause = true
	case 'n', 'N':
		in.Step = true
	case 'r', 'R':
		in.Reset = true
	case 'c', 'C':
		in.Contacts = true
	case 'b', 'B':
		in.Labels = true
	case '+', '=':
		in.ZoomIn = true
	case '-', '_':
		in.ZoomOut = true
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}

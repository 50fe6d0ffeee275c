package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/simulation"
)

const (
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// ChunkWriter collects one viewer frame (canvas, border, HUD text, labels)
// and writes it in chunks so a frame travels well over SSH. Positions passed
// to WriteAt are 1-based canvas cells; the centering offset is added here.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the centering offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

func (cw *ChunkWriter) moveTo(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write lets Canvas.Render draw into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

var _ io.Writer = (*ChunkWriter)(nil)

// WriteAt writes s starting at canvas cell (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.moveTo(col, row)
	cw.buf.WriteString(s)
}

// ClearScreen queues a full terminal clear ahead of the rest of the frame.
func (cw *ChunkWriter) ClearScreen() {
	cw.buf.WriteString(clearScreen)
}

// WriteLabels prints each body's name one cell right of its position on
// canvas. Names are clipped to the canvas; bodies framed outside it get none.
func (cw *ChunkWriter) WriteLabels(c *Canvas, snap *simulation.Snapshot) {
	if snap == nil {
		return
	}
	for _, b := range snap.Bodies {
		if b.Name == "" {
			continue
		}
		col, row := c.WorldToTerminal(maths.V2(b.X, b.Y))
		col++
		if row < 1 || row > c.termHeight || col < 1 || col > c.termWidth {
			continue
		}
		name := b.Name
		if room := c.termWidth - col + 1; len(name) > room {
			name = name[:room]
		}
		cw.WriteAt(col, row, name)
	}
}

// Flush writes the frame in maxChunkSize pieces and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc reports the viewer's terminal size. SSH sessions supply one
// fed by window-change events.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith returns the unclamped terminal size from sizeFunc.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	return sizeFunc()
}

// ClearScreen clears w and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, clearScreen)
}

// HideCursor hides the cursor while a viewer draws.
func HideCursor(w io.Writer) {
	io.WriteString(w, hideCursor)
}

// ShowCursor restores the cursor when a viewer leaves.
func ShowCursor(w io.Writer) {
	io.WriteString(w, showCursor)
}

package draw

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tomz197/physics2d/internal/maths"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Shapes are given in world coordinates (y up) and mapped onto a logical canvas,
// which is in turn scaled to the actual terminal size.
type Canvas struct {
	termWidth      int    // Actual terminal columns
	termHeight     int    // Actual terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []bool // Flat slice: [y * termWidth + x] - true if pixel is set

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// World framing: lo is drawn at the bottom-left of the logical canvas.
	worldLo, worldHi maths.Vector2
	unit             float64 // Logical units per world unit, same on both axes
	marginX, marginY float64 // Logical padding that centers the framed rectangle

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf strings.Builder // Reused between frames
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1
// logical mapping.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// It initially frames the world rectangle [0, logicalWidth] x [0, logicalHeight].
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	c.Frame(maths.V2(0, 0), maths.V2(logicalWidth, logicalHeight))
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]bool, max(subPixelHeight*termWidth, 0))
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// Frame sets the world rectangle shown on the canvas. The scale is uniform so
// circles stay round; the unused axis is centered.
func (c *Canvas) Frame(lo, hi maths.Vector2) {
	size := hi.Sub(lo)
	if size.X() <= 0 || size.Y() <= 0 {
		return
	}
	c.worldLo, c.worldHi = lo, hi
	c.unit = math.Min(c.logicalWidth/size.X(), c.logicalHeight/size.Y())
	c.marginX = (c.logicalWidth - size.X()*c.unit) / 2
	c.marginY = (c.logicalHeight - size.Y()*c.unit) / 2
}

// Framed returns the world rectangle set by Frame.
func (c *Canvas) Framed() (lo, hi maths.Vector2) {
	return c.worldLo, c.worldHi
}

// ToLogical maps a world point to logical canvas coordinates, flipping y.
func (c *Canvas) ToLogical(p maths.Vector2) Point {
	return Point{
		X: c.marginX + (p.X()-c.worldLo.X())*c.unit,
		Y: c.logicalHeight - c.marginY - (p.Y()-c.worldLo.Y())*c.unit,
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// Lit reports whether the sub-pixel at terminal column x, sub-row y is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return false
	}
	return c.pixels[y*c.termWidth+x]
}

// LitCount returns how many sub-pixels are set.
func (c *Canvas) LitCount() int {
	n := 0
	for _, p := range c.pixels {
		if p {
			n++
		}
	}
	return n
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 12) // Estimate ~12 bytes per cell

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		// Every cell is written so stale pixels from the last frame get erased.
		fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, 1+c.offsetCol)
		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			switch {
			case top && bottom:
				c.renderBuf.WriteRune(BlockFull)
			case top:
				c.renderBuf.WriteRune(BlockUpperHalf)
			case bottom:
				c.renderBuf.WriteRune(BlockLowerHalf)
			default:
				c.renderBuf.WriteByte(' ')
			}
		}
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	if hasV {
		bar := strings.Repeat("─", c.termWidth)
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, bar)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// WorldToTerminal converts a world point to a 1-based terminal position (col, row),
// for placing text labels next to drawn bodies.
func (c *Canvas) WorldToTerminal(p maths.Vector2) (col, row int) {
	l := c.ToLogical(p)
	px := int(math.Round(l.X * c.scaleX))
	py := int(math.Round(l.Y * c.scaleY))
	return px + 1, py/2 + 1
}

package draw

import (
	"fmt"
	"strings"

	"github.com/tomz197/physics2d/internal/maths"
	"github.com/tomz197/physics2d/internal/simulation"
)

// DrawSnapshot draws every body of snap and, when contacts is set, the
// contact points of its last step. The canvas is not cleared first.
func (c *Canvas) DrawSnapshot(snap *simulation.Snapshot, contacts bool) {
	if snap == nil {
		return
	}
	for _, b := range snap.Bodies {
		pos := maths.V2(b.X, b.Y)
		switch b.Shape {
		case "circle":
			c.DrawCircle(pos, b.Radius)
		case "quad":
			c.DrawRect(pos, maths.V2(b.Width, b.Height))
		case "line":
			c.DrawInfiniteLine(pos, maths.V2(b.DirX, b.DirY))
		}
	}
	if !contacts {
		return
	}
	for _, ct := range snap.Contacts {
		c.DrawContact(maths.V2(ct.X, ct.Y), maths.V2(ct.NX, ct.NY))
	}
}

// Status is the text shown on the bottom row of a viewer.
type Status struct {
	Scene   string
	Paused  bool
	Viewers int
}

// StatusLine formats a one-line summary of snap, padded to width so a
// shorter line overwrites the previous one.
func StatusLine(snap *simulation.Snapshot, st Status, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s", st.Scene)
	if snap != nil {
		fmt.Fprintf(&b, "  step %d  t %.2fs  bodies %d  contacts %d",
			snap.Step, snap.Time, len(snap.Bodies), len(snap.Contacts))
	}
	if st.Viewers > 1 {
		fmt.Fprintf(&b, "  viewers %d", st.Viewers)
	}
	if st.Paused {
		b.WriteString("  [paused]")
	}
	line := b.String()
	if width <= 0 {
		return line
	}
	if len(line) > width {
		return line[:width]
	}
	return line + strings.Repeat(" ", width-len(line))
}

package draw

import (
	"math"

	"github.com/tomz197/physics2d/internal/maths"
)

// DrawPolygon draws a closed outline through world points.
func (c *Canvas) DrawPolygon(points []maths.Vector2) {
	if len(points) < 2 {
		return
	}
	prev := c.ToLogical(points[len(points)-1])
	for _, p := range points {
		cur := c.ToLogical(p)
		c.DrawLine(prev, cur)
		prev = cur
	}
}

// DrawCircle draws the outline of a circle in world space. The number of
// segments grows with the on-screen radius.
func (c *Canvas) DrawCircle(center maths.Vector2, radius float64) {
	pixels := radius * c.unit * max(c.scaleX, c.scaleY)
	if pixels < 1 {
		l := c.ToLogical(center)
		c.SetFloat(l.X, l.Y)
		return
	}
	segments := min(max(int(pixels*2), 8), 64)
	points := make([]maths.Vector2, segments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = center.Add(maths.V2(math.Cos(a)*radius, math.Sin(a)*radius))
	}
	c.DrawPolygon(points)
}

// DrawRect draws an axis-aligned rectangle given its center and full size.
func (c *Canvas) DrawRect(center, size maths.Vector2) {
	h := size.Scale(0.5)
	c.DrawPolygon([]maths.Vector2{
		center.Add(maths.V2(-h.X(), -h.Y())),
		center.Add(maths.V2(h.X(), -h.Y())),
		center.Add(maths.V2(h.X(), h.Y())),
		center.Add(maths.V2(-h.X(), h.Y())),
	})
}

// DrawInfiniteLine draws the line through origin along direction across the
// whole framed area. Pixels outside the canvas are dropped by setPixel.
func (c *Canvas) DrawInfiniteLine(origin, direction maths.Vector2) {
	if direction.SqrMagnitude() == 0 {
		return
	}
	d := direction.Normalized()
	mid := c.worldLo.Add(c.worldHi).Scale(0.5)
	// Closest point of the line to the middle of the frame.
	foot := origin.Add(d.Scale(mid.Sub(origin).Dot(d)))
	reach := c.worldHi.Sub(c.worldLo).Magnitude()
	c.DrawLine(c.ToLogical(foot.Sub(d.Scale(reach))), c.ToLogical(foot.Add(d.Scale(reach))))
}

// contactArrow is the length of a drawn contact normal in logical units.
const contactArrow = 4.0

// DrawContact marks a contact point and draws its normal as a short tick.
func (c *Canvas) DrawContact(at, normal maths.Vector2) {
	p := c.ToLogical(at)
	c.SetFloat(p.X, p.Y)
	if normal.SqrMagnitude() == 0 || c.unit == 0 {
		return
	}
	tip := at.Add(normal.Normalized().Scale(contactArrow / c.unit))
	c.DrawLine(p, c.ToLogical(tip))
}

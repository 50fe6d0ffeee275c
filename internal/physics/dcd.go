package physics

import (
	"math"

	"github.com/tomz197/physics2d/internal/maths"
)

// Geometry inputs for the detection routines, in world space.
type (
	CircleInput struct {
		Center maths.Vector2
		Radius float64
	}

	MovingCircleInput struct {
		CircleInput
		Velocity maths.Vector2
	}

	LineInput struct {
		Origin    maths.Vector2
		Direction maths.Vector2
	}

	QuadInput struct {
		Origin maths.Vector2 // Lower-left corner
		Size   maths.Vector2
	}
)

// Overlap is the result of a discrete test.
type Overlap struct {
	Position    maths.Vector2
	Normal      maths.Vector2
	Penetration float64
}

// CircleCircleOverlap tests two circles at their current positions. The normal
// points from c2 toward c1 and the contact lies on c1's surface. Touching
// circles count as overlapping.
func CircleCircleOverlap(c1, c2 CircleInput) (Overlap, bool) {
	radii := c1.Radius + c2.Radius
	sqrDistance := c1.Center.SqrDistance(c2.Center)
	if sqrDistance > radii*radii {
		return Overlap{}, false
	}

	distance := math.Sqrt(sqrDistance)
	normal := maths.Up // coincident centers
	if distance > 0 {
		normal = c1.Center.Sub(c2.Center).DivScalar(distance)
	}
	return Overlap{
		Position:    c1.Center.Sub(normal.Scale(c1.Radius)),
		Normal:      normal,
		Penetration: c1.Radius - (distance - c2.Radius),
	}, true
}

// CircleLineOverlap projects the circle center onto the infinite line and
// overlaps when the perpendicular distance is at most the radius. The normal
// points from the line toward the circle.
func CircleLineOverlap(c CircleInput, l LineInput) (Overlap, bool) {
	if l.Direction.SqrMagnitude() == 0 {
		return Overlap{}, false
	}

	projection := l.Origin.Add(c.Center.Sub(l.Origin).Project(l.Direction))
	toCenter := c.Center.Sub(projection)
	sqrDistance := toCenter.SqrMagnitude()
	if sqrDistance > c.Radius*c.Radius {
		return Overlap{}, false
	}

	distance := math.Sqrt(sqrDistance)
	normal := perpendicular(l.Direction) // center exactly on the line
	if distance > 0 {
		normal = toCenter.DivScalar(distance)
	}
	penetration := c.Radius - distance
	return Overlap{
		Position:    projection.Sub(normal.Scale(penetration)),
		Normal:      normal,
		Penetration: penetration,
	}, true
}

// QuadQuadOverlap is an AABB test. Boxes that only share an edge do not overlap.
//
// Only the overlap itself is computed: position, normal and penetration are
// zero placeholders, so push-out and reflection are no-ops for box pairs.
func QuadQuadOverlap(q1, q2 QuadInput) (Overlap, bool) {
	if q1.Origin.X() >= q2.Origin.X()+q2.Size.X() ||
		q1.Origin.X()+q1.Size.X() <= q2.Origin.X() ||
		q1.Origin.Y() >= q2.Origin.Y()+q2.Size.Y() ||
		q1.Origin.Y()+q1.Size.Y() <= q2.Origin.Y() {
		return Overlap{}, false
	}
	return Overlap{}, true
}

// QuadLineOverlap intersects the line, treated as a ray from its origin, with
// the box using the slab method. The contact is the ray's entry point.
//
// The normal is approximated from the box vertex nearest to the entry point
// and its projection back onto the line; it is exact for axis-aligned lines
// only.
func QuadLineOverlap(q QuadInput, l LineInput) (Overlap, bool) {
	dir := l.Direction.Normalized()
	if dir.SqrMagnitude() == 0 {
		return Overlap{}, false
	}

	lo := maths.V2(math.Min(q.Origin.X(), q.Origin.X()+q.Size.X()), math.Min(q.Origin.Y(), q.Origin.Y()+q.Size.Y()))
	hi := maths.V2(math.Max(q.Origin.X(), q.Origin.X()+q.Size.X()), math.Max(q.Origin.Y(), q.Origin.Y()+q.Size.Y()))

	tmin, tmax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 2; axis++ {
		o, d := l.Origin.At(axis), dir.At(axis)
		if d == 0 {
			// Parallel to this slab: inside it everywhere or nowhere.
			if o < lo.At(axis) || o > hi.At(axis) {
				return Overlap{}, false
			}
			continue
		}
		t1 := (lo.At(axis) - o) / d
		t2 := (hi.At(axis) - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	// tmax < 0: the box is entirely behind the ray origin.
	if tmax < 0 || tmin > tmax {
		return Overlap{}, false
	}

	near := l.Origin.Add(dir.Scale(tmin))
	vertex := maths.V2(
		near.X()+closest(lo.X()-near.X(), hi.X()-near.X()),
		near.Y()+closest(lo.Y()-near.Y(), hi.Y()-near.Y()),
	)
	onLine := l.Origin.Add(vertex.Sub(l.Origin).Project(l.Direction))

	normal := onLine.Sub(vertex)
	penetration := normal.Magnitude()
	if penetration == 0 {
		normal = perpendicular(l.Direction)
	} else {
		normal = normal.DivScalar(penetration)
	}
	return Overlap{
		Position:    near,
		Normal:      normal,
		Penetration: penetration,
	}, true
}

// closest returns whichever of a and b is smaller in magnitude.
func closest(a, b float64) float64 {
	if math.Abs(a) < math.Abs(b) {
		return a
	}
	return b
}

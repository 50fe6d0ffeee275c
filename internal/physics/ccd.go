package physics

import (
	"math"

	"github.com/tomz197/physics2d/internal/maths"
)

// Impact is the result of a continuous test: where the moving shape is when it
// first touches the other one, and when.
type Impact struct {
	Position maths.Vector2 // Moving circle center at TOI
	Normal   maths.Vector2 // Unit vector at TOI, see each routine
	TOI      float64
}

// CircleCircleImpact predicts when two moving circles first touch. It works in
// c1's frame using the relative velocity. Position is c1's center at TOI and
// Normal points from c1 toward c2.
//
// maxTravelTime bounds the search; zero means unbounded.
func CircleCircleImpact(c1, c2 MovingCircleInput, maxTravelTime float64) (Impact, bool) {
	relative := MovingCircleInput{
		CircleInput: c1.CircleInput,
		Velocity:    c1.Velocity.Sub(c2.Velocity),
	}
	hit, ok := movingStaticCircleImpact(relative, c2.CircleInput, maxTravelTime)
	if !ok {
		return Impact{}, false
	}

	c1At := c1.Center.Add(c1.Velocity.Scale(hit.TOI))
	c2At := c2.Center.Add(c2.Velocity.Scale(hit.TOI))
	return Impact{
		Position: c1At,
		Normal:   c2At.Sub(c1At).Normalized(),
		TOI:      hit.TOI,
	}, true
}

func movingStaticCircleImpact(c1 MovingCircleInput, c2 CircleInput, maxTravelTime float64) (Impact, bool) {
	speed := c1.Velocity.Magnitude()
	if speed == 0 {
		return Impact{}, false
	}

	between := c2.Center.Sub(c1.Center)
	sqrBetween := between.SqrMagnitude()
	radii := c1.Radius + c2.Radius

	var maxTravel float64
	if maxTravelTime != 0 {
		maxTravel = speed * maxTravelTime
		// Out of reach even moving straight at c2. Compared squared to skip the root.
		reach := maxTravel + radii
		if reach*reach < sqrBetween {
			return Impact{}, false
		}
	}

	n := c1.Velocity.DivScalar(speed)
	d := n.Dot(between)
	if d <= 0 {
		return Impact{}, false // moving apart
	}

	// Squared distance between c2 and c1's path at closest approach.
	f := sqrBetween - d*d
	sqrRadii := radii * radii
	if f >= sqrRadii {
		return Impact{}, false
	}
	radicand := sqrRadii - f
	if radicand < 0 {
		return Impact{}, false
	}

	travel := d - math.Sqrt(radicand)
	if maxTravelTime != 0 && maxTravel < travel {
		return Impact{}, false
	}

	toi := travel / speed
	if !acceptTOI(toi, maxTravelTime) {
		return Impact{}, false
	}

	at := c1.Center.Add(c1.Velocity.Scale(toi))
	return Impact{
		Position: at,
		Normal:   c2.Center.Sub(at).Normalized(),
		TOI:      toi,
	}, true
}

// CircleLineImpact predicts when a moving circle first touches a stationary
// infinite line. Position is the circle center at TOI and Normal points from
// the line toward the circle.
//
// maxTravelTime bounds the search; zero means unbounded.
func CircleLineImpact(c MovingCircleInput, l LineInput, maxTravelTime float64) (Impact, bool) {
	speed := c.Velocity.Magnitude()
	if speed == 0 || l.Direction.SqrMagnitude() == 0 {
		return Impact{}, false
	}

	crossing, ok := maths.Intersect(c.Center, c.Velocity, l.Origin, l.Direction)
	if !ok {
		return Impact{}, false // parallel
	}

	closestOnLine := l.Origin.Add(c.Center.Sub(l.Origin).Project(l.Direction))
	toLine := closestOnLine.Sub(c.Center)
	dir := c.Velocity.DivScalar(speed)
	if dir.Dot(toLine) <= 0 {
		return Impact{}, false // moving away, or already on the line
	}

	distanceToLine := toLine.Magnitude()
	normal := toLine.Scale(-1 / distanceToLine)

	// Back off from the crossing point along the path until the edge, not the
	// center, touches the line.
	backoff := c.Radius * c.Center.Distance(crossing) / distanceToLine
	at := crossing.Sub(dir.Scale(backoff))

	sqrTravel := c.Center.SqrDistance(at)
	if maxTravelTime != 0 {
		maxTravel := speed * maxTravelTime
		if maxTravel*maxTravel < sqrTravel {
			return Impact{}, false
		}
	}

	// at can sit behind the center when the circle already overlaps the line.
	travel := math.Sqrt(sqrTravel)
	if at.Sub(c.Center).Dot(dir) < 0 {
		travel = -travel
	}
	toi := travel / speed
	if !acceptTOI(toi, maxTravelTime) {
		return Impact{}, false
	}

	return Impact{
		Position: at,
		Normal:   normal,
		TOI:      toi,
	}, true
}

// acceptTOI rejects impacts outside [0, maxTravelTime]. Values are never clamped.
func acceptTOI(toi, maxTravelTime float64) bool {
	if toi < 0 || math.IsNaN(toi) {
		return false
	}
	return maxTravelTime == 0 || toi <= maxTravelTime
}

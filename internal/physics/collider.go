package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/tomz197/physics2d/internal/maths"
)

// Shape identifies the collider variant.
type Shape uint8

const (
	ShapeCircle Shape = iota // Center + radius
	ShapeLine                // Origin + direction, infinite
	ShapeQuad                // Axis-aligned box, origin + size
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	case ShapeQuad:
		return "quad"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// ParseShape converts a shape name as written in scene files.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "circle":
		return ShapeCircle, nil
	case "line":
		return ShapeLine, nil
	case "quad":
		return ShapeQuad, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// lineArea gives lines a finite mass for resolution purposes.
const lineArea = 1.0

// Collider describes the collision shape of a body. Only the fields matching
// Shape are meaningful. World-space geometry is derived from the owning body's
// position on every query and never cached.
type Collider struct {
	Shape     Shape
	Radius    float64       // Circle
	Direction maths.Vector2 // Line
	Size      maths.Vector2 // Quad, full width and height

	Static     bool    // Excluded from integration and position correction
	Density    float64 // Mass per unit area
	UseCCD     bool    // Run the continuous pass when no overlap is found
	Tags       []string
	IgnoreTags []string // Bodies carrying any of these tags are never tested against
}

// NewCircle returns a unit-density circle collider.
func NewCircle(radius float64) Collider {
	return Collider{Shape: ShapeCircle, Radius: radius, Density: 1}
}

// NewLine returns a unit-density line collider running along direction.
func NewLine(direction maths.Vector2) Collider {
	return Collider{Shape: ShapeLine, Direction: direction, Density: 1}
}

// NewQuad returns a unit-density axis-aligned box collider.
func NewQuad(size maths.Vector2) Collider {
	return Collider{Shape: ShapeQuad, Size: size, Density: 1}
}

// Area returns the shape area. Lines report a nominal area of 1.
func (c Collider) Area() float64 {
	switch c.Shape {
	case ShapeCircle:
		return math.Pi * c.Radius * c.Radius
	case ShapeQuad:
		return c.Size.X() * c.Size.Y()
	default:
		return lineArea
	}
}

// Mass returns Area × Density.
func (c Collider) Mass() float64 {
	return c.Area() * c.Density
}

// Extents returns the half-size of the shape's bounds.
func (c Collider) Extents() maths.Vector2 {
	switch c.Shape {
	case ShapeCircle:
		return maths.V2(c.Radius, c.Radius)
	case ShapeQuad:
		return c.Size.Scale(0.5)
	default:
		return maths.Vector2{}
	}
}

// HasTag reports whether the collider carries tag.
func (c Collider) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Ignores reports whether c skips collision tests against other.
// Tags are compared for exact match.
func (c Collider) Ignores(other Collider) bool {
	for _, tag := range c.IgnoreTags {
		if other.HasTag(tag) {
			return true
		}
	}
	return false
}

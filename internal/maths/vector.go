// Package maths provides the fixed-size vector and matrix algebra used by the physics kernel.
package maths

import (
	"fmt"
	"math"
	"strings"
)

// Dim is a compile-time dimension marker. Vector and matrix sizes are carried
// by type parameters so that mixing sizes is rejected by the compiler.
type Dim interface {
	Len() int
}

// D2, D3 and D4 are the supported dimensions.
type (
	D2 struct{}
	D3 struct{}
	D4 struct{}
)

func (D2) Len() int { return 2 }
func (D3) Len() int { return 3 }
func (D4) Len() int { return 4 }

func dimOf[D Dim]() int {
	var d D
	return d.Len()
}

// maxDim is the size of the backing storage shared by every dimension.
const maxDim = 4

// Vector is a fixed-size vector of D components. The zero value is the zero vector.
// Components past D.Len() are always zero, so == compares vectors exactly.
type Vector[D Dim] struct {
	c [maxDim]float64
}

// Named sizes.
type (
	Vector2 = Vector[D2]
	Vector3 = Vector[D3]
	Vector4 = Vector[D4]
)

// New builds a vector from exactly D.Len() values. Panics otherwise.
func New[D Dim](values ...float64) Vector[D] {
	mustSize("New", len(values), dimOf[D]())
	var v Vector[D]
	copy(v.c[:], values)
	return v
}

// FromValues is the checked variant of New for sizes only known at run time
// (decoded configuration, for instance).
func FromValues[D Dim](values []float64) (Vector[D], error) {
	n := dimOf[D]()
	if len(values) != n {
		return Vector[D]{}, fmt.Errorf("%w: got %d values, want %d", ErrSizeMismatch, len(values), n)
	}
	var v Vector[D]
	copy(v.c[:], values)
	return v, nil
}

// V2 returns the 2D vector (x, y).
func V2(x, y float64) Vector2 { return Vector2{c: [maxDim]float64{x, y}} }

// V3 returns the 3D vector (x, y, z).
func V3(x, y, z float64) Vector3 { return Vector3{c: [maxDim]float64{x, y, z}} }

// V4 returns the 4D vector (x, y, z, w).
func V4(x, y, z, w float64) Vector4 { return Vector4{c: [maxDim]float64{x, y, z, w}} }

// Zero returns the zero vector.
func Zero[D Dim]() Vector[D] { return Vector[D]{} }

// One returns the vector with every component set to 1.
func One[D Dim]() Vector[D] {
	var v Vector[D]
	for i := 0; i < dimOf[D](); i++ {
		v.c[i] = 1
	}
	return v
}

// Unit directions in the plane (y up).
var (
	Left  = V2(-1, 0)
	Right = V2(1, 0)
	Down  = V2(0, -1)
	Up    = V2(0, 1)
)

// Len returns the number of components.
func (v Vector[D]) Len() int { return dimOf[D]() }

// At returns component i.
func (v Vector[D]) At(i int) float64 {
	mustIndex("At", i, v.Len())
	return v.c[i]
}

// Set assigns component i.
func (v *Vector[D]) Set(i int, x float64) {
	mustIndex("Set", i, v.Len())
	v.c[i] = x
}

func (v Vector[D]) X() float64 { return v.c[0] }
func (v Vector[D]) Y() float64 { return v.c[1] }

// Z panics on 2D vectors.
func (v Vector[D]) Z() float64 { return v.At(2) }

// W panics on vectors with fewer than 4 components.
func (v Vector[D]) W() float64 { return v.At(3) }

// Values returns a copy of the components.
func (v Vector[D]) Values() []float64 {
	out := make([]float64, v.Len())
	copy(out, v.c[:])
	return out
}

func (v Vector[D]) Add(o Vector[D]) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] += o.c[i]
	}
	return v
}

func (v Vector[D]) Sub(o Vector[D]) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] -= o.c[i]
	}
	return v
}

// AddScalar adds s to every component.
func (v Vector[D]) AddScalar(s float64) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] += s
	}
	return v
}

// SubScalar subtracts s from every component.
func (v Vector[D]) SubScalar(s float64) Vector[D] {
	return v.AddScalar(-s)
}

func (v Vector[D]) Scale(s float64) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] *= s
	}
	return v
}

// Mul is the component-wise product.
func (v Vector[D]) Mul(o Vector[D]) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] *= o.c[i]
	}
	return v
}

// Div is the component-wise quotient.
func (v Vector[D]) Div(o Vector[D]) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] /= o.c[i]
	}
	return v
}

func (v Vector[D]) DivScalar(s float64) Vector[D] {
	for i := 0; i < v.Len(); i++ {
		v.c[i] /= s
	}
	return v
}

func (v Vector[D]) Dot(o Vector[D]) float64 {
	var sum float64
	for i := 0; i < v.Len(); i++ {
		sum += v.c[i] * o.c[i]
	}
	return sum
}

// SqrMagnitude returns |v|². Prefer it over Magnitude for comparisons.
func (v Vector[D]) SqrMagnitude() float64 { return v.Dot(v) }

func (v Vector[D]) Magnitude() float64 { return math.Sqrt(v.SqrMagnitude()) }

// Normalized returns v scaled to unit length. The zero vector stays zero.
func (v Vector[D]) Normalized() Vector[D] {
	m := v.Magnitude()
	if m == 0 {
		return Vector[D]{}
	}
	return v.DivScalar(m)
}

func (v Vector[D]) Distance(o Vector[D]) float64 { return v.Sub(o).Magnitude() }

func (v Vector[D]) SqrDistance(o Vector[D]) float64 { return v.Sub(o).SqrMagnitude() }

// Project returns the projection of v onto the direction of onto.
// Projecting onto the zero vector yields zero.
func (v Vector[D]) Project(onto Vector[D]) Vector[D] {
	sq := onto.SqrMagnitude()
	if sq == 0 {
		return Vector[D]{}
	}
	return onto.Scale(v.Dot(onto) / sq)
}

// Reflect mirrors v about the plane with the given unit normal.
func (v Vector[D]) Reflect(normal Vector[D]) Vector[D] {
	return v.Sub(normal.Scale(2 * v.Dot(normal)))
}

// Equal reports exact component equality.
func (v Vector[D]) Equal(o Vector[D]) bool { return v == o }

// ApproxEqual reports whether every component differs by at most eps.
func (v Vector[D]) ApproxEqual(o Vector[D], eps float64) bool {
	for i := 0; i < v.Len(); i++ {
		if math.Abs(v.c[i]-o.c[i]) > eps {
			return false
		}
	}
	return true
}

func (v Vector[D]) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%.2f", v.c[i])
	}
	b.WriteByte(')')
	return b.String()
}

// Extend lifts a 2D vector into 3D with the given z.
func Extend(v Vector2, z float64) Vector3 { return V3(v.c[0], v.c[1], z) }

// Truncate drops the z component of a 3D vector.
func Truncate(v Vector3) Vector2 { return V2(v.c[0], v.c[1]) }

// Cross2 returns the z component of the 3D cross product of a and b.
func Cross2(a, b Vector2) float64 { return a.c[0]*b.c[1] - a.c[1]*b.c[0] }

// Intersect finds the point where the infinite lines p + t·r and q + u·s meet.
// It reports false for parallel (or degenerate) lines.
func Intersect(p, r, q, s Vector2) (Vector2, bool) {
	det := FromRows[D2, D2](
		[]float64{r.X(), -s.X()},
		[]float64{r.Y(), -s.Y()},
	).Determinant()
	if det == 0 {
		return Vector2{}, false
	}
	qp := q.Sub(p)
	t := FromRows[D2, D2](
		[]float64{qp.X(), -s.X()},
		[]float64{qp.Y(), -s.Y()},
	).Determinant() / det
	return p.Add(r.Scale(t)), true
}

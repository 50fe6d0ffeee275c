package maths

import (
	"fmt"
	"math"
	"strings"
)

// pivotEpsilon replaces a zero pivot during elimination so that singular
// matrices yield a vanishing determinant instead of a division by zero.
const pivotEpsilon = 1e-19

// Matrix is a fixed R×C grid of floats. Cells outside R×C are always zero.
type Matrix[R, C Dim] struct {
	m [maxDim][maxDim]float64
}

// Named sizes.
type (
	Matrix2x2 = Matrix[D2, D2]
	Matrix3x3 = Matrix[D3, D3]
	Matrix4x4 = Matrix[D4, D4]
)

// FromRows builds a matrix from R rows of C values each. Panics on any size mismatch.
func FromRows[R, C Dim](rows ...[]float64) Matrix[R, C] {
	var out Matrix[R, C]
	mustSize("FromRows rows", len(rows), out.Rows())
	for i, row := range rows {
		mustSize("FromRows columns", len(row), out.Cols())
		copy(out.m[i][:], row)
	}
	return out
}

// Identity returns the N×N identity matrix.
func Identity[N Dim]() Matrix[N, N] {
	var out Matrix[N, N]
	for i := 0; i < out.Rows(); i++ {
		out.m[i][i] = 1
	}
	return out
}

// ZeroMatrix returns the R×C zero matrix.
func ZeroMatrix[R, C Dim]() Matrix[R, C] { return Matrix[R, C]{} }

// OneMatrix returns the R×C matrix filled with ones.
func OneMatrix[R, C Dim]() Matrix[R, C] {
	var out Matrix[R, C]
	for i := 0; i < out.Rows(); i++ {
		for j := 0; j < out.Cols(); j++ {
			out.m[i][j] = 1
		}
	}
	return out
}

func (a Matrix[R, C]) Rows() int { return dimOf[R]() }
func (a Matrix[R, C]) Cols() int { return dimOf[C]() }

// IsSquare reports whether R == C.
func (a Matrix[R, C]) IsSquare() bool { return a.Rows() == a.Cols() }

// At returns cell (i, j).
func (a Matrix[R, C]) At(i, j int) float64 {
	mustIndex("At row", i, a.Rows())
	mustIndex("At column", j, a.Cols())
	return a.m[i][j]
}

// Set assigns cell (i, j).
func (a *Matrix[R, C]) Set(i, j int, x float64) {
	mustIndex("Set row", i, a.Rows())
	mustIndex("Set column", j, a.Cols())
	a.m[i][j] = x
}

func (a Matrix[R, C]) Add(b Matrix[R, C]) Matrix[R, C] {
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			a.m[i][j] += b.m[i][j]
		}
	}
	return a
}

func (a Matrix[R, C]) Sub(b Matrix[R, C]) Matrix[R, C] {
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			a.m[i][j] -= b.m[i][j]
		}
	}
	return a
}

func (a Matrix[R, C]) Scale(s float64) Matrix[R, C] {
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			a.m[i][j] *= s
		}
	}
	return a
}

// Transpose swaps rows and columns.
func (a Matrix[R, C]) Transpose() Matrix[C, R] {
	var out Matrix[C, R]
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			out.m[j][i] = a.m[i][j]
		}
	}
	return out
}

// Mul returns the matrix product a×b. The shared inner dimension K is
// enforced by the type system.
func Mul[R, K, C Dim](a Matrix[R, K], b Matrix[K, C]) Matrix[R, C] {
	var out Matrix[R, C]
	inner := a.Cols()
	for i := 0; i < out.Rows(); i++ {
		for j := 0; j < out.Cols(); j++ {
			var sum float64
			for k := 0; k < inner; k++ {
				sum += a.m[i][k] * b.m[k][j]
			}
			out.m[i][j] = sum
		}
	}
	return out
}

// MulVector returns a×v for a column vector v.
func MulVector[R, C Dim](a Matrix[R, C], v Vector[C]) Vector[R] {
	var out Vector[R]
	for i := 0; i < a.Rows(); i++ {
		var sum float64
		for j := 0; j < a.Cols(); j++ {
			sum += a.m[i][j] * v.c[j]
		}
		out.c[i] = sum
	}
	return out
}

// Determinant returns det(a). 2×2 matrices use the closed form; larger ones are
// reduced to upper-triangular form, substituting a tiny epsilon for zero pivots,
// and the diagonal product is returned. Panics for non-square matrices.
func (a Matrix[R, C]) Determinant() float64 {
	if !a.IsSquare() {
		panic(fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows(), a.Cols()))
	}
	n := a.Rows()
	if n == 2 {
		return a.m[0][0]*a.m[1][1] - a.m[1][0]*a.m[0][1]
	}

	t := a.m
	for diag := 0; diag < n; diag++ {
		for row := diag + 1; row < n; row++ {
			if t[diag][diag] == 0 {
				t[diag][diag] = pivotEpsilon
			}
			scaler := t[row][diag] / t[diag][diag]
			for col := 0; col < n; col++ {
				t[row][col] -= scaler * t[diag][col]
			}
		}
	}

	product := 1.0
	for diag := 0; diag < n; diag++ {
		product *= t[diag][diag]
	}
	return product
}

// Equal reports element-wise equality.
func (a Matrix[R, C]) Equal(b Matrix[R, C]) bool { return a == b }

// ApproxEqual reports whether every cell differs by at most eps.
func (a Matrix[R, C]) ApproxEqual(b Matrix[R, C], eps float64) bool {
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if math.Abs(a.m[i][j]-b.m[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

func (a Matrix[R, C]) String() string {
	var b strings.Builder
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if j > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%.2f", a.m[i][j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

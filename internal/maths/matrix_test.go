package maths

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestMulShapeAndIdentity(t *testing.T) {
	a := FromRows[D2, D3](
		[]float64{1, 2, 3},
		[]float64{4, 5, 6},
	)
	b := FromRows[D3, D4](
		[]float64{1, 0, 0, 1},
		[]float64{0, 1, 0, 1},
		[]float64{0, 0, 1, 1},
	)

	ab := Mul(a, b)
	assert.Equal(t, 2, ab.Rows())
	assert.Equal(t, 4, ab.Cols())
	assert.Equal(t, FromRows[D2, D4](
		[]float64{1, 2, 3, 6},
		[]float64{4, 5, 6, 15},
	), ab)

	assert.Equal(t, a, Mul(a, Identity[D3]()))
	assert.Equal(t, b, Mul(b, Identity[D4]()))
}

func TestAddSubTranspose(t *testing.T) {
	a := FromRows[D2, D3]([]float64{1, 2, 3}, []float64{4, 5, 6})
	ones := OneMatrix[D2, D3]()

	assert.Equal(t, FromRows[D2, D3]([]float64{2, 3, 4}, []float64{5, 6, 7}), a.Add(ones))
	assert.Equal(t, ZeroMatrix[D2, D3](), a.Sub(a))
	assert.Equal(t, a.Scale(2), a.Add(a))
	assert.Equal(t, FromRows[D3, D2]([]float64{1, 4}, []float64{2, 5}, []float64{3, 6}), a.Transpose())
	assert.True(t, a.Equal(a.Transpose().Transpose()))
}

func TestFromRowsMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { FromRows[D2, D2]([]float64{1, 2}) })
	assert.Panics(t, func() { FromRows[D2, D2]([]float64{1, 2}, []float64{1, 2, 3}) })
}

func TestDeterminant2x2IsExact(t *testing.T) {
	tests := []struct{ a, b, c, d float64 }{
		{1, 2, 3, 4},
		{0.1, 0.2, 0.3, 0.4},
		{0, 5, 7, 0},
		{1e10, 3, 7, 1e-10},
	}
	for _, tt := range tests {
		m := FromRows[D2, D2]([]float64{tt.a, tt.b}, []float64{tt.c, tt.d})
		assert.Equal(t, tt.a*tt.d-tt.b*tt.c, m.Determinant())
	}
}

func TestDeterminantMatchesReference(t *testing.T) {
	m3 := FromRows[D3, D3](
		[]float64{2, -3, 1},
		[]float64{2, 0, -1},
		[]float64{1, 4, 5},
	)
	ref3 := mgl64.Mat3FromRows(
		mgl64.Vec3{2, -3, 1},
		mgl64.Vec3{2, 0, -1},
		mgl64.Vec3{1, 4, 5},
	)
	assert.InDelta(t, ref3.Det(), m3.Determinant(), 1e-9)

	m4 := FromRows[D4, D4](
		[]float64{3, 2, 0, 1},
		[]float64{4, 0, 1, 2},
		[]float64{3, 0, 2, 1},
		[]float64{9, 2, 3, 1},
	)
	ref4 := mgl64.Mat4FromRows(
		mgl64.Vec4{3, 2, 0, 1},
		mgl64.Vec4{4, 0, 1, 2},
		mgl64.Vec4{3, 0, 2, 1},
		mgl64.Vec4{9, 2, 3, 1},
	)
	assert.InDelta(t, ref4.Det(), m4.Determinant(), 1e-9)
}

func TestDeterminantZeroPivot(t *testing.T) {
	assert.InDelta(t, 0, ZeroMatrix[D3, D3]().Determinant(), 1e-12)

	det := FromRows[D3, D3](
		[]float64{0, 1, 2},
		[]float64{1, 0, 3},
		[]float64{4, -3, 8},
	).Determinant()
	assert.False(t, math.IsNaN(det))
	assert.False(t, math.IsInf(det, 0))
}

func TestDeterminantNonSquarePanics(t *testing.T) {
	assert.PanicsWithError(t, "maths: matrix is not square: 2x3", func() {
		OneMatrix[D2, D3]().Determinant()
	})
}

func TestMulVector(t *testing.T) {
	m := FromRows[D2, D3]([]float64{1, 0, 2}, []float64{0, 1, -1})
	assert.Equal(t, V2(7, -1), MulVector(m, V3(1, 2, 3)))
}

func toMgl(m Matrix4x4) mgl64.Mat4 {
	return mgl64.Mat4FromRows(
		mgl64.Vec4{m.At(0, 0), m.At(0, 1), m.At(0, 2), m.At(0, 3)},
		mgl64.Vec4{m.At(1, 0), m.At(1, 1), m.At(1, 2), m.At(1, 3)},
		mgl64.Vec4{m.At(2, 0), m.At(2, 1), m.At(2, 2), m.At(2, 3)},
		mgl64.Vec4{m.At(3, 0), m.At(3, 1), m.At(3, 2), m.At(3, 3)},
	)
}

func TestTRSOrder(t *testing.T) {
	translation := V3(1, -2, 3)
	rotation := V3(30, 45, 60)
	scale := V3(2, 3, 0.5)

	got := toMgl(TRS(translation, rotation, scale))

	want := mgl64.Translate3D(1, -2, 3).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(45))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(30))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(60))).
		Mul4(mgl64.Scale3D(2, 3, 0.5))

	assert.True(t, want.ApproxEqualThreshold(got, 1e-9), "got\n%v\nwant\n%v", got, want)
}

func TestRotateAroundAxis(t *testing.T) {
	m := RotateAroundAxis(AxisForward, 90)
	p := TransformPoint(m, V3(1, 0, 0))
	assert.True(t, V3(0, 1, 0).ApproxEqual(p, 1e-12), "got %v", p)

	assert.True(t, Identity[D4]().ApproxEqual(RotateAroundAxis(AxisUp, 0), 1e-15))
}

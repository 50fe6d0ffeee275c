package maths

import "math"

// World axes used for Euler composition.
var (
	AxisRight   = V3(1, 0, 0)
	AxisUp      = V3(0, 1, 0)
	AxisForward = V3(0, 0, 1)
)

// TRS builds Translation × Rotation × Scale. Rotation is given as Euler angles
// in degrees and composed as RotationY × RotationX × RotationZ (yaw, pitch, roll).
// Dependent transform code relies on this exact order.
func TRS(translation, rotationDeg, scale Vector3) Matrix4x4 {
	m := Mul(Translation(translation), Rotation(rotationDeg))
	return Mul(m, Scaling(scale))
}

// Translation returns the homogeneous translation matrix for t.
func Translation(t Vector3) Matrix4x4 {
	return FromRows[D4, D4](
		[]float64{1, 0, 0, t.X()},
		[]float64{0, 1, 0, t.Y()},
		[]float64{0, 0, 1, t.Z()},
		[]float64{0, 0, 0, 1},
	)
}

// Scaling returns the homogeneous scale matrix for s.
func Scaling(s Vector3) Matrix4x4 {
	return FromRows[D4, D4](
		[]float64{s.X(), 0, 0, 0},
		[]float64{0, s.Y(), 0, 0},
		[]float64{0, 0, s.Z(), 0},
		[]float64{0, 0, 0, 1},
	)
}

// Rotation composes yaw (y), pitch (x) then roll (z), all in degrees.
func Rotation(deg Vector3) Matrix4x4 {
	m := RotateAroundAxis(AxisUp, deg.Y())
	m = Mul(m, RotateAroundAxis(AxisRight, deg.X()))
	return Mul(m, RotateAroundAxis(AxisForward, deg.Z()))
}

// RotateAroundAxis returns the Rodrigues rotation of angleDeg degrees about axis.
func RotateAroundAxis(axis Vector3, angleDeg float64) Matrix4x4 {
	axis = axis.Normalized()
	x, y, z := axis.X(), axis.Y(), axis.Z()
	rad := angleDeg * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	t := 1 - c
	return FromRows[D4, D4](
		[]float64{t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0},
		[]float64{t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0},
		[]float64{t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0},
		[]float64{0, 0, 0, 1},
	)
}

// TransformPoint applies m to the point p (w = 1).
func TransformPoint(m Matrix4x4, p Vector3) Vector3 {
	r := MulVector(m, V4(p.X(), p.Y(), p.Z(), 1))
	return V3(r.X(), r.Y(), r.Z())
}

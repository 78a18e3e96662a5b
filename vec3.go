package sdf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is an immutable 3-vector of double precision components.
//
// It is an alias of gonum's r3.Vec, matching the teacher's own idiom of
// treating 3-vectors as plain structs manipulated by package-level
// functions (Add, Sub, Scale, ...) rather than methods.
type Vec3 = r3.Vec

// V3 builds a Vec3 from components.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns a+b.
func Add(a, b Vec3) Vec3 { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 { return r3.Sub(a, b) }

// ScaleVec returns s*v.
func ScaleVec(s float64, v Vec3) Vec3 { return r3.Scale(s, v) }

// Neg returns -v.
func Neg(v Vec3) Vec3 { return r3.Scale(-1, v) }

// Dot returns the dot product of a and b.
func Dot(a, b Vec3) float64 { return r3.Dot(a, b) }

// Cross returns the cross product of a and b.
func Cross(a, b Vec3) Vec3 { return r3.Cross(a, b) }

// Length returns the Euclidean norm of v.
func Length(v Vec3) float64 { return r3.Norm(v) }

// LengthSquared returns the squared Euclidean norm of v.
func LengthSquared(v Vec3) float64 { return r3.Norm2(v) }

// zeroLengthTol is the threshold below which a vector is treated as the
// zero vector for normalization purposes (spec.md §3).
const zeroLengthTol = 1e-10

// Normalize returns v/|v|, or the zero vector if |v| < 1e-10.
//
// gonum's r3.Unit is undefined at the zero vector, so this does not call
// it: it applies the guard spec.md §3 requires, in the spirit of utils.go's
// ZeroSmall guard, and otherwise scales v by 1/|v| with r3.Scale.
func Normalize(v Vec3) Vec3 {
	l := Length(v)
	if l < zeroLengthTol {
		return Vec3{}
	}
	return r3.Scale(1/l, v)
}

// MinElem returns the elementwise minimum of a and b.
func MinElem(a, b Vec3) Vec3 {
	return Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem returns the elementwise maximum of a and b.
func MaxElem(a, b Vec3) Vec3 {
	return Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// AbsElem returns the elementwise absolute value of v.
func AbsElem(v Vec3) Vec3 {
	return Vec3{X: math.Abs(v.X), Y: math.Abs(v.Y), Z: math.Abs(v.Z)}
}

// SignElem returns the elementwise sign of v (0 maps to 0).
func SignElem(v Vec3) Vec3 {
	return Vec3{X: sign(v.X), Y: sign(v.Y), Z: sign(v.Z)}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// ClampElem clamps each component of v to [lo, hi].
func ClampElem(v, lo, hi Vec3) Vec3 {
	return Vec3{
		X: clampf(v.X, lo.X, hi.X),
		Y: clampf(v.Y, lo.Y, hi.Y),
		Z: clampf(v.Z, lo.Z, hi.Z),
	}
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// rotateToAxis returns the rotation matrix that maps +Z onto the unit
// vector target, handling the degenerate identical/opposite-direction
// cases per spec.md §4.1's orient description. Ported from the teacher's
// vec3.go rotateToVec (a general align-a-to-b helper built on gonum's
// r3.Skew/r3.Mat), specialized here to a fixed source axis and expressed
// with this package's own m33 rotation type.
func rotateToAxis(target Vec3) m33 {
	z := Vec3{Z: 1}
	target = Normalize(target)
	d := Dot(z, target)
	const almostOne = 1 - 1e-12
	if d > almostOne {
		return identity33()
	}
	if d < -almostOne {
		// Opposite direction: 180 degree rotation about a perpendicular axis.
		axis := Vec3{X: 1}
		if math.Abs(target.X) >= 0.9 {
			axis = Vec3{Y: 1}
		}
		return rotationMatrix(axis, math.Pi)
	}
	axis := Normalize(Cross(z, target))
	angle := math.Acos(clampf(d, -1, 1))
	return rotationMatrix(axis, angle)
}

package sdf

import "math"

// m33 is a 3x3 matrix stored row-major as three Vec3 rows, used internally
// by the rotate/orient operators. spec.md §4.1 calls for "the standard
// Rodrigues rotation matrix"; this mirrors the teacher's own use of a
// skew-symmetric-matrix construction in vec3.go's rotateToVec, specialized
// to the classic axis-angle form rather than the align-two-vectors form.
type m33 struct {
	rows [3]Vec3
}

func identity33() m33 {
	return m33{rows: [3]Vec3{
		{X: 1},
		{Y: 1},
		{Z: 1},
	}}
}

// rotationMatrix builds the rotation matrix for a right-handed rotation of
// angle radians about the unit vector axis, via the Rodrigues formula
// R = I + sin(θ)K + (1-cos(θ))K², where K is the cross-product (skew) matrix
// of axis.
func rotationMatrix(axis Vec3, angle float64) m33 {
	axis = Normalize(axis)
	s, c := math.Sincos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return m33{rows: [3]Vec3{
		{X: t*x*x + c, Y: t*x*y - s*z, Z: t*x*z + s*y},
		{X: t*x*y + s*z, Y: t*y*y + c, Z: t*y*z - s*x},
		{X: t*x*z - s*y, Y: t*y*z + s*x, Z: t*z*z + c},
	}}
}

// mulVec returns m*v.
func (m m33) mulVec(v Vec3) Vec3 {
	return Vec3{X: Dot(m.rows[0], v), Y: Dot(m.rows[1], v), Z: Dot(m.rows[2], v)}
}

// transpose returns the transpose of m, which is also its inverse for the
// orthonormal rotation matrices this package constructs.
func (m m33) transpose() m33 {
	return m33{rows: [3]Vec3{
		{X: m.rows[0].X, Y: m.rows[1].X, Z: m.rows[2].X},
		{X: m.rows[0].Y, Y: m.rows[1].Y, Z: m.rows[2].Y},
		{X: m.rows[0].Z, Y: m.rows[1].Z, Z: m.rows[2].Z},
	}}
}

package sdf

import "math"

// Operators combine or transform Fields, per spec.md §4.1. The smooth CSG
// formulas below are ported verbatim from utils.go's poly/PolyMax helper
// (the teacher's own smin/smax implementation), which already matches
// spec.md's h/d formulas exactly.

// poly is the teacher's smooth-min blend helper (utils.go), used directly
// by the smooth CSG combinators below.
func poly(a, b, k float64) float64 {
	h := clampf(0.5+0.5*(b-a)/k, 0, 1)
	return mix(b, a, h) - k*h*(1-h)
}

func mix(x, y, a float64) float64 { return x + a*(y-x) }

// Union combines two Fields with the boolean union, hard (k=0, min(a,b))
// or smooth (k = max of the two operands' k, per spec.md §4.1).
func Union(fields ...Field) Field {
	if len(fields) == 0 {
		return Empty()
	}
	result := fields[0]
	for _, f := range fields[1:] {
		result = union2(result, f)
	}
	return result
}

func union2(a, b Field) Field {
	k := math.Max(a.k, b.k)
	return newField(func(pts []Vec3, out []float64) {
		av := a.Evaluate(pts)
		bv := b.Evaluate(pts)
		for i := range pts {
			if k <= 0 {
				out[i] = math.Min(av[i], bv[i])
			} else {
				out[i] = poly(av[i], bv[i], k)
			}
		}
	})
}

// Intersect combines two Fields with the boolean intersection: hard
// (max(a,b)) or smooth when k = max(a.k, b.k) > 0.
func Intersect(a, b Field) Field {
	k := math.Max(a.k, b.k)
	return newField(func(pts []Vec3, out []float64) {
		av := a.Evaluate(pts)
		bv := b.Evaluate(pts)
		for i := range pts {
			if k <= 0 {
				out[i] = math.Max(av[i], bv[i])
			} else {
				h := clampf(0.5-0.5*(bv[i]-av[i])/k, 0, 1)
				out[i] = mix(bv[i], av[i], h) + k*h*(1-h)
			}
		}
	})
}

// Difference subtracts b from a: hard (max(a,-b)) or smooth when
// k = max(a.k, b.k) > 0.
func Difference(a, b Field) Field {
	k := math.Max(a.k, b.k)
	return newField(func(pts []Vec3, out []float64) {
		av := a.Evaluate(pts)
		bv := b.Evaluate(pts)
		for i := range pts {
			if k <= 0 {
				out[i] = math.Max(av[i], -bv[i])
			} else {
				h := clampf(0.5-0.5*(av[i]+bv[i])/k, 0, 1)
				out[i] = mix(av[i], -bv[i], h) + k*h*(1-h)
			}
		}
	})
}

// Empty returns a Field with no interior: it evaluates to +Inf everywhere,
// used as the "far" operand for Difference identity tests (spec.md §8.7).
func Empty() Field {
	return newPointField(func(Vec3) float64 { return math.Inf(1) })
}

// Translate returns f queried at p-offset.
func Translate(f Field, offset Vec3) Field {
	return newField(func(pts []Vec3, out []float64) {
		shifted := make([]Vec3, len(pts))
		for i, p := range pts {
			shifted[i] = Sub(p, offset)
		}
		f.EvaluateInto(shifted, out)
	})
}

// ScaleUniform scales f by s > 0, preserving true distance:
// p <- p/s, then the returned distance is multiplied by s.
func ScaleUniform(f Field, s float64) (Field, error) {
	if s <= 0 {
		return Field{}, argErr("uniform scale factor must be positive")
	}
	return newField(func(pts []Vec3, out []float64) {
		scaled := make([]Vec3, len(pts))
		for i, p := range pts {
			scaled[i] = ScaleVec(1/s, p)
		}
		f.EvaluateInto(scaled, out)
		for i := range out {
			out[i] *= s
		}
	}), nil
}

// MustScaleUniform is like ScaleUniform but panics on error.
func MustScaleUniform(f Field, s float64) Field { return mustField(ScaleUniform(f, s)) }

// ScaleNonUniform scales f independently on each axis by s (an approximate
// SDF, per spec.md §4.1): p <- p/s, with no distance correction.
func ScaleNonUniform(f Field, s Vec3) (Field, error) {
	if s.X <= 0 || s.Y <= 0 || s.Z <= 0 {
		return Field{}, argErr("non-uniform scale components must be positive")
	}
	return newField(func(pts []Vec3, out []float64) {
		scaled := make([]Vec3, len(pts))
		for i, p := range pts {
			scaled[i] = Vec3{X: p.X / s.X, Y: p.Y / s.Y, Z: p.Z / s.Z}
		}
		f.EvaluateInto(scaled, out)
	}), nil
}

// MustScaleNonUniform is like ScaleNonUniform but panics on error.
func MustScaleNonUniform(f Field, s Vec3) Field { return mustField(ScaleNonUniform(f, s)) }

// Rotate rotates f by angle radians about axis (spec.md §4.1): the query
// point is pre-rotated by the inverse (transpose) rotation so the shape
// itself rotates forward.
func Rotate(f Field, axis Vec3, angle float64) (Field, error) {
	if LengthSquared(axis) < zeroLengthTol*zeroLengthTol {
		return Field{}, argErr("rotation axis must be non-zero")
	}
	inv := rotationMatrix(axis, angle).transpose()
	return newField(func(pts []Vec3, out []float64) {
		rotated := make([]Vec3, len(pts))
		for i, p := range pts {
			rotated[i] = inv.mulVec(p)
		}
		f.EvaluateInto(rotated, out)
	}), nil
}

// MustRotate is like Rotate but panics on error.
func MustRotate(f Field, axis Vec3, angle float64) Field { return mustField(Rotate(f, axis, angle)) }

// Orient rotates f so that its local +Z axis maps onto target. Degenerate
// cases (target identical to +Z, or opposite) are handled per spec.md §4.1.
func Orient(f Field, target Vec3) (Field, error) {
	if LengthSquared(target) < zeroLengthTol*zeroLengthTol {
		return Field{}, argErr("orient target axis must be non-zero")
	}
	inv := rotateToAxis(target).transpose()
	return newField(func(pts []Vec3, out []float64) {
		rotated := make([]Vec3, len(pts))
		for i, p := range pts {
			rotated[i] = inv.mulVec(p)
		}
		f.EvaluateInto(rotated, out)
	}), nil
}

// MustOrient is like Orient but panics on error.
func MustOrient(f Field, target Vec3) Field { return mustField(Orient(f, target)) }

// Twist rotates (x,y) by angle k*z before evaluating f (an approximate
// SDF, per spec.md §4.1).
func Twist(f Field, k float64) Field {
	return newField(func(pts []Vec3, out []float64) {
		twisted := make([]Vec3, len(pts))
		for i, p := range pts {
			s, c := math.Sincos(k * p.Z)
			twisted[i] = Vec3{
				X: c*p.X - s*p.Y,
				Y: s*p.X + c*p.Y,
				Z: p.Z,
			}
		}
		f.EvaluateInto(twisted, out)
	})
}

// Bend rotates (x,y) by angle k*x before evaluating f. spec.md §9 notes
// this uses p.x as the bending parameter rather than the textbook p.y;
// the behavior is preserved as specified.
func Bend(f Field, k float64) Field {
	return newField(func(pts []Vec3, out []float64) {
		bent := make([]Vec3, len(pts))
		for i, p := range pts {
			s, c := math.Sincos(k * p.X)
			bent[i] = Vec3{
				X: c*p.X - s*p.Y,
				Y: s*p.X + c*p.Y,
				Z: p.Z,
			}
		}
		f.EvaluateInto(bent, out)
	})
}

// Elongate stretches f by h on each axis (an approximate SDF, per
// spec.md §4.1): query with sign(p)*max(|p|-h, 0), then add
// |max(|p|-h, 0)| to correct the exterior distance.
func Elongate(f Field, h Vec3) Field {
	return newField(func(pts []Vec3, out []float64) {
		queried := make([]Vec3, len(pts))
		correction := make([]float64, len(pts))
		for i, p := range pts {
			q := MaxElem(Sub(AbsElem(p), h), Vec3{})
			queried[i] = Vec3{
				X: sign(p.X) * q.X,
				Y: sign(p.Y) * q.Y,
				Z: sign(p.Z) * q.Z,
			}
			correction[i] = Length(q)
		}
		f.EvaluateInto(queried, out)
		for i := range out {
			out[i] += correction[i]
		}
	})
}

// Dilate subtracts r from f's distance, growing the shape outward by r.
func Dilate(f Field, r float64) Field {
	return newField(func(pts []Vec3, out []float64) {
		f.EvaluateInto(pts, out)
		for i := range out {
			out[i] -= r
		}
	})
}

// Erode is Dilate(f, -r): shrinks the shape inward by r.
func Erode(f Field, r float64) Field { return Dilate(f, -r) }

// Shell hollows f into a shell of thickness t: |d| - t.
func Shell(f Field, t float64) Field {
	return newField(func(pts []Vec3, out []float64) {
		f.EvaluateInto(pts, out)
		for i := range out {
			out[i] = math.Abs(out[i]) - t
		}
	})
}

// Repeat tiles f independently on each axis with the given spacing and
// per-axis copy count, per spec.md §4.1: finite counts clamp-and-round,
// counts >= 1e8 fold with unbounded modulo.
func Repeat(f Field, spacing Vec3, count Vec3) (Field, error) {
	if spacing.X <= 0 || spacing.Y <= 0 || spacing.Z <= 0 {
		return Field{}, argErr("repeat spacing components must be positive")
	}
	const unbounded = 1e8
	return newField(func(pts []Vec3, out []float64) {
		folded := make([]Vec3, len(pts))
		for i, p := range pts {
			folded[i] = Vec3{
				X: repeatAxis(p.X, spacing.X, count.X, unbounded),
				Y: repeatAxis(p.Y, spacing.Y, count.Y, unbounded),
				Z: repeatAxis(p.Z, spacing.Z, count.Z, unbounded),
			}
		}
		f.EvaluateInto(folded, out)
	}), nil
}

// MustRepeat is like Repeat but panics on error.
func MustRepeat(f Field, spacing, count Vec3) Field { return mustField(Repeat(f, spacing, count)) }

func repeatAxis(p, spacing, count, unbounded float64) float64 {
	if count >= unbounded {
		return p - spacing*math.Round(p/spacing)
	}
	cell := clampf(math.Round(p/spacing), -count, count)
	return p - cell*spacing
}

// Blend linearly interpolates two fields: a*(1-t) + b*t. Unlike Union/
// Intersect/Difference, this is not a CSG operator; it is useful for
// morphing between two shapes (spec.md §4.1).
func Blend(a, b Field, t float64) Field {
	return newField(func(pts []Vec3, out []float64) {
		av := a.Evaluate(pts)
		bv := b.Evaluate(pts)
		for i := range pts {
			out[i] = av[i]*(1-t) + bv[i]*t
		}
	})
}

// CircularArray replicates f n times about the Z axis, spaced 2*pi/n
// apart, taking the pointwise minimum over all copies. Each copy is
// translated by offset along X before rotating (spec.md §9 resolves the
// offset ambiguity this way, matching the literal formula in spec.md §4.1).
func CircularArray(f Field, n int, offset float64) (Field, error) {
	if n <= 0 {
		return Field{}, argErr("circular array count must be positive")
	}
	step := 2 * math.Pi / float64(n)
	invs := make([]m33, n)
	for i := 0; i < n; i++ {
		invs[i] = rotationMatrix(Vec3{Z: 1}, float64(i)*step).transpose()
	}
	return newField(func(pts []Vec3, out []float64) {
		offsetPts := make([]Vec3, len(pts))
		for i, p := range pts {
			offsetPts[i] = Sub(p, Vec3{X: offset})
		}
		for i := range out {
			out[i] = math.MaxFloat64
		}
		rotated := make([]Vec3, len(pts))
		vals := make([]float64, len(pts))
		for _, inv := range invs {
			for j, p := range offsetPts {
				rotated[j] = inv.mulVec(p)
			}
			f.EvaluateInto(rotated, vals)
			for j := range out {
				if vals[j] < out[j] {
					out[j] = vals[j]
				}
			}
		}
	}), nil
}

// MustCircularArray is like CircularArray but panics on error.
func MustCircularArray(f Field, n int, offset float64) Field {
	return mustField(CircularArray(f, n, offset))
}

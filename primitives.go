package sdf

import "math"

// Primitives are pure mathematical distance functions for canonical shapes,
// per spec.md §4.2. Forms mirror the teacher's own analytic primitives
// (sdf3.go, form3/must3) and the closed forms spec.md lists directly; each
// is lifted from a point function to a batch Field via newPointField
// (spec.md §9).

// Sphere returns the Field for a sphere of radius r centered at c.
func Sphere(r float64, c Vec3) (Field, error) {
	if r <= 0 {
		return Field{}, argErr("sphere radius must be positive")
	}
	return newPointField(func(p Vec3) float64 {
		return Length(Sub(p, c)) - r
	}), nil
}

// MustSphere is like Sphere but panics on error.
func MustSphere(r float64, c Vec3) Field { return mustField(Sphere(r, c)) }

// Box returns the Field for an axis-aligned box with the given half-size,
// centered at c: q = |p-c| - halfSize; d = |max(q,0)| + min(max(q.x,q.y,q.z), 0).
func Box(halfSize Vec3, c Vec3) (Field, error) {
	if halfSize.X <= 0 || halfSize.Y <= 0 || halfSize.Z <= 0 {
		return Field{}, argErr("box half-size components must be positive")
	}
	return newPointField(func(p Vec3) float64 {
		q := Sub(AbsElem(Sub(p, c)), halfSize)
		outside := Length(MaxElem(q, Vec3{}))
		inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
		return outside + inside
	}), nil
}

// MustBox is like Box but panics on error.
func MustBox(halfSize, c Vec3) Field { return mustField(Box(halfSize, c)) }

// RoundedBox returns the Field for a box of the given full size with
// corners rounded by radius r: half-size is size/2-r, then d-r.
func RoundedBox(size Vec3, r float64, c Vec3) (Field, error) {
	if r < 0 {
		return Field{}, argErr("rounded box radius must be non-negative")
	}
	half := ScaleVec(0.5, size)
	half = Sub(half, Vec3{X: r, Y: r, Z: r})
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		return Field{}, argErr("rounded box size must exceed 2*r on every axis")
	}
	box, err := Box(half, c)
	if err != nil {
		return Field{}, err
	}
	return newPointField(func(p Vec3) float64 {
		return box.At(p) - r
	}), nil
}

// MustRoundedBox is like RoundedBox but panics on error.
func MustRoundedBox(size Vec3, r float64, c Vec3) Field {
	return mustField(RoundedBox(size, r, c))
}

// Torus returns the Field for a torus of major radius majorR and minor
// (tube) radius minorR, centered at c, axis aligned with Z.
func Torus(majorR, minorR float64, c Vec3) (Field, error) {
	if majorR <= 0 || minorR <= 0 {
		return Field{}, argErr("torus radii must be positive")
	}
	return newPointField(func(p Vec3) float64 {
		p = Sub(p, c)
		q := math.Hypot(p.X, p.Y) - majorR
		return math.Hypot(q, p.Z) - minorR
	}), nil
}

// MustTorus is like Torus but panics on error.
func MustTorus(majorR, minorR float64, c Vec3) Field { return mustField(Torus(majorR, minorR, c)) }

// Capsule returns the Field for a capsule: the locus within r of the
// segment [a,b].
func Capsule(a, b Vec3, r float64) (Field, error) {
	if r <= 0 {
		return Field{}, argErr("capsule radius must be positive")
	}
	if LengthSquared(Sub(b, a)) < zeroLengthTol*zeroLengthTol {
		return Field{}, argErr("capsule endpoints must be distinct")
	}
	ab := Sub(b, a)
	abLen2 := LengthSquared(ab)
	return newPointField(func(p Vec3) float64 {
		t := clampf(Dot(Sub(p, a), ab)/abLen2, 0, 1)
		proj := Add(a, ScaleVec(t, ab))
		return Length(Sub(p, proj)) - r
	}), nil
}

// MustCapsule is like Capsule but panics on error.
func MustCapsule(a, b Vec3, r float64) Field { return mustField(Capsule(a, b, r)) }

// CappedCylinder returns the Field for a cylinder of radius r capped by
// planes perpendicular to the segment [a,b].
func CappedCylinder(a, b Vec3, r float64) (Field, error) {
	if r <= 0 {
		return Field{}, argErr("capped cylinder radius must be positive")
	}
	ab := Sub(b, a)
	h2 := LengthSquared(ab)
	if h2 < zeroLengthTol*zeroLengthTol {
		return Field{}, argErr("capped cylinder endpoints must be distinct")
	}
	return newPointField(func(p Vec3) float64 {
		pa := Sub(p, a)
		t := Dot(pa, ab) / h2
		perp := Sub(pa, ScaleVec(t, ab))
		dr := Length(perp) - r
		dz := (math.Abs(t-0.5) - 0.5) * math.Sqrt(h2)
		outside := math.Hypot(math.Max(dr, 0), math.Max(dz, 0))
		inside := math.Min(math.Max(dr, dz), 0)
		return outside + inside
	}), nil
}

// MustCappedCylinder is like CappedCylinder but panics on error.
func MustCappedCylinder(a, b Vec3, r float64) Field { return mustField(CappedCylinder(a, b, r)) }

// Cylinder returns the Field for an infinite cylinder of radius r centered
// on the Z axis: sqrt(x^2+y^2) - r.
func Cylinder(r float64) (Field, error) {
	if r <= 0 {
		return Field{}, argErr("cylinder radius must be positive")
	}
	return newPointField(func(p Vec3) float64 {
		return math.Hypot(p.X, p.Y) - r
	}), nil
}

// MustCylinder is like Cylinder but panics on error.
func MustCylinder(r float64) Field { return mustField(Cylinder(r)) }

// Ellipsoid returns the Field for an ellipsoid with per-axis radii size,
// using the standard bound-form approximation: k0*(k0-1)/k1 with
// k0 = |p/size|, k1 = |p/size^2|.
func Ellipsoid(size Vec3) (Field, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return Field{}, argErr("ellipsoid radii must be positive")
	}
	inv := Vec3{X: 1 / size.X, Y: 1 / size.Y, Z: 1 / size.Z}
	invSq := Vec3{X: inv.X * inv.X, Y: inv.Y * inv.Y, Z: inv.Z * inv.Z}
	return newPointField(func(p Vec3) float64 {
		k0 := Length(Vec3{X: p.X * inv.X, Y: p.Y * inv.Y, Z: p.Z * inv.Z})
		k1 := Length(Vec3{X: p.X * invSq.X, Y: p.Y * invSq.Y, Z: p.Z * invSq.Z})
		return k0 * (k0 - 1) / k1
	}), nil
}

// MustEllipsoid is like Ellipsoid but panics on error.
func MustEllipsoid(size Vec3) Field { return mustField(Ellipsoid(size)) }

// Plane returns the Field for an infinite plane through p0 with unit
// normal n (the zero value of n defaults to +Z, per spec.md §4.2).
func Plane(n, p0 Vec3) (Field, error) {
	if LengthSquared(n) < zeroLengthTol*zeroLengthTol {
		n = Vec3{Z: 1}
	} else {
		n = Normalize(n)
	}
	return newPointField(func(p Vec3) float64 {
		return Dot(Sub(p, p0), n)
	}), nil
}

// MustPlane is like Plane but panics on error.
func MustPlane(n, p0 Vec3) Field { return mustField(Plane(n, p0)) }

// Slab returns the Field for the axis-aligned box [x0,x1]x[y0,y1]x[z0,z1]:
// exterior is the Euclidean distance to the box, interior is the negated
// minimum distance to the six faces.
func Slab(x0, x1, y0, y1, z0, z1 float64) (Field, error) {
	if x0 >= x1 || y0 >= y1 || z0 >= z1 {
		return Field{}, argErr("slab bounds must satisfy lo < hi on every axis")
	}
	lo := Vec3{X: x0, Y: y0, Z: z0}
	hi := Vec3{X: x1, Y: y1, Z: z1}
	return newPointField(func(p Vec3) float64 {
		outLo := MaxElem(Sub(lo, p), Vec3{})
		outHi := MaxElem(Sub(p, hi), Vec3{})
		outside := Length(Add(outLo, outHi))
		if outside > 0 {
			return outside
		}
		// inside: negative distance to nearest face.
		d := math.Min(p.X-x0, x1-p.X)
		d = math.Min(d, math.Min(p.Y-y0, y1-p.Y))
		d = math.Min(d, math.Min(p.Z-z0, z1-p.Z))
		return -d
	}), nil
}

// MustSlab is like Slab but panics on error.
func MustSlab(x0, x1, y0, y1, z0, z1 float64) Field {
	return mustField(Slab(x0, x1, y0, y1, z0, z1))
}

// Cone returns the Field for a cone with half-angle angle (radians), apex
// at the origin, opening toward +Z and capped by the plane z = height.
func Cone(angle, height float64) (Field, error) {
	if angle <= 0 || angle >= math.Pi/2 {
		return Field{}, argErr("cone angle must be in (0, pi/2)")
	}
	if height <= 0 {
		return Field{}, argErr("cone height must be positive")
	}
	s, c := math.Sincos(angle)
	return newPointField(func(p Vec3) float64 {
		q := math.Hypot(p.X, p.Y)
		d := q*c - p.Z*s
		capD := p.Z - height
		outside := math.Hypot(math.Max(d, 0), math.Max(capD, 0))
		inside := math.Min(math.Max(d, capD), 0)
		return outside + inside
	}), nil
}

// MustCone is like Cone but panics on error.
func MustCone(angle, height float64) Field { return mustField(Cone(angle, height)) }

// RoundedCone returns the Field for a cone of height h between a base
// radius r1 and a top radius r2, with rounded silhouette, apex-down along Z.
func RoundedCone(r1, r2, h float64) (Field, error) {
	if r1 <= 0 || r2 <= 0 || h <= 0 {
		return Field{}, argErr("rounded cone radii and height must be positive")
	}
	b := (r1 - r2) / h
	a := math.Sqrt(1 - b*b)
	return newPointField(func(p Vec3) float64 {
		q := math.Hypot(p.X, p.Y)
		k := Dot(Vec3{X: q, Y: p.Z}, Vec3{X: -b, Y: a})
		if k < 0 {
			return math.Hypot(q, p.Z) - r1
		}
		if k > a*h {
			return math.Hypot(q, p.Z-h) - r2
		}
		return Dot(Vec3{X: q, Y: p.Z}, Vec3{X: a, Y: b}) - r1
	}), nil
}

// MustRoundedCone is like RoundedCone but panics on error.
func MustRoundedCone(r1, r2, h float64) Field { return mustField(RoundedCone(r1, r2, h)) }

// CappedCone returns the Field for a cone between endpoints a and b with
// radii ra and rb respectively (the standard closed form for a cone capped
// by two arbitrary spheres-of-revolution radii, per spec.md §4.2).
func CappedCone(a, b Vec3, ra, rb float64) (Field, error) {
	if ra <= 0 || rb <= 0 {
		return Field{}, argErr("capped cone radii must be positive")
	}
	baba := LengthSquared(Sub(b, a))
	if baba < zeroLengthTol*zeroLengthTol {
		return Field{}, argErr("capped cone endpoints must be distinct")
	}
	rba := rb - ra
	k := rba*rba + baba
	return newPointField(func(p Vec3) float64 {
		pa := Sub(p, a)
		ba := Sub(b, a)
		papa := LengthSquared(pa)
		paba := Dot(pa, ba) / baba
		x := math.Sqrt(math.Max(papa-paba*paba*baba, 0))
		capRadius := ra
		if paba >= 0.5 {
			capRadius = rb
		}
		cax := math.Max(0, x-capRadius)
		cay := math.Abs(paba-0.5) - 0.5
		f := clampf((rba*(x-ra)+paba*baba)/k, 0, 1)
		cbx := x - ra - f*rba
		cby := paba - f
		s := 1.0
		if cbx < 0 && cay < 0 {
			s = -1
		}
		return s * math.Sqrt(math.Min(cax*cax+cay*cay*baba, cbx*cbx+cby*cby*baba))
	}), nil
}

// MustCappedCone is like CappedCone but panics on error.
func MustCappedCone(a, b Vec3, ra, rb float64) Field { return mustField(CappedCone(a, b, ra, rb)) }

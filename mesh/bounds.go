package mesh

import (
	"math"

	"github.com/toxicclowd/pixonixsdf"
)

// Box is an axis-aligned bounding box, grounded on soypat-sdf's
// internal/d3.Box (Min/Max corner pair), specialized to this package's
// sdf.Vec3 rather than gonum's r3.Box alias so mesh stays decoupled from
// the root package's internal representation choice.
type Box struct {
	Min, Max sdf.Vec3
}

// Size returns the per-axis extent of b.
func (b Box) Size() sdf.Vec3 { return sdf.Sub(b.Max, b.Min) }

// Center returns the midpoint of b.
func (b Box) Center() sdf.Vec3 { return sdf.ScaleVec(0.5, sdf.Add(b.Min, b.Max)) }

// Volume returns the product of b's edge lengths.
func (b Box) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

const (
	boundsGridSamples  = 16
	boundsMaxIter      = 32
	boundsConvergeTol  = 1e-10
)

// EstimateBounds finds a tight box around the zero level set of f by
// repeatedly sampling a 16^3 grid and shrinking to the samples that land
// within half a grid-cell's diagonal of the surface, doubling the box when
// no such sample is found. Grounded on
// original_source/SDF.Cpp/src/MeshGenerator.cpp's estimateBounds.
func EstimateBounds(f sdf.Field) Box {
	boundsMin := sdf.V3(-10, -10, -10)
	boundsMax := sdf.V3(10, 10, 10)

	prevThreshold := -1.0
	const n = boundsGridSamples

	pts := make([]sdf.Vec3, 0, n*n*n)
	for iter := 0; iter < boundsMaxIter; iter++ {
		step := sdf.V3(
			(boundsMax.X-boundsMin.X)/(n-1),
			(boundsMax.Y-boundsMin.Y)/(n-1),
			(boundsMax.Z-boundsMin.Z)/(n-1),
		)
		threshold := sdf.Length(step) / 2

		if math.Abs(threshold-prevThreshold) < boundsConvergeTol {
			break
		}
		prevThreshold = threshold

		pts = pts[:0]
		for z := 0; z < n; z++ {
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					pts = append(pts, sdf.V3(
						boundsMin.X+float64(x)*step.X,
						boundsMin.Y+float64(y)*step.Y,
						boundsMin.Z+float64(z)*step.Z,
					))
				}
			}
		}

		values := f.Evaluate(pts)

		newMin := boundsMax
		newMax := boundsMin
		foundAny := false
		for i, p := range pts {
			if math.Abs(values[i]) <= threshold {
				newMin = sdf.MinElem(newMin, p)
				newMax = sdf.MaxElem(newMax, p)
				foundAny = true
			}
		}

		if !foundAny {
			center := sdf.ScaleVec(0.5, sdf.Add(boundsMin, boundsMax))
			size := sdf.Sub(boundsMax, boundsMin)
			boundsMin = sdf.Sub(center, size)
			boundsMax = sdf.Add(center, size)
		} else {
			margin := sdf.ScaleVec(0.5, step)
			boundsMin = sdf.Sub(newMin, margin)
			boundsMax = sdf.Add(newMax, margin)
		}
	}

	return Box{Min: boundsMin, Max: boundsMax}
}

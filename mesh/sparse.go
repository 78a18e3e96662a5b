package mesh

import "github.com/toxicclowd/pixonixsdf"

// canSkipBatch reports whether the zero level set of f cannot possibly
// intersect the box [min, max]. It first tests the center against the
// box's circumscribing radius (a single evaluation sufficient to exclude
// most empty batches), then falls back to checking whether all 8 corners
// share a sign. Grounded on
// original_source/SDF.Cpp/src/MeshGenerator.cpp's canSkipBatch, with the
// center check also anchored on soypat-sdf/render/octree_renderer.go's
// dc3.IsEmpty (`math.Abs(d) >= hdiag`).
func canSkipBatch(f sdf.Field, min, max sdf.Vec3) bool {
	center := sdf.ScaleVec(0.5, sdf.Add(min, max))
	radius := sdf.Length(sdf.Sub(max, min)) / 2

	if d := f.At(center); d <= radius && d >= -radius {
		return false
	}

	corners := [8]sdf.Vec3{
		sdf.V3(min.X, min.Y, min.Z),
		sdf.V3(max.X, min.Y, min.Z),
		sdf.V3(min.X, max.Y, min.Z),
		sdf.V3(max.X, max.Y, min.Z),
		sdf.V3(min.X, min.Y, max.Z),
		sdf.V3(max.X, min.Y, max.Z),
		sdf.V3(min.X, max.Y, max.Z),
		sdf.V3(max.X, max.Y, max.Z),
	}
	values := f.Evaluate(corners[:])

	allPositive, allNegative := true, true
	for _, v := range values {
		if v < 0 {
			allPositive = false
		}
		if v > 0 {
			allNegative = false
		}
	}
	return allPositive || allNegative
}

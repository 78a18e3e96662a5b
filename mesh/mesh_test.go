package mesh

import (
	"math"
	"testing"

	"github.com/toxicclowd/pixonixsdf"
)

func TestEstimateBoundsSphere(t *testing.T) {
	f := sdf.MustSphere(1, sdf.Vec3{})
	b := EstimateBounds(f)
	if b.Min.X > -1 || b.Min.Y > -1 || b.Min.Z > -1 {
		t.Errorf("bounds min %v does not contain sphere of radius 1", b.Min)
	}
	if b.Max.X < 1 || b.Max.Y < 1 || b.Max.Z < 1 {
		t.Errorf("bounds max %v does not contain sphere of radius 1", b.Max)
	}
	size := b.Size()
	if size.X > 4 || size.Y > 4 || size.Z > 4 {
		t.Errorf("bounds %v..%v too loose for unit sphere", b.Min, b.Max)
	}
}

func TestEstimateBoundsTranslatedSphere(t *testing.T) {
	f := sdf.Translate(sdf.MustSphere(1, sdf.Vec3{}), sdf.V3(5, 0, 0))
	// Generate with no explicit Bounds uses EstimateBounds; the box it
	// returns carries a sampling margin, so the check is on the mesh AABB.
	verts, _, err := Generate(f, Options{Samples: 20000})
	if err != nil {
		t.Fatal(err)
	}
	if len(verts) == 0 {
		t.Fatal("expected a non-empty mesh for a translated sphere")
	}
	b := Box{Min: verts[0], Max: verts[0]}
	for _, v := range verts {
		b.Min = sdf.MinElem(b.Min, v)
		b.Max = sdf.MaxElem(b.Max, v)
	}
	if b.Min.X < 3.9 || b.Max.X > 6.1 {
		t.Errorf("translated sphere mesh AABB %v..%v outside expected AABB", b.Min, b.Max)
	}
	if b.Min.Y < -1.1 || b.Max.Y > 1.1 || b.Min.Z < -1.1 || b.Max.Z > 1.1 {
		t.Errorf("translated sphere mesh AABB %v..%v outside expected AABB on Y/Z", b.Min, b.Max)
	}
}

func TestCanSkipBatchSoundnessOnSphere(t *testing.T) {
	f := sdf.MustSphere(1, sdf.Vec3{})
	// A batch entirely far from the unit sphere must be skippable.
	if !canSkipBatch(f, sdf.V3(10, 10, 10), sdf.V3(11, 11, 11)) {
		t.Errorf("expected far batch to be skippable")
	}
	// A batch straddling the surface must never be skipped (soundness).
	if canSkipBatch(f, sdf.V3(0.8, -0.2, -0.2), sdf.V3(1.2, 0.2, 0.2)) {
		t.Errorf("batch containing surface must not be skipped")
	}
}

func TestVertexInterpGuards(t *testing.T) {
	p1, p2 := sdf.V3(0, 0, 0), sdf.V3(1, 0, 0)
	if got := vertexInterp(0, p1, p2, 0, 1); got != p1 {
		t.Errorf("expected p1 when level==v1, got %v", got)
	}
	if got := vertexInterp(1, p1, p2, 0, 1); got != p2 {
		t.Errorf("expected p2 when level==v2, got %v", got)
	}
	if got := vertexInterp(5, p1, p2, 3, 3); got != p1 {
		t.Errorf("expected p1 when v1==v2, got %v", got)
	}
	mid := vertexInterp(0, p1, p2, -1, 1)
	want := sdf.V3(0.5, 0, 0)
	if math.Abs(mid.X-want.X) > 1e-12 {
		t.Errorf("vertexInterp midpoint = %v, want %v", mid, want)
	}
}

func TestGenerateSphereProducesTriangles(t *testing.T) {
	f := sdf.MustSphere(1, sdf.Vec3{})
	verts, stats, err := Generate(f, Options{Samples: 20000})
	if err != nil {
		t.Fatal(err)
	}
	if len(verts)%3 != 0 {
		t.Fatalf("vertex count %d not a multiple of 3", len(verts))
	}
	if stats.Triangles == 0 {
		t.Fatal("expected a non-empty mesh for a sphere")
	}
	for _, v := range verts {
		if math.Abs(v.X) > 1.5 || math.Abs(v.Y) > 1.5 || math.Abs(v.Z) > 1.5 {
			t.Errorf("vertex %v outside expected unit-sphere envelope", v)
		}
	}
}

func TestGenerateRejectsNegativeOptions(t *testing.T) {
	f := sdf.MustSphere(1, sdf.Vec3{})
	if _, _, err := Generate(f, Options{Step: -1}); err == nil {
		t.Error("expected error for negative step")
	}
	if _, _, err := Generate(f, Options{BatchSize: -1}); err == nil {
		t.Error("expected error for negative batch size")
	}
}

func TestGenerateSparseMatchesDense(t *testing.T) {
	f := sdf.MustSphere(1, sdf.Vec3{})
	opts := Options{Samples: 15000, Bounds: &Box{Min: sdf.V3(-1.5, -1.5, -1.5), Max: sdf.V3(1.5, 1.5, 1.5)}}
	_, dense, err := Generate(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Sparse = true
	_, sparse, err := Generate(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if dense.Triangles != sparse.Triangles {
		t.Errorf("sparse skipping changed triangle count: dense=%d sparse=%d", dense.Triangles, sparse.Triangles)
	}
}

func TestPlanBatchesCoversGrid(t *testing.T) {
	dims := [3]int{33, 17, 9}
	batches := planBatches(dims, 16)
	var coveredCells int
	for _, b := range batches {
		coveredCells += (b.x1 - b.x0) * (b.y1 - b.y0) * (b.z1 - b.z0)
	}
	want := (dims[0] - 1) * (dims[1] - 1) * (dims[2] - 1)
	if coveredCells != want {
		t.Errorf("batches cover %d cells, want %d", coveredCells, want)
	}
}

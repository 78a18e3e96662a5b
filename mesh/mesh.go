// Package mesh turns a signed distance field into a triangle mesh via
// marching cubes, tiling the sample grid into batches processed
// concurrently, and writes the result as a binary STL file.
package mesh

import (
	"errors"
	"log"
	"time"

	"github.com/toxicclowd/pixonixsdf"
	"github.com/toxicclowd/pixonixsdf/stl"
)

const defaultBatchSize = 32

// defaultSamples is the target voxel count used to derive Step when
// neither Step nor Samples is set, per spec.md §3 (2^22 ≈ 4.19M).
const defaultSamples = 1 << 22

var errEmptyMesh = errors.New("mesh: generated zero triangles")

// Options configures mesh generation, grounded on
// original_source/SDF.Cpp's MeshGenerator::Options.
type Options struct {
	// Step is the grid sample spacing. If zero, it is derived from Samples.
	Step float64
	// Samples is a target total sample count, used to derive Step when
	// Step is zero. Ignored if Step is set.
	Samples int
	// Bounds restricts sampling to an explicit box. If nil, bounds are
	// estimated automatically via EstimateBounds.
	Bounds *Box
	// Workers is the goroutine count for batch processing. If zero,
	// runtime.NumCPU() is used, falling back to 4.
	Workers int
	// BatchSize is the per-axis cell count of each scheduled batch. If
	// zero, defaultBatchSize is used.
	BatchSize int
	// Sparse enables skipping batches whose bounding sphere cannot
	// intersect the surface.
	Sparse bool
	// Verbose logs progress via the standard logger.
	Verbose bool
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return defaultBatchSize
}

func (o Options) samples() int {
	if o.Samples > 0 {
		return o.Samples
	}
	return defaultSamples
}

// validate applies spec.md §7's eager argument validation: a negative step,
// samples or batchSize is rejected before any work begins. Zero is accepted
// for each and selects the derived or default value.
func (o Options) validate() error {
	if o.Step < 0 {
		return sdf.NewArgumentError("mesh: step must be non-negative")
	}
	if o.Samples < 0 {
		return sdf.NewArgumentError("mesh: samples must be non-negative")
	}
	if o.BatchSize < 0 {
		return sdf.NewArgumentError("mesh: batchSize must be non-negative")
	}
	return nil
}

// Generate samples f over its (explicit or estimated) bounds and extracts
// a triangle soup via marching cubes. The returned slice holds vertices in
// groups of 3, one group per triangle. Grounded on
// original_source/SDF.Cpp/src/MeshGenerator.cpp's generate.
func Generate(f sdf.Field, opts Options) ([]sdf.Vec3, Stats, error) {
	if err := opts.validate(); err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()

	var bounds Box
	if opts.Bounds != nil {
		bounds = *opts.Bounds
	} else {
		bounds = EstimateBounds(f)
	}
	if opts.Verbose {
		log.Printf("mesh: bounds (%.4g,%.4g,%.4g) to (%.4g,%.4g,%.4g)",
			bounds.Min.X, bounds.Min.Y, bounds.Min.Z, bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
	}

	step := deriveStep(opts.Step, opts.samples(), bounds)
	dims, adjMax := planGrid(bounds, step)
	bounds.Max = adjMax
	if opts.Verbose {
		log.Printf("mesh: grid %d x %d x %d, step %.4g", dims[0], dims[1], dims[2], step)
	}

	batches := planBatches(dims, opts.batchSize())
	if opts.Verbose {
		log.Printf("mesh: processing %d batches", len(batches))
	}

	triangles, stats := runBatches(f, bounds.Min, dims, step, batches, opts.Workers, opts.Sparse)

	if opts.Verbose {
		log.Printf("mesh: generated %d triangles, processed %d batches (skipped %d), %.3fs",
			stats.Triangles, stats.BatchesProcessed, stats.BatchesSkipped, time.Since(start).Seconds())
	}

	return triangles, stats, nil
}

// Save generates a mesh for f per opts and writes it to path as a binary
// STL file. It returns an error wrapping an *sdf.IOError if the file
// cannot be written, rather than a bare stl-package error, so callers can
// distinguish an I/O failure from an empty/degenerate mesh.
func Save(path string, f sdf.Field, opts Options) (Stats, error) {
	verts, stats, err := Generate(f, opts)
	if err != nil {
		return stats, err
	}
	if len(verts) == 0 {
		return stats, errEmptyMesh
	}
	triangles := stl.TrianglesFromSoup(verts)
	if err := stl.Save(path, triangles); err != nil {
		return stats, sdf.NewIOError(path, err)
	}
	return stats, nil
}

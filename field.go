package sdf

// Field is a composable signed distance function: a pure, deterministic
// batch evaluator `[]Vec3 -> []float64` together with an optional
// non-negative smoothing radius k, consumed only by boolean combinators
// (spec.md §3).
//
// This generalizes the teacher's SDF3 interface (`Evaluate(p Vec3) float64`)
// from a single-point call to a batch call, which is this spec's central
// required transformation: a single traversal of a composed Field per
// evaluate call, enabling vectorized/concurrent evaluation over the whole
// batch instead of one interface-dispatch per point (spec.md §9 "Batch vs
// point functions"). The closure-capture shape below — a struct holding an
// evaluator func whose closure captures any child Fields — is otherwise the same
// construction the teacher uses for union3/diff3/transform3 in sdf3.go.
type Field struct {
	eval func(pts []Vec3, out []float64)
	k    float64
}

// newField builds a Field from a batch evaluator.
func newField(eval func(pts []Vec3, out []float64)) Field {
	return Field{eval: eval}
}

// newPointField lifts a point function to a batch Field, for primitives
// implemented pointwise (spec.md §9: "Primitives may be implemented as
// point functions auto-lifted to batches").
func newPointField(f func(p Vec3) float64) Field {
	return newField(func(pts []Vec3, out []float64) {
		for i, p := range pts {
			out[i] = f(p)
		}
	})
}

// Evaluate computes the signed distance for every point in pts, writing
// len(pts) values into a freshly allocated slice.
//
// Invariants (spec.md §8): len(result) == len(pts); calling Evaluate twice
// with the same pts yields identical values; concurrent calls on disjoint
// pts slices are safe, since a Field never carries mutable shared state.
func (f Field) Evaluate(pts []Vec3) []float64 {
	out := make([]float64, len(pts))
	f.eval(pts, out)
	return out
}

// EvaluateInto computes the signed distance for every point in pts into
// out, which must have length len(pts). It avoids the allocation Evaluate
// makes, for use on the mesh generation hot path.
func (f Field) EvaluateInto(pts []Vec3, out []float64) {
	f.eval(pts, out)
}

// At is the single-point convenience form, defined per spec.md §9 as
// `f.evaluate([p])[0]`.
func (f Field) At(p Vec3) float64 {
	var out [1]float64
	f.eval([]Vec3{p}, out[:])
	return out[0]
}

// K returns the smoothing radius attached to f.
func (f Field) K() float64 { return f.k }

// WithK returns a copy of f identical in evaluation but tagged with
// smoothing radius k, per spec.md §4.1. k must be non-negative.
func WithK(f Field, k float64) Field {
	if k < 0 {
		panic(argErr("smoothing radius k must be >= 0"))
	}
	f.k = k
	return f
}

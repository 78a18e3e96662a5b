// Package stl reads and writes binary STL files, grounded on
// soypat-sdf/render/stl.go.
package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"

	"github.com/toxicclowd/pixonixsdf"
)

// Triangle is a flat triangle in a mesh, vertices in counter-clockwise
// winding order as seen from the outward-facing side.
type Triangle struct {
	V [3]sdf.Vec3
}

// Normal returns the triangle's outward normal, computed from its
// vertices via the right-hand rule.
func (t Triangle) Normal() sdf.Vec3 {
	e1 := sdf.Sub(t.V[1], t.V[0])
	e2 := sdf.Sub(t.V[2], t.V[0])
	return sdf.Normalize(sdf.Cross(e1, e2))
}

// TrianglesFromSoup groups a flat vertex slice (as produced by mesh.Generate,
// 3 vertices per triangle) into Triangle values.
func TrianglesFromSoup(verts []sdf.Vec3) []Triangle {
	n := len(verts) / 3
	out := make([]Triangle, n)
	for i := 0; i < n; i++ {
		out[i] = Triangle{V: [3]sdf.Vec3{verts[3*i], verts[3*i+1], verts[3*i+2]}}
	}
	return out
}

// stlHeader is the 84-byte binary STL header.
type stlHeader struct {
	_     [80]uint8
	Count uint32
}

const stlTriangleSize = 50

// stlTriangle is the 50-byte on-disk triangle record: normal, 3 vertices,
// attribute byte count (always written as 0).
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11]
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11]
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

var errCalculatedNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.degenerate(epsilon) {
		return errors.New("triangle is degenerate")
	}
	calc := t.normalFromVertices()
	calcNeg := [3]float32{-calc[0], -calc[1], -calc[2]}
	if !equalWithin3F32(calc, t.Normal, normTol) && !equalWithin3F32(calcNeg, t.Normal, normTol) {
		return errCalculatedNormalMismatch
	}
	return nil
}

func vecFrom3F32(f [3]float32) sdf.Vec3 {
	return sdf.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}

func (t stlTriangle) normalFromVertices() [3]float32 {
	v1 := vecFrom3F32(t.Vertex1)
	v2 := vecFrom3F32(t.Vertex2)
	v3 := vecFrom3F32(t.Vertex3)
	n := sdf.Normalize(sdf.Cross(sdf.Sub(v2, v1), sdf.Sub(v3, v1)))
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
}

func (t stlTriangle) degenerate(tol float32) bool {
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func (t stlTriangle) toTriangle() Triangle {
	return Triangle{V: [3]sdf.Vec3{
		vecFrom3F32(t.Vertex1),
		vecFrom3F32(t.Vertex2),
		vecFrom3F32(t.Vertex3),
	}}
}

func fromTriangle(t Triangle) stlTriangle {
	n := t.Normal()
	var d stlTriangle
	d.Normal = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	d.Vertex1 = [3]float32{float32(t.V[0].X), float32(t.V[0].Y), float32(t.V[0].Z)}
	d.Vertex2 = [3]float32{float32(t.V[1].X), float32(t.V[1].Y), float32(t.V[1].Z)}
	d.Vertex3 = [3]float32{float32(t.V[2].X), float32(t.V[2].Y), float32(t.V[2].Z)}
	return d
}

// Write encodes model as a binary STL file to w.
func Write(w io.Writer, model []Triangle) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{Count: uint32(len(model))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var buf [stlTriangleSize]byte
	for _, tri := range model {
		fromTriangle(tri).put(buf[:])
		if _, err := io.Copy(w, bytes.NewReader(buf[:])); err != nil {
			return err
		}
	}
	return nil
}

// Save writes model to path as a binary STL file.
func Save(path string, model []Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Write(f, model); err != nil {
		return err
	}
	return f.Close()
}

// WriteASCII encodes model as an ASCII STL file to w, per spec.md §6's
// optional solid/facet/outer loop/vertex/endloop/endfacet/endsolid form.
func WriteASCII(w io.Writer, name string, model []Triangle) error {
	if _, err := fmt.Fprintf(w, "solid %s\n", name); err != nil {
		return err
	}
	for _, tri := range model {
		n := tri.Normal()
		if _, err := fmt.Fprintf(w, "facet normal %g %g %g\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "outer loop\n"); err != nil {
			return err
		}
		for _, v := range tri.V {
			if _, err := fmt.Fprintf(w, "vertex %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "endloop\nendfacet\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "endsolid %s\n", name)
	return err
}

// SaveASCII writes model to path as an ASCII STL file.
func SaveASCII(path, name string, model []Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteASCII(f, name, model); err != nil {
		return err
	}
	return f.Close()
}

// Read decodes a binary STL file from r, validating each triangle's
// normal against its vertices and tolerating bounded mismatch (common in
// STL files produced by tools that round differently than we do).
func Read(r io.Reader) (output []Triangle, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}

	var (
		buf            [stlTriangleSize]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, errCalculatedNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()

	for i = 0; i < int(header.Count); i++ {
		var n int
		for n < stlTriangleSize {
			nr, err := r.Read(buf[n:])
			if err != nil {
				return nil, err
			}
			n += nr
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if errors.Is(err, errCalculatedNormalMismatch) {
				normMismatches++
				if normMismatches > 10_000 {
					return output, fmt.Errorf("got too many normal vector mismatches (%d)", normMismatches)
				}
				readErr = err
			} else {
				return nil, err
			}
		}
		output = append(output, d.toTriangle())
	}
	return output, readErr
}

// Load reads a binary STL file from path.
func Load(path string) ([]Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

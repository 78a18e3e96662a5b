package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/toxicclowd/pixonixsdf"
)

func sampleTriangle() Triangle {
	return Triangle{V: [3]sdf.Vec3{
		sdf.V3(0, 0, 0),
		sdf.V3(1, 0, 0),
		sdf.V3(0, 1, 0),
	}}
}

func TestWriteReadRoundtrip(t *testing.T) {
	model := []Triangle{sampleTriangle(), {V: [3]sdf.Vec3{
		sdf.V3(0, 0, 1), sdf.V3(1, 0, 1), sdf.V3(0, 1, 1),
	}}}

	var buf bytes.Buffer
	if err := Write(&buf, model); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf)
	if err != nil && !errors.Is(err, errCalculatedNormalMismatch) {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, want %d", len(got), len(model))
	}
	for i, tri := range model {
		for v := 0; v < 3; v++ {
			if !equalWithinF64(got[i].V[v], tri.V[v], 1e-5) {
				t.Errorf("triangle %d vertex %d = %v, want %v", i, v, got[i].V[v], tri.V[v])
			}
		}
	}
}

func equalWithinF64(a, b sdf.Vec3, tol float64) bool {
	d := sdf.Sub(a, b)
	return sdf.Length(d) <= tol
}

func TestWriteEmptyModelErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err == nil {
		t.Error("expected error writing an empty triangle slice")
	}
}

func TestHeaderTriangleCount(t *testing.T) {
	model := []Triangle{sampleTriangle()}
	var buf bytes.Buffer
	if err := Write(&buf, model); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84+stlTriangleSize {
		t.Errorf("buffer length = %d, want %d", buf.Len(), 84+stlTriangleSize)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[80:84]); got != uint32(len(model)) {
		t.Errorf("header triangle count = %d, want %d", got, len(model))
	}
}

func TestTrianglesFromSoup(t *testing.T) {
	verts := []sdf.Vec3{
		sdf.V3(0, 0, 0), sdf.V3(1, 0, 0), sdf.V3(0, 1, 0),
		sdf.V3(0, 0, 1), sdf.V3(1, 0, 1), sdf.V3(0, 1, 1),
	}
	tris := TrianglesFromSoup(verts)
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
}

func TestWriteASCIIContainsSolidMarkers(t *testing.T) {
	var buf strings.Builder
	if err := WriteASCII(&buf, "test", []Triangle{sampleTriangle()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "solid test\n") {
		t.Errorf("ASCII STL missing solid header: %q", out[:20])
	}
	if !strings.Contains(out, "endsolid test") {
		t.Error("ASCII STL missing endsolid footer")
	}
	if !strings.Contains(out, "outer loop") {
		t.Error("ASCII STL missing outer loop")
	}
}

func TestDegenerateTriangleRejectedOnRead(t *testing.T) {
	degenerate := Triangle{V: [3]sdf.Vec3{
		sdf.V3(0, 0, 0), sdf.V3(0, 0, 0), sdf.V3(1, 0, 0),
	}}
	var buf bytes.Buffer
	if err := Write(&buf, []Triangle{degenerate}); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(&buf); err == nil {
		t.Error("expected an error reading back a degenerate triangle")
	}
}

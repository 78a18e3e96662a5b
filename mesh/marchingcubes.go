package mesh

import (
	"math"

	"github.com/toxicclowd/pixonixsdf"
)

const vertexInterpTol = 1e-10

// vertexInterp finds the point along the edge p1-p2 where the field
// crosses level, given the field's values v1, v2 at p1, p2. Grounded on
// original_source/SDF.Cpp/src/MarchingCubes.cpp's vertexInterp, including
// its three epsilon guards.
func vertexInterp(level float64, p1, p2 sdf.Vec3, v1, v2 float64) sdf.Vec3 {
	if math.Abs(level-v1) < vertexInterpTol {
		return p1
	}
	if math.Abs(level-v2) < vertexInterpTol {
		return p2
	}
	if math.Abs(v1-v2) < vertexInterpTol {
		return p1
	}
	mu := (level - v1) / (v2 - v1)
	return sdf.Add(p1, sdf.ScaleVec(mu, sdf.Sub(p2, p1)))
}

// cellCorner gives the relative (x,y,z) offset, in grid cells, of each of
// the 8 corners of a marching-cubes cube, in the canonical order used by
// edgeTable/triTable.
var cellCorner = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// cellEdge gives the two corner indices that bound each of the 12 edges
// of a cube, in the canonical order used by edgeTable/triTable.
var cellEdge = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// index returns the flat offset of grid coordinate (x,y,z) into a
// dims[0]*dims[1]*dims[2] values slice, per
// original_source/SDF.Cpp/src/MarchingCubes.cpp's getIndex.
func index(x, y, z int, dims [3]int) int {
	return x + y*dims[0] + z*dims[0]*dims[1]
}

// ExtractSurface runs marching cubes over a dims[0] x dims[1] x dims[2]
// grid of field values sampled at origin+step*(x,y,z), at the given
// isolevel (always 0 for a signed distance field), appending emitted
// triangle vertices (in local grid-index coordinates, to be scaled and
// translated by the caller) to out.
//
// Unlike original_source/SDF.Cpp/src/MarchingCubes.cpp's extractSurface,
// which interpolates all 12 edges of every non-trivial cube unconditionally,
// this only interpolates edges edgeTable marks as crossed for the cube's
// configuration — a standard efficiency refinement that does not change
// the emitted surface.
func ExtractSurface(values []float64, dims [3]int, level float64, out []sdf.Vec3) []sdf.Vec3 {
	var corners [8]sdf.Vec3
	var cvals [8]float64
	var edges [12]sdf.Vec3

	for z := 0; z < dims[2]-1; z++ {
		for y := 0; y < dims[1]-1; y++ {
			for x := 0; x < dims[0]-1; x++ {
				cubeIndex := 0
				for i, c := range cellCorner {
					cx, cy, cz := x+c[0], y+c[1], z+c[2]
					corners[i] = sdf.V3(float64(cx), float64(cy), float64(cz))
					v := values[index(cx, cy, cz, dims)]
					cvals[i] = v
					if v < level {
						cubeIndex |= 1 << uint(i)
					}
				}

				if cubeIndex == 0 || cubeIndex == 255 {
					continue
				}

				mask := edgeTable[cubeIndex]
				if mask == 0 {
					continue
				}
				for e := 0; e < 12; e++ {
					if mask&(1<<uint(e)) == 0 {
						continue
					}
					a, b := cellEdge[e][0], cellEdge[e][1]
					edges[e] = vertexInterp(level, corners[a], corners[b], cvals[a], cvals[b])
				}

				tri := triTable[cubeIndex]
				for i := 0; tri[i] != -1; i += 3 {
					out = append(out, edges[tri[i]], edges[tri[i+1]], edges[tri[i+2]])
				}
			}
		}
	}
	return out
}

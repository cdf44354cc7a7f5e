package geometry

import (
	"fmt"

	"github.com/df07/go-scenegeom/pkg/core"
)

// Triangle holds three vertex indices into a mesh's vertex list
type Triangle struct {
	Vertex [3]int
}

// NewTriangle creates a triangle from three vertex indices
func NewTriangle(v0, v1, v2 int) Triangle {
	return Triangle{Vertex: [3]int{v0, v1, v2}}
}

// Equals compares the indices in order
func (t Triangle) Equals(other Triangle) bool {
	return t.Vertex == other.Vertex
}

// Offset returns the triangle with every index shifted by n
func (t Triangle) Offset(n int) Triangle {
	return NewTriangle(t.Vertex[0]+n, t.Vertex[1]+n, t.Vertex[2]+n)
}

func (t Triangle) String() string {
	return fmt.Sprintf("(%d, %d, %d)", t.Vertex[0], t.Vertex[1], t.Vertex[2])
}

// TriangleNormal returns the unit normal of a counter-clockwise triangle
// in a right-handed system
func TriangleNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	return edge1.Cross(edge2).Normalize()
}

// TriangleCentroid returns the mean of the three vertices
func TriangleCentroid(v0, v1, v2 core.Vec3) core.Vec3 {
	return v0.Add(v1).Add(v2).Multiply(1.0 / 3.0)
}

// TriangleBounds returns the smallest box containing all three vertices
func TriangleBounds(v0, v1, v2 core.Vec3) core.AABB {
	return core.NewAABBFromPoints(v0, v1, v2)
}

// gridIndex maps grid coordinates to a vertex index, rows of u points
func gridIndex(i, j, u int) int {
	return j*u + i
}

// GenerateTriangleIndexes triangulates a u by v grid of points laid out
// row after row. Each grid cell becomes two counter-clockwise triangles.
// With wrap set the last point of each row connects back to the first,
// closing the surface into a tube.
func GenerateTriangleIndexes(u, v int, wrap bool) []Triangle {
	rowMax := u - 1
	if wrap {
		rowMax = u
	}
	if rowMax <= 0 || v < 2 {
		return nil
	}

	triangles := make([]Triangle, 0, rowMax*(v-1)*2)
	for j := 0; j < v-1; j++ {
		for i := 0; i < rowMax; i++ {
			iNext := i + 1
			if iNext >= u {
				iNext = 0
			}
			triangles = append(triangles,
				NewTriangle(gridIndex(i, j, u), gridIndex(i, j+1, u), gridIndex(iNext, j, u)),
				NewTriangle(gridIndex(i, j+1, u), gridIndex(iNext, j+1, u), gridIndex(iNext, j, u)),
			)
		}
	}
	return triangles
}

// generateTriangleFan connects a center vertex to a closed ring of n vertices
// starting at rowStart
func generateTriangleFan(n, center, rowStart int) []Triangle {
	fan := make([]Triangle, 0, n)
	for i := 0; i < n; i++ {
		next := i + 1
		if next >= n {
			next = 0
		}
		fan = append(fan, NewTriangle(center, rowStart+i, rowStart+next))
	}
	return fan
}

// EndCaps describes the two center points used to close a tube
type EndCaps struct {
	BeginCenter core.Vec3
	EndCenter   core.Vec3
	BeginNormal core.Vec3
	EndNormal   core.Vec3
}

// AddTriangleFanEndCaps closes both ends of a tube of rows with rowPoints
// points each. The begin center is inserted as vertex 0 and the end center
// appended, existing triangle indices shift up by one, and a fan of
// rowPoints triangles is added at each end. The end fan is wound the other
// way so both caps face outward. Normals are only extended when non-nil.
func AddTriangleFanEndCaps(points, normals []core.Vec3, triangles []Triangle, rowPoints int, caps EndCaps) ([]core.Vec3, []core.Vec3, []Triangle, error) {
	originalCount := len(points)
	if rowPoints <= 0 || originalCount < rowPoints {
		return nil, nil, nil, fmt.Errorf("end caps need at least one row of %d points, have %d", rowPoints, originalCount)
	}
	if normals != nil && len(normals) != originalCount {
		return nil, nil, nil, fmt.Errorf("have %d normals for %d points", len(normals), originalCount)
	}

	outPoints := make([]core.Vec3, 0, originalCount+2)
	outPoints = append(outPoints, caps.BeginCenter)
	outPoints = append(outPoints, points...)
	outPoints = append(outPoints, caps.EndCenter)

	var outNormals []core.Vec3
	if normals != nil {
		outNormals = make([]core.Vec3, 0, originalCount+2)
		outNormals = append(outNormals, caps.BeginNormal)
		outNormals = append(outNormals, normals...)
		outNormals = append(outNormals, caps.EndNormal)
	}

	beginFan := generateTriangleFan(rowPoints, 0, 1)
	endFan := generateTriangleFan(rowPoints, originalCount+1, originalCount-rowPoints+1)

	outTriangles := make([]Triangle, 0, len(triangles)+2*rowPoints)
	outTriangles = append(outTriangles, beginFan...)
	for _, t := range triangles {
		outTriangles = append(outTriangles, t.Offset(1))
	}
	for _, t := range endFan {
		t.Vertex[0], t.Vertex[2] = t.Vertex[2], t.Vertex[0]
		outTriangles = append(outTriangles, t)
	}

	return outPoints, outNormals, outTriangles, nil
}

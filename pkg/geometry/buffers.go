package geometry

import (
	"math"

	"github.com/df07/go-scenegeom/pkg/core"
)

// minUVRange keeps flat axes from dividing by zero in AutoMapUV
const minUVRange = 0.00001

// VertexBuffers holds mesh data flattened into GPU-ready arrays
type VertexBuffers struct {
	Positions []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex; empty for flat meshes
	TexCoords []float32 // u, v per vertex
	Indices   []uint32  // three per triangle
}

// VertexCount returns the number of vertices in the buffers
func (vb VertexBuffers) VertexCount() int {
	return len(vb.Positions) / 3
}

// FlattenMesh copies a mesh into vertex buffers with planar texture coordinates
func FlattenMesh(mesh *TriangleMesh) VertexBuffers {
	vertices := mesh.Vertices()
	normals := mesh.VertexNormals()
	triangles := mesh.Triangles()

	vb := VertexBuffers{
		Positions: make([]float32, 0, len(vertices)*3),
		Normals:   make([]float32, 0, len(normals)*3),
		Indices:   make([]uint32, 0, len(triangles)*3),
	}
	for _, v := range vertices {
		vb.Positions = append(vb.Positions, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, n := range normals {
		vb.Normals = append(vb.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	for _, t := range triangles {
		vb.Indices = append(vb.Indices, uint32(t.Vertex[0]), uint32(t.Vertex[1]), uint32(t.Vertex[2]))
	}
	vb.TexCoords = AutoMapUV(vertices)
	return vb
}

// AutoMapUV projects vertices onto the plane of the two axes with the
// largest extent and normalizes both coordinates to [0, 1]
func AutoMapUV(vertices []core.Vec3) []float32 {
	if len(vertices) == 0 {
		return nil
	}

	box := core.NewAABBFromPoints(vertices...)
	size := box.Size()
	rng := [3]float64{
		math.Max(size.X, minUVRange),
		math.Max(size.Y, minUVRange),
		math.Max(size.Z, minUVRange),
	}

	// drop the axis with the smallest range
	uAxis, vAxis := 0, 1
	switch {
	case rng[0] <= rng[1] && rng[0] <= rng[2]:
		uAxis, vAxis = 1, 2
	case rng[1] <= rng[0] && rng[1] <= rng[2]:
		uAxis, vAxis = 0, 2
	}

	uvs := make([]float32, 0, len(vertices)*2)
	for _, v := range vertices {
		u := (v.Axis(uAxis) - box.Min.Axis(uAxis)) / rng[uAxis]
		w := (v.Axis(vAxis) - box.Min.Axis(vAxis)) / rng[vAxis]
		uvs = append(uvs, float32(u), float32(w))
	}
	return uvs
}

package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/material"
)

// box corners of a unit box centered at the origin
var boxCorners = [8]core.Vec3{
	{X: -1, Y: -1, Z: -1}, // 0: left-bottom-back
	{X: 1, Y: -1, Z: -1},  // 1: right-bottom-back
	{X: 1, Y: 1, Z: -1},   // 2: right-top-back
	{X: -1, Y: 1, Z: -1},  // 3: left-top-back
	{X: -1, Y: -1, Z: 1},  // 4: left-bottom-front
	{X: 1, Y: -1, Z: 1},   // 5: right-bottom-front
	{X: 1, Y: 1, Z: 1},    // 6: right-top-front
	{X: -1, Y: 1, Z: 1},   // 7: left-top-front
}

// two counter-clockwise triangles per face, seen from outside
var boxTriangles = []Triangle{
	NewTriangle(4, 5, 6), NewTriangle(4, 6, 7), // front (Z+)
	NewTriangle(1, 0, 3), NewTriangle(1, 3, 2), // back (Z-)
	NewTriangle(0, 4, 7), NewTriangle(0, 7, 3), // left (X-)
	NewTriangle(5, 1, 2), NewTriangle(5, 2, 6), // right (X+)
	NewTriangle(7, 6, 2), NewTriangle(7, 2, 3), // top (Y+)
	NewTriangle(0, 1, 5), NewTriangle(0, 5, 4), // bottom (Y-)
}

// NewBoxMesh creates an axis-aligned box of 12 triangles. halfSize holds the
// half extents, so (1,1,1) makes a 2x2x2 box. Normals are not computed.
func NewBoxMesh(ids *IDAllocator, center, halfSize core.Vec3, surface *material.Surface) (*TriangleMesh, error) {
	if !(halfSize.X > 0 && halfSize.Y > 0 && halfSize.Z > 0) {
		return nil, fmt.Errorf("box half size must be positive, got %v", halfSize)
	}

	vertices := make([]core.Vec3, len(boxCorners))
	for i, c := range boxCorners {
		vertices[i] = core.NewVec3(c.X*halfSize.X, c.Y*halfSize.Y, c.Z*halfSize.Z).Add(center)
	}

	mesh := NewTriangleMesh(ids, surface)
	if err := mesh.SetGeometry(vertices, boxTriangles); err != nil {
		return nil, err
	}
	return mesh, nil
}

// NewCylinderMesh creates a capped cylinder along +Z starting at base.
// The side is a grid of segments points around by rings points up, wrapped
// around the axis, and each end is closed with a triangle fan.
// Normals are not computed.
func NewCylinderMesh(ids *IDAllocator, base core.Vec3, radius, height float64, segments, rings int, surface *material.Surface) (*TriangleMesh, error) {
	if !(radius > 0) || !(height > 0) {
		return nil, fmt.Errorf("cylinder radius and height must be positive, got %g and %g", radius, height)
	}
	if segments < 3 || rings < 2 {
		return nil, fmt.Errorf("cylinder needs at least 3 segments and 2 rings, got %d and %d", segments, rings)
	}

	points := make([]core.Vec3, 0, segments*rings)
	for j := 0; j < rings; j++ {
		z := height * float64(j) / float64(rings-1)
		for i := 0; i < segments; i++ {
			// clockwise seen from +Z so the grid faces outward
			angle := -2 * math.Pi * float64(i) / float64(segments)
			points = append(points, base.Add(core.NewVec3(radius*math.Cos(angle), radius*math.Sin(angle), z)))
		}
	}

	side := GenerateTriangleIndexes(segments, rings, true)
	points, _, triangles, err := AddTriangleFanEndCaps(points, nil, side, segments, EndCaps{
		BeginCenter: base,
		EndCenter:   base.Add(core.NewVec3(0, 0, height)),
	})
	if err != nil {
		return nil, err
	}

	mesh := NewTriangleMesh(ids, surface)
	if err := mesh.SetGeometry(points, triangles); err != nil {
		return nil, err
	}
	return mesh, nil
}

// NewSphereMesh creates a latitude/longitude sphere. rings latitude circles
// of segments points each run from the south pole (-Z) to the north pole,
// and a triangle fan joins each pole to its nearest circle. The result has
// segments*rings+2 vertices and 2*segments*rings triangles.
// Normals are not computed.
func NewSphereMesh(ids *IDAllocator, center core.Vec3, radius float64, segments, rings int, surface *material.Surface) (*TriangleMesh, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	if segments < 3 || rings < 1 {
		return nil, fmt.Errorf("sphere needs at least 3 segments and 1 ring, got %d and %d", segments, rings)
	}

	points := make([]core.Vec3, 0, segments*rings)
	for j := 0; j < rings; j++ {
		lat := -math.Pi/2 + math.Pi*float64(j+1)/float64(rings+1)
		z := radius * math.Sin(lat)
		r := radius * math.Cos(lat)
		for i := 0; i < segments; i++ {
			// same winding as the cylinder side
			angle := -2 * math.Pi * float64(i) / float64(segments)
			points = append(points, center.Add(core.NewVec3(r*math.Cos(angle), r*math.Sin(angle), z)))
		}
	}

	band := GenerateTriangleIndexes(segments, rings, true)
	points, _, triangles, err := AddTriangleFanEndCaps(points, nil, band, segments, EndCaps{
		BeginCenter: center.Add(core.NewVec3(0, 0, -radius)),
		EndCenter:   center.Add(core.NewVec3(0, 0, radius)),
	})
	if err != nil {
		return nil, err
	}

	mesh := NewTriangleMesh(ids, surface)
	if err := mesh.SetGeometry(points, triangles); err != nil {
		return nil, err
	}
	return mesh, nil
}

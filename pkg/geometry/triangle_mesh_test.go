package geometry

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/loaders"
	"github.com/df07/go-scenegeom/pkg/material"
)

const quadSMF = `v 0.00000 0.00000 0.000000
v 0.00000 1.00000 0.000000
v 1.00000 1.00000 0.000000
v 1.00000 0.00000 0.000000
f 1 3 2
f 1 4 3
`

// pyramid with a square base; the apex is shared by four sides
const pyramidSMF = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0.5 0.5 1
f 1 2 5
f 2 3 5
f 3 4 5
f 4 1 5
`

func loadMesh(t *testing.T, smf string) *TriangleMesh {
	t.Helper()
	mesh := NewTriangleMesh(NewIDAllocator(), material.NewSurface())
	if err := mesh.LoadSMF(strings.NewReader(smf)); err != nil {
		t.Fatalf("Failed to load mesh: %v", err)
	}
	return mesh
}

func TestTriangleMesh_QuadHit(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	mesh.CalcNormals(true)

	ray := core.NewRay(core.NewVec3(0.6, 0.5, 1), core.NewVec3(0, 0, -1))
	hit, ok := mesh.Hit(ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got %v", hit.T)
	}
	if hit.Part != 1 {
		t.Errorf("Expected part 1, got %d", hit.Part)
	}
	if hit.Object != Object(mesh) {
		t.Error("Hit should reference the mesh")
	}
	if !hit.Point.NearlyEqual(core.NewVec3(0.6, 0.5, 0), 1e-9) {
		t.Errorf("Expected hit point [0.6, 0.5, 0], got %v", hit.Point)
	}
	if !hit.Normal.NearlyEqual(core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal [0, 0, 1], got %v", hit.Normal)
	}

	_, ok0, err := mesh.PartHit(ray, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	part1, ok1, err := mesh.PartHit(ray, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok0 || !ok1 {
		t.Errorf("Expected only part 1 to be hit, got part0=%v part1=%v", ok0, ok1)
	}
	if part1.T != hit.T || part1.Part != 1 {
		t.Errorf("PartHit should match Hit, got t=%v part=%d", part1.T, part1.Part)
	}
}

func TestTriangleMesh_QuadMiss(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	mesh.CalcNormals(true)

	ray := core.NewRay(core.NewVec3(-0.1, 0, 0), core.NewVec3(0, 0, -1))
	if _, ok := mesh.Hit(ray); ok {
		t.Error("Expected miss")
	}
	for part := 0; part < mesh.NumParts(); part++ {
		_, ok, err := mesh.PartHit(ray, part)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if ok {
			t.Errorf("Expected part %d to miss", part)
		}
	}
}

func TestTriangleMesh_HitCases(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	mesh.CalcNormals(true)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		part      int
	}{
		{"upper left triangle", core.NewRay(core.NewVec3(0.2, 0.7, 2), core.NewVec3(0, 0, -1)), true, 0},
		{"from below", core.NewRay(core.NewVec3(0.6, 0.5, -1), core.NewVec3(0, 0, 1)), true, 1},
		{"pointing away", core.NewRay(core.NewVec3(0.6, 0.5, 1), core.NewVec3(0, 0, 1)), false, 0},
		{"parallel to plane", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(1, 0, 0)), false, 0},
		{"origin on surface", core.NewRay(core.NewVec3(0.6, 0.5, 0), core.NewVec3(0, 0, -1)), false, 0},
		{"outside quad", core.NewRay(core.NewVec3(1.5, 0.5, 1), core.NewVec3(0, 0, -1)), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := mesh.Hit(tt.ray)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if ok && hit.Part != tt.part {
				t.Errorf("Expected part %d, got %d", tt.part, hit.Part)
			}
		})
	}
}

func TestTriangleMesh_NearestOfStackedTriangles(t *testing.T) {
	mesh := NewTriangleMesh(NewIDAllocator(), nil)
	vertices := []core.Vec3{
		core.NewVec3(0, 0, -2), core.NewVec3(1, 0, -2), core.NewVec3(0, 1, -2),
		core.NewVec3(0, 0, -1), core.NewVec3(1, 0, -1), core.NewVec3(0, 1, -1),
	}
	if err := mesh.SetGeometry(vertices, []Triangle{NewTriangle(0, 1, 2), NewTriangle(3, 4, 5)}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Part != 1 || math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("Expected nearest triangle 1 at t=1, got part %d t=%v", hit.Part, hit.T)
	}
	// normals were never computed; the geometric normal is used
	if !hit.Normal.NearlyEqual(core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected geometric normal, got %v", hit.Normal)
	}
}

func TestIntersectTriangle_Barycentric(t *testing.T) {
	v1 := core.NewVec3(0, 0, 0)
	v2 := core.NewVec3(2, 0, 0)
	v3 := core.NewVec3(0, 2, 0)

	tt, beta, gamma, ok := IntersectTriangle(core.NewRay(core.NewVec3(0.5, 1, 3), core.NewVec3(0, 0, -1)), v1, v2, v3)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(tt-3) > 1e-9 || math.Abs(beta-0.25) > 1e-9 || math.Abs(gamma-0.5) > 1e-9 {
		t.Errorf("Expected t=3 beta=0.25 gamma=0.5, got t=%v beta=%v gamma=%v", tt, beta, gamma)
	}

	// edge point is inside
	if _, _, _, ok := IntersectTriangle(core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, -1)), v1, v2, v3); !ok {
		t.Error("Expected hit on hypotenuse")
	}
	// parallel ray: zero determinant
	if _, _, _, ok := IntersectTriangle(core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(1, 0, 0)), v1, v2, v3); ok {
		t.Error("Expected miss for ray in the triangle plane")
	}
}

func TestTriangleMesh_SmoothNormals(t *testing.T) {
	mesh := loadMesh(t, pyramidSMF)
	if mesh.State() != MeshLoaded {
		t.Fatalf("Expected loaded state, got %v", mesh.State())
	}

	mesh.CalcNormals(false)
	if mesh.State() != MeshNormalsComputed {
		t.Fatalf("Expected normals computed, got %v", mesh.State())
	}
	if mesh.IsFlat() {
		t.Fatal("Smooth mesh should not be flat")
	}
	if len(mesh.VertexNormals()) != len(mesh.Vertices()) {
		t.Fatalf("Expected %d vertex normals, got %d", len(mesh.Vertices()), len(mesh.VertexNormals()))
	}
	if len(mesh.TriangleNormals()) != mesh.NumParts() {
		t.Fatalf("Expected %d triangle normals, got %d", mesh.NumParts(), len(mesh.TriangleNormals()))
	}

	for i, n := range mesh.VertexNormals() {
		if math.Abs(n.Length()-1) > 1e-9 {
			t.Errorf("Vertex normal %d not unit length: %v", i, n)
		}
	}
	// the apex is shared symmetrically, so its normal points straight up
	if apex := mesh.VertexNormals()[4]; !apex.NearlyEqual(core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected apex normal [0, 0, 1], got %v", apex)
	}

	// hitting right at the apex returns the apex normal
	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0.5, 0.5, 3), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit at apex")
	}
	if !hit.Normal.NearlyEqual(core.NewVec3(0, 0, 1), 1e-6) {
		t.Errorf("Expected interpolated normal near [0, 0, 1], got %v", hit.Normal)
	}

	mesh.CalcNormals(true)
	if !mesh.IsFlat() || len(mesh.VertexNormals()) != 0 {
		t.Error("Recomputing flat normals should drop vertex normals")
	}
	hit, ok = mesh.Hit(core.NewRay(core.NewVec3(0.5, -1, 0.25), core.NewVec3(0, 1, 0)))
	if !ok {
		t.Fatal("Expected hit on front face")
	}
	if !hit.Normal.NearlyEqual(mesh.TriangleNormals()[hit.Part], 0) {
		t.Errorf("Flat hit should use the triangle normal, got %v", hit.Normal)
	}
	if hit.Normal.Y >= 0 {
		t.Errorf("Front face normal should point toward -Y, got %v", hit.Normal)
	}
}

func TestTriangleMesh_Bounds(t *testing.T) {
	mesh := loadMesh(t, pyramidSMF)

	box := mesh.BoundingBox()
	if !box.Min.Equals(core.NewVec3(0, 0, 0)) || !box.Max.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Unexpected mesh bounds %v-%v", box.Min, box.Max)
	}

	partBox, err := mesh.PartBoundingBox(0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !partBox.Min.Equals(core.NewVec3(0, 0, 0)) || !partBox.Max.Equals(core.NewVec3(1, 0.5, 1)) {
		t.Errorf("Unexpected part bounds %v-%v", partBox.Min, partBox.Max)
	}

	union := core.AABB{Min: partBox.Min, Max: partBox.Max}
	for part := 1; part < mesh.NumParts(); part++ {
		b, err := mesh.PartBoundingBox(part)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		union.Union(b)
	}
	if !union.Equals(box) {
		t.Error("Union of part bounds should equal mesh bounds")
	}

	empty := NewTriangleMesh(NewIDAllocator(), nil)
	if !empty.BoundingBox().Equals(core.AABB{}) {
		t.Error("Empty mesh should have zero bounds")
	}
}

func TestTriangleMesh_Centroids(t *testing.T) {
	mesh := loadMesh(t, quadSMF)

	c, err := mesh.PartCentroid(0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !c.NearlyEqual(core.NewVec3(1.0/3.0, 2.0/3.0, 0), 1e-9) {
		t.Errorf("Expected centroid [1/3, 2/3, 0], got %v", c)
	}

	if _, err := mesh.Centroid(); !errors.Is(err, ErrCentroidUndefined) {
		t.Errorf("Expected ErrCentroidUndefined, got %v", err)
	}
}

func TestTriangleMesh_PartOutOfRange(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	ray := core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1))

	for _, part := range []int{-1, 2} {
		if _, _, err := mesh.PartHit(ray, part); !errors.Is(err, ErrPartOutOfRange) {
			t.Errorf("PartHit(%d): expected ErrPartOutOfRange, got %v", part, err)
		}
		if _, err := mesh.PartBoundingBox(part); !errors.Is(err, ErrPartOutOfRange) {
			t.Errorf("PartBoundingBox(%d): expected ErrPartOutOfRange, got %v", part, err)
		}
		if _, err := mesh.PartCentroid(part); !errors.Is(err, ErrPartOutOfRange) {
			t.Errorf("PartCentroid(%d): expected ErrPartOutOfRange, got %v", part, err)
		}
	}
}

func TestTriangleMesh_TransformPoints(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	originals := append([]core.Vec3(nil), mesh.Vertices()...)

	if err := mesh.TransformPoints(core.TranslationMatrix(core.NewVec3(0, -1, 0))); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range mesh.Vertices() {
		expected := originals[i].Add(core.NewVec3(0, -1, 0))
		if !v.NearlyEqual(expected, 1e-9) {
			t.Errorf("Vertex %d: expected %v, got %v", i, expected, v)
		}
	}

	if err := mesh.TransformPoints(core.Identity(3)); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestTriangleMesh_TransformRecomputesNormals(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	mesh.CalcNormals(true)

	if err := mesh.Transform(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(math.Pi/2, 0, 0)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.State() != MeshNormalsComputed || !mesh.IsFlat() {
		t.Fatalf("Expected flat normals to survive transform, state %v", mesh.State())
	}
	// rotating +Z by 90 degrees around X gives -Y
	for i, n := range mesh.TriangleNormals() {
		if !n.NearlyEqual(core.NewVec3(0, -1, 0), 1e-9) {
			t.Errorf("Triangle %d: expected normal [0, -1, 0], got %v", i, n)
		}
	}
}

func TestTriangleMesh_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		smf  string
		line int
	}{
		{"unknown tag", "v 0 0 0\nx 1 2 3\n", 2},
		{"bad number", "v 0 zero 0\n", 1},
		{"index zero", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"index beyond count", "v 0 0 0\nv 1 0 0\nf 1 2 3\nv 0 1 0\n", 3},
		{"vertex after face", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nv 1 1 0\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := loadMesh(t, quadSMF)
			err := mesh.LoadSMF(strings.NewReader(tt.smf))
			if !errors.Is(err, loaders.ErrMalformedMesh) {
				t.Fatalf("Expected ErrMalformedMesh, got %v", err)
			}
			var perr *loaders.ParseError
			if !errors.As(err, &perr) || perr.Line != tt.line {
				t.Errorf("Expected parse error on line %d, got %v", tt.line, err)
			}
			if mesh.State() != MeshEmpty || mesh.NumParts() != 0 {
				t.Error("Failed load should leave the mesh empty")
			}
		})
	}
}

func TestTriangleMesh_LoadSMFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.smf")
	if err := os.WriteFile(path, []byte(quadSMF), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	mesh := NewTriangleMesh(NewIDAllocator(), nil)
	if err := mesh.LoadSMFFile(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(mesh.Vertices()) != 4 || mesh.NumParts() != 2 {
		t.Errorf("Expected 4 vertices and 2 triangles, got %d and %d", len(mesh.Vertices()), mesh.NumParts())
	}
	if !mesh.Triangles()[0].Equals(NewTriangle(0, 2, 1)) || !mesh.Triangles()[1].Equals(NewTriangle(0, 3, 2)) {
		t.Errorf("Unexpected triangles %v", mesh.Triangles())
	}

	if err := mesh.LoadSMFFile(filepath.Join(t.TempDir(), "missing.smf")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestTriangleMesh_SetGeometryValidates(t *testing.T) {
	mesh := NewTriangleMesh(NewIDAllocator(), nil)
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	if err := mesh.SetGeometry(vertices, []Triangle{NewTriangle(0, 1, 3)}); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if mesh.State() != MeshEmpty {
		t.Error("Rejected geometry should not be applied")
	}

	if err := mesh.SetGeometry(vertices, []Triangle{NewTriangle(0, 1, 2)}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	vertices[0] = core.NewVec3(9, 9, 9)
	if mesh.Vertices()[0].Equals(vertices[0]) {
		t.Error("SetGeometry should copy its input")
	}
}

func TestTriangleMesh_R3Triangles(t *testing.T) {
	mesh := loadMesh(t, quadSMF)
	tris := mesh.R3Triangles()
	if len(tris) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(tris))
	}
	for i, tri := range mesh.Triangles() {
		for k, idx := range tri.Vertex {
			if got := core.Vec3FromR3(tris[i][k]); !got.Equals(mesh.Vertices()[idx]) {
				t.Errorf("Triangle %d corner %d: expected %v, got %v", i, k, mesh.Vertices()[idx], got)
			}
		}
	}
}

func TestTriangleMesh_LoadPLY(t *testing.T) {
	ply := `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`
	mesh := NewTriangleMesh(NewIDAllocator(), nil)
	if err := mesh.LoadPLY(strings.NewReader(ply)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.NumParts() != 2 || len(mesh.Vertices()) != 4 {
		t.Errorf("Expected 2 triangles over 4 vertices, got %d and %d", mesh.NumParts(), len(mesh.Vertices()))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "square.ply")
	if err := os.WriteFile(path, []byte(ply), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	fromFile := NewTriangleMesh(NewIDAllocator(), nil)
	if err := fromFile.LoadFile(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fromFile.State() != MeshLoaded || fromFile.NumParts() != 2 {
		t.Errorf("Expected loaded mesh with 2 triangles, got %v with %d", fromFile.State(), fromFile.NumParts())
	}

	if err := fromFile.LoadPLY(strings.NewReader("ply\nformat ascii 1.0\n")); !errors.Is(err, loaders.ErrMalformedMesh) {
		t.Errorf("Expected ErrMalformedMesh, got %v", err)
	}
	if fromFile.State() != MeshEmpty {
		t.Errorf("Failed load should leave the mesh empty, got %v", fromFile.State())
	}
}

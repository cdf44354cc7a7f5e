package geometry

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/loaders"
	"github.com/df07/go-scenegeom/pkg/material"
)

// MeshState tracks how far a mesh has been prepared
type MeshState int

const (
	MeshEmpty           MeshState = iota // no geometry
	MeshLoaded                           // vertices and triangles, no normals
	MeshNormalsComputed                  // flat or smooth normals available
)

func (s MeshState) String() string {
	switch s {
	case MeshEmpty:
		return "empty"
	case MeshLoaded:
		return "loaded"
	case MeshNormalsComputed:
		return "normals computed"
	}
	return fmt.Sprintf("MeshState(%d)", int(s))
}

// TriangleMesh is a divisible object made of indexed triangles.
// Each triangle is one part. Hit testing scans every triangle; an external
// acceleration structure can drive PartHit instead.
type TriangleMesh struct {
	Base
	vertices        []core.Vec3
	triangles       []Triangle
	vertexNormals   []core.Vec3 // one per vertex for smooth meshes, empty when flat
	triangleNormals []core.Vec3 // one per triangle once normals are computed
	normalsComputed bool
	logger          core.Logger
}

// NewTriangleMesh creates an empty mesh with an id from ids
func NewTriangleMesh(ids *IDAllocator, surface *material.Surface) *TriangleMesh {
	return &TriangleMesh{
		Base:   NewBase(ids, surface),
		logger: core.NopLogger{},
	}
}

// SetLogger sets where load and normal diagnostics go
func (tm *TriangleMesh) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	tm.logger = logger
}

func (tm *TriangleMesh) TypeName() string { return "TriangleMesh" }

// State reports the mesh's preparation stage
func (tm *TriangleMesh) State() MeshState {
	switch {
	case len(tm.vertices) == 0 && len(tm.triangles) == 0:
		return MeshEmpty
	case tm.normalsComputed:
		return MeshNormalsComputed
	default:
		return MeshLoaded
	}
}

func (tm *TriangleMesh) reset() {
	tm.vertices = nil
	tm.triangles = nil
	tm.vertexNormals = nil
	tm.triangleNormals = nil
	tm.normalsComputed = false
}

// LoadSMF replaces the mesh geometry with the contents of an SMF stream.
// On failure the mesh is left empty.
func (tm *TriangleMesh) LoadSMF(r io.Reader) error {
	data, err := loaders.ReadSMF(r, tm.logger)
	if err != nil {
		tm.reset()
		return err
	}
	tm.setMeshData(data)
	return nil
}

// LoadSMFFile replaces the mesh geometry with the contents of an SMF file.
// On failure the mesh is left empty.
func (tm *TriangleMesh) LoadSMFFile(filename string) error {
	data, err := loaders.LoadSMF(filename, tm.logger)
	if err != nil {
		tm.reset()
		return err
	}
	tm.setMeshData(data)
	return nil
}

// LoadPLY replaces the mesh geometry with the contents of a PLY stream.
// On failure the mesh is left empty.
func (tm *TriangleMesh) LoadPLY(r io.Reader) error {
	data, err := loaders.ReadPLY(r, tm.logger)
	if err != nil {
		tm.reset()
		return err
	}
	tm.setMeshData(data)
	return nil
}

// LoadFile loads an SMF or PLY file, chosen by extension.
// On failure the mesh is left empty.
func (tm *TriangleMesh) LoadFile(filename string) error {
	data, err := loaders.LoadMesh(filename, tm.logger)
	if err != nil {
		tm.reset()
		return err
	}
	tm.setMeshData(data)
	return nil
}

func (tm *TriangleMesh) setMeshData(data *loaders.MeshData) {
	tm.reset()
	tm.vertices = data.Vertices
	tm.triangles = make([]Triangle, len(data.Faces))
	for i, f := range data.Faces {
		tm.triangles[i] = Triangle{Vertex: f}
	}
}

// SetGeometry replaces the mesh geometry. Every triangle index must refer
// to one of the given vertices. Normals are discarded.
func (tm *TriangleMesh) SetGeometry(vertices []core.Vec3, triangles []Triangle) error {
	for i, t := range triangles {
		for _, idx := range t.Vertex {
			if idx < 0 || idx >= len(vertices) {
				return fmt.Errorf("triangle %d: vertex index %d with %d vertices: %w", i, idx, len(vertices), core.ErrIndexOutOfRange)
			}
		}
	}

	tm.reset()
	tm.vertices = append([]core.Vec3(nil), vertices...)
	tm.triangles = append([]Triangle(nil), triangles...)
	return nil
}

// TransformPoints applies a 4x4 homogeneous transform to every vertex.
// Normals computed earlier are recomputed with the same flat/smooth choice.
func (tm *TriangleMesh) TransformPoints(m *core.Matrix) error {
	if m.Rows() != 4 || m.Cols() != 4 {
		return &core.DimensionError{Op: "transform points", Rows: m.Rows(), Cols: m.Cols(), OtherRows: 4, OtherCols: 4}
	}

	transformed := make([]core.Vec3, len(tm.vertices))
	for i, v := range tm.vertices {
		p, err := core.TransformPoint(m, v)
		if err != nil {
			return err
		}
		transformed[i] = p
	}
	tm.vertices = transformed

	if tm.normalsComputed {
		tm.CalcNormals(tm.IsFlat())
	}
	return nil
}

// Transform scales, rotates (radians, X then Y then Z) and translates the mesh
func (tm *TriangleMesh) Transform(translate, scale, rotate core.Vec3) error {
	return tm.TransformPoints(core.CompositeTransform(translate, scale, rotate))
}

// CalcNormals computes one normal per triangle and, unless flat, one per
// vertex by summing the normals of adjacent triangles and normalizing.
// Degenerate triangles get a zero normal.
func (tm *TriangleMesh) CalcNormals(flat bool) {
	tm.vertexNormals = nil
	if !flat {
		tm.vertexNormals = make([]core.Vec3, len(tm.vertices))
	}
	tm.triangleNormals = make([]core.Vec3, len(tm.triangles))

	degenerate := 0
	for i, tri := range tm.triangles {
		n := TriangleNormal(tm.vertices[tri.Vertex[0]], tm.vertices[tri.Vertex[1]], tm.vertices[tri.Vertex[2]])
		if n.LengthSquared() == 0 {
			degenerate++
		}
		tm.triangleNormals[i] = n
		if !flat {
			for _, idx := range tri.Vertex {
				tm.vertexNormals[idx] = tm.vertexNormals[idx].Add(n)
			}
		}
	}

	for i := range tm.vertexNormals {
		tm.vertexNormals[i] = tm.vertexNormals[i].Normalize()
	}

	if degenerate > 0 {
		tm.logger.Printf("Warning: mesh %d has %d degenerate triangles\n", tm.ID(), degenerate)
	}
	tm.normalsComputed = true
}

// IsFlat reports whether the mesh has no per-vertex normals
func (tm *TriangleMesh) IsFlat() bool {
	return len(tm.vertexNormals) == 0
}

// Vertices returns the vertex positions. The slice must not be modified.
func (tm *TriangleMesh) Vertices() []core.Vec3 { return tm.vertices }

// Triangles returns the triangle list. The slice must not be modified.
func (tm *TriangleMesh) Triangles() []Triangle { return tm.triangles }

// VertexNormals returns the smooth normals, empty for flat meshes
func (tm *TriangleMesh) VertexNormals() []core.Vec3 { return tm.vertexNormals }

// TriangleNormals returns per-triangle normals, empty before CalcNormals
func (tm *TriangleMesh) TriangleNormals() []core.Vec3 { return tm.triangleNormals }

// R3Triangles exports the triangles as gonum spatial triangles
func (tm *TriangleMesh) R3Triangles() []r3.Triangle {
	out := make([]r3.Triangle, len(tm.triangles))
	for i, tri := range tm.triangles {
		for k, idx := range tri.Vertex {
			out[i][k] = tm.vertices[idx].R3()
		}
	}
	return out
}

func (tm *TriangleMesh) corners(part int) (core.Vec3, core.Vec3, core.Vec3) {
	tri := tm.triangles[part]
	return tm.vertices[tri.Vertex[0]], tm.vertices[tri.Vertex[1]], tm.vertices[tri.Vertex[2]]
}

// IntersectTriangle intersects a ray with triangle (v1, v2, v3) by solving
//
//	v1 + beta*(v2-v1) + gamma*(v3-v1) = origin + t*direction
//
// with Cramer's rule. It succeeds when the point lies inside the triangle
// (beta >= 0, gamma >= 0, beta+gamma <= 1) and t >= Epsilon.
//
// A ray parallel to the triangle's plane gives a zero determinant; the
// resulting infinities and NaNs fail the range checks, so it reports a miss.
func IntersectTriangle(ray core.Ray, v1, v2, v3 core.Vec3) (t, beta, gamma float64, ok bool) {
	// | a b c |
	// | d e f |
	// | g h i |
	a, b, c := v1.X-v2.X, v1.X-v3.X, ray.Direction.X
	d, e, f := v1.Y-v2.Y, v1.Y-v3.Y, ray.Direction.Y
	g, h, i := v1.Z-v2.Z, v1.Z-v3.Z, ray.Direction.Z

	eihf := e*i - f*h
	gfdi := f*g - d*i
	dheg := d*h - e*g

	invDet := 1.0 / (a*eihf + b*gfdi + c*dheg)

	rh := v1.Subtract(ray.Origin)

	beta = (rh.X*eihf + b*(f*rh.Z-rh.Y*i) + c*(rh.Y*h-e*rh.Z)) * invDet
	if !(beta >= 0) {
		return 0, 0, 0, false
	}

	gamma = (a*(rh.Y*i-f*rh.Z) + rh.X*gfdi + c*(d*rh.Z-rh.Y*g)) * invDet
	if !(gamma >= 0) || beta+gamma > 1 {
		return 0, 0, 0, false
	}

	t = (a*(e*rh.Z-rh.Y*h) + b*(rh.Y*g-d*rh.Z) + rh.X*dheg) * invDet
	if !(t >= core.Epsilon) {
		return 0, 0, 0, false
	}
	return t, beta, gamma, true
}

// normalAt returns the shading normal for a hit on part with the given
// barycentric weights. Before CalcNormals it falls back to the geometric
// normal of the triangle.
func (tm *TriangleMesh) normalAt(part int, beta, gamma float64) core.Vec3 {
	if !tm.normalsComputed {
		return TriangleNormal(tm.corners(part))
	}
	if tm.IsFlat() {
		return tm.triangleNormals[part]
	}

	tri := tm.triangles[part]
	alpha := 1.0 - beta - gamma
	n := tm.vertexNormals[tri.Vertex[0]].Multiply(alpha).
		Add(tm.vertexNormals[tri.Vertex[1]].Multiply(beta)).
		Add(tm.vertexNormals[tri.Vertex[2]].Multiply(gamma))
	return n.Normalize()
}

func (tm *TriangleMesh) hitInfo(ray core.Ray, part int, t, beta, gamma float64) HitInfo {
	return HitInfo{
		T:      t,
		Point:  ray.PointAt(t),
		Normal: tm.normalAt(part, beta, gamma),
		Object: tm,
		Part:   part,
		U:      beta,
		V:      gamma,
	}
}

// Hit returns the nearest triangle hit along the ray
func (tm *TriangleMesh) Hit(ray core.Ray) (HitInfo, bool) {
	best := -1
	var minT, minBeta, minGamma float64

	for part := range tm.triangles {
		v1, v2, v3 := tm.corners(part)
		t, beta, gamma, ok := IntersectTriangle(ray, v1, v2, v3)
		if ok && (best == -1 || t < minT) {
			best, minT, minBeta, minGamma = part, t, beta, gamma
		}
	}

	if best == -1 {
		return HitInfo{}, false
	}
	return tm.hitInfo(ray, best, minT, minBeta, minGamma), true
}

// NumParts returns the triangle count
func (tm *TriangleMesh) NumParts() int {
	return len(tm.triangles)
}

// PartHit tests the ray against a single triangle
func (tm *TriangleMesh) PartHit(ray core.Ray, part int) (HitInfo, bool, error) {
	if err := checkPart(part, len(tm.triangles)); err != nil {
		return HitInfo{}, false, err
	}
	v1, v2, v3 := tm.corners(part)
	t, beta, gamma, ok := IntersectTriangle(ray, v1, v2, v3)
	if !ok {
		return HitInfo{}, false, nil
	}
	return tm.hitInfo(ray, part, t, beta, gamma), true, nil
}

// BoundingBox returns the union of all triangle bounds. An empty mesh
// returns the zero box at the origin; callers merging boxes should skip
// meshes with no parts.
func (tm *TriangleMesh) BoundingBox() core.AABB {
	if len(tm.triangles) == 0 {
		return core.AABB{}
	}
	box := TriangleBounds(tm.corners(0))
	for part := 1; part < len(tm.triangles); part++ {
		box.Union(TriangleBounds(tm.corners(part)))
	}
	return box
}

// PartBoundingBox returns the bounds of one triangle
func (tm *TriangleMesh) PartBoundingBox(part int) (core.AABB, error) {
	if err := checkPart(part, len(tm.triangles)); err != nil {
		return core.AABB{}, err
	}
	return TriangleBounds(tm.corners(part)), nil
}

// PartCentroid returns the centroid of one triangle
func (tm *TriangleMesh) PartCentroid(part int) (core.Vec3, error) {
	if err := checkPart(part, len(tm.triangles)); err != nil {
		return core.Vec3{}, err
	}
	return TriangleCentroid(tm.corners(part)), nil
}

// Centroid always fails: a mesh is queried through its parts
func (tm *TriangleMesh) Centroid() (core.Vec3, error) {
	return core.Vec3{}, fmt.Errorf("%s %d: %w", tm.TypeName(), tm.ID(), ErrCentroidUndefined)
}

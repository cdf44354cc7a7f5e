package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/geometry"
	"github.com/df07/go-scenegeom/pkg/loaders"
	"github.com/df07/go-scenegeom/pkg/material"
)

// BuildFromConfig assembles a scene from a parsed description. Objects naming
// the same surface share one *material.Surface, and surfaces naming the same
// material share one *material.Material.
func BuildFromConfig(config *loaders.SceneConfig, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	s := New()

	camera, err := buildCamera(config.Camera)
	if err != nil {
		return nil, err
	}
	s.SetCamera(camera)

	for i, lc := range config.Lights {
		loc, err := lc.Location.Vec3()
		if err != nil {
			return nil, fmt.Errorf("lights[%d].location: %w", i, err)
		}
		color, err := lc.Color.Vec3()
		if err != nil {
			return nil, fmt.Errorf("lights[%d].color: %w", i, err)
		}
		s.AddLight(NewLight(loc, color))
	}

	materials, err := buildMaterials(config)
	if err != nil {
		return nil, err
	}
	surfaces, err := buildSurfaces(config.Surfaces, materials)
	if err != nil {
		return nil, err
	}
	lookup := func(name string) *material.Surface {
		if name == "" {
			return material.NewSurface()
		}
		return surfaces[name]
	}

	for i, mc := range config.Meshes {
		mesh, err := buildMesh(config, mc, lookup(mc.Surface), s.IDs(), logger)
		if err != nil {
			return nil, fmt.Errorf("meshes[%d] %s: %w", i, mc.Name, err)
		}
		if err := s.AddObject(mesh); err != nil {
			return nil, err
		}
		logger.Printf("Added mesh %q: %d triangles\n", mc.Name, mesh.NumParts())
	}

	for i, sc := range config.Spheres {
		sphere, err := buildSphere(sc, lookup(sc.Surface), s.IDs())
		if err != nil {
			return nil, fmt.Errorf("spheres[%d]: %w", i, err)
		}
		if err := s.AddObject(sphere); err != nil {
			return nil, err
		}
	}

	for i, bc := range config.Boxes {
		box, err := buildBox(bc, lookup(bc.Surface), s.IDs())
		if err != nil {
			return nil, fmt.Errorf("boxes[%d]: %w", i, err)
		}
		if err := s.AddObject(box); err != nil {
			return nil, err
		}
	}

	for i, cc := range config.Cylinders {
		cyl, err := buildCylinder(cc, lookup(cc.Surface), s.IDs())
		if err != nil {
			return nil, fmt.Errorf("cylinders[%d]: %w", i, err)
		}
		if err := s.AddObject(cyl); err != nil {
			return nil, err
		}
	}

	logger.Printf("Scene built: %d objects, %d lights\n", s.NumObjects(), len(s.Lights()))
	return s, nil
}

func buildCamera(cc loaders.CameraConfig) (*Camera, error) {
	eye, err := cc.Eye.Vec3()
	if err != nil {
		return nil, fmt.Errorf("camera.eye: %w", err)
	}
	dir, err := cc.ViewDirection.Vec3()
	if err != nil {
		return nil, fmt.Errorf("camera.view_direction: %w", err)
	}
	up, err := cc.ViewUp.Vec3()
	if err != nil {
		return nil, fmt.Errorf("camera.view_up: %w", err)
	}
	return NewCamera(eye, dir, up, cc.ImagePlaneDistance, degreesToRadians(cc.HorizontalAngleDeg)), nil
}

func buildMaterials(config *loaders.SceneConfig) (map[string]*material.Material, error) {
	materials := make(map[string]*material.Material, len(config.Materials))
	for name, mc := range config.Materials {
		var texture material.TextureSource
		if mc.Texture != "" {
			img, err := loaders.LoadImage(config.TexturePath(mc))
			if err != nil {
				return nil, fmt.Errorf("materials.%s: %w", name, err)
			}
			texture = img
		}
		materials[name] = material.NewMaterial(name, texture)
	}
	return materials, nil
}

// buildSurfaces creates one surface per name. Materials missing from
// materials are created bare and added to it.
func buildSurfaces(configs map[string]loaders.SurfaceConfig, materials map[string]*material.Material) (map[string]*material.Surface, error) {
	surfaces := make(map[string]*material.Surface, len(configs))
	for name, sc := range configs {
		surface, err := applySurfaceConfig(material.NewSurface(), sc)
		if err != nil {
			return nil, fmt.Errorf("surfaces.%s: %w", name, err)
		}
		if sc.Material != "" {
			m, ok := materials[sc.Material]
			if !ok {
				m = material.NewMaterial(sc.Material, nil)
				materials[sc.Material] = m
			}
			surface.SetMaterial(m)
		}
		surfaces[name] = surface
	}
	return surfaces, nil
}

// applySurfaceConfig overrides the fields set in sc. Color goes first so the
// individual colors can refine it.
func applySurfaceConfig(s *material.Surface, sc loaders.SurfaceConfig) (*material.Surface, error) {
	if sc.Color != nil {
		c, err := sc.Color.Vec3()
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		s.SetColor(c)
	}

	colors := []struct {
		name string
		v    loaders.Vec3Config
		dst  *core.Vec3
	}{
		{"diffuse_color", sc.DiffuseColor, &s.DiffuseColor},
		{"specular_color", sc.SpecularColor, &s.SpecularColor},
		{"ambient_color", sc.AmbientColor, &s.AmbientColor},
		{"transmission_color", sc.TransmissionColor, &s.TransmissionColor},
	}
	for _, c := range colors {
		v, err := c.v.Or(*c.dst)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = v
	}

	coeffs := []struct {
		src *float64
		dst *float64
	}{
		{sc.Diffuse, &s.DiffuseCoeff},
		{sc.Specular, &s.SpecularCoeff},
		{sc.Ambient, &s.AmbientCoeff},
		{sc.SpecularFactor, &s.SpecularFactor},
		{sc.Reflection, &s.ReflectionCoeff},
		{sc.Transmission, &s.TransmissionCoeff},
		{sc.IndexOfRefraction, &s.IndexOfRefraction},
	}
	for _, c := range coeffs {
		if c.src != nil {
			*c.dst = *c.src
		}
	}
	return s, nil
}

func buildMesh(config *loaders.SceneConfig, mc loaders.MeshConfig, surface *material.Surface, ids *geometry.IDAllocator, logger core.Logger) (*geometry.TriangleMesh, error) {
	mesh := geometry.NewTriangleMesh(ids, surface)
	mesh.SetLogger(logger)

	var err error
	if mc.File != "" {
		err = mesh.LoadFile(config.MeshPath(mc))
	} else {
		err = mesh.LoadSMF(strings.NewReader(mc.SMF))
	}
	if err != nil {
		return nil, err
	}

	translate, err := mc.Translate.Or(core.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	scale, err := mc.Scale.Or(core.NewVec3(1, 1, 1))
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	rotateDeg, err := mc.RotateDeg.Or(core.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("rotate_deg: %w", err)
	}
	rotate := core.NewVec3(degreesToRadians(rotateDeg.X), degreesToRadians(rotateDeg.Y), degreesToRadians(rotateDeg.Z))
	if err := mesh.Transform(translate, scale, rotate); err != nil {
		return nil, err
	}

	mesh.CalcNormals(mc.Flat)
	return mesh, nil
}

func buildBox(bc loaders.BoxConfig, surface *material.Surface, ids *geometry.IDAllocator) (*geometry.TriangleMesh, error) {
	center, err := bc.Center.Vec3()
	if err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	half, err := bc.HalfSize.Vec3()
	if err != nil {
		return nil, fmt.Errorf("half_size: %w", err)
	}
	box, err := geometry.NewBoxMesh(ids, center, half, surface)
	if err != nil {
		return nil, err
	}
	box.CalcNormals(bc.Flat)
	return box, nil
}

const (
	defaultCylinderSegments = 24
	defaultCylinderRings    = 2
	defaultSphereSegments   = 24
	defaultSphereRings      = 11
)

// buildSphere creates an analytic sphere, or a triangle mesh when the
// config asks for tessellation
func buildSphere(sc loaders.SphereConfig, surface *material.Surface, ids *geometry.IDAllocator) (geometry.Object, error) {
	center, err := sc.Center.Vec3()
	if err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	if !sc.Tessellate {
		return geometry.NewSphere(ids, center, sc.Radius, surface)
	}

	segments, rings := sc.Segments, sc.Rings
	if segments == 0 {
		segments = defaultSphereSegments
	}
	if rings == 0 {
		rings = defaultSphereRings
	}
	mesh, err := geometry.NewSphereMesh(ids, center, sc.Radius, segments, rings, surface)
	if err != nil {
		return nil, err
	}
	mesh.CalcNormals(sc.Flat)
	return mesh, nil
}

func buildCylinder(cc loaders.CylinderConfig, surface *material.Surface, ids *geometry.IDAllocator) (*geometry.TriangleMesh, error) {
	base, err := cc.Base.Vec3()
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	segments, rings := cc.Segments, cc.Rings
	if segments == 0 {
		segments = defaultCylinderSegments
	}
	if rings == 0 {
		rings = defaultCylinderRings
	}
	cyl, err := geometry.NewCylinderMesh(ids, base, cc.Radius, cc.Height, segments, rings, surface)
	if err != nil {
		return nil, err
	}
	cyl.CalcNormals(cc.Flat)
	return cyl, nil
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

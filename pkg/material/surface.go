package material

import (
	"fmt"
	"strings"

	"github.com/df07/go-scenegeom/pkg/core"
)

// AirIndexOfRefraction is the refractive index of air at standard conditions
const AirIndexOfRefraction = 1.00029

// TextureSource is an externally produced pixel buffer, such as a decoded
// image or a procedurally generated pattern. Pixels are row-major with
// Channels bytes per pixel.
type TextureSource interface {
	Width() int
	Height() int
	Channels() int
	Pixels() []byte
}

// Material is a named appearance shared between surfaces.
// Holders keep a pointer; changes made through one holder are seen by all.
type Material struct {
	Name    string
	Texture TextureSource // optional
}

// NewMaterial creates a material with an optional texture
func NewMaterial(name string, texture TextureSource) *Material {
	return &Material{Name: name, Texture: texture}
}

// HasTexture reports whether a texture is attached
func (m *Material) HasTexture() bool {
	return m != nil && m.Texture != nil
}

// Surface describes how an object reflects and transmits light.
// It carries no shading behavior; a shading stage reads these values.
//
// A *Surface may be attached to any number of objects. Mutating it through
// one object changes the appearance of every object holding the same
// pointer; use Clone for an independent copy.
type Surface struct {
	DiffuseColor      core.Vec3
	SpecularColor     core.Vec3
	AmbientColor      core.Vec3
	TransmissionColor core.Vec3

	DiffuseCoeff      float64
	SpecularCoeff     float64
	AmbientCoeff      float64
	SpecularFactor    float64 // Phong exponent
	ReflectionCoeff   float64
	TransmissionCoeff float64
	IndexOfRefraction float64

	material *Material
}

// NewSurface creates a white surface with mostly diffuse reflectance
func NewSurface() *Surface {
	white := core.NewVec3(1, 1, 1)
	return &Surface{
		DiffuseColor:      white,
		SpecularColor:     white,
		AmbientColor:      white,
		TransmissionColor: white,
		DiffuseCoeff:      0.8,
		SpecularCoeff:     0.1,
		AmbientCoeff:      0.1,
		SpecularFactor:    2.0,
		ReflectionCoeff:   0.1,
		TransmissionCoeff: 0.0,
		IndexOfRefraction: 1.0,
	}
}

// NewColoredSurface creates a default surface with all three shading colors set to color
func NewColoredSurface(color core.Vec3) *Surface {
	s := NewSurface()
	s.SetColor(color)
	return s
}

// SetColor sets the diffuse, specular and ambient colors at once
func (s *Surface) SetColor(color core.Vec3) {
	s.DiffuseColor = color
	s.SpecularColor = color
	s.AmbientColor = color
}

// SetMaterial attaches a shared material, or detaches with nil
func (s *Surface) SetMaterial(m *Material) {
	s.material = m
}

// Material returns the attached material, nil if none
func (s *Surface) Material() *Material {
	return s.material
}

// Clone returns a copy of the surface. The material, if any, stays shared.
func (s *Surface) Clone() *Surface {
	out := *s
	return &out
}

func (s *Surface) String() string {
	var sb strings.Builder
	sb.WriteString("surface[")
	fmt.Fprintf(&sb, "colors diffuse=%v ambient=%v specular=%v", s.DiffuseColor, s.AmbientColor, s.SpecularColor)
	fmt.Fprintf(&sb, " coeff diffuse=%g ambient=%g specular=%g", s.DiffuseCoeff, s.AmbientCoeff, s.SpecularCoeff)
	fmt.Fprintf(&sb, " specular factor=%g reflection=%g", s.SpecularFactor, s.ReflectionCoeff)
	if s.TransmissionCoeff > 0 {
		fmt.Fprintf(&sb, " transmission=%g ior=%g", s.TransmissionCoeff, s.IndexOfRefraction)
	}
	if s.material != nil {
		fmt.Fprintf(&sb, " material=%q", s.material.Name)
	}
	sb.WriteString("]")
	return sb.String()
}

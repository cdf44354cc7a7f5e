package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-scenegeom/pkg/core"
)

// Vec3Config is a vector written as a three element YAML sequence
type Vec3Config []float64

// Vec3 converts to a vector, failing unless there are exactly 3 components
func (v Vec3Config) Vec3() (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// Or returns the vector, or def when the field was left out
func (v Vec3Config) Or(def core.Vec3) (core.Vec3, error) {
	if v == nil {
		return def, nil
	}
	return v.Vec3()
}

// SceneConfig is the YAML description of a scene
type SceneConfig struct {
	Camera    CameraConfig              `yaml:"camera"`
	Lights    []LightConfig             `yaml:"lights"`
	Surfaces  map[string]SurfaceConfig  `yaml:"surfaces"`
	Materials map[string]MaterialConfig `yaml:"materials"`
	Meshes    []MeshConfig              `yaml:"meshes"`
	Spheres   []SphereConfig            `yaml:"spheres"`
	Boxes     []BoxConfig               `yaml:"boxes"`
	Cylinders []CylinderConfig          `yaml:"cylinders"`

	// BaseDir resolves relative mesh and texture paths; set by LoadSceneConfig
	BaseDir string `yaml:"-"`
}

// CameraConfig contains the viewpoint
type CameraConfig struct {
	Eye                Vec3Config `yaml:"eye"`
	ViewDirection      Vec3Config `yaml:"view_direction"`
	ViewUp             Vec3Config `yaml:"view_up"`
	ImagePlaneDistance float64    `yaml:"image_plane_distance"`
	HorizontalAngleDeg float64    `yaml:"horizontal_angle_deg"`
}

// LightConfig describes a point light
type LightConfig struct {
	Location Vec3Config `yaml:"location"`
	Color    Vec3Config `yaml:"color"`
}

// SurfaceConfig overrides surface defaults. Unset fields keep the default.
type SurfaceConfig struct {
	Color             Vec3Config `yaml:"color"` // sets diffuse, specular and ambient
	DiffuseColor      Vec3Config `yaml:"diffuse_color"`
	SpecularColor     Vec3Config `yaml:"specular_color"`
	AmbientColor      Vec3Config `yaml:"ambient_color"`
	TransmissionColor Vec3Config `yaml:"transmission_color"`

	Diffuse           *float64 `yaml:"diffuse"`
	Specular          *float64 `yaml:"specular"`
	Ambient           *float64 `yaml:"ambient"`
	SpecularFactor    *float64 `yaml:"specular_factor"`
	Reflection        *float64 `yaml:"reflection"`
	Transmission      *float64 `yaml:"transmission"`
	IndexOfRefraction *float64 `yaml:"index_of_refraction"`

	Material string `yaml:"material"` // shared material name, optional
}

// MaterialConfig describes a shared material. Surfaces may also name a
// material that is not listed here; it is created without a texture.
type MaterialConfig struct {
	Texture string `yaml:"texture"` // PNG or JPEG path, optional
}

// MeshConfig places a triangle mesh. Exactly one of File or SMF is set.
type MeshConfig struct {
	Name      string     `yaml:"name"`
	File      string     `yaml:"file"`
	SMF       string     `yaml:"smf"` // inline mesh text
	Surface   string     `yaml:"surface"`
	Flat      bool       `yaml:"flat"`
	Translate Vec3Config `yaml:"translate"`
	Scale     Vec3Config `yaml:"scale"`
	RotateDeg Vec3Config `yaml:"rotate_deg"`
}

// SphereConfig places a sphere. With Tessellate set it becomes a triangle
// mesh; zero Segments or Rings use the builder's defaults.
type SphereConfig struct {
	Center     Vec3Config `yaml:"center"`
	Radius     float64    `yaml:"radius"`
	Surface    string     `yaml:"surface"`
	Tessellate bool       `yaml:"tessellate"`
	Segments   int        `yaml:"segments"`
	Rings      int        `yaml:"rings"`
	Flat       bool       `yaml:"flat"`
}

// BoxConfig places an axis-aligned box mesh
type BoxConfig struct {
	Center   Vec3Config `yaml:"center"`
	HalfSize Vec3Config `yaml:"half_size"`
	Surface  string     `yaml:"surface"`
	Flat     bool       `yaml:"flat"`
}

// CylinderConfig places a capped cylinder mesh standing on Base along +Z.
// Zero Segments or Rings use the builder's defaults.
type CylinderConfig struct {
	Base     Vec3Config `yaml:"base"`
	Radius   float64    `yaml:"radius"`
	Height   float64    `yaml:"height"`
	Segments int        `yaml:"segments"`
	Rings    int        `yaml:"rings"`
	Surface  string     `yaml:"surface"`
	Flat     bool       `yaml:"flat"`
}

// DefaultSceneConfig creates a scene with a camera on +Z looking at the origin
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Camera: CameraConfig{
			Eye:                Vec3Config{0, 0, 5},
			ViewDirection:      Vec3Config{0, 0, -1},
			ViewUp:             Vec3Config{0, 1, 0},
			ImagePlaneDistance: 1.0,
			HorizontalAngleDeg: 60,
		},
		Surfaces:  map[string]SurfaceConfig{},
		Materials: map[string]MaterialConfig{},
	}
}

// ParseSceneConfig parses YAML on top of the defaults and validates the result
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	config := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing scene config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadSceneConfig reads a scene description. Relative mesh paths are
// resolved against the file's directory.
func LoadSceneConfig(filePath string) (*SceneConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}
	config, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	config.BaseDir = filepath.Dir(filePath)
	return config, nil
}

// SaveSceneConfig writes a scene description as YAML
func SaveSceneConfig(config *SceneConfig, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing scene config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing scene config: %w", err)
	}
	return nil
}

// MeshPath returns the mesh file path resolved against BaseDir
func (c *SceneConfig) MeshPath(m MeshConfig) string {
	return c.resolve(m.File)
}

// TexturePath returns the texture path resolved against BaseDir
func (c *SceneConfig) TexturePath(m MaterialConfig) string {
	return c.resolve(m.Texture)
}

func (c *SceneConfig) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

type namedVec struct {
	name string
	v    Vec3Config
}

// Validate checks vector sizes, references and required fields
func (c *SceneConfig) Validate() error {
	checks := []namedVec{
		{"camera.eye", c.Camera.Eye},
		{"camera.view_direction", c.Camera.ViewDirection},
		{"camera.view_up", c.Camera.ViewUp},
	}
	for i, l := range c.Lights {
		checks = append(checks,
			namedVec{fmt.Sprintf("lights[%d].location", i), l.Location},
			namedVec{fmt.Sprintf("lights[%d].color", i), l.Color},
		)
	}
	for _, chk := range checks {
		if _, err := chk.v.Vec3(); err != nil {
			return fmt.Errorf("%s: %w", chk.name, err)
		}
	}

	for name, s := range c.Surfaces {
		for field, v := range map[string]Vec3Config{
			"color":              s.Color,
			"diffuse_color":      s.DiffuseColor,
			"specular_color":     s.SpecularColor,
			"ambient_color":      s.AmbientColor,
			"transmission_color": s.TransmissionColor,
		} {
			if _, err := v.Or(core.Vec3{}); err != nil {
				return fmt.Errorf("surfaces.%s.%s: %w", name, field, err)
			}
		}
	}

	for i, m := range c.Meshes {
		if (m.File == "") == (m.SMF == "") {
			return fmt.Errorf("meshes[%d]: exactly one of file or smf is required", i)
		}
		if err := c.checkSurfaceRef(m.Surface); err != nil {
			return fmt.Errorf("meshes[%d]: %w", i, err)
		}
		for field, v := range map[string]Vec3Config{"translate": m.Translate, "scale": m.Scale, "rotate_deg": m.RotateDeg} {
			if _, err := v.Or(core.Vec3{}); err != nil {
				return fmt.Errorf("meshes[%d].%s: %w", i, field, err)
			}
		}
	}

	for i, s := range c.Spheres {
		if _, err := s.Center.Vec3(); err != nil {
			return fmt.Errorf("spheres[%d].center: %w", i, err)
		}
		if !(s.Radius > 0) {
			return fmt.Errorf("spheres[%d]: radius must be positive, got %g", i, s.Radius)
		}
		if s.Segments < 0 || s.Rings < 0 {
			return fmt.Errorf("spheres[%d]: segments and rings must not be negative", i)
		}
		if err := c.checkSurfaceRef(s.Surface); err != nil {
			return fmt.Errorf("spheres[%d]: %w", i, err)
		}
	}

	for i, b := range c.Boxes {
		for field, v := range map[string]Vec3Config{"center": b.Center, "half_size": b.HalfSize} {
			if _, err := v.Vec3(); err != nil {
				return fmt.Errorf("boxes[%d].%s: %w", i, field, err)
			}
		}
		if err := c.checkSurfaceRef(b.Surface); err != nil {
			return fmt.Errorf("boxes[%d]: %w", i, err)
		}
	}

	for i, cy := range c.Cylinders {
		if _, err := cy.Base.Vec3(); err != nil {
			return fmt.Errorf("cylinders[%d].base: %w", i, err)
		}
		if !(cy.Radius > 0) || !(cy.Height > 0) {
			return fmt.Errorf("cylinders[%d]: radius and height must be positive", i)
		}
		if cy.Segments < 0 || cy.Rings < 0 {
			return fmt.Errorf("cylinders[%d]: segments and rings must not be negative", i)
		}
		if err := c.checkSurfaceRef(cy.Surface); err != nil {
			return fmt.Errorf("cylinders[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *SceneConfig) checkSurfaceRef(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := c.Surfaces[name]; !ok {
		return fmt.Errorf("unknown surface %q", name)
	}
	return nil
}

package scene

import "github.com/df07/go-scenegeom/pkg/core"

// Light is a point light
type Light struct {
	Location core.Vec3
	Color    core.Vec3 // RGB
}

// NewLight creates a point light
func NewLight(location, color core.Vec3) *Light {
	return &Light{Location: location, Color: color}
}

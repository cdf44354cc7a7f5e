package scene

import (
	"fmt"

	"github.com/df07/go-scenegeom/pkg/core"
)

// Camera is a pinhole viewpoint. It only describes the view; ray generation
// belongs to the renderer that consumes the scene.
type Camera struct {
	Eye                core.Vec3 // eye point
	ViewDirection      core.Vec3 // view out direction
	ViewUp             core.Vec3
	ImagePlaneDistance float64
	HorizontalAngle    float64 // radians
}

// NewCamera creates a camera. The view and up directions are stored normalized.
func NewCamera(eye, viewDirection, viewUp core.Vec3, imagePlaneDistance, horizontalAngle float64) *Camera {
	return &Camera{
		Eye:                eye,
		ViewDirection:      viewDirection.Normalize(),
		ViewUp:             viewUp.Normalize(),
		ImagePlaneDistance: imagePlaneDistance,
		HorizontalAngle:    horizontalAngle,
	}
}

// CenterRay returns the ray through the middle of the image plane
func (c *Camera) CenterRay() core.Ray {
	return core.NewRay(c.Eye, c.ViewDirection)
}

func (c *Camera) String() string {
	return fmt.Sprintf("eye %v looking %v up %v, d=%g, angle=%g", c.Eye, c.ViewDirection, c.ViewUp, c.ImagePlaneDistance, c.HorizontalAngle)
}

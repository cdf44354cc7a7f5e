package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/material"
)

// Sphere is a solid object tested as a whole. It has no parts.
type Sphere struct {
	Base
	Center core.Vec3
	Radius float64
}

// NewSphere creates a sphere with an id from ids
func NewSphere(ids *IDAllocator, center core.Vec3, radius float64, surface *material.Surface) (*Sphere, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	return &Sphere{
		Base:   NewBase(ids, surface),
		Center: center,
		Radius: radius,
	}, nil
}

func (s *Sphere) TypeName() string { return "Sphere" }

// Hit returns the nearest intersection in front of the ray origin
func (s *Sphere) Hit(ray core.Ray) (HitInfo, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return HitInfo{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first
	root := (-halfB - sqrtD) / a
	if root < core.Epsilon {
		root = (-halfB + sqrtD) / a
		if root < core.Epsilon {
			return HitInfo{}, false
		}
	}

	point := ray.PointAt(root)
	return HitInfo{
		T:      root,
		Point:  point,
		Normal: point.Subtract(s.Center).Multiply(1.0 / s.Radius),
		Object: s,
		Part:   NoPart,
	}, true
}

// BoundingBox returns the axis-aligned box around the sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.AABB{Min: s.Center.Subtract(r), Max: s.Center.Add(r)}
}

func (s *Sphere) Centroid() (core.Vec3, error) {
	return s.Center, nil
}

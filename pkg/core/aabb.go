package core

import "fmt"

// AABB represents an axis-aligned bounding box.
// Min is component-wise <= Max; the constructors and Set enforce this and
// Union preserves it.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) (AABB, error) {
	var box AABB
	if err := box.Set(min, max); err != nil {
		return AABB{}, err
	}
	return box, nil
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = min.ComponentMin(point)
		max = max.ComponentMax(point)
	}

	return AABB{Min: min, Max: max}
}

// Set replaces both corners together so the ordering can be checked
func (aabb *AABB) Set(min, max Vec3) error {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return fmt.Errorf("min %v max %v: %w", min, max, ErrInvalidBounds)
	}
	aabb.Min = min
	aabb.Max = max
	return nil
}

// Intersect tests a ray against the box using the slab method.
// tNear is the largest per-axis entry distance and tFar the smallest exit
// distance; the ray hits when tFar >= tNear and tFar >= 0.
//
// Zero direction components are not special-cased: the division produces
// ±Inf, which yields the correct slab interval for rays parallel to an axis.
//
// A parallel ray whose origin lies exactly on a face plane gets 0/0 = NaN
// for that axis. On a min face the other bound is ±Inf, which wins inside
// lesser and greater, so the axis interval is empty and the ray misses. On a max
// face both entry and exit are NaN; lesser and greater drop a NaN first
// operand, so the NaN is ignored on X and Y and the ray can hit, while on Z
// it reaches tNear and tFar and the ray misses.
func (aabb AABB) Intersect(ray Ray) (hit bool, tNear, tFar float64) {
	d1 := aabb.Min.Subtract(ray.Origin)
	d2 := aabb.Max.Subtract(ray.Origin)

	var entry, exit [3]float64
	for axis := 0; axis < 3; axis++ {
		dir := ray.Direction.Axis(axis)
		t1 := d1.Axis(axis) / dir
		t2 := d2.Axis(axis) / dir
		entry[axis] = lesser(t1, t2)
		exit[axis] = greater(t1, t2)
	}

	tNear = greater(entry[0], greater(entry[1], entry[2]))
	tFar = lesser(exit[0], lesser(exit[1], exit[2]))

	return tFar >= tNear && tFar >= 0, tNear, tFar
}

// lesser and greater use plain comparisons rather than math.Min/Max,
// so a NaN first operand yields to the second.
func lesser(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func greater(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Union grows this box to also enclose other
func (aabb *AABB) Union(other AABB) {
	aabb.Min = aabb.Min.ComponentMin(other.Min)
	aabb.Max = aabb.Max.ComponentMax(other.Max)
}

// Unioned returns a box enclosing both this box and other
func (aabb AABB) Unioned(other AABB) AABB {
	aabb.Union(other)
	return aabb
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Contains reports whether a point lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Equals compares both corners exactly
func (aabb AABB) Equals(other AABB) bool {
	return aabb.Min.Equals(other.Min) && aabb.Max.Equals(other.Max)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

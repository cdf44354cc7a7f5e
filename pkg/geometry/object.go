package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/material"
)

var (
	// ErrCentroidUndefined is returned by objects whose aggregate centroid has no meaning
	ErrCentroidUndefined = errors.New("centroid undefined for object")
	// ErrPartOutOfRange is returned for a part index outside [0, NumParts)
	ErrPartOutOfRange = errors.New("part index out of range")
)

// ObjectID identifies an object within a scene. Valid ids are positive.
type ObjectID int32

// IDAllocator hands out increasing object ids starting at 1.
// Each scene owns one; it is not safe for concurrent use.
type IDAllocator struct {
	last ObjectID
}

// NewIDAllocator creates an allocator whose first id is 1
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh id
func (a *IDAllocator) Next() ObjectID {
	a.last++
	return a.last
}

// Object is anything placeable in a scene
type Object interface {
	ID() ObjectID
	TypeName() string

	// Surface returns the shared surface, nil when none is attached
	Surface() *material.Surface
	SetSurface(s *material.Surface)

	Hit(ray core.Ray) (HitInfo, bool)
	BoundingBox() core.AABB
	Centroid() (core.Vec3, error)
}

// Divisible is implemented by objects made of independently testable parts,
// such as the triangles of a mesh. An acceleration structure can bound and
// test each part without touching the rest of the object.
//
// Part methods are valid for every index in [0, NumParts) and return
// ErrPartOutOfRange otherwise. They never fall back to whole-object answers.
type Divisible interface {
	Object
	NumParts() int
	PartBoundingBox(part int) (core.AABB, error)
	PartCentroid(part int) (core.Vec3, error)
	PartHit(ray core.Ray, part int) (HitInfo, bool, error)
}

// AsDivisible returns the object's part interface if it has one
func AsDivisible(obj Object) (Divisible, bool) {
	d, ok := obj.(Divisible)
	return d, ok
}

// NumParts returns the part count, 0 for objects that are not divisible
func NumParts(obj Object) int {
	if d, ok := AsDivisible(obj); ok {
		return d.NumParts()
	}
	return 0
}

// Base carries the identity and surface common to every object.
// Concrete objects embed it.
type Base struct {
	id      ObjectID
	surface *material.Surface
}

// NewBase takes the next id from ids. The surface may be nil.
func NewBase(ids *IDAllocator, surface *material.Surface) Base {
	return Base{id: ids.Next(), surface: surface}
}

func (b *Base) ID() ObjectID { return b.id }

func (b *Base) Surface() *material.Surface { return b.surface }

func (b *Base) SetSurface(s *material.Surface) { b.surface = s }

func checkPart(part, count int) error {
	if part < 0 || part >= count {
		return fmt.Errorf("part %d of %d: %w", part, count, ErrPartOutOfRange)
	}
	return nil
}

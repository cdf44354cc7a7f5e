package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/geometry"
)

// ErrDuplicateObject is returned when an object id is already in the scene
var ErrDuplicateObject = errors.New("object already in scene")

// Scene owns the camera, the objects keyed by id, and the lights in insertion
// order. It assumes a single writer; concurrent reads are fine while nothing
// is being added or removed.
type Scene struct {
	ids     *geometry.IDAllocator
	camera  *Camera
	objects map[geometry.ObjectID]geometry.Object
	lights  []*Light
}

// New creates an empty scene with its own id allocator
func New() *Scene {
	return &Scene{
		ids:     geometry.NewIDAllocator(),
		objects: make(map[geometry.ObjectID]geometry.Object),
	}
}

// IDs returns the allocator objects for this scene should be created with
func (s *Scene) IDs() *geometry.IDAllocator {
	return s.ids
}

// SetCamera replaces the camera
func (s *Scene) SetCamera(c *Camera) {
	s.camera = c
}

// Camera returns the camera, nil when none was set
func (s *Scene) Camera() *Camera {
	return s.camera
}

// AddObject takes ownership of obj
func (s *Scene) AddObject(obj geometry.Object) error {
	if obj == nil {
		return errors.New("cannot add nil object")
	}
	if _, exists := s.objects[obj.ID()]; exists {
		return fmt.Errorf("%w: id %d", ErrDuplicateObject, obj.ID())
	}
	s.objects[obj.ID()] = obj
	return nil
}

// DeleteObject removes obj if it is the object stored under its id
func (s *Scene) DeleteObject(obj geometry.Object) bool {
	if obj == nil {
		return false
	}
	if found, ok := s.objects[obj.ID()]; !ok || found != obj {
		return false
	}
	delete(s.objects, obj.ID())
	return true
}

// DeleteObjectByID removes the object with the given id
func (s *Scene) DeleteObjectByID(id geometry.ObjectID) bool {
	if _, ok := s.objects[id]; !ok {
		return false
	}
	delete(s.objects, id)
	return true
}

// FindObject looks up an object by id
func (s *Scene) FindObject(id geometry.ObjectID) (geometry.Object, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// NumObjects returns the number of objects in the scene
func (s *Scene) NumObjects() int {
	return len(s.objects)
}

// RunOnObjects calls fn on every object in ascending id order.
// fn must not add or remove objects.
func (s *Scene) RunOnObjects(fn func(geometry.Object)) {
	ids := make([]geometry.ObjectID, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(s.objects[id])
	}
}

// AddLight appends a light. The same light may be added more than once.
func (s *Scene) AddLight(l *Light) {
	s.lights = append(s.lights, l)
}

// DeleteLight removes the first occurrence of l
func (s *Scene) DeleteLight(l *Light) bool {
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return true
		}
	}
	return false
}

// Lights returns the lights in insertion order
func (s *Scene) Lights() []*Light {
	return s.lights
}

// Hit tests the ray against every object and accumulates the hits.
// There is no acceleration structure; each object is tested in id order.
func (s *Scene) Hit(ray core.Ray) geometry.ShadingInfo {
	var info geometry.ShadingInfo
	s.RunOnObjects(func(obj geometry.Object) {
		if hit, ok := obj.Hit(ray); ok {
			info.AddHit(hit)
		}
	})
	return info
}

// Bounds returns the union of all object bounding boxes. Divisible objects
// with no parts, such as a mesh that was never loaded, have no extent and are
// skipped. ok is false when nothing contributed.
func (s *Scene) Bounds() (box core.AABB, ok bool) {
	s.RunOnObjects(func(obj geometry.Object) {
		if d, divisible := geometry.AsDivisible(obj); divisible && d.NumParts() == 0 {
			return
		}
		if !ok {
			box = obj.BoundingBox()
			ok = true
			return
		}
		box.Union(obj.BoundingBox())
	})
	return box, ok
}

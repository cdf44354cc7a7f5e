package geometry

import (
	"errors"

	"github.com/df07/go-scenegeom/pkg/core"
)

// NoPart marks a hit on an object that is not split into parts
const NoPart = -1

// ErrNoHit is returned when querying a ShadingInfo that has recorded nothing
var ErrNoHit = errors.New("no hit recorded")

// HitInfo describes one ray intersection
type HitInfo struct {
	T      float64   // Parameter t along the ray
	Point  core.Vec3 // World-space hit point
	Normal core.Vec3 // Unit surface normal at the hit
	Object Object    // Object that was hit
	Part   int       // Part index, or NoPart
	U, V   float64   // Surface coordinates; barycentric beta/gamma for triangles
}

// ShadingInfo accumulates the hits found for one ray
type ShadingInfo struct {
	hasHit  bool
	latest  HitInfo
	closest HitInfo
}

// AddHit records h as the latest hit, and as the closest if nothing
// closer has been seen
func (s *ShadingInfo) AddHit(h HitInfo) {
	s.latest = h
	if !s.hasHit || h.T < s.closest.T {
		s.closest = h
	}
	s.hasHit = true
}

// HasHit reports whether any hit has been recorded
func (s *ShadingInfo) HasHit() bool {
	return s.hasHit
}

func (s *ShadingInfo) LatestHit() (HitInfo, error) {
	if !s.hasHit {
		return HitInfo{}, ErrNoHit
	}
	return s.latest, nil
}

func (s *ShadingInfo) ClosestHit() (HitInfo, error) {
	if !s.hasHit {
		return HitInfo{}, ErrNoHit
	}
	return s.closest, nil
}

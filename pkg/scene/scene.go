package scene

import (
	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/geometry"
	"github.com/pvera/blocktracer/pkg/lights"
)

// Scene owns the surfaces and local lights for the duration of a frame.
// It must only be mutated between frames; during a render every worker
// reads it concurrently without locking.
type Scene struct {
	Shapes      []geometry.Shape
	PointLights []lights.Point
}

// New creates an empty scene
func New() *Scene {
	return &Scene{}
}

// Add appends surfaces to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddPointLight appends a local light source to the scene
func (s *Scene) AddPointLight(light lights.Point) {
	s.PointLights = append(s.PointLights, light)
}

// ClosestHit returns the nearest intersection along the ray, if any.
// A linear scan is enough at diorama scale; the contract would be
// unchanged if a bounding-volume hierarchy were added underneath.
func (s *Scene) ClosestHit(ray core.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	var closest *geometry.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, closest != nil
}

// IsOccluded reports whether any surface blocks the segment from the
// given point toward direction, up to maxDistance. The caller is
// responsible for offsetting the point off its originating surface; the
// origin surface itself is not excluded, so concave geometry can shadow
// itself.
func (s *Scene) IsOccluded(point, direction core.Vec3, maxDistance float64) bool {
	shadowRay := core.NewRay(point, direction)
	for _, shape := range s.Shapes {
		if _, isHit := shape.Hit(shadowRay, 1e-9, maxDistance); isHit {
			return true
		}
	}
	return false
}

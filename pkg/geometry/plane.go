package geometry

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal vector
	Material material.Material
}

// NewPlane creates a new plane. The normal is normalized on construction.
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Material: mat}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Rays parallel to the plane (and degenerate zero normals) never hit
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hit := &HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: &p.Material,
	}
	hit.SetFaceNormal(ray, p.Normal)

	return hit, true
}

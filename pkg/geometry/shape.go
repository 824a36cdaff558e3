package geometry

import (
	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/material"
)

// HitRecord contains information about a ray-surface intersection
type HitRecord struct {
	Point     core.Vec3          // Point of intersection
	Normal    core.Vec3          // Unit surface normal, always opposing the ray
	T         float64            // Parameter t along the ray
	FrontFace bool               // Whether the ray hit the front (outward) face
	Material  *material.Material // Material of the surface that was hit
}

// SetFaceNormal sets the normal vector and determines front/back face.
// The outward normal must be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape is a surface that can be intersected by rays. Hit returns the
// closest intersection with t in [tMin, tMax], or false if there is none.
// Degenerate shapes and rays never fail; they simply report no hit.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
}

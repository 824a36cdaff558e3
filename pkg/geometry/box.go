package geometry

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/material"
)

// Box represents an axis-aligned box between two corner points
type Box struct {
	Min      core.Vec3
	Max      core.Vec3
	Material material.Material
}

// NewBox creates a new axis-aligned box from its corner points
func NewBox(min, max core.Vec3, mat material.Material) *Box {
	return &Box{Min: min, Max: max, Material: mat}
}

// NewCube creates an axis-aligned cube centered at the given point
func NewCube(center core.Vec3, size float64, mat material.Material) *Box {
	half := core.NewVec3(size/2, size/2, size/2)
	return NewBox(center.Subtract(half), center.Add(half), mat)
}

// Center returns the center point of the box
func (b *Box) Center() core.Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Hit tests if a ray intersects with the box using the slab method.
// Rays starting inside the box hit the exit face with an inward-facing
// normal (set via SetFaceNormal), so hollow interiors shade correctly.
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	enterAxis := -1
	exitAxis := -1

	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, direction float64
		switch axis {
		case 0:
			lo, hi, origin, direction = b.Min.X, b.Max.X, ray.Origin.X, ray.Direction.X
		case 1:
			lo, hi, origin, direction = b.Min.Y, b.Max.Y, ray.Origin.Y, ray.Direction.Y
		case 2:
			lo, hi, origin, direction = b.Min.Z, b.Max.Z, ray.Origin.Z, ray.Direction.Z
		}

		if math.Abs(direction) < 1e-12 {
			// Ray is parallel to this slab
			if origin < lo || origin > hi {
				return nil, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tNear {
			tNear = t1
			enterAxis = axis
		}
		if t2 < tFar {
			tFar = t2
			exitAxis = axis
		}
		if tNear > tFar {
			return nil, false
		}
	}

	t := tNear
	axis := enterAxis
	if t < tMin || axis < 0 {
		// Entry face is behind the ray, try the exit face
		t = tFar
		axis = exitAxis
	}
	if axis < 0 || t < tMin || t > tMax {
		return nil, false
	}

	hit := &HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: &b.Material,
	}
	hit.SetFaceNormal(ray, b.outwardNormal(hit.Point, axis))

	return hit, true
}

// outwardNormal returns the unit normal of the face the point lies on,
// pointing away from the box center.
func (b *Box) outwardNormal(point core.Vec3, axis int) core.Vec3 {
	center := b.Center()
	var normal core.Vec3
	sign := 1.0
	switch axis {
	case 0:
		if point.X < center.X {
			sign = -1
		}
		normal = core.NewVec3(sign, 0, 0)
	case 1:
		if point.Y < center.Y {
			sign = -1
		}
		normal = core.NewVec3(0, sign, 0)
	case 2:
		if point.Z < center.Z {
			sign = -1
		}
		normal = core.NewVec3(0, 0, sign)
	}
	return normal
}

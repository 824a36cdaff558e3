package scene

import (
	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/geometry"
	"github.com/pvera/blocktracer/pkg/lights"
	"github.com/pvera/blocktracer/pkg/material"
)

// NewShowcase builds a small material test scene: a ground plane with a
// diffuse, a mirror and a glass sphere, lit by one warm point light.
// Useful for eyeballing reflection and refraction changes.
func NewShowcase() *Scene {
	s := New()

	ground := material.New(core.NewVec3(0.5, 0.5, 0.5))
	matte := material.New(core.NewVec3(0.7, 0.3, 0.3)).WithSpecular(0.3, 32)
	mirror := material.New(core.NewVec3(0.95, 0.95, 0.95)).WithReflectivity(0.9)
	glass := material.New(core.NewVec3(0.9, 0.95, 1.0)).
		WithTransparency(0.9, 1.5).
		WithSpecular(0.8, 128)

	s.Add(
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), ground),
		geometry.NewSphere(core.NewVec3(-2.2, 1, 0), 1.0, matte),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, mirror),
		geometry.NewSphere(core.NewVec3(2.2, 1, 0), 1.0, glass),
	)

	s.AddPointLight(lights.NewPoint(
		core.NewVec3(0, 6, 3),
		core.NewVec3(1.0, 0.9, 0.8),
		3.0,
		30.0,
	))

	return s
}

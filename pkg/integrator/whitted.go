package integrator

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/lights"
	"github.com/pvera/blocktracer/pkg/scene"
)

// DefaultMaxDepth bounds the reflection/refraction recursion
const DefaultMaxDepth = 8

// surfaceEpsilon offsets secondary ray origins off their originating
// surface. Without it floating-point error re-intersects the surface a
// ray just left, producing shadow acne and black speckles.
const surfaceEpsilon = 1e-3

// Whitted is a recursive Whitted-style integrator: direct Blinn-Phong
// lighting with shadow rays, plus mirror reflection and refraction up to
// a fixed depth. It holds read-only references for one frame and is safe
// for concurrent use by multiple workers.
type Whitted struct {
	scene    *scene.Scene
	env      environment.Snapshot
	sun      lights.Directional
	maxDepth int
}

// NewWhitted creates an integrator for one frame. A negative maxDepth is
// clamped to zero, which disables all secondary rays.
func NewWhitted(s *scene.Scene, env environment.Snapshot, maxDepth int) *Whitted {
	return &Whitted{
		scene:    s,
		env:      env,
		sun:      lights.NewDirectional(env.SunDirection, env.SunColor, env.SunIntensity),
		maxDepth: max(0, maxDepth),
	}
}

// Trace returns the color seen along the ray. Callers start at depth 0;
// recursive reflection and refraction rays increment it. Once the depth
// budget is exhausted, or when the ray escapes the scene, the procedural
// sky color for the ray direction is returned.
func (w *Whitted) Trace(ray core.Ray, depth int) core.Vec3 {
	if depth > w.maxDepth {
		return w.env.Sky(ray.Direction)
	}

	hit, isHit := w.scene.ClosestHit(ray, surfaceEpsilon, math.Inf(1))
	if !isHit {
		return w.env.Sky(ray.Direction)
	}

	mat := hit.Material
	unitDir := ray.Direction.Normalize()
	viewDir := unitDir.Negate()

	// Secondary rays start slightly off the surface: reflection and
	// shadow rays on the outside, refraction rays on the inside.
	outsidePoint := hit.Point.Add(hit.Normal.Multiply(surfaceEpsilon))
	insidePoint := hit.Point.Subtract(hit.Normal.Multiply(surfaceEpsilon))

	// Direct lighting: ambient plus every unoccluded light. The diffuse
	// sum is modulated by albedo, specular highlights are added on top,
	// and emission is always visible.
	diffuse := w.env.AmbientColor
	var specular core.Vec3

	w.eachLight(func(light lights.Light) {
		dir, lightColor, distance, ok := light.Illuminate(outsidePoint)
		if !ok || w.scene.IsOccluded(outsidePoint, dir, distance) {
			return
		}
		d, s := mat.Light(hit.Normal, dir, viewDir, lightColor)
		diffuse = diffuse.Add(d)
		specular = specular.Add(s)
	})

	color := diffuse.MultiplyVec(mat.Albedo).Add(specular).Add(mat.Emissive)

	cosTheta := math.Abs(viewDir.Dot(hit.Normal))
	fresnel := mat.Fresnel(cosTheta)

	// Mirror reflection. Transparent materials reflect at least their
	// Fresnel share, which makes glass and water edges light up at
	// grazing angles.
	if mat.Reflectivity > 0 || mat.Transparency > 0 {
		reflectivity := mat.Reflectivity
		if mat.Transparency > 0 {
			reflectivity = max(fresnel, mat.Reflectivity)
		}
		if reflectivity > 0 {
			reflectDir := unitDir.Reflect(hit.Normal)
			reflected := w.Trace(core.NewRay(outsidePoint, reflectDir), depth+1)
			color = color.Multiply(1 - reflectivity).Add(reflected.Multiply(reflectivity))
		}
	}

	// Refraction. The hit normal always opposes the ray, so entering and
	// exiting the volume only differ in the index ratio. Total internal
	// reflection substitutes the reflected ray.
	if mat.Transparency > 0 {
		eta := 1.0 / mat.RefractiveIndex
		if !hit.FrontFace {
			eta = mat.RefractiveIndex
		}

		var transmitted core.Vec3
		if refractDir, ok := unitDir.Refract(hit.Normal, eta); ok {
			transmitted = w.Trace(core.NewRay(insidePoint, refractDir), depth+1)
		} else {
			reflectDir := unitDir.Reflect(hit.Normal)
			transmitted = w.Trace(core.NewRay(outsidePoint, reflectDir), depth+1)
		}

		amount := mat.Transparency * (1 - fresnel)
		color = color.Multiply(1 - amount).Add(transmitted.Multiply(amount))
	}

	return color.Clamp(0, 1)
}

// eachLight visits the celestial light followed by the scene's point
// lights, avoiding a per-ray slice allocation.
func (w *Whitted) eachLight(visit func(lights.Light)) {
	visit(w.sun)
	for i := range w.scene.PointLights {
		visit(w.scene.PointLights[i])
	}
}

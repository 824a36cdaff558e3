package material

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
)

// Material describes the optical properties of a surface as one concrete
// record. There is no material hierarchy: the integrator reads the weight
// fields directly. Reflectivity and Transparency each lie in [0,1]; they
// need not sum to 1, the remainder is the diffuse weight.
type Material struct {
	Albedo          core.Vec3 // Base diffuse color
	Specular        float64   // Specular intensity (0 = none, 1 = full)
	Shininess       float64   // Blinn-Phong exponent (higher = sharper highlights)
	Reflectivity    float64   // Mirror reflection weight in [0,1]
	Transparency    float64   // Refraction weight in [0,1]
	RefractiveIndex float64   // Index of refraction, >= 1
	Emissive        core.Vec3 // Emitted color, zero if non-emissive
}

// New creates a plain diffuse material with the given albedo
func New(albedo core.Vec3) Material {
	return Material{
		Albedo:          albedo,
		Shininess:       32,
		RefractiveIndex: 1,
	}
}

// WithSpecular sets the Blinn-Phong specular intensity and exponent
func (m Material) WithSpecular(specular, shininess float64) Material {
	m.Specular = max(0, specular)
	m.Shininess = max(1, shininess)
	return m
}

// WithReflectivity sets the mirror reflection weight, clamped to [0,1]
func (m Material) WithReflectivity(reflectivity float64) Material {
	m.Reflectivity = max(0, min(1, reflectivity))
	return m
}

// WithTransparency sets the refraction weight, clamped to [0,1], and the
// refractive index, clamped to >= 1
func (m Material) WithTransparency(transparency, refractiveIndex float64) Material {
	m.Transparency = max(0, min(1, transparency))
	m.RefractiveIndex = max(1, refractiveIndex)
	return m
}

// WithEmissive sets the emitted color
func (m Material) WithEmissive(emissive core.Vec3) Material {
	m.Emissive = emissive
	return m
}

// IsEmissive reports whether the material emits light on its own
func (m Material) IsEmissive() bool {
	return m.Emissive.X > 0 || m.Emissive.Y > 0 || m.Emissive.Z > 0
}

// Light evaluates the Lambertian diffuse and Blinn-Phong specular
// contribution of a single light. The normal and lightDir must be unit
// vectors, viewDir points from the hit point toward the camera. The
// diffuse term is returned unmodulated by albedo so the caller can fold
// ambient light into the same product.
func (m Material) Light(normal, lightDir, viewDir, lightColor core.Vec3) (diffuse, specular core.Vec3) {
	cos := normal.Dot(lightDir)
	if cos <= 0 {
		return core.Vec3{}, core.Vec3{}
	}
	diffuse = lightColor.Multiply(cos)

	if m.Specular > 0 {
		halfway := lightDir.Add(viewDir).Normalize()
		strength := math.Pow(max(0, normal.Dot(halfway)), m.Shininess)
		specular = lightColor.Multiply(m.Specular * strength)
	}
	return diffuse, specular
}

// Fresnel returns the Schlick approximation of the reflectance for the
// given cosine of the view angle. Non-refractive materials use a base
// reflectance of 0.04.
func (m Material) Fresnel(cosTheta float64) float64 {
	r0 := 0.04
	if m.RefractiveIndex > 1 {
		r := (1 - m.RefractiveIndex) / (1 + m.RefractiveIndex)
		r0 = r * r
	}
	c := max(0, min(1, cosTheta))
	return r0 + (1-r0)*math.Pow(1-c, 5)
}

package lights

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
)

// Light is a source of direct illumination. Illuminate returns the unit
// direction from the point toward the light, the attenuated light color,
// and the distance to the light (+Inf for directional lights). ok is
// false when the light cannot reach the point at all.
type Light interface {
	Illuminate(point core.Vec3) (direction, color core.Vec3, distance float64, ok bool)
}

// Directional is an infinitely distant light, such as the sun. Direction
// is the direction the light travels, not the direction toward it.
type Directional struct {
	Direction core.Vec3
	Color     core.Vec3
	Intensity float64
}

// NewDirectional creates a directional light. The direction is
// normalized on construction.
func NewDirectional(direction, color core.Vec3, intensity float64) Directional {
	return Directional{
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// Illuminate implements Light. Directional lights have no falloff.
func (d Directional) Illuminate(point core.Vec3) (core.Vec3, core.Vec3, float64, bool) {
	if d.Intensity <= 0 {
		return core.Vec3{}, core.Vec3{}, 0, false
	}
	return d.Direction.Negate(), d.Color.Multiply(d.Intensity), math.Inf(1), true
}

// Point is a local light with quadratic distance attenuation and a
// maximum reach radius.
type Point struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64
	Radius    float64 // Maximum distance the light can reach
}

// NewPoint creates a point light
func NewPoint(position, color core.Vec3, intensity, radius float64) Point {
	return Point{Position: position, Color: color, Intensity: intensity, Radius: radius}
}

// Illuminate implements Light. Attenuation is 1/(1 + 0.5*d²); the
// denominator can never reach zero, so there is no singularity at the
// light's own position.
func (p Point) Illuminate(point core.Vec3) (core.Vec3, core.Vec3, float64, bool) {
	toLight := p.Position.Subtract(point)
	distance := toLight.Length()
	if p.Intensity <= 0 || distance > p.Radius || distance == 0 {
		return core.Vec3{}, core.Vec3{}, 0, false
	}

	attenuation := 1.0 / (1.0 + 0.5*distance*distance)
	return toLight.Normalize(), p.Color.Multiply(p.Intensity * attenuation), distance, true
}

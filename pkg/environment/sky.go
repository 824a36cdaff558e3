package environment

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
)

// Angular sizes of the celestial disks, as cosines of the half-angle
var (
	sunDiskCos  = math.Cos(7 * math.Pi / 180)
	sunGlowCos  = math.Cos(18 * math.Pi / 180)
	moonDiskCos = math.Cos(4 * math.Pi / 180)
	moonGlowCos = math.Cos(7 * math.Pi / 180)
)

// Sky returns the procedural sky color for a ray direction: a vertical
// gradient between the horizon and zenith palettes with the sun and moon
// disks added on top. Disk brightness fades with the day/night blend, so
// the sky stays continuous in both direction and time of day.
func (snap Snapshot) Sky(direction core.Vec3) core.Vec3 {
	unit := direction.Normalize()
	if unit == (core.Vec3{}) {
		return snap.HorizonColor
	}

	// Map the vertical component from [-1,1] to [0,1]
	t := 0.5 * (unit.Y + 1.0)
	sky := snap.HorizonColor.Lerp(snap.ZenithColor, t)

	day := 1 - snap.Night
	toSun := snap.SunDirection.Negate()
	toMoon := snap.SunDirection

	// Sun disk and corona
	if day > 0 {
		cosAngle := unit.Dot(toSun)
		if cosAngle >= sunDiskCos {
			falloff := (cosAngle - sunDiskCos) / (1 - sunDiskCos)
			sky = sky.Add(core.NewVec3(1.0, 1.0, 0.95).Multiply(4.0 * math.Pow(falloff, 0.3) * day))
		} else if cosAngle >= sunGlowCos {
			falloff := (cosAngle - sunGlowCos) / (sunDiskCos - sunGlowCos)
			sky = sky.Add(core.NewVec3(1.0, 0.9, 0.7).Multiply(1.5 * math.Pow(falloff, 1.5) * day))
		}
	}

	// Moon disk, much dimmer
	if snap.Night > 0 {
		cosAngle := unit.Dot(toMoon)
		if cosAngle >= moonDiskCos {
			falloff := (cosAngle - moonDiskCos) / (1 - moonDiskCos)
			sky = sky.Add(core.NewVec3(0.9, 0.9, 1.0).Multiply(0.8 * math.Pow(falloff, 0.5) * snap.Night))
		} else if cosAngle >= moonGlowCos {
			falloff := (cosAngle - moonGlowCos) / (moonDiskCos - moonGlowCos)
			sky = sky.Add(core.NewVec3(0.7, 0.7, 0.9).Multiply(0.25 * math.Pow(falloff, 2) * snap.Night))
		}
	}

	return sky.Clamp(0, 1)
}

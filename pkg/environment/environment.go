package environment

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
)

// HoursPerDay is the length of the full day/night cycle
const HoursPerDay = 24.0

// Default palette endpoints. Day values match the bright midday look,
// night values keep the scene barely readable under moonlight.
var (
	dayAmbient   = core.NewVec3(0.45, 0.45, 0.52)
	nightAmbient = core.NewVec3(0.05, 0.05, 0.08)

	daySunColor   = core.NewVec3(1.0, 0.95, 0.9)
	nightSunColor = core.NewVec3(0.6, 0.65, 0.8) // Pale moonlight blue

	dayZenith    = core.NewVec3(0.25, 0.45, 0.85)
	dayHorizon   = core.NewVec3(0.75, 0.85, 0.95)
	nightZenith  = core.NewVec3(0.02, 0.03, 0.08)
	nightHorizon = core.NewVec3(0.05, 0.06, 0.12)
)

// State is the day/night cycle reduced to a single scalar: the hour of
// day in [0, 24). Everything else is derived from it on demand, so there
// is no hidden state to drift out of sync.
type State struct {
	Hour float64
}

// NewState creates a state at the given hour, wrapped into [0, 24)
func NewState(hour float64) State {
	return State{Hour: wrapHour(hour)}
}

// Advance returns the state moved forward by delta hours, wrapping
// around the end of the day. Negative deltas move backward.
func (s State) Advance(delta float64) State {
	return NewState(s.Hour + delta)
}

func wrapHour(hour float64) float64 {
	hour = math.Mod(hour, HoursPerDay)
	if hour < 0 {
		hour += HoursPerDay
	}
	return hour
}

// Snapshot is the fully derived lighting environment for one instant.
// It is passed by value to the render pipeline so a frame sees a single
// consistent environment regardless of clock updates.
type Snapshot struct {
	SunDirection core.Vec3 // Direction the celestial light travels
	SunColor     core.Vec3
	SunIntensity float64
	AmbientColor core.Vec3
	ZenithColor  core.Vec3
	HorizonColor core.Vec3
	Night        float64 // 0 at full day, 1 at full night, smooth in between
}

// Snapshot derives the lighting environment for the current hour. Every
// output channel is continuous in the hour, including across dawn and
// dusk: the day/night blend is a smoothstep of the sun elevation rather
// than a threshold switch.
func (s State) Snapshot() Snapshot {
	// Sun orbit: rises at 6h, peaks at 12h, sets at 18h
	theta := math.Pi * (s.Hour - 6) / 12
	elevation := math.Sin(theta)
	toSun := core.NewVec3(math.Cos(theta), elevation, -0.35).Normalize()

	day := smoothstep(-0.18, 0.18, elevation)
	night := 1 - day

	// Daylight intensity scales with elevation, floored at dusk level;
	// at night only weak moonlight remains.
	dayIntensity := 0.3 + 0.9*max(0, min(1, elevation))
	intensity := lerp(0.06, dayIntensity, day)

	return Snapshot{
		SunDirection: toSun.Negate(),
		SunColor:     daySunColor.Lerp(nightSunColor, night),
		SunIntensity: intensity,
		AmbientColor: dayAmbient.Lerp(nightAmbient, night),
		ZenithColor:  dayZenith.Lerp(nightZenith, night),
		HorizonColor: dayHorizon.Lerp(nightHorizon, night),
		Night:        night,
	}
}

// smoothstep is the cubic Hermite blend of x between edges a and b
func smoothstep(a, b, x float64) float64 {
	t := max(0, min(1, (x-a)/(b-a)))
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

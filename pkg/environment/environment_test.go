package environment

import (
	"math"
	"testing"

	"github.com/pvera/blocktracer/pkg/core"
)

func TestState_Advance_Wraps(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		delta    float64
		expected float64
	}{
		{"simple advance", 10, 2, 12},
		{"wrap past midnight", 23, 2, 1},
		{"negative delta wraps backward", 1, -3, 22},
		{"full cycle is identity", 7.5, 24, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewState(tt.start).Advance(tt.delta).Hour
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected hour %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestSnapshot_DayNightExtremes(t *testing.T) {
	noon := NewState(12).Snapshot()
	midnight := NewState(0).Snapshot()

	if noon.Night > 0.01 {
		t.Errorf("Expected full day at noon, night factor %f", noon.Night)
	}
	if midnight.Night < 0.99 {
		t.Errorf("Expected full night at midnight, night factor %f", midnight.Night)
	}

	if noon.SunIntensity <= midnight.SunIntensity {
		t.Error("Expected the sun to be stronger at noon than at midnight")
	}
	if noon.AmbientColor.Luminance() <= midnight.AmbientColor.Luminance() {
		t.Error("Expected brighter ambient light during the day")
	}

	// The celestial light shines downward at noon
	if noon.SunDirection.Y >= 0 {
		t.Errorf("Expected downward sun direction at noon, got %v", noon.SunDirection)
	}
}

// Every derived channel must change smoothly with the hour, in
// particular across the dawn and dusk transitions.
func TestSnapshot_Continuity(t *testing.T) {
	const epsilon = 1e-4
	// Bound on channel change for an epsilon step in time
	const maxDelta = 1e-2

	for hour := 0.0; hour < HoursPerDay; hour += 0.05 {
		a := NewState(hour).Snapshot()
		b := NewState(hour + epsilon).Snapshot()

		checks := []struct {
			name string
			d    float64
		}{
			{"sun direction", a.SunDirection.Subtract(b.SunDirection).Length()},
			{"sun color", a.SunColor.Subtract(b.SunColor).Length()},
			{"sun intensity", math.Abs(a.SunIntensity - b.SunIntensity)},
			{"ambient", a.AmbientColor.Subtract(b.AmbientColor).Length()},
			{"zenith", a.ZenithColor.Subtract(b.ZenithColor).Length()},
			{"horizon", a.HorizonColor.Subtract(b.HorizonColor).Length()},
			{"night factor", math.Abs(a.Night - b.Night)},
		}
		for _, c := range checks {
			if c.d > maxDelta {
				t.Fatalf("Discontinuity in %s at hour %.2f: delta %f", c.name, hour, c.d)
			}
		}
	}
}

func TestSnapshot_SunDirectionIsUnit(t *testing.T) {
	for hour := 0.0; hour < HoursPerDay; hour += 1.0 {
		snap := NewState(hour).Snapshot()
		if math.Abs(snap.SunDirection.Length()-1.0) > 1e-9 {
			t.Errorf("Sun direction not unit length at hour %.1f", hour)
		}
	}
}

func TestSky_Gradient(t *testing.T) {
	snap := NewState(12).Snapshot()

	up := snap.Sky(core.NewVec3(0, 1, 0))
	down := snap.Sky(core.NewVec3(0, -1, 0))

	if up != snap.ZenithColor.Clamp(0, 1) {
		t.Errorf("Expected zenith color straight up, got %v", up)
	}
	if down != snap.HorizonColor.Clamp(0, 1) {
		t.Errorf("Expected horizon color straight down, got %v", down)
	}
}

func TestSky_SunDiskVisibleByDay(t *testing.T) {
	snap := NewState(12).Snapshot()
	toSun := snap.SunDirection.Negate()

	atSun := snap.Sky(toSun)
	awayFromSun := snap.Sky(core.NewVec3(-toSun.X, toSun.Y, -toSun.Z).Normalize())

	if atSun.Luminance() <= awayFromSun.Luminance() {
		t.Error("Expected the sun disk to be brighter than the surrounding sky")
	}
}

func TestSky_MoonVisibleByNight(t *testing.T) {
	snap := NewState(0).Snapshot()
	toMoon := snap.SunDirection

	atMoon := snap.Sky(toMoon)
	awayFromMoon := snap.Sky(core.NewVec3(-toMoon.X, toMoon.Y, -toMoon.Z).Normalize())

	if atMoon.Luminance() <= awayFromMoon.Luminance() {
		t.Error("Expected the moon disk to be brighter than the night sky")
	}
}

func TestSky_Clamped(t *testing.T) {
	snap := NewState(12).Snapshot()
	color := snap.Sky(snap.SunDirection.Negate())

	if color.X > 1 || color.Y > 1 || color.Z > 1 || color.X < 0 || color.Y < 0 || color.Z < 0 {
		t.Errorf("Expected sky color clamped to [0,1], got %v", color)
	}
}

func TestSky_DegenerateDirection(t *testing.T) {
	snap := NewState(12).Snapshot()
	if got := snap.Sky(core.Vec3{}); got != snap.HorizonColor.Clamp(0, 1) {
		t.Errorf("Expected horizon fallback for zero direction, got %v", got)
	}
}

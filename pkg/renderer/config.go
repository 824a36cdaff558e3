package renderer

import (
	"time"

	"github.com/pvera/blocktracer/pkg/integrator"
)

// QualityTier selects the resolution the scheduler actually traces at.
// Lower tiers trace fewer pixels and upscale at presentation time.
type QualityTier int

const (
	QualityLow QualityTier = iota
	QualityMedium
	QualityHigh
)

// ResolutionScale returns the divisor applied to the output resolution
// at this tier.
func (q QualityTier) ResolutionScale() int {
	switch q {
	case QualityLow:
		return 4
	case QualityMedium:
		return 2
	default:
		return 1
	}
}

func (q QualityTier) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseQualityTier maps a tier name to its value
func ParseQualityTier(name string) (QualityTier, bool) {
	switch name {
	case "low":
		return QualityLow, true
	case "medium":
		return QualityMedium, true
	case "high":
		return QualityHigh, true
	}
	return QualityHigh, false
}

// clampTier bounds a tier to the valid range
func clampTier(q QualityTier) QualityTier {
	return max(QualityLow, min(QualityHigh, q))
}

// RenderConfig holds the per-frame rendering parameters. The scheduler
// normalizes it before use, so callers can pass zero values and get the
// defaults.
type RenderConfig struct {
	Width       int
	Height      int
	Tier        QualityTier
	NumWorkers  int
	MaxDepth    int
	AutoQuality bool
}

// DefaultRenderConfig returns the standard interactive configuration:
// 800x600 at full resolution on four workers.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      800,
		Height:     600,
		Tier:       QualityHigh,
		NumWorkers: 4,
		MaxDepth:   integrator.DefaultMaxDepth,
	}
}

// Normalize clamps out-of-range fields to the nearest valid values
func (c RenderConfig) Normalize() RenderConfig {
	defaults := DefaultRenderConfig()
	if c.Width < 1 {
		c.Width = defaults.Width
	}
	if c.Height < 1 {
		c.Height = defaults.Height
	}
	if c.NumWorkers < 1 {
		c.NumWorkers = 1
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	c.Tier = clampTier(c.Tier)
	return c
}

// AutoQualityConfig tunes the adaptive quality controller
type AutoQualityConfig struct {
	// DegradeThreshold is the rolling average frame time above which the
	// controller steps the tier down.
	DegradeThreshold time.Duration
	// RecoverThreshold is the rolling average frame time below which the
	// controller steps the tier back up.
	RecoverThreshold time.Duration
	// WindowSize is the number of recent frame times averaged
	WindowSize int
	// MinObservations is the minimum number of frames between two
	// adjustments, so one change settles before the next is considered.
	MinObservations int
	MinTier         QualityTier
	MaxTier         QualityTier
}

// DefaultAutoQualityConfig targets roughly 20 FPS before degrading and
// 45 FPS before recovering, with enough hysteresis between the two that
// the tier does not oscillate.
func DefaultAutoQualityConfig() AutoQualityConfig {
	return AutoQualityConfig{
		DegradeThreshold: 50 * time.Millisecond,
		RecoverThreshold: 22 * time.Millisecond,
		WindowSize:       10,
		MinObservations:  5,
		MinTier:          QualityLow,
		MaxTier:          QualityHigh,
	}
}

// Normalize clamps out-of-range fields to the nearest valid values
func (c AutoQualityConfig) Normalize() AutoQualityConfig {
	defaults := DefaultAutoQualityConfig()
	if c.DegradeThreshold <= 0 {
		c.DegradeThreshold = defaults.DegradeThreshold
	}
	if c.RecoverThreshold <= 0 || c.RecoverThreshold > c.DegradeThreshold {
		c.RecoverThreshold = min(defaults.RecoverThreshold, c.DegradeThreshold)
	}
	if c.WindowSize < 1 {
		c.WindowSize = defaults.WindowSize
	}
	if c.MinObservations < 1 {
		c.MinObservations = 1
	}
	if c.MinObservations > c.WindowSize {
		c.MinObservations = c.WindowSize
	}
	c.MinTier = clampTier(c.MinTier)
	c.MaxTier = clampTier(c.MaxTier)
	if c.MinTier > c.MaxTier {
		c.MinTier, c.MaxTier = c.MaxTier, c.MinTier
	}
	return c
}

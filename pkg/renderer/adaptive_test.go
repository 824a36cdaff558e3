package renderer

import (
	"testing"
	"time"
)

func autoConfig() RenderConfig {
	config := DefaultRenderConfig()
	config.AutoQuality = true
	return config
}

// Sustained slow frames step the tier down to the minimum within a
// bounded number of observations, and never past it.
func TestQualityController_DegradesUnderLoad(t *testing.T) {
	qc := NewQualityController(DefaultAutoQualityConfig())
	config := autoConfig()

	tierAt := map[int]QualityTier{}
	for frame := 1; frame <= 20; frame++ {
		config = qc.Observe(80*time.Millisecond, config)
		tierAt[frame] = config.Tier
	}

	if tierAt[4] != QualityHigh {
		t.Errorf("Expected no change before enough observations, got %v", tierAt[4])
	}
	if tierAt[5] != QualityMedium {
		t.Errorf("Expected the first step down at frame 5, got %v", tierAt[5])
	}
	if tierAt[9] != QualityMedium {
		t.Errorf("Expected the cooldown to hold at medium, got %v", tierAt[9])
	}
	if tierAt[10] != QualityLow {
		t.Errorf("Expected the second step down at frame 10, got %v", tierAt[10])
	}
	if tierAt[20] != QualityLow {
		t.Errorf("Expected the tier to stop at the minimum, got %v", tierAt[20])
	}
}

// Sustained fast frames recover the tier back up to the maximum
func TestQualityController_RecoversWithHeadroom(t *testing.T) {
	qc := NewQualityController(DefaultAutoQualityConfig())
	config := autoConfig()
	config.Tier = QualityLow

	for frame := 0; frame < 20; frame++ {
		config = qc.Observe(5*time.Millisecond, config)
	}

	if config.Tier != QualityHigh {
		t.Errorf("Expected recovery to the maximum tier, got %v", config.Tier)
	}
}

// Frame times between the two thresholds leave the tier alone
func TestQualityController_HysteresisBand(t *testing.T) {
	qc := NewQualityController(DefaultAutoQualityConfig())
	config := autoConfig()
	config.Tier = QualityMedium

	for frame := 0; frame < 30; frame++ {
		config = qc.Observe(35*time.Millisecond, config)
	}

	if config.Tier != QualityMedium {
		t.Errorf("Expected no adjustment inside the hysteresis band, got %v", config.Tier)
	}
}

// A manual quality selection disables the controller entirely
func TestQualityController_ManualOverride(t *testing.T) {
	qc := NewQualityController(DefaultAutoQualityConfig())
	config := DefaultRenderConfig()
	config.Tier = QualityHigh

	for frame := 0; frame < 30; frame++ {
		config = qc.Observe(500*time.Millisecond, config)
	}

	if config.Tier != QualityHigh {
		t.Errorf("Expected the manual tier to stick, got %v", config.Tier)
	}

	// Re-enabling starts from fresh observations
	config.AutoQuality = true
	config = qc.Observe(500*time.Millisecond, config)
	if config.Tier != QualityHigh {
		t.Errorf("Expected no adjustment from a single observation, got %v", config.Tier)
	}
}

// The controller respects configured tier bounds
func TestQualityController_TierBounds(t *testing.T) {
	tuning := DefaultAutoQualityConfig()
	tuning.MinTier = QualityMedium
	qc := NewQualityController(tuning)
	config := autoConfig()

	for frame := 0; frame < 30; frame++ {
		config = qc.Observe(time.Second, config)
	}

	if config.Tier != QualityMedium {
		t.Errorf("Expected the configured floor to hold, got %v", config.Tier)
	}
}

func TestAutoQualityConfig_Normalize(t *testing.T) {
	config := AutoQualityConfig{
		DegradeThreshold: -1,
		RecoverThreshold: time.Hour,
		WindowSize:       0,
		MinObservations:  100,
		MinTier:          QualityHigh,
		MaxTier:          QualityLow,
	}.Normalize()

	if config.DegradeThreshold != 50*time.Millisecond {
		t.Errorf("Expected the default degrade threshold, got %v", config.DegradeThreshold)
	}
	if config.RecoverThreshold > config.DegradeThreshold {
		t.Error("Expected the recover threshold at or below the degrade threshold")
	}
	if config.WindowSize != 10 {
		t.Errorf("Expected the default window size, got %d", config.WindowSize)
	}
	if config.MinObservations > config.WindowSize {
		t.Error("Expected the observation floor within the window")
	}
	if config.MinTier > config.MaxTier {
		t.Error("Expected the tier bounds in order")
	}
}

func TestRenderConfig_Normalize(t *testing.T) {
	config := RenderConfig{
		Width:      -100,
		Height:     0,
		NumWorkers: 0,
		MaxDepth:   -3,
		Tier:       QualityTier(99),
	}.Normalize()

	if config.Width != 800 || config.Height != 600 {
		t.Errorf("Expected default dimensions, got %dx%d", config.Width, config.Height)
	}
	if config.NumWorkers != 1 {
		t.Errorf("Expected a single worker floor, got %d", config.NumWorkers)
	}
	if config.MaxDepth != 0 {
		t.Errorf("Expected a zero depth floor, got %d", config.MaxDepth)
	}
	if config.Tier != QualityHigh {
		t.Errorf("Expected the tier clamped to high, got %v", config.Tier)
	}
}

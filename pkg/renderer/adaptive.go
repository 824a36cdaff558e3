package renderer

import "time"

// QualityController adjusts the quality tier from observed frame times.
// It keeps a rolling window of recent frames and steps the tier down
// when the average is too slow, or back up when there is headroom, with
// a cooldown between adjustments so each change can settle.
type QualityController struct {
	config      AutoQualityConfig
	frameTimes  []time.Duration
	sinceChange int
}

// NewQualityController creates a controller with the given tuning,
// normalized to valid values.
func NewQualityController(config AutoQualityConfig) *QualityController {
	config = config.Normalize()
	return &QualityController{
		config:     config,
		frameTimes: make([]time.Duration, 0, config.WindowSize),
	}
}

// Observe records one frame time and returns the render config to use
// for the next frame. With AutoQuality disabled the config passes
// through untouched and the window resets, so a later re-enable starts
// from fresh observations.
func (qc *QualityController) Observe(frameTime time.Duration, config RenderConfig) RenderConfig {
	if !config.AutoQuality {
		qc.Reset()
		return config
	}

	if len(qc.frameTimes) == qc.config.WindowSize {
		copy(qc.frameTimes, qc.frameTimes[1:])
		qc.frameTimes = qc.frameTimes[:len(qc.frameTimes)-1]
	}
	qc.frameTimes = append(qc.frameTimes, frameTime)
	qc.sinceChange++

	if len(qc.frameTimes) < qc.config.MinObservations || qc.sinceChange < qc.config.MinObservations {
		return config
	}

	average := qc.average()
	switch {
	case average > qc.config.DegradeThreshold && config.Tier > qc.config.MinTier:
		config.Tier--
		qc.sinceChange = 0
	case average < qc.config.RecoverThreshold && config.Tier < qc.config.MaxTier:
		config.Tier++
		qc.sinceChange = 0
	}
	return config
}

// Reset clears the rolling window, discarding all observations
func (qc *QualityController) Reset() {
	qc.frameTimes = qc.frameTimes[:0]
	qc.sinceChange = 0
}

func (qc *QualityController) average() time.Duration {
	var total time.Duration
	for _, ft := range qc.frameTimes {
		total += ft
	}
	return total / time.Duration(len(qc.frameTimes))
}

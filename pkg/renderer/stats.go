package renderer

import "time"

// FrameStats reports what one call to RenderFrame actually did
type FrameStats struct {
	Width      int
	Height     int
	Tier       QualityTier
	Workers    int
	RenderTime time.Duration
}

// Pixels returns the number of pixels traced for the frame
func (s FrameStats) Pixels() int {
	return s.Width * s.Height
}

// FPS returns the frame rate this render time sustains
func (s FrameStats) FPS() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.RenderTime)
}

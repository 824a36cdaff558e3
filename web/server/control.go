package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/renderer"
)

// ControlRequest carries runtime adjustments. Every field is optional;
// set fields are queued and applied together at the next frame
// boundary, so a frame in flight is never reconfigured under its
// workers.
type ControlRequest struct {
	Quality   *string  `json:"quality"`   // "low", "medium" or "high"; disables auto quality
	Auto      *bool    `json:"auto"`      // Enable or disable adaptive quality
	Workers   *int     `json:"workers"`   // Worker count for subsequent frames
	Hour      *float64 `json:"hour"`      // Jump the environment clock
	TimeScale *float64 `json:"timeScale"` // Environment hours per real second

	Orbit        *float64 `json:"orbit"`        // Degrees around the target
	Tilt         *float64 `json:"tilt"`         // Degrees above or below the target
	Zoom         *float64 `json:"zoom"`         // Toward (positive) or away from the target
	MoveVertical *float64 `json:"moveVertical"` // World-space vertical shift
}

// handleControl validates and queues one control request
func (s *Server) handleControl(c echo.Context) error {
	var req ControlRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid control request")
	}

	if req.Quality != nil {
		if _, ok := renderer.ParseQualityTier(*req.Quality); !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown quality: "+*req.Quality)
		}
	}
	if req.Workers != nil && (*req.Workers < 1 || *req.Workers > 256) {
		return echo.NewHTTPError(http.StatusBadRequest, "workers must be between 1 and 256")
	}

	s.mu.Lock()
	s.pending = append(s.pending, req)
	s.mu.Unlock()

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}

// applyPending drains the control queue in arrival order. Called by the
// stream loop between frames, when no workers are running.
func (s *Server) applyPending() {
	s.mu.Lock()
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, req := range queued {
		s.applyControl(req)
	}
}

// applyControl mutates the shared pipeline state. The camera and clock
// are written under the mutex because one-shot frame requests snapshot
// them concurrently; the stream loop itself is the only other writer.
func (s *Server) applyControl(req ControlRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := s.config
	if req.Quality != nil {
		if tier, ok := renderer.ParseQualityTier(*req.Quality); ok {
			config.Tier = tier
			config.AutoQuality = false
			logger.Infof("quality pinned to %s", tier)
		}
	}
	if req.Auto != nil {
		config.AutoQuality = *req.Auto
		logger.Infof("auto quality %v", *req.Auto)
	}
	if req.Workers != nil {
		config.NumWorkers = *req.Workers
	}
	if req.Hour != nil {
		s.clock = environment.NewState(*req.Hour)
	}
	if req.TimeScale != nil && *req.TimeScale >= 0 {
		s.opts.TimeScale = *req.TimeScale
	}

	if req.Orbit != nil {
		s.camera.Orbit(*req.Orbit)
	}
	if req.Tilt != nil {
		s.camera.Tilt(*req.Tilt)
	}
	if req.Zoom != nil {
		s.camera.Zoom(*req.Zoom)
	}
	if req.MoveVertical != nil {
		s.camera.MoveVertical(*req.MoveVertical)
	}

	s.config = config.Normalize()
}

package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pvera/blocktracer/pkg/renderer"
)

// minFrameInterval caps the stream rate so trivial scenes do not spin
// the encoder at hundreds of frames per second.
const minFrameInterval = 33 * time.Millisecond

// FrameUpdate is one SSE frame event
type FrameUpdate struct {
	ImageData    string  `json:"imageData"` // Base64 encoded PNG
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Quality      string  `json:"quality"`
	Workers      int     `json:"workers"`
	Hour         float64 `json:"hour"`
	RenderTimeMs float64 `json:"renderTimeMs"`
	FPS          float64 `json:"fps"`
}

// handleStream renders frames back to back and streams them as SSE
// events until the client disconnects. Control requests queued while a
// frame is in flight are applied before the next one, and the adaptive
// controller retunes the quality tier from each frame's render time.
func (s *Server) handleStream(c echo.Context) error {
	if !s.acquireStream() {
		return echo.NewHTTPError(http.StatusConflict, "a stream is already active")
	}
	defer s.releaseStream()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	logger.Info("stream started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("stream client disconnected")
			return nil
		default:
		}

		s.applyPending()
		config := s.snapshotConfig()

		fb, stats := s.scheduler.RenderFrame(s.scene, s.clock.Snapshot(), s.camera, config)
		s.setConfig(s.quality.Observe(stats.RenderTime, config))

		s.mu.Lock()
		s.clock = s.clock.Advance(stats.RenderTime.Seconds() * s.opts.TimeScale)
		hour := s.clock.Hour
		s.mu.Unlock()

		update := FrameUpdate{
			Width:        stats.Width,
			Height:       stats.Height,
			Quality:      stats.Tier.String(),
			Workers:      stats.Workers,
			Hour:         hour,
			RenderTimeMs: float64(stats.RenderTime.Microseconds()) / 1000,
			FPS:          stats.FPS(),
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, fb.ToRGBA()); err != nil {
			s.sendEvent(w, "error", "failed to encode frame")
			return nil
		}
		update.ImageData = base64.StdEncoding.EncodeToString(buf.Bytes())

		data, err := json.Marshal(update)
		if err != nil {
			s.sendEvent(w, "error", "failed to marshal frame update")
			return nil
		}
		if err := s.sendEvent(w, "frame", string(data)); err != nil {
			return nil
		}

		if stats.RenderTime < minFrameInterval {
			time.Sleep(minFrameInterval - stats.RenderTime)
		}
	}
}

// sendEvent writes one SSE event and flushes it to the client
func (s *Server) sendEvent(w *echo.Response, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func (s *Server) acquireStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return false
	}
	s.streaming = true
	return true
}

func (s *Server) releaseStream() {
	s.mu.Lock()
	s.streaming = false
	s.mu.Unlock()
}

func (s *Server) setConfig(config renderer.RenderConfig) {
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
}

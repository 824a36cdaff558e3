package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/renderer"
	"github.com/pvera/blocktracer/pkg/scene"
)

func newTestServer() (*Server, *echo.Echo) {
	config := renderer.DefaultRenderConfig()
	config.Width = 64
	config.Height = 48
	config.NumWorkers = 2

	s := New(Options{
		Scene:     "showcase",
		Config:    config,
		Camera:    renderer.DefaultCameraConfig(),
		StartHour: 12,
	})

	e := echo.New()
	s.Routes(e)
	return s, e
}

func TestServer_Health(t *testing.T) {
	_, e := newTestServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestServer_FrameReturnsPNG(t *testing.T) {
	_, e := newTestServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame?width=32&height=24&quality=low", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Fatalf("Expected image/png, got %s", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Expected a decodable PNG: %v", err)
	}

	// Low quality quarters the requested resolution
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("Expected an 8x6 frame, got %v", img.Bounds())
	}
}

func TestServer_FrameRejectsBadParams(t *testing.T) {
	_, e := newTestServer()

	for _, target := range []string{
		"/api/frame?width=nope",
		"/api/frame?width=2",
		"/api/frame?quality=ultra",
		"/api/frame?hour=later",
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestServer_ControlAppliedAtFrameBoundary(t *testing.T) {
	s, e := newTestServer()

	body := strings.NewReader(`{"quality": "low", "workers": 3, "hour": 2.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/control", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	// Queued but not yet applied
	if s.snapshotConfig().Tier != renderer.QualityHigh {
		t.Error("Expected the control request to wait for the frame boundary")
	}

	s.applyPending()

	config := s.snapshotConfig()
	if config.Tier != renderer.QualityLow {
		t.Errorf("Expected the pinned low tier, got %v", config.Tier)
	}
	if config.AutoQuality {
		t.Error("Expected a manual quality selection to disable auto quality")
	}
	if config.NumWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", config.NumWorkers)
	}
	if s.clock.Hour != 2.5 {
		t.Errorf("Expected the clock jumped to 2.5, got %f", s.clock.Hour)
	}
}

func TestServer_ControlMovesCamera(t *testing.T) {
	s, e := newTestServer()
	before := s.camera.Config().Position

	req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader(`{"orbit": 45}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", rec.Code)
	}

	s.applyPending()
	if s.camera.Config().Position == before {
		t.Error("Expected the orbit command to move the camera")
	}
}

// One-shot frames must use their own camera and clock snapshot, so a
// stream applying control commands concurrently never races them.
func TestServer_FrameIsolatedFromControl(t *testing.T) {
	s, e := newTestServer()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		orbit := 5.0
		tilt := 1.0
		for i := 0; i < 50; i++ {
			s.applyControl(ControlRequest{Orbit: &orbit, Tilt: &tilt})
		}
	}()

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame?width=32&height=24&quality=low", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 during camera movement, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	wg.Wait()
}

// A one-shot frame with a non-default aspect ratio renders with the
// camera viewport matching the requested dimensions.
func TestServer_FrameUsesRequestAspect(t *testing.T) {
	_, e := newTestServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame?width=40&height=40&quality=low", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Expected a decodable PNG: %v", err)
	}

	// Reproduce the render with a square-aspect camera; the server must
	// match it pixel for pixel, not the 4:3 aspect it was started with.
	config := renderer.DefaultRenderConfig()
	config.Width = 40
	config.Height = 40
	config.NumWorkers = 2
	config.Tier = renderer.QualityLow

	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Aspect = 1.0

	fb, _ := renderer.NewScheduler().RenderFrame(
		scene.NewShowcase(),
		environment.NewState(12).Snapshot(),
		renderer.NewCamera(cameraConfig),
		config,
	)
	expected := fb.ToRGBA()

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			gr, gg, gb, _ := got.At(x, y).RGBA()
			er, eg, eb, _ := expected.At(x, y).RGBA()
			if gr != er || gg != eg || gb != eb {
				t.Fatalf("Pixel (%d,%d) differs: %v vs %v", x, y, got.At(x, y), expected.At(x, y))
			}
		}
	}
}

func TestServer_ControlRejectsInvalid(t *testing.T) {
	_, e := newTestServer()

	for _, body := range []string{
		`{"quality": "ultra"}`,
		`{"workers": 0}`,
		`{"workers": 1000}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/control", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

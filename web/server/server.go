// Package server exposes the renderer over HTTP: single frames as PNG,
// a continuous SSE frame stream, and a control endpoint that adjusts
// quality, time of day and the camera between frames.
package server

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/log"
	"github.com/pvera/blocktracer/pkg/renderer"
	"github.com/pvera/blocktracer/pkg/scene"
)

var logger = log.New("server")

// Options configures a Server
type Options struct {
	Port      int
	Scene     string
	Config    renderer.RenderConfig
	Camera    renderer.CameraConfig
	StartHour float64
	// TimeScale is how many environment hours pass per real second of
	// streaming. Zero freezes the clock.
	TimeScale float64
}

// Server owns one rendering pipeline. The stream loop has exclusive use
// of it while a client is connected; control requests are queued and
// applied between frames.
type Server struct {
	opts      Options
	scene     *scene.Scene
	camera    *renderer.Camera
	clock     environment.State
	scheduler *renderer.Scheduler
	quality   *renderer.QualityController
	config    renderer.RenderConfig

	mu        sync.Mutex
	pending   []ControlRequest
	streaming bool
}

// New creates a server rendering the named scene. Unknown scene names
// fall back to the diorama.
func New(opts Options) *Server {
	opts.Config = opts.Config.Normalize()
	return &Server{
		opts:      opts,
		scene:     sceneByName(opts.Scene),
		camera:    renderer.NewCamera(opts.Camera),
		clock:     environment.NewState(opts.StartHour),
		scheduler: renderer.NewScheduler(),
		quality:   renderer.NewQualityController(renderer.DefaultAutoQualityConfig()),
		config:    opts.Config,
	}
}

func sceneByName(name string) *scene.Scene {
	switch name {
	case "showcase":
		return scene.NewShowcase()
	default:
		return scene.NewDiorama()
	}
}

// Routes registers the API endpoints on an echo instance
func (s *Server) Routes(e *echo.Echo) {
	e.GET("/api/health", s.handleHealth)
	e.GET("/api/frame", s.handleFrame)
	e.GET("/api/stream", s.handleStream)
	e.POST("/api/control", s.handleControl)
}

// Start runs the HTTP server until it fails or is shut down
func (s *Server) Start() error {
	e := echo.New()
	e.HideBanner = true
	e.Use(corsMiddleware)
	s.Routes(e)

	addr := fmt.Sprintf(":%d", s.opts.Port)
	logger.Infof("listening on http://localhost%s", addr)
	return e.Start(addr)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

// handleHealth reports process health plus basic host capacity
func (s *Server) handleHealth(c echo.Context) error {
	info := map[string]interface{}{"status": "ok"}

	if counts, err := cpu.Counts(true); err == nil {
		info["cpus"] = counts
	}
	if cpuInfo, err := cpu.Info(); err == nil && len(cpuInfo) > 0 {
		info["cpuModel"] = cpuInfo[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info["memUsedPercent"] = vm.UsedPercent
	}

	return c.JSON(http.StatusOK, info)
}

// handleFrame renders one frame and returns it as a PNG. Query
// parameters override the server defaults for this frame only.
func (s *Server) handleFrame(c echo.Context) error {
	config, cameraConfig, hour := s.frameState()
	var err error

	if config.Width, err = intParam(c, "width", config.Width, 16, 4096); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if config.Height, err = intParam(c, "height", config.Height, 16, 4096); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if config.NumWorkers, err = intParam(c, "workers", config.NumWorkers, 1, 256); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if name := c.QueryParam("quality"); name != "" {
		tier, ok := renderer.ParseQualityTier(name)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown quality: "+name)
		}
		config.Tier = tier
	}

	if value := c.QueryParam("hour"); value != "" {
		if hour, err = strconv.ParseFloat(value, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid hour: "+value)
		}
	}

	sceneObj := s.scene
	if name := c.QueryParam("scene"); name != "" {
		sceneObj = sceneByName(name)
	}

	// One-shot frames render with their own scheduler and a private
	// camera built from the snapshot above, so an active stream can
	// keep moving the shared camera and clock without racing us.
	cameraConfig.Aspect = float64(config.Width) / float64(config.Height)
	fb, stats := renderer.NewScheduler().RenderFrame(
		sceneObj, environment.NewState(hour).Snapshot(), renderer.NewCamera(cameraConfig), config)
	logger.Debugf("frame %dx%d tier=%s in %s", stats.Width, stats.Height, stats.Tier, stats.RenderTime)

	var buf bytes.Buffer
	if err := png.Encode(&buf, fb.ToRGBA()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode frame")
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) snapshotConfig() renderer.RenderConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// frameState returns consistent copies of the shared mutable state.
// Everything the stream loop mutates (config, camera, clock) is read
// under the same mutex it is written under.
func (s *Server) frameState() (renderer.RenderConfig, renderer.CameraConfig, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config, s.camera.Config(), s.clock.Hour
}

// intParam parses an integer query parameter with a default and bounds
func intParam(c echo.Context, key string, defaultValue, min, max int) (int, error) {
	value := c.QueryParam(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, parsed)
	}
	return parsed, nil
}

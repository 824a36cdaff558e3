package renderer

import (
	"sync"
	"time"

	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/integrator"
	"github.com/pvera/blocktracer/pkg/scene"
)

// Scheduler renders frames into a reused framebuffer. Each frame is
// split into disjoint row bands, one per worker, so workers never write
// the same pixel and the result is identical to a sequential render.
//
// A Scheduler is not safe for concurrent RenderFrame calls; the serve
// loop owns one and renders frames back to back.
type Scheduler struct {
	fb *Framebuffer
}

// NewScheduler creates a scheduler with an initially empty framebuffer
func NewScheduler() *Scheduler {
	return &Scheduler{fb: NewFramebuffer(1, 1)}
}

// rowBand is one worker's slice of the frame: rows [startRow, endRow)
type rowBand struct {
	startRow int
	endRow   int
}

// splitRows partitions height rows into at most workers contiguous
// bands. Remainder rows go to the earliest bands, so band sizes differ
// by at most one.
func splitRows(height, workers int) []rowBand {
	if workers > height {
		workers = height
	}

	bands := make([]rowBand, 0, workers)
	base := height / workers
	extra := height % workers

	row := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		bands = append(bands, rowBand{startRow: row, endRow: row + size})
		row += size
	}
	return bands
}

// RenderFrame traces one complete frame of the scene under the given
// environment snapshot and returns the framebuffer plus timing stats.
// The quality tier divides the configured resolution, so a degraded
// frame traces fewer pixels into a smaller buffer.
//
// The returned framebuffer is owned by the scheduler and overwritten by
// the next call.
func (s *Scheduler) RenderFrame(sc *scene.Scene, env environment.Snapshot, camera *Camera, config RenderConfig) (*Framebuffer, FrameStats) {
	config = config.Normalize()

	scale := config.Tier.ResolutionScale()
	width := max(1, config.Width/scale)
	height := max(1, config.Height/scale)
	s.fb.Resize(width, height)

	tracer := integrator.NewWhitted(sc, env, config.MaxDepth)
	bands := splitRows(height, config.NumWorkers)

	start := time.Now()
	if len(bands) == 1 {
		s.renderBand(tracer, camera, bands[0])
	} else {
		var wg sync.WaitGroup
		for _, band := range bands {
			wg.Add(1)
			go func(band rowBand) {
				defer wg.Done()
				s.renderBand(tracer, camera, band)
			}(band)
		}
		wg.Wait()
	}

	stats := FrameStats{
		Width:      width,
		Height:     height,
		Tier:       config.Tier,
		Workers:    len(bands),
		RenderTime: time.Since(start),
	}
	return s.fb, stats
}

// renderBand traces every pixel in one row band. Rays go through pixel
// centers, so the same band always produces the same pixels.
func (s *Scheduler) renderBand(tracer *integrator.Whitted, camera *Camera, band rowBand) {
	for y := band.startRow; y < band.endRow; y++ {
		v := (float64(y) + 0.5) / float64(s.fb.Height)
		for x := 0; x < s.fb.Width; x++ {
			u := (float64(x) + 0.5) / float64(s.fb.Width)
			s.fb.Set(x, y, tracer.Trace(camera.GetRay(u, v), 0))
		}
	}
}

package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/renderer"
)

// BenchFlags are the options of the bench command
var BenchFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene",
		Value: "diorama",
		Usage: "scene to benchmark: 'diorama' or 'showcase'",
	},
	cli.IntFlag{
		Name:  "width",
		Value: 800,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 600,
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "frames",
		Value: 10,
		Usage: "frames to average per quality tier",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: 0,
		Usage: "worker count, 0 for one per logical cpu",
	},
	cli.Float64Flag{
		Name:  "hour",
		Value: 12,
		Usage: "time of day on the 24 hour clock",
	},
}

// Benchmark renders a burst of frames at each quality tier and prints
// the average frame time per tier.
func Benchmark(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneName := ctx.String("scene")
	sceneObj := sceneByName(sceneName)
	if sceneObj == nil {
		return fmt.Errorf("unknown scene: %s", sceneName)
	}

	config := renderer.DefaultRenderConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.NumWorkers = ctx.Int("workers")
	if config.NumWorkers == 0 {
		config.NumWorkers = detectWorkers()
	}

	frames := max(1, ctx.Int("frames"))
	camera := renderer.NewCamera(cameraFor(sceneName, config))
	env := environment.NewState(ctx.Float64("hour")).Snapshot()
	scheduler := renderer.NewScheduler()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Quality", "Resolution", "Avg frame time", "FPS"})

	for _, tier := range []renderer.QualityTier{renderer.QualityLow, renderer.QualityMedium, renderer.QualityHigh} {
		config.Tier = tier

		var total time.Duration
		var stats renderer.FrameStats
		for i := 0; i < frames; i++ {
			_, stats = scheduler.RenderFrame(sceneObj, env, camera, config)
			total += stats.RenderTime
		}
		average := total / time.Duration(frames)

		table.Append([]string{
			tier.String(),
			fmt.Sprintf("%dx%d", stats.Width, stats.Height),
			average.String(),
			fmt.Sprintf("%.1f", float64(time.Second)/float64(average)),
		})
	}

	table.Render()
	logger.Infof("%s benchmark, %d workers, %d frames per tier\n%s",
		sceneName, config.NumWorkers, frames, buf.String())
	return nil
}

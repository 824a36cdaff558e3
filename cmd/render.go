package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/urfave/cli"

	"github.com/pvera/blocktracer/pkg/environment"
	"github.com/pvera/blocktracer/pkg/renderer"
	"github.com/pvera/blocktracer/pkg/scene"
)

// RenderFlags are the options of the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene",
		Value: "diorama",
		Usage: "scene to render: 'diorama' or 'showcase'",
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
	cli.StringFlag{
		Name:  "quality",
		Value: "high",
		Usage: "quality tier: 'low', 'medium' or 'high'",
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
	cli.IntFlag{
		Name:  "depth",
		Value: 8,
		Usage: "maximum reflection/refraction depth",
	},
	cli.StringFlag{
		Name:  "out",
		Value: "frame.png",
		Usage: "output png path",
	},
}

// RenderFrame renders one still frame and writes it as a PNG
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	config, err := renderConfig(ctx)
	if err != nil {
		return err
	}

	sceneName := ctx.String("scene")
	sceneObj := sceneByName(sceneName)
	if sceneObj == nil {
		return fmt.Errorf("unknown scene: %s", sceneName)
	}

	camera := renderer.NewCamera(cameraFor(sceneName, config))
	env := environment.NewState(ctx.Float64("hour")).Snapshot()

	logger.Infof("rendering %s at hour %.2f", sceneName, ctx.Float64("hour"))
	fb, stats := renderer.NewScheduler().RenderFrame(sceneObj, env, camera, config)

	outPath := ctx.String("out")
	if err := writePNG(outPath, fb); err != nil {
		return err
	}

	displayFrameStats(outPath, stats)
	return nil
}

// renderConfig builds the render configuration from command line flags
func renderConfig(ctx *cli.Context) (renderer.RenderConfig, error) {
	config := renderer.DefaultRenderConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.MaxDepth = ctx.Int("depth")

	tier, ok := renderer.ParseQualityTier(ctx.String("quality"))
	if !ok {
		return config, fmt.Errorf("unknown quality: %s", ctx.String("quality"))
	}
	config.Tier = tier

	config.NumWorkers = ctx.Int("workers")
	if config.NumWorkers == 0 {
		config.NumWorkers = detectWorkers()
	}

	return config.Normalize(), nil
}

// detectWorkers sizes the pool to the logical CPU count, falling back
// to the default when detection fails.
func detectWorkers() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts < 1 {
		return renderer.DefaultRenderConfig().NumWorkers
	}
	return counts
}

func sceneByName(name string) *scene.Scene {
	switch name {
	case "diorama":
		return scene.NewDiorama()
	case "showcase":
		return scene.NewShowcase()
	default:
		return nil
	}
}

// cameraFor frames the named scene with the configured aspect ratio
func cameraFor(name string, config renderer.RenderConfig) renderer.CameraConfig {
	camera := renderer.DefaultCameraConfig()
	if name == "showcase" {
		camera.Position = renderer.ShowcaseCameraPosition
		camera.LookAt = renderer.ShowcaseCameraTarget
	}
	camera.Aspect = float64(config.Width) / float64(config.Height)
	return camera
}

func writePNG(path string, fb *renderer.Framebuffer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	return png.Encode(file, fb.ToRGBA())
}

func displayFrameStats(outPath string, stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Output", "Resolution", "Quality", "Workers", "Render time", "FPS"})
	table.Append([]string{
		outPath,
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		stats.Tier.String(),
		fmt.Sprintf("%d", stats.Workers),
		stats.RenderTime.String(),
		fmt.Sprintf("%.1f", stats.FPS()),
	})

	table.Render()
	logger.Infof("frame statistics\n%s", buf.String())
}

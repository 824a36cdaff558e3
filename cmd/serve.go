package cmd

import (
	"github.com/urfave/cli"

	"github.com/pvera/blocktracer/pkg/renderer"
	"github.com/pvera/blocktracer/web/server"
)

// ServeFlags are the options of the serve command
var ServeFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "port",
		Value: 8080,
		Usage: "http listen port",
	},
	cli.StringFlag{
		Name:  "scene",
		Value: "diorama",
		Usage: "scene to serve: 'diorama' or 'showcase'",
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
		Name:  "workers",
		Value: 0,
		Usage: "worker count, 0 for one per logical cpu",
	},
	cli.BoolFlag{
		Name:  "auto-quality",
		Usage: "adapt the quality tier to measured frame times",
	},
	cli.Float64Flag{
		Name:  "hour",
		Value: 10,
		Usage: "starting time of day on the 24 hour clock",
	},
	cli.Float64Flag{
		Name:  "time-scale",
		Value: 0.2,
		Usage: "environment hours per real second of streaming",
	},
}

// Serve runs the http frame server until it fails
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneName := ctx.String("scene")
	config := renderer.DefaultRenderConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.AutoQuality = ctx.Bool("auto-quality")

	config.NumWorkers = ctx.Int("workers")
	if config.NumWorkers == 0 {
		config.NumWorkers = detectWorkers()
	}

	s := server.New(server.Options{
		Port:      ctx.Int("port"),
		Scene:     sceneName,
		Config:    config,
		Camera:    cameraFor(sceneName, config),
		StartHour: ctx.Float64("hour"),
		TimeScale: ctx.Float64("time-scale"),
	})
	return s.Start()
}

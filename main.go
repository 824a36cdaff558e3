package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/pvera/blocktracer/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "blocktracer"
	app.Usage = "real-time whitted raytracer for block dioramas"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to a png file",
			Description: `
Render one frame of the selected scene at the given time of day and
write it out as a PNG. Worker count defaults to the number of logical
CPUs on this machine.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.RenderFrame,
		},
		{
			Name:   "serve",
			Usage:  "serve frames over http with live controls",
			Flags:  cmd.ServeFlags,
			Action: cmd.Serve,
		},
		{
			Name:  "bench",
			Usage: "measure frame times across quality tiers",
			Description: `
Render a burst of frames at every quality tier and print a table of
frame times, for sizing the adaptive quality thresholds on new
hardware.`,
			Flags:  cmd.BenchFlags,
			Action: cmd.Benchmark,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

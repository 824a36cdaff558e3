package cmd

import (
	"github.com/urfave/cli"

	"github.com/pvera/blocktracer/pkg/log"
)

var logger = log.New("blocktracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Debug)
	}
}

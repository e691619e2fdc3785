package main

import (
	"github.com/akmonengine/bvcull/log"
	"github.com/urfave/cli"
)

var logger = log.New("bvcull")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

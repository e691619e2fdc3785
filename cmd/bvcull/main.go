package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvcull"
	app.Usage = "fit bounding volumes to models and measure frustum culling"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "fit",
			Usage: "compute the bounding volumes of a model",
			Description: `
Load a model from a wavefront obj or xml model file and fit its bounding
sphere, axis-aligned box and oriented box. The oriented box follows the
principal axes of the area-weighted covariance of the triangles.

With --out, the model and its volumes are written as an xml model file.`,
			ArgsUsage: "model.obj|model.xml",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "write the model with its bounds to this xml file",
				},
			},
			Action: FitModel,
		},
		{
			Name:        "bvh",
			Usage:       "build the OBB hierarchy of a model and report its shape",
			ArgsUsage:   "model.obj|model.xml",
			Description: `Build the OBB tree over the model triangles and display node statistics.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "levels",
					Value: 4,
					Usage: "number of tree levels to detail",
				},
			},
			Action: BuildHierarchy,
		},
		{
			Name:  "cull",
			Usage: "cull a grid of objects against a sweeping camera",
			Description: `
Place copies of a model on a square grid and rotate a camera about the grid
center, culling every object on every frame. Without a model argument a
unit cube is used.

The culling settings come from the --config file (toml or yaml) and can be
overridden by flags. With --compare every scheme is run with and without
plane coherency.`,
			ArgsUsage: "[model.obj|model.xml]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "load culling settings from a toml or yaml file",
				},
				cli.StringFlag{
					Name:  "scheme, s",
					Usage: "bounding volume to test: sphere, aabb or obb",
				},
				cli.StringFlag{
					Name:  "coherency",
					Usage: "plane coherency: on or off",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "number of culling workers",
				},
				cli.IntFlag{
					Name:  "grid",
					Value: 32,
					Usage: "objects per grid side",
				},
				cli.Float64Flag{
					Name:  "spacing",
					Value: 4,
					Usage: "distance between grid objects",
				},
				cli.IntFlag{
					Name:  "frames, f",
					Value: 360,
					Usage: "number of frames in the sweep",
				},
				cli.BoolFlag{
					Name:  "compare",
					Usage: "run every scheme with and without plane coherency",
				},
			},
			Action: CullSweep,
		},
	}

	return app
}

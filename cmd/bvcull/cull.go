package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/bvcull"
	"github.com/akmonengine/bvcull/asset"
	"github.com/akmonengine/bvcull/config"
	"github.com/akmonengine/bvcull/frustum"
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// CullSweep culls a grid of objects against a camera turning about the
// grid center and displays the accumulated statistics.
func CullSweep(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
		if err = cfg.ApplyLogging(); err != nil {
			return err
		}
		setupLogging(ctx)
	}

	if scheme := ctx.String("scheme"); scheme != "" {
		cfg.Culling.Scheme = scheme
	}
	switch ctx.String("coherency") {
	case "":
	case "on":
		cfg.Culling.PlaneCoherency = true
	case "off":
		cfg.Culling.PlaneCoherency = false
	default:
		return fmt.Errorf("coherency must be on or off, got %q", ctx.String("coherency"))
	}
	if workers := ctx.Int("workers"); workers > 0 {
		cfg.Culling.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var model *asset.Model
	var err error
	if ctx.NArg() > 0 {
		model, err = loadModel(ctx.Args().First())
	} else {
		model, err = unitCube()
	}
	if err != nil {
		return err
	}

	sw := sweep{
		grid:    ctx.Int("grid"),
		spacing: ctx.Float64("spacing"),
		frames:  ctx.Int("frames"),
	}
	if sw.grid < 1 || sw.frames < 1 {
		return errors.New("grid and frames must be positive")
	}

	if ctx.Bool("compare") {
		return compareSchemes(cfg, model, sw)
	}

	scene, err := cfg.Scene(bvcull.NewBatcher())
	if err != nil {
		return err
	}

	stats := sw.run(scene, model)
	logger.Noticef("culling %d objects over %d frames\n%s", sw.grid*sw.grid, sw.frames, stats.Table(scene.Culler))

	return nil
}

func compareSchemes(cfg config.Config, model *asset.Model, sw sweep) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Volume", "Coherency", "Outside", "Straddling", "Inside", "Avg plane evals"})

	for _, scheme := range []bvcull.Scheme{bvcull.SchemeSphere, bvcull.SchemeAABB, bvcull.SchemeOBB} {
		for _, coherent := range []bool{false, true} {
			cfg.Culling.Scheme = scheme.String()
			cfg.Culling.PlaneCoherency = coherent

			scene, err := cfg.Scene(bvcull.NewBatcher())
			if err != nil {
				return err
			}

			stats := sw.run(scene, model)
			table.Append([]string{
				scheme.String(),
				fmt.Sprintf("%t", coherent),
				fmt.Sprint(stats.Outside()),
				fmt.Sprint(stats.Straddling()),
				fmt.Sprint(stats.Inside),
				fmt.Sprintf("%.2f", stats.AvgPlaneTests()),
			})
		}
	}
	table.Render()
	logger.Noticef("culling %d objects over %d frames\n%s", sw.grid*sw.grid, sw.frames, buf.String())

	return nil
}

type sweep struct {
	grid    int
	spacing float64
	frames  int
}

// run places the objects, turns the camera a full circle and returns the
// statistics summed over all frames.
func (s sweep) run(scene *bvcull.Scene, model *asset.Model) bvcull.FrameStats {
	half := float64(s.grid-1) * s.spacing / 2
	for i := 0; i < s.grid; i++ {
		for j := 0; j < s.grid; j++ {
			transform := volume.NewTransform()
			transform.Position = mgl64.Vec3{float64(i)*s.spacing - half, 0, float64(j)*s.spacing - half}
			transform.Rotation = mgl64.QuatRotate(float64(i*s.grid+j), mgl64.Vec3{0, 1, 0})
			scene.AddObject(bvcull.NewRenderContext(model, transform))
		}
	}

	batcher, _ := scene.Batcher.(*bvcull.Batcher)
	reach := math.Max(half, s.spacing) * 1.5

	var total bvcull.FrameStats
	for frame := 0; frame < s.frames; frame++ {
		angle := 2 * math.Pi * float64(frame) / float64(s.frames)
		eye := mgl64.Vec3{0, s.spacing, 0}
		target := eye.Add(mgl64.Vec3{math.Sin(angle), -0.1, -math.Cos(angle)})
		cam := frustum.NewCamera(eye, target, mgl64.DegToRad(60), 16.0/9.0, 0.1, reach)
		f := cam.Frustum()

		if batcher != nil {
			batcher.Reset()
		}
		stats := scene.Frame(&f)
		total.Add(stats)

		logger.Debugf("frame %d: %d/%d objects visible", frame, stats.Rendered, stats.Requested)
	}

	return total
}

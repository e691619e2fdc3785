package main

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/akmonengine/bvcull/asset"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// FitModel displays the bounding volumes of a model and optionally saves
// them.
func FitModel(ctx *cli.Context) error {
	setupLogging(ctx)

	path, err := modelArg(ctx.Args())
	if err != nil {
		return err
	}

	model, err := loadModel(path)
	if err != nil {
		return err
	}

	obb := model.OBB
	aabb := model.AABB
	sphere := model.Sphere

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Volume", "Center", "Extents", "Axes", "Volume (units³)"})
	table.Append([]string{
		"Sphere",
		formatVec3(sphere.Center),
		fmt.Sprintf("r=%.4f", sphere.Radius),
		"",
		fmt.Sprintf("%.4f", 4.0/3.0*math.Pi*sphere.Radius*sphere.Radius*sphere.Radius),
	})
	table.Append([]string{
		"AABB",
		formatVec3(aabb.Center),
		formatVec3(aabb.HalfExtents),
		"",
		fmt.Sprintf("%.4f", 8*aabb.HalfExtents.X()*aabb.HalfExtents.Y()*aabb.HalfExtents.Z()),
	})
	table.Append([]string{
		"OBB",
		formatVec3(obb.Center),
		formatVec3(obb.HalfExtents),
		fmt.Sprintf("U%s V%s W%s", formatVec3(obb.U), formatVec3(obb.V), formatVec3(obb.W)),
		fmt.Sprintf("%.4f", obb.Volume()),
	})
	table.SetFooter([]string{"", "", "", "TRIANGLES", fmt.Sprint(len(model.Tree.Pool()) / 3)})
	table.Render()
	logger.Noticef("bounding volumes of %q\n%s", model.Name, buf.String())

	out := ctx.String("out")
	if out == "" {
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = asset.WriteModel(f, model); err != nil {
		return err
	}
	logger.Noticef("wrote %s", out)

	return nil
}

package main

import (
	"bytes"
	"fmt"

	"github.com/akmonengine/bvcull/log"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// BuildHierarchy builds the OBB tree of a model and displays its shape.
func BuildHierarchy(ctx *cli.Context) error {
	setupLogging(ctx)

	path, err := modelArg(ctx.Args())
	if err != nil {
		return err
	}

	// build timing is logged at debug level
	log.SetModuleLevel("bvh", log.Debug)

	model, err := loadModel(path)
	if err != nil {
		return err
	}

	tree := model.Tree
	stats := tree.Stats()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Triangles", fmt.Sprint(stats.Triangles)})
	table.Append([]string{"Nodes", fmt.Sprint(stats.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprint(stats.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprint(stats.MaxDepth)})
	table.Render()
	logger.Noticef("hierarchy of %q\n%s", model.Name, buf.String())

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Depth", "Nodes", "Mean triangles", "Mean OBB volume"})
	for depth := 0; depth < ctx.Int("levels") && depth <= tree.Depth(); depth++ {
		nodes := tree.Level(depth)
		var tris int
		var vol float64
		for _, h := range nodes {
			node := tree.Node(h)
			tris += node.Count / 3
			vol += node.OBB.Volume()
		}
		n := float64(len(nodes))
		table.Append([]string{
			fmt.Sprint(depth),
			fmt.Sprint(len(nodes)),
			fmt.Sprintf("%.1f", float64(tris)/n),
			fmt.Sprintf("%.4f", vol/n),
		})
	}
	table.Render()
	logger.Noticef("levels\n%s", buf.String())

	return nil
}

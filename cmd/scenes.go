package cmd

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-sppm-raytracer/pkg/scene"
)

// ListScenes lists the built-in scenes and the scene files of a directory.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	scenes, err := scene.ListAllScenes(ctx.String("dir"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Group", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, info.Name, info.Group, info.Description})
	}
	table.Render()
	logger.Noticef("available scenes\n%s", buf.String())
	return nil
}

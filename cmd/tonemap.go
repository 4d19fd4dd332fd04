package cmd

import (
	"errors"

	"github.com/urfave/cli"

	"github.com/df07/go-sppm-raytracer/pkg/renderer"
)

// Tonemap converts a radiance buffer written with --raw into an image.
func Tonemap(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	input := ctx.String("input")
	if input == "" {
		return errors.New("missing radiance buffer argument")
	}
	gamma := ctx.Float64("gamma")
	if gamma <= 0 {
		return errors.New("gamma must be positive")
	}

	radiance, err := renderer.ReadRadiance(input)
	if err != nil {
		return err
	}

	img := renderer.NewImage(radiance.Width, radiance.Height)
	radiance.Tonemap(img, gamma)

	out := ctx.String("out")
	if err := img.Save(out); err != nil {
		return err
	}
	logger.Noticef("wrote %s (%dx%d, gamma %.2f, average luminance %.3f)",
		out, radiance.Width, radiance.Height, gamma, img.AverageLuminance())
	return nil
}

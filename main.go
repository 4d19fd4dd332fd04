package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-sppm-raytracer/cmd"
	"github.com/df07/go-sppm-raytracer/pkg/log"
)

var logger = log.New("sppm-raytracer")

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "sppm-raytracer"
	app.Usage = "render scenes with path tracing or stochastic progressive photon mapping"
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
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, notice, warning or error",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "pt",
			Usage: "render a scene with path tracing",
			Description: `
Trace stratified camera samples through the scene. Paths are truncated after
--depth bounces, where only emitted light is collected.`,
			Flags:  append(append([]cli.Flag{}, cmd.RenderFlags...), cmd.PathTracingFlags...),
			Action: cmd.RenderPathTracing,
		},
		{
			Name:  "sppm",
			Usage: "render a scene with stochastic progressive photon mapping",
			Description: `
Every round traces camera paths to their first diffuse surface, then shoots
photons from the lights and gathers them around those visible points with a
shrinking radius. The image is the average of all rounds.`,
			Flags:  append(append([]cli.Flag{}, cmd.RenderFlags...), cmd.PhotonMappingFlags...),
			Action: cmd.RenderPhotonMapping,
		},
		{
			Name:  "tonemap",
			Usage: "convert a radiance buffer written with --raw into an image",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "input, i",
					Usage: "radiance buffer file",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "out.png",
					Usage: "output image (.bmp, .png or .webp)",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: 2.2,
					Usage: "display gamma",
				},
			},
			Action: cmd.Tonemap,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and scene files",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory to scan for .yml scene files",
				},
			},
			Action: cmd.ListScenes,
		},
	}
	return app
}

// run executes the app and logs a failed command, since cli only prints
// errors that carry an exit code.
func run(args []string) error {
	err := newApp().Run(args)
	if err != nil {
		logger.Errorf("%v", err)
	}
	return err
}

func main() {
	if err := run(os.Args); err != nil {
		os.Exit(1)
	}
}

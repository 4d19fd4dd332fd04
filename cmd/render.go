package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/df07/go-sppm-raytracer/pkg/camera"
	"github.com/df07/go-sppm-raytracer/pkg/integrator"
	"github.com/df07/go-sppm-raytracer/pkg/renderer"
	"github.com/df07/go-sppm-raytracer/pkg/scene"
)

// Flags shared by the pt and sppm commands.
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "input, i",
		Value: scene.BuiltinPrefix + "cornell",
		Usage: "scene file, or builtin:<name>",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "out.bmp",
		Usage: "output image (.bmp, .png or .webp)",
	},
	cli.StringFlag{
		Name:  "raw",
		Usage: "also write the linear radiance buffer to this file",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "override the scene's frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "override the scene's frame height",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: 42,
		Usage: "base random seed",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "worker goroutines (0 = one per cpu)",
	},
}

// PathTracingFlags are the pt specific flags.
var PathTracingFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "subp",
		Value: 1,
		Usage: "sub-pixel grid size per axis",
	},
	cli.IntFlag{
		Name:  "samples",
		Value: 1,
		Usage: "samples per sub-pixel",
	},
	cli.IntFlag{
		Name:  "depth",
		Value: 5,
		Usage: "bounces before paths are truncated",
	},
}

// PhotonMappingFlags are the sppm specific flags.
var PhotonMappingFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "rounds",
		Value: 5,
		Usage: "number of progressive rounds",
	},
	cli.IntFlag{
		Name:  "photons",
		Value: 10000,
		Usage: "photons emitted per round",
	},
	cli.Float64Flag{
		Name:  "alpha",
		Value: 0.7,
		Usage: "fraction of new photons kept when a radius shrinks",
	},
	cli.Float64Flag{
		Name:  "radius",
		Value: 0.02,
		Usage: "initial visible point radius",
	},
	cli.IntFlag{
		Name:  "vp",
		Value: 1,
		Usage: "visible points per pixel per round",
	},
	cli.IntFlag{
		Name:  "batch",
		Value: 1000,
		Usage: "photons per worker task",
	},
}

// RenderPathTracing renders a scene with the path tracer.
func RenderPathTracing(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	cfg := integrator.DefaultPathTracingConfig()
	cfg.SubPixel = ctx.Int("subp")
	cfg.SubSample = ctx.Int("samples")
	cfg.MaxDepth = ctx.Int("depth")
	cfg.Seed = ctx.Int64("seed")
	cfg.Workers = ctx.Int("workers")

	pt, err := integrator.NewPathTracer(sc, cfg, logger)
	if err != nil {
		return err
	}

	if err := render(ctx, sc, pt.Render); err != nil {
		return err
	}
	logger.Noticef("render statistics\n%s", pt.Stats().Table())
	return nil
}

// RenderPhotonMapping renders a scene with stochastic progressive photon mapping.
func RenderPhotonMapping(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	cfg := integrator.DefaultPhotonMappingConfig()
	cfg.Rounds = ctx.Int("rounds")
	cfg.PhotonsPerRound = ctx.Int("photons")
	cfg.Alpha = ctx.Float64("alpha")
	cfg.InitRadius = ctx.Float64("radius")
	cfg.VisiblePointsPerPixel = ctx.Int("vp")
	cfg.BatchSize = ctx.Int("batch")
	cfg.Seed = ctx.Int64("seed")
	cfg.Workers = ctx.Int("workers")

	pm, err := integrator.NewPhotonMapper(sc, cfg, logger)
	if err != nil {
		return err
	}

	if err := render(ctx, sc, pm.Render); err != nil {
		return err
	}
	logger.Noticef("render statistics\n%s", pm.Stats().Table())
	return nil
}

func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	input := ctx.String("input")
	if input == "" {
		return nil, errors.New("missing scene argument")
	}

	sc, err := scene.Open(input, logger)
	if err != nil {
		return nil, err
	}

	if w, h := ctx.Int("width"), ctx.Int("height"); w > 0 || h > 0 {
		cfg := sc.Camera.Config()
		if w > 0 {
			cfg.Width = w
		}
		if h > 0 {
			cfg.Height = h
		}
		sc.Camera = camera.NewPerspectiveCamera(cfg)
	}

	logger.Noticef("scene statistics\n%s", sc.Stats())
	return sc, nil
}

type renderFunc func(context.Context, renderer.Sink) (*renderer.Radiance, error)

// render runs fn until it finishes or the process is interrupted, then saves
// the image and the optional radiance buffer.
func render(ctx *cli.Context, sc *scene.Scene, fn renderFunc) error {
	renderer.LogHostInfo(logger)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img := renderer.NewImage(sc.Camera.Width(), sc.Camera.Height())
	radiance, err := fn(runCtx, img)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if err := img.Save(out); err != nil {
		return err
	}
	logger.Noticef("wrote %s", out)

	if raw := ctx.String("raw"); raw != "" {
		if err := os.MkdirAll(filepath.Dir(raw), 0755); err != nil {
			return err
		}
		if err := renderer.WriteRadiance(raw, radiance); err != nil {
			return err
		}
		logger.Noticef("wrote radiance buffer %s", raw)
	}
	return nil
}

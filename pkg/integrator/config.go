package integrator

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings
var ErrInvalidConfig = errors.New("invalid integrator config")

// PathTracingConfig controls the path tracer
type PathTracingConfig struct {
	SubPixel  int     // Sub-pixel grid per axis (SubPixel² strata per pixel)
	SubSample int     // Samples per sub-pixel
	MaxDepth  int     // Bounces before the path is truncated to emission only
	Epsilon   float64 // Offset of secondary rays and minimum hit distance
	Seed      int64   // Base seed; each pixel derives its own generator
	Workers   int     // Worker goroutines (0 = NumCPU)
	TileSize  int     // Tile edge length in pixels
}

// DefaultPathTracingConfig returns one sample per pixel and depth-5 truncation
func DefaultPathTracingConfig() PathTracingConfig {
	return PathTracingConfig{
		SubPixel:  1,
		SubSample: 1,
		MaxDepth:  5,
		Epsilon:   1e-4,
		Seed:      42,
		TileSize:  32,
	}
}

// SamplesPerPixel returns the total camera samples taken per pixel
func (c PathTracingConfig) SamplesPerPixel() int {
	return c.SubPixel * c.SubPixel * c.SubSample
}

// Validate checks the configuration
func (c PathTracingConfig) Validate() error {
	switch {
	case c.SubPixel < 1:
		return fmt.Errorf("%w: subpixel must be at least 1, got %d", ErrInvalidConfig, c.SubPixel)
	case c.SubSample < 1:
		return fmt.Errorf("%w: subsample must be at least 1, got %d", ErrInvalidConfig, c.SubSample)
	case c.MaxDepth < 1:
		return fmt.Errorf("%w: max depth must be at least 1, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, c.Epsilon)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.TileSize < 1:
		return fmt.Errorf("%w: tile size must be at least 1, got %d", ErrInvalidConfig, c.TileSize)
	}
	return nil
}

// PhotonMappingConfig controls stochastic progressive photon mapping
type PhotonMappingConfig struct {
	Alpha                 float64 // Fraction of new photons kept when a radius shrinks, in (0, 1)
	InitRadius            float64 // Starting radius of every visible point
	Rounds                int     // Forward/backward iterations
	PhotonsPerRound       int     // Photons emitted per round, split evenly across lights
	VisiblePointsPerPixel int     // Jittered camera samples per pixel per round
	MaxForwardDepth       int     // Specular bounces followed before giving up on a pixel
	MaxPhotonDepth        int     // Hard cap on photon bounces
	Epsilon               float64 // Offset of secondary rays and minimum hit distance
	Seed                  int64   // Base seed
	Workers               int     // Worker goroutines (0 = NumCPU)
	TileSize              int     // Tile edge length of forward tasks
	BatchSize             int     // Photons per backward task
}

// DefaultPhotonMappingConfig returns the settings used by the sppm command
func DefaultPhotonMappingConfig() PhotonMappingConfig {
	return PhotonMappingConfig{
		Alpha:                 0.7,
		InitRadius:            0.02,
		Rounds:                5,
		PhotonsPerRound:       10000,
		VisiblePointsPerPixel: 1,
		MaxForwardDepth:       10,
		MaxPhotonDepth:        16,
		Epsilon:               1e-4,
		Seed:                  42,
		TileSize:              32,
		BatchSize:             1000,
	}
}

// Validate checks the configuration
func (c PhotonMappingConfig) Validate() error {
	switch {
	case c.Alpha <= 0 || c.Alpha >= 1:
		return fmt.Errorf("%w: alpha must be in (0, 1), got %g", ErrInvalidConfig, c.Alpha)
	case c.InitRadius <= 0:
		return fmt.Errorf("%w: initial radius must be positive, got %g", ErrInvalidConfig, c.InitRadius)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidConfig, c.Rounds)
	case c.PhotonsPerRound < 1:
		return fmt.Errorf("%w: photons per round must be at least 1, got %d", ErrInvalidConfig, c.PhotonsPerRound)
	case c.VisiblePointsPerPixel < 1:
		return fmt.Errorf("%w: visible points per pixel must be at least 1, got %d", ErrInvalidConfig, c.VisiblePointsPerPixel)
	case c.MaxForwardDepth < 1:
		return fmt.Errorf("%w: max forward depth must be at least 1, got %d", ErrInvalidConfig, c.MaxForwardDepth)
	case c.MaxPhotonDepth < 1:
		return fmt.Errorf("%w: max photon depth must be at least 1, got %d", ErrInvalidConfig, c.MaxPhotonDepth)
	case c.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, c.Epsilon)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.TileSize < 1:
		return fmt.Errorf("%w: tile size must be at least 1, got %d", ErrInvalidConfig, c.TileSize)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidConfig, c.BatchSize)
	}
	return nil
}

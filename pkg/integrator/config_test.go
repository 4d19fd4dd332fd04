package integrator

import (
	"errors"
	"testing"
)

func TestDefaultConfigsAreValid(t *testing.T) {
	if err := DefaultPathTracingConfig().Validate(); err != nil {
		t.Errorf("Default path tracing config invalid: %v", err)
	}
	if err := DefaultPhotonMappingConfig().Validate(); err != nil {
		t.Errorf("Default photon mapping config invalid: %v", err)
	}
}

func TestPathTracingConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PathTracingConfig)
	}{
		{"zero subpixel", func(c *PathTracingConfig) { c.SubPixel = 0 }},
		{"zero subsample", func(c *PathTracingConfig) { c.SubSample = 0 }},
		{"zero depth", func(c *PathTracingConfig) { c.MaxDepth = 0 }},
		{"zero epsilon", func(c *PathTracingConfig) { c.Epsilon = 0 }},
		{"negative workers", func(c *PathTracingConfig) { c.Workers = -1 }},
		{"zero tile size", func(c *PathTracingConfig) { c.TileSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPathTracingConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestPathTracingConfig_SamplesPerPixel(t *testing.T) {
	cfg := DefaultPathTracingConfig()
	cfg.SubPixel = 3
	cfg.SubSample = 2
	if got := cfg.SamplesPerPixel(); got != 18 {
		t.Errorf("Expected 18 samples per pixel, got %d", got)
	}
}

func TestPhotonMappingConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PhotonMappingConfig)
	}{
		{"zero alpha", func(c *PhotonMappingConfig) { c.Alpha = 0 }},
		{"alpha one", func(c *PhotonMappingConfig) { c.Alpha = 1 }},
		{"zero radius", func(c *PhotonMappingConfig) { c.InitRadius = 0 }},
		{"zero rounds", func(c *PhotonMappingConfig) { c.Rounds = 0 }},
		{"zero photons", func(c *PhotonMappingConfig) { c.PhotonsPerRound = 0 }},
		{"zero visible points", func(c *PhotonMappingConfig) { c.VisiblePointsPerPixel = 0 }},
		{"zero forward depth", func(c *PhotonMappingConfig) { c.MaxForwardDepth = 0 }},
		{"zero photon depth", func(c *PhotonMappingConfig) { c.MaxPhotonDepth = 0 }},
		{"zero epsilon", func(c *PhotonMappingConfig) { c.Epsilon = 0 }},
		{"negative workers", func(c *PhotonMappingConfig) { c.Workers = -2 }},
		{"zero tile size", func(c *PhotonMappingConfig) { c.TileSize = 0 }},
		{"zero batch", func(c *PhotonMappingConfig) { c.BatchSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPhotonMappingConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Integrator      string        // "pt" or "sppm"
	Width, Height   int           // Image size
	Workers         int           // Worker goroutines used
	SamplesPerPixel int           // Camera samples per pixel (per round for SPPM)
	Rounds          int           // SPPM rounds (0 for path tracing)
	Photons         int           // Photons traced in total
	VisiblePoints   int           // Visible points registered in the last round
	Duration        time.Duration // Wall-clock render time
}

// TotalPixels returns the number of pixels rendered
func (rs RenderStats) TotalPixels() int {
	return rs.Width * rs.Height
}

// Table builds a tabular representation of the statistics
func (rs RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Stat", "Value"})
	table.Append([]string{"Integrator", rs.Integrator})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", rs.Width, rs.Height)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", rs.Workers)})
	table.Append([]string{"Samples/pixel", fmt.Sprintf("%d", rs.SamplesPerPixel)})
	if rs.Rounds > 0 {
		table.Append([]string{"Rounds", fmt.Sprintf("%d", rs.Rounds)})
		table.Append([]string{"Photons", fmt.Sprintf("%d", rs.Photons)})
		table.Append([]string{"Visible points", fmt.Sprintf("%d", rs.VisiblePoints)})
	}
	table.SetFooter([]string{"Time", rs.Duration.Round(time.Millisecond).String()})
	table.Render()
	return buf.String()
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the luminance variance of the samples
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return max(0, meanSq-mean*mean)
}

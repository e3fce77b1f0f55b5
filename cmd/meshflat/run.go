package main

import (
	"fmt"
	"math"
	"time"

	"github.com/philipparndt/meshflat/internal/config"
	"github.com/philipparndt/meshflat/pkg/analysis"
	"github.com/philipparndt/meshflat/pkg/flatten"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/philipparndt/meshflat/pkg/preview"
	"go.uber.org/zap"
)

// job is one flatten run from an input file to an output file
type job struct {
	input  string
	output string
	cfg    *config.Config
	log    *zap.Logger
}

// outcome of a job
type outcome struct {
	surface    *mesh.Mesh
	result     *flatten.Result
	distortion *analysis.DistortionReport
	removed    int
	elapsed    time.Duration
}

func (j job) run() (*outcome, error) {
	start := time.Now()

	m, err := readMesh(j.input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", j.input, err)
	}

	surface := m
	removed := len(m.Unreferenced())
	if removed > 0 {
		surface, _ = m.Compact()
		j.log.Info("removed unreferenced vertices", zap.Int("count", removed))
	}

	opts, err := j.cfg.FlattenOptions(j.log)
	if err != nil {
		return nil, err
	}

	result, err := flatten.New(opts).Flatten(surface)
	if err != nil {
		return nil, err
	}

	if err := writeMesh(j.output, j.cfg.Output.Format, result.Mesh); err != nil {
		return nil, fmt.Errorf("writing %s: %w", j.output, err)
	}

	out := &outcome{
		surface: surface,
		result:  result,
		removed: removed,
		elapsed: time.Since(start),
	}
	if j.cfg.Output.Report {
		out.distortion, err = analysis.Distortion(surface, result.Mesh)
		if err != nil {
			return nil, err
		}
	}

	if j.cfg.Output.Preview != "" {
		if err := j.renderPreview(surface, result); err != nil {
			return nil, err
		}
	}

	j.log.Info("flattened",
		zap.String("input", j.input),
		zap.String("output", j.output),
		zap.Stringer("abf", result.ABF.Status),
		zap.Duration("elapsed", out.elapsed))
	return out, nil
}

func (j job) renderPreview(surface *mesh.Mesh, result *flatten.Result) error {
	opts := preview.DefaultOptions()
	opts.Size = j.cfg.Output.PreviewSize
	opts.Pins = result.Pins.Vertices[:]

	img, err := preview.Render(surface, result.Mesh, opts)
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	if err := preview.WritePNG(j.cfg.Output.Preview, img); err != nil {
		return fmt.Errorf("writing %s: %w", j.cfg.Output.Preview, err)
	}
	j.log.Debug("wrote preview", zap.String("path", j.cfg.Output.Preview))
	return nil
}

func printOutcome(out *outcome) {
	r := out.result
	fmt.Println("Flatten Result")
	fmt.Println("==============")
	fmt.Printf("Vertices: %d\n", out.surface.VertexCount())
	fmt.Printf("Triangles: %d\n", out.surface.FaceCount())
	if out.removed > 0 {
		fmt.Printf("Removed unreferenced vertices: %d\n", out.removed)
	}

	fmt.Println("\nABF:")
	fmt.Printf("  Status: %s\n", r.ABF.Status)
	if r.ABF.Status != flatten.ABFSkipped {
		fmt.Printf("  Iterations: %d\n", r.ABF.Iterations)
		fmt.Printf("  Gradient norm: %.6g (limit %.6g)\n", r.ABF.Norm, r.ABF.Limit)
	}

	fmt.Println("\nPins:")
	for i, v := range r.Pins.Vertices {
		fmt.Printf("  Vertex %d -> (%.6f, %.6f)\n", v, r.Pins.UV[i].X, r.Pins.UV[i].Y)
	}
	if r.Pins.Degenerate {
		fmt.Println("  (extreme vertices coincide, pinned first boundary edge)")
	}

	bounds := r.Mesh.UVBounds().Size()
	fmt.Printf("\nUV Size: %.6f x %.6f\n", bounds.X, bounds.Y)
	fmt.Printf("Elapsed: %s\n", out.elapsed.Round(time.Millisecond))

	if d := out.distortion; d != nil {
		fmt.Println("\nDistortion:")
		fmt.Printf("  Area ratio: mean %.4f, std %.4f, min %.4f, max %.4f\n",
			d.AreaRatio.Mean, d.AreaRatio.StdDev, d.AreaRatio.Min, d.AreaRatio.Max)
		fmt.Printf("  Angle error (deg): mean %.4f, std %.4f, max %.4f\n",
			degrees(d.AngleError.Mean), degrees(d.AngleError.StdDev), degrees(d.AngleError.Max))
		fmt.Printf("  Flipped triangles: %d\n", d.Flipped)
		fmt.Printf("  Degenerate triangles: %d\n", d.Degenerate)
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

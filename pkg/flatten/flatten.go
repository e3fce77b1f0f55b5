// Package flatten computes a low-distortion planar parameterization of an
// open triangle mesh.
//
// A run builds the half-edge topology, optionally optimizes the corner
// angles with angle based flattening (ABF++) and finally solves the
// angle-based least squares conformal map (LSCM) with two pinned vertices.
package flatten

import (
	"fmt"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/philipparndt/meshflat/pkg/sparse"
	"go.uber.org/zap"
)

// DefaultMaxIterations is the ABF iteration budget used by DefaultOptions
const DefaultMaxIterations = 20

// Options configures a Flattener
type Options struct {
	UseABF        bool
	MaxIterations int

	// Systems creates the linear systems. Nil selects sparse.New with
	// default options.
	Systems sparse.Factory
	Logger  *zap.Logger
}

// DefaultOptions enables ABF with the default iteration budget
func DefaultOptions() Options {
	return Options{
		UseABF:        true,
		MaxIterations: DefaultMaxIterations,
	}
}

// Flattener runs the pipeline with fixed options. It holds no per-mesh
// state and may be shared between goroutines.
type Flattener struct {
	opts Options
}

// New creates a Flattener
func New(opts Options) *Flattener {
	if opts.Systems == nil {
		opts.Systems = sparse.New(sparse.DefaultOptions())
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Flattener{opts: opts}
}

// Result is the output of a successful run
type Result struct {
	// Mesh has the input topology, positions (u, 0, v) and the UV channel.
	Mesh *mesh.Mesh
	UV   []geometry.Vector2
	ABF  ABFReport
	Pins Pins
}

// Converged reports whether ABF ran and reached its convergence limit
func (r *Result) Converged() bool {
	return r.ABF.Status == ABFConverged
}

// Flatten parameterizes m. The input is not modified. Fatal failures are
// returned as *Error and produce no result.
func (f *Flattener) Flatten(m *mesh.Mesh) (*Result, error) {
	log := f.opts.Logger
	if f.opts.MaxIterations < 0 {
		return nil, stageError(StageABF, fmt.Errorf("%d: %w", f.opts.MaxIterations, ErrInvalidIterations))
	}

	t, err := BuildTopology(m)
	if err != nil {
		return nil, stageError(StageTopology, err)
	}
	log.Debug("topology built",
		zap.String("mesh", m.Name),
		zap.Int("vertices", len(t.vertices)),
		zap.Int("faces", len(t.triangles)),
		zap.Int("interior", len(t.interior)),
		zap.Int("boundaryLoops", len(t.boundary)))

	report := ABFReport{Status: ABFSkipped, Limit: t.limit}
	if f.opts.UseABF {
		abf := NewABF(t, f.opts.Systems, log)
		abf.ScaleAngles()
		report = abf.Solve(f.opts.MaxIterations)
	}

	pins, err := SolveLSCM(t, f.opts.Systems, log)
	if err != nil {
		return nil, stageError(StageLSCM, err)
	}

	uv := t.UV()
	return &Result{
		Mesh: m.Flattened(uv),
		UV:   uv,
		ABF:  report,
		Pins: pins,
	}, nil
}

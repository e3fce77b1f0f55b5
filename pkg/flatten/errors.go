package flatten

import (
	"errors"
	"fmt"

	"github.com/philipparndt/meshflat/pkg/halfedge"
)

var (
	// ErrNoBoundary is returned for closed meshes.
	ErrNoBoundary = errors.New("mesh has no boundary")
	// ErrNoInterior is returned when every vertex lies on the boundary.
	ErrNoInterior = errors.New("mesh has no interior vertices")
	// ErrUnreferencedVertex is returned when a vertex belongs to no face.
	ErrUnreferencedVertex = errors.New("vertex is not referenced by any face")
	// ErrNonManifoldVertex is returned when the faces around an interior
	// vertex do not form a single fan.
	ErrNonManifoldVertex = errors.New("non-manifold vertex")
	// ErrNonManifoldEdge is returned when two faces share a directed edge.
	ErrNonManifoldEdge = halfedge.ErrNonManifoldEdge
	// ErrLSCMSolve is returned when the conformal system cannot be solved.
	ErrLSCMSolve = errors.New("conformal solve failed")
	// ErrInvalidIterations is returned for a negative ABF iteration count.
	ErrInvalidIterations = errors.New("iteration count must not be negative")
)

// Stage names the pipeline step an error came from
type Stage string

const (
	StageTopology Stage = "topology"
	StageABF      Stage = "abf"
	StageLSCM     Stage = "lscm"
)

// Error is a fatal flattening failure tagged with its stage
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("flatten %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}

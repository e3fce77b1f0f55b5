// Package sparse provides the linear systems used by the flattening solvers:
// square systems and overdetermined least-squares systems assembled entry by
// entry, with optional locked variables.
package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrSingular is returned when the system has no unique solution.
	ErrSingular = errors.New("singular system")
	// ErrNotConverged is returned when an iterative solve runs out of iterations.
	ErrNotConverged = errors.New("iterative solve did not converge")
	// ErrReleased is returned when a released system is solved.
	ErrReleased = errors.New("system already released")
)

// System is a linear system assembled by accumulation.
//
// AddMatrix and AddRHS add to existing coefficients. Locked variables are
// treated as known values and moved to the right-hand side on Solve. After
// a successful Solve, Variable returns the value of each unknown.
type System interface {
	AddMatrix(row, col int, value float64)
	AddRHS(row int, value float64)
	Lock(col int, value float64)
	Solve() error
	Variable(col int) float64
	Release()
}

// Factory creates linear systems
type Factory interface {
	// Square returns an n x n system solved exactly.
	Square(n int) System
	// LeastSquares returns a rows x cols system solved in the least-squares sense.
	LeastSquares(rows, cols int) System
}

// Method selects the solver backend
type Method string

const (
	// MethodAuto uses dense factorization for small systems and iterative
	// solvers above DenseLimit free unknowns.
	MethodAuto Method = "auto"
	// MethodDirect always factorizes densely.
	MethodDirect Method = "direct"
	// MethodIterative always uses the Krylov solvers.
	MethodIterative Method = "iterative"
)

// Options configures a Solver
type Options struct {
	Method        Method
	Tolerance     float64
	MaxIterations int
	DenseLimit    int
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Method:     MethodAuto,
		Tolerance:  1e-10,
		DenseLimit: 1200,
	}
}

// ParseMethod converts a configuration string into a Method
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodAuto, MethodDirect, MethodIterative:
		return m, nil
	case "":
		return MethodAuto, nil
	default:
		return "", fmt.Errorf("unknown solver method %q", s)
	}
}

// Solver is the gonum-backed Factory
type Solver struct {
	opts Options
}

// New returns a Solver. Zero fields in opts fall back to DefaultOptions.
func New(opts Options) *Solver {
	def := DefaultOptions()
	if opts.Method == "" {
		opts.Method = def.Method
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.DenseLimit <= 0 {
		opts.DenseLimit = def.DenseLimit
	}
	return &Solver{opts: opts}
}

// Options returns the effective options
func (s *Solver) Options() Options {
	return s.opts
}

// Square implements Factory
func (s *Solver) Square(n int) System {
	return newSystem(n, n, true, s.opts)
}

// LeastSquares implements Factory
func (s *Solver) LeastSquares(rows, cols int) System {
	return newSystem(rows, cols, false, s.opts)
}

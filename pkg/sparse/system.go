package sparse

import (
	"fmt"

	spmat "github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type system struct {
	opts   Options
	rows   int
	cols   int
	square bool

	entries *spmat.DOK
	rhs     []float64

	locked []bool
	values []float64

	released bool
}

func newSystem(rows, cols int, square bool, opts Options) *system {
	s := &system{
		opts:   opts,
		rows:   rows,
		cols:   cols,
		square: square,
		rhs:    make([]float64, rows),
		locked: make([]bool, cols),
		values: make([]float64, cols),
	}
	if rows > 0 && cols > 0 {
		s.entries = spmat.NewDOK(rows, cols)
	}
	return s
}

func (s *system) AddMatrix(row, col int, value float64) {
	if s.released || value == 0 {
		return
	}
	s.entries.Set(row, col, s.entries.At(row, col)+value)
}

func (s *system) AddRHS(row int, value float64) {
	if s.released {
		return
	}
	s.rhs[row] += value
}

func (s *system) Lock(col int, value float64) {
	if s.released {
		return
	}
	s.locked[col] = true
	s.values[col] = value
}

func (s *system) Variable(col int) float64 {
	if s.released {
		return 0
	}
	return s.values[col]
}

func (s *system) Release() {
	s.released = true
	s.entries = nil
	s.rhs = nil
	s.locked = nil
	s.values = nil
}

// compressed is the system restricted to its free unknowns
type compressed struct {
	rows int
	cols int
	m    *spmat.CSR
	b    []float64
	free []int
}

func (s *system) compress() *compressed {
	index := make([]int, s.cols)
	var free []int
	for c := 0; c < s.cols; c++ {
		if s.locked[c] {
			index[c] = -1
			continue
		}
		index[c] = len(free)
		free = append(free, c)
	}

	a := &compressed{
		rows: s.rows,
		cols: len(free),
		b:    append([]float64(nil), s.rhs...),
		free: free,
	}
	if a.rows == 0 || a.cols == 0 {
		return a
	}

	reduced := spmat.NewDOK(a.rows, a.cols)
	if s.entries != nil {
		s.entries.ToCSR().DoNonZero(func(r, c int, v float64) {
			if index[c] < 0 {
				a.b[r] -= v * s.values[c]
				return
			}
			reduced.Set(r, index[c], v)
		})
	}
	a.m = reduced.ToCSR()
	return a
}

// mulVec sets dst = A x
func (a *compressed) mulVec(dst, x []float64) {
	for r := range dst {
		dst[r] = 0
	}
	a.m.DoNonZero(func(r, c int, v float64) {
		dst[r] += v * x[c]
	})
}

// mulTransVec sets dst = Aᵀ y
func (a *compressed) mulTransVec(dst, y []float64) {
	for c := range dst {
		dst[c] = 0
	}
	a.m.DoNonZero(func(r, c int, v float64) {
		dst[c] += v * y[r]
	})
}

// dense copies A into a dense matrix
func (a *compressed) dense() *mat.Dense {
	d := mat.NewDense(a.rows, a.cols, nil)
	a.m.DoNonZero(func(r, c int, v float64) {
		d.Set(r, c, v)
	})
	return d
}

func (s *system) Solve() error {
	if s.released {
		return ErrReleased
	}

	a := s.compress()
	if a.cols == 0 {
		return nil
	}
	if a.rows == 0 {
		return fmt.Errorf("0x%d system: %w", a.cols, ErrSingular)
	}

	exact := s.square && a.cols == a.rows
	dense := s.opts.Method == MethodDirect ||
		(s.opts.Method != MethodIterative && a.cols <= s.opts.DenseLimit)

	var (
		x   []float64
		err error
	)
	switch {
	case exact && dense:
		x, err = solveDenseSquare(a)
	case exact:
		x, err = solveBiCGSTAB(a, s.opts.Tolerance, s.maxIterations(a))
	case dense:
		x, err = solveDenseNormal(a)
	default:
		x, err = solveCGLS(a, s.opts.Tolerance, s.maxIterations(a))
	}
	if err != nil {
		return fmt.Errorf("%dx%d system: %w", a.rows, a.cols, err)
	}

	for i, c := range a.free {
		s.values[c] = x[i]
	}
	return nil
}

func (s *system) maxIterations(a *compressed) int {
	if s.opts.MaxIterations > 0 {
		return s.opts.MaxIterations
	}
	return 10 * a.cols
}

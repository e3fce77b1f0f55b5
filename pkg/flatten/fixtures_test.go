package flatten

import (
	"testing"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/philipparndt/meshflat/pkg/sparse"
	"github.com/stretchr/testify/require"
)

func v3(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

func plane(t *testing.T, cols, rows int, width, height float64) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Plane(cols, rows, width, height)
	require.NoError(t, err)
	return m
}

// dome is a 4x4 grid whose four interior vertices are lifted out of plane
func dome(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := plane(t, 4, 4, 3, 3)
	for _, v := range []int{5, 6, 9, 10} {
		m.Vertices[v].Z = 0.4
	}
	m.Vertices[6].Z = 0.6
	return m
}

func tetrahedron() *mesh.Mesh {
	m := mesh.New("tetrahedron")
	m.Vertices = []geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0), v3(0, 0, 1)}
	m.Faces = [][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}}
	return m
}

func singleTriangle() *mesh.Mesh {
	m := mesh.New("triangle")
	m.Vertices = []geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0)}
	m.Faces = [][3]int{{0, 1, 2}}
	return m
}

// diamond is a planar fan whose vertices all lie in the +x/-y quadrant of
// vertex 0, so no vertex dominates another on every axis.
func diamond() *mesh.Mesh {
	m := mesh.New("diamond")
	m.Vertices = []geometry.Vector3{
		v3(0, 0, 0), v3(2, -1, 0), v3(3, -3, 0), v3(1, -2, 0), v3(1.5, -1.5, 0),
	}
	m.Faces = [][3]int{{0, 3, 4}, {3, 2, 4}, {2, 1, 4}, {1, 0, 4}}
	return m
}

// cones shares its apex between two closed fans
func cones() *mesh.Mesh {
	m := mesh.New("cones")
	m.Vertices = []geometry.Vector3{
		v3(0, 0, 0),
		v3(1, 0, 1), v3(-1, 1, 1), v3(-1, -1, 1),
		v3(1, 0, -1), v3(-1, 1, -1), v3(-1, -1, -1),
	}
	m.Faces = [][3]int{
		{0, 1, 2}, {0, 2, 3}, {0, 3, 1},
		{0, 4, 5}, {0, 5, 6}, {0, 6, 4},
	}
	return m
}

// failingFactory wraps the default solver and forces Solve to fail for the
// selected system kind.
type failingFactory struct {
	sparse.Factory
	square       bool
	leastSquares bool
}

func newFailingFactory(square, leastSquares bool) failingFactory {
	return failingFactory{
		Factory:      sparse.New(sparse.DefaultOptions()),
		square:       square,
		leastSquares: leastSquares,
	}
}

func (f failingFactory) Square(n int) sparse.System {
	s := f.Factory.Square(n)
	if f.square {
		return failingSystem{s}
	}
	return s
}

func (f failingFactory) LeastSquares(rows, cols int) sparse.System {
	s := f.Factory.LeastSquares(rows, cols)
	if f.leastSquares {
		return failingSystem{s}
	}
	return s
}

type failingSystem struct {
	sparse.System
}

func (failingSystem) Solve() error {
	return sparse.ErrSingular
}

// recordingSystem keeps the accumulated coefficients by (row, col)
type recordingSystem struct {
	sparse.System
	entries map[[2]int]float64
}

func newRecordingSystem() *recordingSystem {
	return &recordingSystem{entries: map[[2]int]float64{}}
}

func (s *recordingSystem) AddMatrix(row, col int, value float64) {
	s.entries[[2]int{row, col}] += value
}

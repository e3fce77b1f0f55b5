package flatten

import (
	"fmt"
	"math"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/sparse"
	"go.uber.org/zap"
)

// SolveLSCM computes the conformal parameterization of t from its current
// angles and stores the result in the vertex records. The unknowns are
// (u, v) per vertex, column 2i and 2i+1.
func SolveLSCM(t *Topology, systems sparse.Factory, log *zap.Logger) (Pins, error) {
	if log == nil {
		log = zap.NewNop()
	}

	pins := t.selectPins()
	if pins.Degenerate {
		log.Info("pin vertices coincide, pinning first boundary edge",
			zap.Int("pin0", pins.Vertices[0]),
			zap.Int("pin1", pins.Vertices[1]))
	}

	sys := systems.LeastSquares(2*len(t.triangles), 2*len(t.vertices))
	defer sys.Release()

	for i, v := range pins.Vertices {
		sys.Lock(2*v, pins.UV[i].X)
		sys.Lock(2*v+1, pins.UV[i].Y)
	}

	row := 0
	for f := range t.triangles {
		addConformalRows(sys, t, f, row)
		row += 2
	}

	if err := sys.Solve(); err != nil {
		return pins, fmt.Errorf("%w: %w", ErrLSCMSolve, err)
	}

	for v := range t.vertices {
		t.vertices[v].uv = geometry.NewVector2(sys.Variable(2*v), sys.Variable(2*v+1))
	}
	return pins, nil
}

// addConformalRows adds the two angle-based conformal equations of face f.
// The corners are rotated locally so the one with the largest sine comes
// last; the stored records keep their order.
func addConformalRows(sys sparse.System, t *Topology, f, row int) {
	var v [3]int
	var alpha, sine [3]float64
	for k, id := range t.triangles[f].angles {
		v[k] = t.angles[id].vertex
		alpha[k] = t.angles[id].alpha
		sine[k] = math.Sin(alpha[k])
	}

	for i := 0; i < 2 && (sine[2] < sine[0] || sine[2] < sine[1]); i++ {
		v[0], v[1], v[2] = v[2], v[0], v[1]
		alpha[0], alpha[1], alpha[2] = alpha[2], alpha[0], alpha[1]
		sine[0], sine[1], sine[2] = sine[2], sine[0], sine[1]
	}

	ratio := 1.0
	if sine[2] != 0 {
		ratio = sine[1] / sine[2]
	}
	cosine := math.Cos(alpha[0]) * ratio
	sin := sine[0] * ratio

	sys.AddMatrix(row, 2*v[0], cosine-1)
	sys.AddMatrix(row, 2*v[0]+1, -sin)
	sys.AddMatrix(row, 2*v[1], -cosine)
	sys.AddMatrix(row, 2*v[1]+1, sin)
	sys.AddMatrix(row, 2*v[2], 1)

	sys.AddMatrix(row+1, 2*v[0], sin)
	sys.AddMatrix(row+1, 2*v[0]+1, cosine-1)
	sys.AddMatrix(row+1, 2*v[1], -sin)
	sys.AddMatrix(row+1, 2*v[1]+1, -cosine)
	sys.AddMatrix(row+1, 2*v[2]+1, 1)
}

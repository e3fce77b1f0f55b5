package flatten

import (
	"math"

	"github.com/philipparndt/meshflat/pkg/halfedge"
	"github.com/philipparndt/meshflat/pkg/sparse"
	"go.uber.org/zap"
)

// ABFStatus describes how the angle optimization ended
type ABFStatus int

const (
	// ABFSkipped means angle optimization was disabled.
	ABFSkipped ABFStatus = iota
	// ABFConverged means the gradient norm dropped below the limit.
	ABFConverged
	// ABFMaxIterations means the iteration budget ran out first.
	ABFMaxIterations
	// ABFFallback means the reduced system was singular and the conformal
	// solve used the angles reached so far.
	ABFFallback
)

func (s ABFStatus) String() string {
	switch s {
	case ABFSkipped:
		return "skipped"
	case ABFConverged:
		return "converged"
	case ABFMaxIterations:
		return "max-iterations"
	case ABFFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ABFReport summarizes an angle optimization run
type ABFReport struct {
	Status     ABFStatus
	Iterations int
	Norm       float64
	Limit      float64
}

// ABF optimizes the angles of a Topology in place
type ABF struct {
	t       *Topology
	systems sparse.Factory
	log     *zap.Logger

	bInterior []float64
}

// NewABF returns an optimizer working on t
func NewABF(t *Topology, systems sparse.Factory, log *zap.Logger) *ABF {
	if log == nil {
		log = zap.NewNop()
	}
	return &ABF{
		t:         t,
		systems:   systems,
		log:       log,
		bInterior: make([]float64, 2*len(t.interior)),
	}
}

// ScaleAngles rescales the target angles around every interior vertex so
// they sum to 2π, and restarts the current angles from the targets.
func (a *ABF) ScaleAngles() {
	for _, v := range a.t.interior {
		ids := a.t.vertices[v].angles

		sum := 0.0
		for _, id := range ids {
			sum += a.t.angles[id].beta
		}

		scale := 0.0
		if sum != 0 {
			scale = 2 * math.Pi / sum
		}
		for _, id := range ids {
			ang := &a.t.angles[id]
			ang.beta *= scale
			ang.alpha = ang.beta
		}
	}
}

// Solve runs at most maxIterations Newton steps. A singular reduced system
// ends the optimization early with ABFFallback; it is not an error.
func (a *ABF) Solve(maxIterations int) ABFReport {
	report := ABFReport{Status: ABFMaxIterations, Limit: a.t.limit}

	a.computeSines()
	for i := 0; ; i++ {
		report.Norm = a.computeGradient()
		report.Iterations = i
		a.log.Debug("abf iteration",
			zap.Int("iteration", i),
			zap.Float64("norm", report.Norm))

		if report.Norm < a.t.limit {
			report.Status = ABFConverged
			break
		}
		if i >= maxIterations {
			break
		}

		if err := a.invertMatrix(); err != nil {
			a.log.Warn("abf failed to invert matrix, falling back to lscm",
				zap.Int("iteration", i),
				zap.Error(err))
			report.Status = ABFFallback
			break
		}
		a.computeSines()
	}

	a.log.Info("abf finished",
		zap.Stringer("status", report.Status),
		zap.Int("iterations", report.Iterations),
		zap.Float64("norm", report.Norm),
		zap.Float64("limit", report.Limit))
	return report
}

func (a *ABF) computeSines() {
	for i := range a.t.angles {
		ang := &a.t.angles[i]
		ang.sine, ang.cosine = math.Sincos(ang.alpha)
	}
}

// computeGradient refreshes bAlpha, bTriangle and bInterior and returns the
// squared norm of the gradient.
func (a *ABF) computeGradient() float64 {
	t := a.t
	norm := 0.0

	for f := range t.triangles {
		tri := &t.triangles[f]
		sum := 0.0
		for k, id := range tri.angles {
			g := a.gradientAlpha(f, k)
			t.angles[id].bAlpha = -g
			norm += g * g
			sum += t.angles[id].alpha
		}

		g := sum - math.Pi
		tri.bTriangle = -g
		norm += g * g
	}

	n := len(t.interior)
	for i, v := range t.interior {
		gplanar := -2 * math.Pi
		for _, id := range t.vertices[v].angles {
			gplanar += t.angles[id].alpha
		}
		a.bInterior[i] = -gplanar
		norm += gplanar * gplanar

		glength := a.sinProduct(v, halfedge.None)
		a.bInterior[n+i] = -glength
		norm += glength * glength
	}
	return norm
}

func (a *ABF) gradientAlpha(f, k int) float64 {
	t := a.t
	tri := &t.triangles[f]
	a0 := tri.angles[k]
	ang := &t.angles[a0]

	deriv := (ang.alpha-ang.beta)*ang.weight + tri.lambdaTriangle

	if v := &t.vertices[ang.vertex]; v.interior >= 0 {
		deriv += v.lambdaPlanar
	}
	for _, other := range [2]int{tri.angles[(k+1)%3], tri.angles[(k+2)%3]} {
		vid := t.angles[other].vertex
		if v := &t.vertices[vid]; v.interior >= 0 {
			deriv += v.lambdaLength * a.sinProduct(vid, a0)
		}
	}
	return deriv
}

// sinProduct evaluates the edge length constraint around interior vertex v,
// or its derivative with respect to angle aid when aid is a valid angle id.
func (a *ABF) sinProduct(v, aid int) float64 {
	sin1, sin2 := 1.0, 1.0

	start := a.t.edges.AtVertex(v)
	c := start
	for range a.t.vertices[v].angles {
		e1id := c.NextAroundFace().Edge()
		e2id := c.PrevAroundFace().Edge()
		e1, e2 := &a.t.angles[e1id], &a.t.angles[e2id]

		if aid == e1id {
			sin1 *= e1.cosine
			sin2 = 0
		} else {
			sin1 *= e1.sine
		}

		if aid == e2id {
			sin1 = 0
			sin2 *= e2.cosine
		} else {
			sin2 *= e2.sine
		}

		c = c.NextAroundVertex()
		if !c.Valid() || c.Edge() == start.Edge() {
			break
		}
	}
	return sin1 - sin2
}

// invertMatrix performs one Newton step. The per-triangle blocks are
// eliminated with a Schur complement so that only the 2*ninterior system
// of vertex multipliers is solved.
func (a *ABF) invertMatrix() error {
	t := a.t
	n := len(t.interior)

	sys := a.systems.Square(2 * n)
	defer sys.Release()

	for i, b := range a.bInterior {
		sys.AddRHS(i, b)
	}

	for f := range t.triangles {
		tri := &t.triangles[f]
		e := tri.angles

		var w, wi, bAlpha [3]float64
		for k, id := range e {
			w[k] = t.angles[id].weight
			wi[k] = 1 / w[k]
			bAlpha[k] = t.angles[id].bAlpha
		}

		b := -tri.bTriangle
		for k := range e {
			b += bAlpha[k] * wi[k]
		}
		si := 1 / (wi[0] + wi[1] + wi[2])

		var beta [3]float64
		for k := range e {
			beta[k] = b*si - bAlpha[k]
		}
		tri.bstar = b
		tri.dstar = si

		var W [3][3]float64
		for i := range W {
			for j := range W[i] {
				W[i][j] = si
			}
			W[i][i] -= w[i]
		}

		vid := [6]int{-1, -1, -1, -1, -1, -1}
		var j2 [3][3]float64
		var rows [3][6]float64

		for c := 0; c < 3; c++ {
			vertex := t.angles[e[c]].vertex
			ii := t.vertices[vertex].interior
			if ii < 0 {
				continue
			}
			vid[c] = ii
			vid[c+3] = n + ii

			for k := 0; k < 3; k++ {
				if k == c {
					j2[k][c] = wi[k]
				} else {
					j2[k][c] = a.sinProduct(vertex, e[k]) * wi[k]
				}
				t.j2dt[e[k]][c] = j2[k][c]
			}

			lengthRHS := 0.0
			for k := 0; k < 3; k++ {
				if k != c {
					lengthRHS += j2[k][c] * beta[k]
				}
			}
			sys.AddRHS(vid[c], j2[c][c]*beta[c])
			sys.AddRHS(vid[c+3], lengthRHS)

			for r := 0; r < 3; r++ {
				rows[r][c] = j2[c][c] * W[r][c]
				for k := 0; k < 3; k++ {
					if k != c {
						rows[r][c+3] += j2[k][c] * W[r][k]
					}
				}
			}
		}

		for i := 0; i < 3; i++ {
			r := vid[i]
			if r < 0 {
				continue
			}
			for j := 0; j < 6; j++ {
				col := vid[j]
				if col < 0 {
					continue
				}
				for k := 0; k < 3; k++ {
					row := r + n
					if k == i {
						row = r
					}
					sys.AddMatrix(row, col, j2[k][i]*rows[k][j])
				}
			}
		}
	}

	if err := sys.Solve(); err != nil {
		return err
	}

	for f := range t.triangles {
		tri := &t.triangles[f]
		e := tri.angles

		var pre [3]float64
		for c := 0; c < 3; c++ {
			ii := t.vertices[t.angles[e[c]].vertex].interior
			if ii < 0 {
				continue
			}
			x := sys.Variable(ii)
			x2 := sys.Variable(n + ii)
			for k := 0; k < 3; k++ {
				if k == c {
					pre[k] += t.j2dt[e[k]][c] * x
				} else {
					pre[k] += t.j2dt[e[k]][c] * x2
				}
			}
		}

		dlambda1 := tri.dstar * (tri.bstar - (pre[0] + pre[1] + pre[2]))
		tri.lambdaTriangle += dlambda1

		for k, id := range e {
			ang := &t.angles[id]
			ang.alpha += (ang.bAlpha-dlambda1)/ang.weight - pre[k]
			ang.alpha = math.Min(math.Max(ang.alpha, 0), math.Pi)
		}
	}

	for i, v := range t.interior {
		t.vertices[v].lambdaPlanar += sys.Variable(i)
		t.vertices[v].lambdaLength += sys.Variable(n + i)
	}
	return nil
}

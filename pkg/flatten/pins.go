package flatten

import (
	"github.com/philipparndt/meshflat/pkg/geometry"
)

// Pins are the two vertices whose UV is fixed during the conformal solve
type Pins struct {
	Vertices [2]int
	UV       [2]geometry.Vector2

	// Degenerate is set when the extreme vertices coincide and the first
	// boundary edge was pinned instead.
	Degenerate bool
}

// selectPins picks the vertex no other vertex undercuts on all three axes
// and the one no other vertex exceeds, then assigns their UV.
func (t *Topology) selectPins() Pins {
	lo, hi := 0, 0
	for v := 1; v < len(t.vertices); v++ {
		p := t.vertices[v].position
		if lowest := t.vertices[lo].position; p.LessEqual(lowest) && p != lowest {
			lo = v
		}
		if highest := t.vertices[hi].position; highest.LessEqual(p) && p != highest {
			hi = v
		}
	}

	if lo == hi || t.vertices[lo].position == t.vertices[hi].position {
		loop := t.boundary[0]
		return Pins{
			Vertices:   [2]int{loop[0], loop[1]},
			UV:         [2]geometry.Vector2{{X: 0, Y: 0.5}, {X: 1, Y: 0.5}},
			Degenerate: true,
		}
	}

	p0, p1 := t.vertices[lo].position, t.vertices[hi].position
	dirx, diry := dominantAxes(p1.Sub(p0).Abs())

	diru, dirv := 0, 1
	if dirx == 2 {
		diru, dirv = 1, 0
	}

	return Pins{
		Vertices: [2]int{lo, hi},
		UV:       [2]geometry.Vector2{pinUV(p0, dirx, diry, diru, dirv), pinUV(p1, dirx, diry, diru, dirv)},
	}
}

// dominantAxes returns the axis with the largest extent and the runner-up.
// Ties fall through to the later axis.
func dominantAxes(d geometry.Vector3) (int, int) {
	switch {
	case d.X > d.Y && d.X > d.Z:
		if d.Y > d.Z {
			return 0, 1
		}
		return 0, 2
	case d.Y > d.X && d.Y > d.Z:
		if d.X > d.Z {
			return 1, 0
		}
		return 1, 2
	default:
		if d.X > d.Y {
			return 2, 0
		}
		return 2, 1
	}
}

func pinUV(p geometry.Vector3, dirx, diry, diru, dirv int) geometry.Vector2 {
	var uv [2]float64
	uv[diru] = p.Axis(dirx)
	uv[dirv] = p.Axis(diry)
	return geometry.NewVector2(uv[0], uv[1])
}

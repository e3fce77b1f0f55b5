package mesh

import (
	"fmt"
	"math"

	"github.com/philipparndt/meshflat/pkg/geometry"
)

// Plane generates a cols x rows vertex grid of size width x height in the
// XY plane. Every grid cell is split into two counter-clockwise triangles.
func Plane(cols, rows int, width, height float64) (*Mesh, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("plane needs at least 2x2 vertices, got %dx%d", cols, rows)
	}

	m := New("plane")
	m.Width, m.Height = cols, rows
	dx := width / float64(cols-1)
	dy := height / float64(rows-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.AddVertex(geometry.NewVector3(float64(j)*dx, float64(i)*dy, 0))
		}
	}
	addGridFaces(m, cols, rows)
	return m, nil
}

// Arch generates an open half-cylinder: cols vertices around an arc of the
// given sweep angle (radians) and rows vertices along its length (Y axis).
func Arch(cols, rows int, radius, length, sweep float64) (*Mesh, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("arch needs at least 2x2 vertices, got %dx%d", cols, rows)
	}
	if sweep <= 0 || sweep >= 2*math.Pi {
		return nil, fmt.Errorf("arch sweep must be in (0, 2pi), got %v", sweep)
	}

	m := New("arch")
	m.Width, m.Height = cols, rows
	dy := length / float64(rows-1)
	dt := sweep / float64(cols-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			theta := float64(j) * dt
			m.AddVertex(geometry.NewVector3(
				radius*math.Cos(theta),
				float64(i)*dy,
				radius*math.Sin(theta),
			))
		}
	}
	addGridFaces(m, cols, rows)
	return m, nil
}

func addGridFaces(m *Mesh, cols, rows int) {
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			v1 := i*cols + j
			v2 := v1 - 1
			v3 := v2 - cols
			v4 := v1 - cols

			m.AddFace(v1, v2, v3)
			m.AddFace(v1, v3, v4)
		}
	}
}

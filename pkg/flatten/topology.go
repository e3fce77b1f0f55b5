package flatten

import (
	"fmt"
	"math"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/halfedge"
	"github.com/philipparndt/meshflat/pkg/mesh"
)

const (
	minAngle = math.Pi / 180
	maxAngle = math.Pi - minAngle

	// meshes above this face count use the relaxed convergence limit
	largeMeshFaces = 100
)

type vertexRecord struct {
	position geometry.Vector3
	uv       geometry.Vector2

	// interior is the dense index into the interior set, -1 on the boundary
	interior     int
	lambdaPlanar float64
	lambdaLength float64

	angles []int
}

type angleRecord struct {
	face   int
	vertex int

	alpha  float64
	beta   float64
	sine   float64
	cosine float64
	weight float64
	bAlpha float64
}

type triangleRecord struct {
	angles [3]int

	lambdaTriangle float64
	bTriangle      float64
	bstar          float64
	dstar          float64
}

// Topology holds the records of a single flattening run. The angle of
// corner k in face f has id 3f+k, the id of the half-edge leaving that
// corner.
type Topology struct {
	edges     *halfedge.Mesh
	vertices  []vertexRecord
	angles    []angleRecord
	triangles []triangleRecord

	// j2dt caches three coefficients per angle for the ABF update step
	j2dt [][3]float64

	interior []int
	boundary [][]int
	limit    float64
}

// BuildTopology creates the angle, vertex and triangle records for m and
// partitions its vertices into boundary and interior sets.
func BuildTopology(m *mesh.Mesh) (*Topology, error) {
	if m == nil {
		return nil, mesh.ErrEmpty
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if unused := m.Unreferenced(); len(unused) > 0 {
		return nil, fmt.Errorf("vertex %d (%d total): %w", unused[0], len(unused), ErrUnreferencedVertex)
	}

	edges, err := halfedge.Build(len(m.Vertices), m.Faces)
	if err != nil {
		return nil, err
	}

	t := &Topology{
		edges:     edges,
		vertices:  make([]vertexRecord, len(m.Vertices)),
		angles:    make([]angleRecord, 3*len(m.Faces)),
		triangles: make([]triangleRecord, len(m.Faces)),
		j2dt:      make([][3]float64, 3*len(m.Faces)),
		limit:     0.001,
	}
	if len(m.Faces) > largeMeshFaces {
		t.limit = 1.0
	}

	for i, p := range m.Vertices {
		t.vertices[i] = vertexRecord{position: p, interior: -1}
	}

	for f, face := range m.Faces {
		for k := 0; k < 3; k++ {
			id := 3*f + k
			v := face[k]
			a := geometry.CornerAngle(m.Vertices[v], m.Vertices[face[(k+1)%3]], m.Vertices[face[(k+2)%3]])
			a = math.Min(math.Max(a, minAngle), maxAngle)

			t.angles[id] = angleRecord{
				face:   f,
				vertex: v,
				alpha:  a,
				beta:   a,
				weight: 2 / (a * a),
			}
			t.triangles[f].angles[k] = id
			t.vertices[v].angles = append(t.vertices[v].angles, id)
		}
	}

	t.boundary = edges.BoundaryLoops()
	if len(t.boundary) == 0 {
		return nil, ErrNoBoundary
	}

	onBoundary := edges.BoundaryVertices()
	for v := range t.vertices {
		if onBoundary[v] {
			continue
		}

		fan, closed := edges.Fan(v)
		if !closed || len(fan) != len(t.vertices[v].angles) {
			return nil, fmt.Errorf("vertex %d: fan covers %d of %d faces: %w",
				v, len(fan), len(t.vertices[v].angles), ErrNonManifoldVertex)
		}

		t.vertices[v].interior = len(t.interior)
		t.vertices[v].lambdaLength = 1
		t.interior = append(t.interior, v)
	}
	if len(t.interior) == 0 {
		return nil, ErrNoInterior
	}
	return t, nil
}

// BoundaryLoops returns the boundary loops as ordered vertex ids
func (t *Topology) BoundaryLoops() [][]int {
	return t.boundary
}

// InteriorCount returns the number of interior vertices
func (t *Topology) InteriorCount() int {
	return len(t.interior)
}

// Limit returns the ABF convergence limit for this mesh
func (t *Topology) Limit() float64 {
	return t.limit
}

// Alpha returns the current angle at corner k of face f
func (t *Topology) Alpha(f, k int) float64 {
	return t.angles[t.triangles[f].angles[k]].alpha
}

// AngleSum returns the sum of the current angles of face f
func (t *Topology) AngleSum(f int) float64 {
	sum := 0.0
	for _, id := range t.triangles[f].angles {
		sum += t.angles[id].alpha
	}
	return sum
}

// UV returns the parameter coordinate of every vertex
func (t *Topology) UV() []geometry.Vector2 {
	uv := make([]geometry.Vector2, len(t.vertices))
	for i := range t.vertices {
		uv[i] = t.vertices[i].uv
	}
	return uv
}

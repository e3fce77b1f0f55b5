// Package halfedge builds an explicit half-edge adjacency structure for
// indexed triangle meshes.
//
// Half-edge h = 3*f + k leaves corner k of face f and points to corner
// (k+1)%3. All references are integer indices; None marks a missing twin or
// an unused vertex.
package halfedge

import (
	"errors"
	"fmt"
)

// None marks a missing half-edge.
const None = -1

var (
	// ErrNonManifoldEdge is returned when two faces share a directed edge.
	ErrNonManifoldEdge = errors.New("directed edge used by more than one face")
	// ErrInvalidFace is returned for faces referencing missing vertices.
	ErrInvalidFace = errors.New("invalid face")
)

// Mesh is the half-edge adjacency of a triangle mesh.
type Mesh struct {
	origin   []int
	twin     []int
	outgoing []int
	faces    [][3]int
}

type directedEdge struct {
	from, to int
}

// Build creates the adjacency for vertexCount vertices and the given faces.
func Build(vertexCount int, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		origin:   make([]int, 3*len(faces)),
		twin:     make([]int, 3*len(faces)),
		outgoing: make([]int, vertexCount),
		faces:    faces,
	}
	for i := range m.outgoing {
		m.outgoing[i] = None
	}

	edges := make(map[directedEdge]int, 3*len(faces))
	for f, face := range faces {
		for k := 0; k < 3; k++ {
			from, to := face[k], face[(k+1)%3]
			if from < 0 || from >= vertexCount || from == to {
				return nil, fmt.Errorf("face %d %v: %w", f, face, ErrInvalidFace)
			}

			h := 3*f + k
			key := directedEdge{from, to}
			if other, ok := edges[key]; ok {
				return nil, fmt.Errorf("edge %d->%d in faces %d and %d: %w",
					from, to, other/3, f, ErrNonManifoldEdge)
			}
			edges[key] = h
			m.origin[h] = from
			if m.outgoing[from] == None {
				m.outgoing[from] = h
			}
		}
	}

	for h := range m.twin {
		m.twin[h] = None
		if t, ok := edges[directedEdge{m.Dest(h), m.origin[h]}]; ok {
			m.twin[h] = t
		}
	}

	// Prefer a boundary half-edge as the start of a boundary vertex's fan
	// so that rotational walks cover the whole fan.
	for h, t := range m.twin {
		if t == None {
			m.outgoing[m.origin[h]] = h
		}
	}
	return m, nil
}

// HalfEdgeCount returns the number of half-edges (three per face)
func (m *Mesh) HalfEdgeCount() int {
	return len(m.origin)
}

// FaceCount returns the number of faces
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.outgoing)
}

// Origin returns the vertex half-edge h leaves from
func (m *Mesh) Origin(h int) int {
	return m.origin[h]
}

// Dest returns the vertex half-edge h points to
func (m *Mesh) Dest(h int) int {
	return m.origin[m.Next(h)]
}

// Face returns the face that owns half-edge h
func (m *Mesh) Face(h int) int {
	return h / 3
}

// Next returns the following half-edge around the same face
func (m *Mesh) Next(h int) int {
	return 3*(h/3) + (h%3+1)%3
}

// Prev returns the preceding half-edge around the same face
func (m *Mesh) Prev(h int) int {
	return 3*(h/3) + (h%3+2)%3
}

// Twin returns the opposite half-edge or None on the boundary
func (m *Mesh) Twin(h int) int {
	return m.twin[h]
}

// IsBoundary reports whether half-edge h has no twin
func (m *Mesh) IsBoundary(h int) bool {
	return m.twin[h] == None
}

// Outgoing returns a half-edge leaving vertex v, or None for vertices no
// face references. For boundary vertices it is the boundary half-edge.
func (m *Mesh) Outgoing(v int) int {
	return m.outgoing[v]
}

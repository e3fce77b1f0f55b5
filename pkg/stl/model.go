package stl

import (
	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
)

// Model is a triangle soup as stored in an STL file
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// ToMesh welds the triangle soup into an indexed mesh. Corners with
// identical coordinates become one vertex.
func (m *Model) ToMesh() *mesh.Mesh {
	return mesh.FromTriangles(m.Name, m.Triangles)
}

// FromMesh converts an indexed mesh into a model with per-face normals
func FromMesh(m *mesh.Mesh) *Model {
	model := NewModel(m.Name)
	for i := range m.Faces {
		model.AddTriangle(m.Triangle(i))
	}
	return model
}

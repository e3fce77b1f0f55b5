// Package mesh provides the indexed triangle mesh consumed and produced by
// the flattening pipeline.
package mesh

import (
	"errors"
	"fmt"

	"github.com/philipparndt/meshflat/pkg/geometry"
)

var (
	// ErrEmpty is returned for meshes without vertices or faces.
	ErrEmpty = errors.New("mesh is empty")
	// ErrIndexOutOfRange is returned when a face references a missing vertex.
	ErrIndexOutOfRange = errors.New("face index out of range")
	// ErrDegenerateFace is returned when a face repeats a vertex.
	ErrDegenerateFace = errors.New("face repeats a vertex")
)

// Mesh is an indexed triangle mesh. Normals and UV are optional per-vertex
// channels; when present they have one entry per vertex.
type Mesh struct {
	Name     string
	Vertices []geometry.Vector3
	Normals  []geometry.Vector3
	UV       []geometry.Vector2
	Faces    [][3]int

	// Width and Height describe ordered meshes sampled on a regular grid.
	// Zero when unknown.
	Width, Height int
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index
func (m *Mesh) AddVertex(p geometry.Vector3) int {
	m.Vertices = append(m.Vertices, p)
	return len(m.Vertices) - 1
}

// AddFace appends a triangle and returns its index
func (m *Mesh) AddFace(a, b, c int) int {
	m.Faces = append(m.Faces, [3]int{a, b, c})
	return len(m.Faces) - 1
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// HasUV reports whether the mesh carries a complete UV channel
func (m *Mesh) HasUV() bool {
	return len(m.UV) > 0 && len(m.UV) == len(m.Vertices)
}

// Triangle returns face i as a geometry triangle with a computed normal
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	tri := geometry.Triangle{V1: m.Vertices[f[0]], V2: m.Vertices[f[1]], V3: m.Vertices[f[2]]}
	tri.Normal = tri.CalculateNormal()
	return tri
}

// BoundingBox calculates the bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range m.Vertices {
		bbox.Extend(v)
	}
	return bbox
}

// UVBounds calculates the bounding rectangle of the UV channel
func (m *Mesh) UVBounds() geometry.BoundingBox2 {
	rect := geometry.NewBoundingBox2()
	for _, uv := range m.UV {
		rect.Extend(uv)
	}
	return rect
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	totalArea := 0.0
	for i := range m.Faces {
		totalArea += m.Triangle(i).Area()
	}
	return totalArea
}

// Validate checks that the mesh is non-empty and every face references
// three distinct, existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return ErrEmpty
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= n {
				return fmt.Errorf("face %d vertex %d: %w", i, v, ErrIndexOutOfRange)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return fmt.Errorf("face %d %v: %w", i, f, ErrDegenerateFace)
		}
	}
	return nil
}

// Unreferenced returns the indices of vertices no face uses
func (m *Mesh) Unreferenced() []int {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f {
			if v >= 0 && v < len(used) {
				used[v] = true
			}
		}
	}
	var unused []int
	for i, u := range used {
		if !u {
			unused = append(unused, i)
		}
	}
	return unused
}

// Compact returns a copy without unreferenced vertices together with the
// old-to-new index map (-1 for removed vertices). Surviving vertices keep
// their relative order. Grid dimensions survive only when nothing was
// removed.
func (m *Mesh) Compact() (*Mesh, []int) {
	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	for _, f := range m.Faces {
		for _, v := range f {
			remap[v] = 0
		}
	}

	out := New(m.Name)
	hasNormals := len(m.Normals) == len(m.Vertices)
	for v := range m.Vertices {
		if remap[v] == -1 {
			continue
		}
		remap[v] = out.AddVertex(m.Vertices[v])
		if hasNormals {
			out.Normals = append(out.Normals, m.Normals[v])
		}
		if m.HasUV() {
			out.UV = append(out.UV, m.UV[v])
		}
	}
	if out.VertexCount() == m.VertexCount() {
		out.Width, out.Height = m.Width, m.Height
	}

	out.Faces = make([][3]int, len(m.Faces))
	for i, f := range m.Faces {
		out.Faces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return out, remap
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Name:     m.Name,
		Vertices: append([]geometry.Vector3(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
		Width:    m.Width,
		Height:   m.Height,
	}
	if m.Normals != nil {
		out.Normals = append([]geometry.Vector3(nil), m.Normals...)
	}
	if m.UV != nil {
		out.UV = append([]geometry.Vector2(nil), m.UV...)
	}
	return out
}

// Flattened returns a copy whose UV channel is uv and whose positions are the
// planar points (u, 0, v). Normals are reset to +Y.
func (m *Mesh) Flattened(uv []geometry.Vector2) *Mesh {
	out := m.Clone()
	out.UV = append([]geometry.Vector2(nil), uv...)
	out.Normals = nil
	for i, p := range uv {
		out.Vertices[i] = geometry.NewVector3(p.X, 0, p.Y)
	}
	if len(uv) > 0 {
		out.Normals = make([]geometry.Vector3, len(uv))
		for i := range out.Normals {
			out.Normals[i] = geometry.NewVector3(0, 1, 0)
		}
	}
	return out
}

// FromTriangles builds an indexed mesh from a triangle soup, welding
// vertices with identical coordinates.
func FromTriangles(name string, triangles []geometry.Triangle) *Mesh {
	m := New(name)
	index := make(map[geometry.Vector3]int)
	lookup := func(v geometry.Vector3) int {
		if idx, ok := index[v]; ok {
			return idx
		}
		idx := m.AddVertex(v)
		index[v] = idx
		return idx
	}

	for _, tri := range triangles {
		m.AddFace(lookup(tri.V1), lookup(tri.V2), lookup(tri.V3))
	}
	return m
}

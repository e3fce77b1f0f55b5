package stl

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiSquare = `solid square
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid square
`

func TestParseASCII(t *testing.T) {
	model, err := Read([]byte(asciiSquare))
	require.NoError(t, err)

	if model.Name != "square" {
		t.Errorf("Expected name 'square', got %q", model.Name)
	}
	if model.TriangleCount() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", model.TriangleCount())
	}
	if model.Triangles[1].V3 != geometry.NewVector3(0, 1, 0) {
		t.Errorf("Unexpected vertex: %v", model.Triangles[1].V3)
	}
}

func TestParseASCIIErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad coordinate", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 a 0\n"},
		{"short vertex", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0\n"},
		{"two vertices", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestToMeshWelds(t *testing.T) {
	model, err := Read([]byte(asciiSquare))
	require.NoError(t, err)

	m := model.ToMesh()
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.NoError(t, m.Validate())
	assert.InDelta(t, 1.0, m.SurfaceArea(), 1e-12)
}

func TestBinaryRoundTrip(t *testing.T) {
	m, err := mesh.Plane(3, 3, 2, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromMesh(m)))
	assert.Equal(t, headerSize+4+triangleSize*m.FaceCount(), buf.Len())

	model, err := Read(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "plane", model.Name)
	require.Equal(t, m.FaceCount(), model.TriangleCount())

	for i, tri := range model.Triangles {
		expected := m.Triangle(i)
		assert.Equal(t, expected.V1, tri.V1)
		assert.Equal(t, expected.V2, tri.V2)
		assert.Equal(t, expected.V3, tri.V3)
		assert.Equal(t, geometry.NewVector3(0, 0, 1), tri.Normal)
	}

	welded := model.ToMesh()
	assert.Equal(t, m.VertexCount(), welded.VertexCount())
}

func TestBinaryWithSolidHeader(t *testing.T) {
	model := NewModel("solid but binary")
	model.AddTriangle(geometry.NewTriangle(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model))

	parsed, err := Read(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.TriangleCount())
	assert.Equal(t, "solid but binary", parsed.Name)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plane.stl")

	m, err := mesh.Plane(4, 2, 3, 1)
	require.NoError(t, err)
	require.NoError(t, WriteMesh(path, m))

	read, err := ReadMesh(path)
	require.NoError(t, err)
	assert.Equal(t, m.VertexCount(), read.VertexCount())
	assert.Equal(t, m.FaceCount(), read.FaceCount())

	asciiPath := filepath.Join(dir, "square.stl")
	require.NoError(t, os.WriteFile(asciiPath, []byte(asciiSquare), 0o644))
	model, err := Parse(asciiPath)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())

	_, err = Parse(filepath.Join(dir, "missing.stl"))
	assert.Error(t, err)
}

package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePlane(t *testing.T) {
	m, err := mesh.Plane(3, 3, 2, 2)
	require.NoError(t, err)

	result := AnalyzeMesh(m)

	if result.TriangleCount != 8 {
		t.Errorf("Expected 8 triangles, got %d", result.TriangleCount)
	}
	if result.VertexCount != 9 {
		t.Errorf("Expected 9 vertices, got %d", result.VertexCount)
	}
	// 12 grid edges plus 4 diagonals
	if result.EdgeCount != 16 {
		t.Errorf("Expected 16 edges, got %d", result.EdgeCount)
	}
	assert.InDelta(t, 4.0, result.SurfaceArea, 1e-12)
	assert.Equal(t, geometry.NewVector3(2, 2, 0), result.Dimensions)
	assert.InDelta(t, 1.0, result.MinEdgeLength, 1e-12)
	assert.InDelta(t, math.Sqrt2, result.MaxEdgeLength, 1e-12)

	assert.True(t, result.Manifold)
	assert.Len(t, result.BoundaryLoops, 1)
	assert.Equal(t, 1, result.InteriorVertices)
	assert.Equal(t, 0, result.Unreferenced)

	boundary := 0
	for _, e := range result.AllEdges {
		if e.Boundary {
			boundary++
		}
	}
	assert.Equal(t, 8, boundary)
}

func TestAnalyzeNonManifold(t *testing.T) {
	m := mesh.New("fin")
	m.Vertices = []geometry.Vector3{{}, {X: 1}, {Y: 1}, {Y: -1}, {X: 5}}
	m.Faces = [][3]int{{0, 1, 2}, {0, 1, 3}}

	result := AnalyzeMesh(m)
	assert.False(t, result.Manifold)
	assert.Nil(t, result.BoundaryLoops)
	assert.Equal(t, 1, result.Unreferenced)
}

func TestFindEdges(t *testing.T) {
	m, err := mesh.Plane(3, 3, 2, 2)
	require.NoError(t, err)
	result := AnalyzeMesh(m)

	longest := FindLongestEdges(result, 2)
	require.Len(t, longest, 2)
	assert.InDelta(t, math.Sqrt2, longest[0].Length, 1e-12)

	shortest := FindShortestEdges(result, 100)
	assert.Len(t, shortest, result.EdgeCount)
	assert.InDelta(t, 1.0, shortest[0].Length, 1e-12)

	diagonals := FindEdgesByLength(result, 1.1, 2)
	assert.Len(t, diagonals, 4)
}

func TestFormat(t *testing.T) {
	if got := FormatMeasurement(1.5, ""); got != "1.500000 units" {
		t.Errorf("Unexpected format: %s", got)
	}
	if got := FormatMeasurement(2, "mm"); got != "2.000000 mm" {
		t.Errorf("Unexpected format: %s", got)
	}
	if got := FormatVector(geometry.NewVector3(1, 2, 3)); got != "(1.000000, 2.000000, 3.000000)" {
		t.Errorf("Unexpected format: %s", got)
	}
}

func TestDistortionSimilarity(t *testing.T) {
	m, err := mesh.Plane(4, 4, 3, 3)
	require.NoError(t, err)

	// rotate by 30 degrees and scale by 2
	s, c := math.Sincos(math.Pi / 6)
	uv := make([]geometry.Vector2, m.VertexCount())
	for i, p := range m.Vertices {
		uv[i] = geometry.NewVector2(2*(c*p.X-s*p.Y), 2*(s*p.X+c*p.Y))
	}

	report, err := Distortion(m, m.Flattened(uv))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, report.AreaRatio.Mean, 1e-9)
	assert.InDelta(t, 0.0, report.AreaRatio.StdDev, 1e-9)
	assert.InDelta(t, 0.0, report.AngleError.Max, 1e-9)
	assert.InDelta(t, 36.0, report.UVArea, 1e-9)
	assert.Equal(t, 0, report.Flipped)
	assert.Equal(t, 0, report.Degenerate)
}

func TestDistortionStretch(t *testing.T) {
	m, err := mesh.Plane(3, 3, 2, 2)
	require.NoError(t, err)

	uv := make([]geometry.Vector2, m.VertexCount())
	for i, p := range m.Vertices {
		uv[i] = geometry.NewVector2(p.X*3, p.Y)
	}
	// mirror one corner to flip its triangles
	uv[0] = geometry.NewVector2(4, 2)

	report, err := Distortion(m, m.Flattened(uv))
	require.NoError(t, err)
	assert.Greater(t, report.AngleError.Max, 0.1)
	assert.Greater(t, report.Flipped, 0)
}

func TestDistortionErrors(t *testing.T) {
	m, err := mesh.Plane(3, 3, 2, 2)
	require.NoError(t, err)

	_, err = Distortion(m, m)
	assert.ErrorIs(t, err, ErrNoUV)

	other, err := mesh.Plane(4, 3, 2, 2)
	require.NoError(t, err)
	uv := make([]geometry.Vector2, other.VertexCount())
	_, err = Distortion(m, other.Flattened(uv))
	assert.Error(t, err)
}

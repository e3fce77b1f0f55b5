package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/halfedge"
	"github.com/philipparndt/meshflat/pkg/mesh"
)

// EdgeInfo contains information about an undirected edge of the mesh
type EdgeInfo struct {
	Start, End int
	Length     float64
	Boundary   bool
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	VertexCount   int
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo

	// Topology is only filled for edge-manifold meshes
	Manifold         bool
	BoundaryLoops    [][]int
	InteriorVertices int
	Unreferenced     int
}

// AnalyzeMesh performs comprehensive analysis on a mesh
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   m.SurfaceArea(),
		VertexCount:   m.VertexCount(),
		TriangleCount: m.FaceCount(),
		Unreferenced:  len(m.Unreferenced()),
	}
	result.Dimensions = result.BoundingBox.Size()

	uses := make(map[[2]int]int)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			uses[undirected(f[k], f[(k+1)%3])]++
		}
	}

	keys := make([][2]int, 0, len(uses))
	for key := range uses {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, key := range keys {
		length := m.Vertices[key[0]].Distance(m.Vertices[key[1]])
		result.AllEdges = append(result.AllEdges, EdgeInfo{
			Start:    key[0],
			End:      key[1],
			Length:   length,
			Boundary: uses[key] == 1,
		})

		totalLength += length
		minLength = math.Min(minLength, length)
		maxLength = math.Max(maxLength, length)
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	if edges, err := halfedge.Build(m.VertexCount(), m.Faces); err == nil {
		result.Manifold = true
		result.BoundaryLoops = edges.BoundaryLoops()
		onBoundary := edges.BoundaryVertices()
		for v := range onBoundary {
			if !onBoundary[v] && edges.Outgoing(v) != halfedge.None {
				result.InteriorVertices++
			}
		}
	}
	return result
}

func undirected(a, b int) [2]int {
	if a > b {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

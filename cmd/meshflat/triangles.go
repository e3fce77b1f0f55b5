package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/philipparndt/meshflat/pkg/analysis"
	"github.com/spf13/cobra"
)

var (
	triCount    int
	triLargest  bool
	triSmallest bool
	triSlivers  bool
)

type triangleInfo struct {
	Index     int
	Area      float64
	Perimeter float64
	MinAngle  float64
	Vertices  string
}

var trianglesCmd = &cobra.Command{
	Use:   "triangles [file]",
	Short: "Analyze the triangles of a mesh",
	Long: `Display information about triangles including area, perimeter, smallest
corner angle and vertex positions. Corners below one degree are clamped during
angle based flattening; --slivers lists the worst offenders first.`,
	Args: cobra.ExactArgs(1),
	Run:  runTriangles,
}

func init() {
	rootCmd.AddCommand(trianglesCmd)

	trianglesCmd.Flags().IntVarP(&triCount, "count", "n", 10, "Number of triangles to display")
	trianglesCmd.Flags().BoolVarP(&triLargest, "largest", "l", false, "Show largest triangles by area")
	trianglesCmd.Flags().BoolVarP(&triSmallest, "smallest", "s", false, "Show smallest triangles by area")
	trianglesCmd.Flags().BoolVar(&triSlivers, "slivers", false, "Show triangles with the smallest corner angles")
	trianglesCmd.MarkFlagsMutuallyExclusive("largest", "smallest", "slivers")
}

func runTriangles(cmd *cobra.Command, args []string) {
	filename := args[0]

	m, err := readMesh(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading mesh: %v\n", err)
		os.Exit(1)
	}
	if m.FaceCount() == 0 {
		fmt.Println("Mesh has no triangles.")
		return
	}

	triangles := make([]triangleInfo, 0, m.FaceCount())
	totalArea := 0.0
	minArea := math.MaxFloat64
	maxArea := 0.0
	slivers := 0

	for i := range m.Faces {
		tri := m.Triangle(i)
		area := tri.Area()
		angles := tri.Angles()
		minAngle := math.Min(angles[0], math.Min(angles[1], angles[2])) * 180 / math.Pi

		triangles = append(triangles, triangleInfo{
			Index:     i,
			Area:      area,
			Perimeter: tri.Perimeter(),
			MinAngle:  minAngle,
			Vertices: fmt.Sprintf("%s, %s, %s",
				analysis.FormatVector(tri.V1),
				analysis.FormatVector(tri.V2),
				analysis.FormatVector(tri.V3)),
		})

		totalArea += area
		minArea = math.Min(minArea, area)
		maxArea = math.Max(maxArea, area)
		if minAngle < 1 {
			slivers++
		}
	}

	var title string
	switch {
	case triLargest:
		sort.SliceStable(triangles, func(i, j int) bool { return triangles[i].Area > triangles[j].Area })
		title = "Largest Triangles"
	case triSmallest:
		sort.SliceStable(triangles, func(i, j int) bool { return triangles[i].Area < triangles[j].Area })
		title = "Smallest Triangles"
	case triSlivers:
		sort.SliceStable(triangles, func(i, j int) bool { return triangles[i].MinAngle < triangles[j].MinAngle })
		title = "Sliver Triangles"
	default:
		title = "Triangles"
	}

	count := min(triCount, len(triangles))
	fmt.Printf("%s (showing %d of %d)\n", title, count, len(triangles))
	fmt.Println("====================")
	fmt.Printf("Total surface area: %.6f square units\n", totalArea)
	fmt.Printf("Min triangle area: %.6f square units\n", minArea)
	fmt.Printf("Max triangle area: %.6f square units\n", maxArea)
	fmt.Printf("Avg triangle area: %.6f square units\n", totalArea/float64(len(triangles)))
	fmt.Printf("Corners below 1 degree: %d triangles\n\n", slivers)

	for _, tri := range triangles[:count] {
		fmt.Printf("Triangle #%d:\n", tri.Index)
		fmt.Printf("  Area: %.6f square units\n", tri.Area)
		fmt.Printf("  Perimeter: %.6f units\n", tri.Perimeter)
		fmt.Printf("  Smallest angle: %.3f degrees\n", tri.MinAngle)
		fmt.Printf("  Vertices: %s\n\n", tri.Vertices)
	}
}

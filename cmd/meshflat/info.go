package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/meshflat/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh file",
	Long:  "Show dimensions, triangle count, surface area, edge statistics and the boundary topology that decides whether a mesh can be flattened.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	m, err := readMesh(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading mesh: %v\n", err)
		os.Exit(1)
	}

	result := analysis.AnalyzeMesh(m)

	fmt.Println("Mesh Information")
	fmt.Println("================")
	if m.Name != "" {
		fmt.Printf("Name: %s\n", m.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Surface Area: %.6f square units\n", result.SurfaceArea)
	if m.HasUV() {
		size := m.UVBounds().Size()
		fmt.Printf("  UV Size: %.6f x %.6f\n", size.X, size.Y)
	}
	fmt.Println()

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n\n", result.AvgEdgeLength)

	fmt.Println("Topology:")
	if !result.Manifold {
		fmt.Println("  Edge manifold: no (cannot be flattened)")
		return
	}
	fmt.Println("  Edge manifold: yes")
	fmt.Printf("  Boundary loops: %d\n", len(result.BoundaryLoops))
	for i, loop := range result.BoundaryLoops {
		fmt.Printf("    Loop %d: %d vertices\n", i+1, len(loop))
	}
	fmt.Printf("  Interior vertices: %d\n", result.InteriorVertices)
	if result.Unreferenced > 0 {
		fmt.Printf("  Unreferenced vertices: %d (removed before flattening)\n", result.Unreferenced)
	}
	if len(result.BoundaryLoops) == 0 {
		fmt.Println("  Closed surface: cut it open before flattening")
	} else if result.InteriorVertices == 0 {
		fmt.Println("  No interior vertices: nothing to optimize")
	}
}

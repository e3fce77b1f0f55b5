package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/meshflat/pkg/analysis"
	"github.com/spf13/cobra"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesBoundary  bool
	edgesMinLength float64
	edgesMaxLength float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "List and measure the edges of a mesh",
	Long:  "Find and measure edges, including longest, shortest, boundary edges or edges within a specific length range.",
	Args:  cobra.ExactArgs(1),
	Run:   runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().BoolVarP(&edgesBoundary, "boundary", "b", false, "Only consider boundary edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "Maximum edge length filter")
}

func runEdges(cmd *cobra.Command, args []string) {
	filename := args[0]

	m, err := readMesh(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading mesh: %v\n", err)
		os.Exit(1)
	}

	result := analysis.AnalyzeMesh(m)
	if edgesBoundary {
		var boundary []analysis.EdgeInfo
		for _, e := range result.AllEdges {
			if e.Boundary {
				boundary = append(boundary, e)
			}
		}
		result.AllEdges = boundary
	}

	var edges []analysis.EdgeInfo
	var title string

	switch {
	case edgesLongest:
		edges = analysis.FindLongestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case edgesShortest:
		edges = analysis.FindShortestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case edgesMaxLength > 0:
		edges = analysis.FindEdgesByLength(result, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", edgesMinLength, edgesMaxLength, len(edges))
		if len(edges) > edgesCount {
			edges = edges[:edgesCount]
		}
	default:
		edges = result.AllEdges
		title = fmt.Sprintf("Edges (showing first %d of %d)", min(edgesCount, len(edges)), len(edges))
		if len(edges) > edgesCount {
			edges = edges[:edgesCount]
		}
	}

	fmt.Println(title)
	fmt.Println("====================")
	fmt.Printf("Total edges in mesh: %d\n", result.EdgeCount)
	fmt.Printf("Min edge length: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, ""))
	fmt.Printf("Max edge length: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, ""))
	fmt.Printf("Avg edge length: %s\n\n", analysis.FormatMeasurement(result.AvgEdgeLength, ""))

	if len(edges) == 0 {
		fmt.Println("No edges found matching the criteria.")
		return
	}

	fmt.Printf("%-6s %-8s %-35s %-8s %-35s %-15s %s\n", "Index", "From", "", "To", "", "Length", "Boundary")
	fmt.Println("-----------------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Printf("%-6d %-8d %-35s %-8d %-35s %-15.6f %t\n",
			i+1,
			edge.Start,
			analysis.FormatVector(m.Vertices[edge.Start]),
			edge.End,
			analysis.FormatVector(m.Vertices[edge.End]),
			edge.Length,
			edge.Boundary)
	}
}

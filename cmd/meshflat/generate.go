package main

import (
	"fmt"
	"math"
	"os"

	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genOutput string
	genFormat string
	genCols   int
	genRows   int
	genWidth  float64
	genHeight float64
	genRadius float64
	genSweep  float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test meshes",
	Long:  "Generate regular grid meshes that can be flattened, for trying out solver settings.",
}

var planeCmd = &cobra.Command{
	Use:   "plane",
	Short: "Generate a flat rectangular grid in the XY plane",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := mesh.Plane(genCols, genRows, genWidth, genHeight)
		writeGenerated(m, err)
	},
}

var archCmd = &cobra.Command{
	Use:   "arch",
	Short: "Generate a cylindrical arch",
	Long:  "Generate a grid bent around the Y axis. --width is the arch length along Y, --sweep the opening angle in degrees.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := mesh.Arch(genCols, genRows, genRadius, genWidth, genSweep*math.Pi/180)
		writeGenerated(m, err)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(planeCmd, archCmd)

	pf := generateCmd.PersistentFlags()
	pf.StringVarP(&genOutput, "output", "o", "", "Output file")
	pf.StringVar(&genFormat, "format", "", "Output format (ply, obj, stl); default from the output file extension")
	pf.IntVar(&genCols, "cols", 10, "Vertices along the first grid axis")
	pf.IntVar(&genRows, "rows", 10, "Vertices along the second grid axis")
	pf.Float64Var(&genWidth, "width", 1.0, "Grid width")
	_ = generateCmd.MarkPersistentFlagRequired("output")

	planeCmd.Flags().Float64Var(&genHeight, "height", 1.0, "Grid height")
	archCmd.Flags().Float64Var(&genRadius, "radius", 1.0, "Arch radius")
	archCmd.Flags().Float64Var(&genSweep, "sweep", 180, "Arch opening angle in degrees")
}

func writeGenerated(m *mesh.Mesh, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating mesh: %v\n", err)
		os.Exit(1)
	}
	if err := writeMesh(genOutput, genFormat, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", genOutput, err)
		os.Exit(1)
	}
	logger.Info("generated mesh",
		zap.String("output", genOutput),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()))
	fmt.Printf("Wrote %s: %d vertices, %d triangles\n", genOutput, m.VertexCount(), m.FaceCount())
}

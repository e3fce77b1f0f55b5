package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/philipparndt/meshflat/internal/config"
	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/philipparndt/meshflat/pkg/flatten"
	"github.com/spf13/cobra"
)

var flattenOutput string

var flattenCmd = &cobra.Command{
	Use:   "flatten [file]",
	Short: "Compute a UV layout for an open mesh",
	Long: `Flatten reads a PLY, OBJ, STL or OpenSCAD model, computes a planar parameterization and
writes the flattened mesh. Output vertices are placed at (u, 0, v) and carry
the UV coordinates.`,
	Args: cobra.ExactArgs(1),
	Run:  runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().StringVarP(&flattenOutput, "output", "o", "", "Output file")
	_ = flattenCmd.MarkFlagRequired("output")
	config.BindFlatten(flattenCmd.Flags())
}

func runFlatten(cmd *cobra.Command, args []string) {
	j := job{input: args[0], output: flattenOutput, cfg: cfg, log: logger.Log}

	out, err := j.run()
	if err != nil {
		var ferr *flatten.Error
		if errors.As(err, &ferr) {
			fmt.Fprintf(os.Stderr, "Error flattening %s (%s stage): %v\n", args[0], ferr.Stage, ferr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Error flattening %s: %v\n", args[0], err)
		}
		os.Exit(1)
	}

	printOutcome(out)
}

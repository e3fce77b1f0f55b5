package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/meshflat/internal/config"
	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/philipparndt/meshflat/version"
	"github.com/spf13/cobra"
)

// cfg is loaded before any subcommand runs
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "meshflat",
	Short: "Flatten open triangle meshes into low-distortion UV layouts",
	Long: `meshflat computes a planar parameterization of an open triangle mesh.
Corner angles are optimized with angle based flattening (ABF++) and the final
layout is solved as a least squares conformal map with two pinned vertices.
Meshes are read and written as PLY, OBJ or STL.`,
	Version:           version.GetFullVersion(),
	SilenceErrors:     true,
	PersistentPreRun:  setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { logger.Sync() },
}

func init() {
	config.BindGlobal(rootCmd.PersistentFlags())
}

func setup(cmd *cobra.Command, args []string) {
	path, _ := cmd.Flags().GetString(config.FlagConfig)

	loaded, err := config.Load(path, cmd.Flags())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

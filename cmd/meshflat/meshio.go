package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/philipparndt/meshflat/pkg/obj"
	"github.com/philipparndt/meshflat/pkg/openscad"
	"github.com/philipparndt/meshflat/pkg/ply"
	"github.com/philipparndt/meshflat/pkg/stl"
)

// formatOf returns the mesh format named by the extension of filename
func formatOf(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// watchedFiles lists the files whose change invalidates a mesh read from
// filename. OpenSCAD sources pull in their use/include dependencies.
func watchedFiles(filename string) ([]string, error) {
	if formatOf(filename) != "scad" {
		return []string{filename}, nil
	}
	return openscad.NewRenderer(filepath.Dir(filename), logger.Log).ResolveDependencies(filepath.Base(filename))
}

func readMesh(filename string) (*mesh.Mesh, error) {
	switch format := formatOf(filename); format {
	case "ply":
		return ply.ReadFile(filename)
	case "obj":
		return obj.ReadFile(filename)
	case "stl":
		return stl.ReadMesh(filename)
	case "scad":
		return openscad.NewRenderer(filepath.Dir(filename), logger.Log).ReadMesh(context.Background(), filepath.Base(filename))
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// writeMesh writes m as format, or by the extension of filename when
// format is empty.
func writeMesh(filename, format string, m *mesh.Mesh) error {
	if format == "" {
		format = formatOf(filename)
	}
	switch format {
	case "ply":
		return ply.WriteFile(filename, m)
	case "obj":
		return obj.WriteFile(filename, m)
	case "stl":
		return stl.WriteMesh(filename, m)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Package openscad turns OpenSCAD sources into meshes by running the
// openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/philipparndt/meshflat/pkg/stl"
	"go.uber.org/zap"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

// matches `use <file.scad>` and `include <file.scad>`
var dependencyRegex = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer handles OpenSCAD file rendering to STL
type Renderer struct {
	workDir string
	binary  string
	log     *zap.Logger
}

// NewRenderer creates a renderer resolving relative paths against workDir.
// A nil logger discards output.
func NewRenderer(workDir string, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}
	return &Renderer{workDir: workDir, binary: "openscad", log: log}
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL renders an OpenSCAD file to an STL file
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	binary, err := exec.LookPath(r.binary)
	if err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("rendering openscad", zap.String("input", scadFile), zap.String("output", outputFile))
	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			fmt.Fprintf(&msg, "\nstderr: %s", strings.TrimSpace(stderr.String()))
		}
		if stdout.Len() > 0 {
			fmt.Fprintf(&msg, "\nstdout: %s", strings.TrimSpace(stdout.String()))
		}
		return errors.New(msg.String())
	}
	return nil
}

// ReadMesh renders scadFile into a temporary STL and loads it
func (r *Renderer) ReadMesh(ctx context.Context, scadFile string) (*mesh.Mesh, error) {
	dir, err := os.MkdirTemp("", "meshflat-scad-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))+".stl")
	if err := r.RenderToSTL(ctx, scadFile, out); err != nil {
		return nil, err
	}
	return stl.ReadMesh(out)
}

// ResolveDependencies returns scadFile and every file it pulls in through
// use/include statements, recursively, as absolute paths.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string

	var visit func(file string) error
	visit = func(file string) error {
		if visited[file] {
			return nil
		}
		visited[file] = true
		deps = append(deps, file)

		direct, err := r.parseDependencies(file)
		if err != nil {
			return err
		}
		for _, dep := range direct {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(filepath.Clean(r.abs(scadFile))); err != nil {
		return nil, err
	}
	return deps, nil
}

// parseDependencies lists the use/include targets of a single file
func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	scadDir := filepath.Dir(scadFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if matches := dependencyRegex.FindStringSubmatch(line); len(matches) > 1 {
			deps = append(deps, r.resolveDepPath(matches[1], scadDir))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolveDepPath resolves a dependency relative to the including file,
// falling back to the work directory for library-style paths.
func (r *Renderer) resolveDepPath(depPath, currentDir string) string {
	local := filepath.Join(currentDir, depPath)
	if strings.HasPrefix(depPath, "./") || strings.HasPrefix(depPath, "../") {
		return filepath.Clean(local)
	}
	if _, err := os.Stat(local); err == nil {
		return filepath.Clean(local)
	}
	return filepath.Clean(filepath.Join(r.workDir, depPath))
}

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshflat/internal/config"
	"github.com/philipparndt/meshflat/pkg/flatten"
	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"part.ply":         "ply",
		"dir/Part.OBJ":     "obj",
		"/tmp/scan.v2.stl": "stl",
		"no-extension":     "",
		"archive.ply.gz":   "gz",
	}
	for name, want := range tests {
		assert.Equal(t, want, formatOf(name), name)
	}
}

func TestReadWriteByExtension(t *testing.T) {
	plane, err := mesh.Plane(3, 3, 2, 1)
	require.NoError(t, err)

	for _, ext := range []string{"ply", "obj", "stl"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plane."+ext)
			require.NoError(t, writeMesh(path, "", plane))

			got, err := readMesh(path)
			require.NoError(t, err)
			assert.Equal(t, plane.VertexCount(), got.VertexCount())
			assert.Equal(t, plane.FaceCount(), got.FaceCount())
			assert.InDelta(t, plane.SurfaceArea(), got.SurfaceArea(), 1e-5)
		})
	}

	_, err = readMesh("mesh.fbx")
	assert.Error(t, err)
	assert.Error(t, writeMesh(filepath.Join(t.TempDir(), "out.ply"), "fbx", plane))
}

func TestWatchedFiles(t *testing.T) {
	files, err := watchedFiles("part.ply")
	require.NoError(t, err)
	assert.Equal(t, []string{"part.ply"}, files)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.scad"), []byte("include <dims.scad>\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dims.scad"), []byte("w = 1;\n"), 0644))

	files, err = watchedFiles(filepath.Join(dir, "part.scad"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "part.scad"), filepath.Join(dir, "dims.scad")}, files)
}

func TestJobFlattensFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plane.obj")
	output := filepath.Join(dir, "flat.ply")

	plane, err := mesh.Plane(6, 4, 5, 3)
	require.NoError(t, err)
	plane.AddVertex(geometry.NewVector3(9, 9, 9))
	require.NoError(t, writeMesh(input, "", plane))

	cfg := config.Default()
	cfg.Output.Report = true
	cfg.Output.Preview = filepath.Join(dir, "layout.png")
	cfg.Output.PreviewSize = 128
	out, err := job{input: input, output: output, cfg: cfg, log: zaptest.NewLogger(t)}.run()
	require.NoError(t, err)

	assert.Equal(t, 1, out.removed)
	assert.Equal(t, 24, out.surface.VertexCount())
	require.NotNil(t, out.distortion)
	assert.InDelta(t, 1.0, out.distortion.AreaRatio.Mean, 1e-6)
	assert.Zero(t, out.distortion.Flipped)

	assert.FileExists(t, cfg.Output.Preview)

	written, err := readMesh(output)
	require.NoError(t, err)
	require.True(t, written.HasUV())
	for i, p := range written.Vertices {
		assert.InDelta(t, 0, p.Y, 1e-9)
		assert.InDelta(t, written.UV[i].X, p.X, 1e-6)
		assert.InDelta(t, written.UV[i].Y, p.Z, 1e-6)
	}
}

func TestJobKeepsGridTopology(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.ply")
	output := filepath.Join(dir, "flat.ply")

	grid, err := mesh.Plane(4, 3, 3, 2)
	require.NoError(t, err)
	require.NoError(t, writeMesh(input, "", grid))

	out, err := job{input: input, output: output, cfg: config.Default(), log: zaptest.NewLogger(t)}.run()
	require.NoError(t, err)
	assert.Zero(t, out.removed)
	assert.Equal(t, grid.Vertices, out.surface.Vertices)

	written, err := readMesh(output)
	require.NoError(t, err)
	assert.Equal(t, grid.Faces, written.Faces)
	assert.Equal(t, 4, written.Width)
	assert.Equal(t, 3, written.Height)
	for i, p := range written.Vertices {
		assert.InDelta(t, written.UV[i].X, p.X, 1e-6)
	}
}

func TestJobReportsStage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "triangle.obj")

	m := mesh.New("triangle")
	m.AddVertex(geometry.NewVector3(0, 0, 0))
	m.AddVertex(geometry.NewVector3(1, 0, 0))
	m.AddVertex(geometry.NewVector3(0, 1, 0))
	m.AddFace(0, 1, 2)
	require.NoError(t, writeMesh(input, "", m))

	_, err := job{input: input, output: filepath.Join(dir, "out.ply"), cfg: config.Default(), log: zaptest.NewLogger(t)}.run()
	require.Error(t, err)

	var ferr *flatten.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, flatten.StageTopology, ferr.Stage)
	assert.ErrorIs(t, err, flatten.ErrNoInterior)
}

func TestWatchReturnsSetupErrors(t *testing.T) {
	input := filepath.Join(t.TempDir(), "missing", "part.ply")

	err := runWatch(watchCmd, []string{input})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching "+input)
}

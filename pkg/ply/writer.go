package ply

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/meshflat/pkg/mesh"
	"go.uber.org/multierr"
)

// WriteFile writes m to disk in ASCII PLY format
func WriteFile(filename string, m *mesh.Mesh) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	return Write(file, m)
}

// Write encodes m as ASCII PLY. Normals and UV are written when the mesh
// carries a complete channel.
func Write(w io.Writer, m *mesh.Mesh) error {
	hasNormals := len(m.Normals) > 0 && len(m.Normals) == len(m.Vertices)
	hasUV := m.HasUV()

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintln(bw, "comment written by meshflat")
	if m.Width > 0 && m.Height > 0 {
		fmt.Fprintln(bw, "element dimensions 1")
		fmt.Fprintln(bw, "property int width")
		fmt.Fprintln(bw, "property int height")
	}
	fmt.Fprintf(bw, "element vertex %d\n", len(m.Vertices))
	fmt.Fprintln(bw, "property double x")
	fmt.Fprintln(bw, "property double y")
	fmt.Fprintln(bw, "property double z")
	if hasNormals {
		fmt.Fprintln(bw, "property double nx")
		fmt.Fprintln(bw, "property double ny")
		fmt.Fprintln(bw, "property double nz")
	}
	if hasUV {
		fmt.Fprintln(bw, "property double s")
		fmt.Fprintln(bw, "property double t")
	}
	fmt.Fprintf(bw, "element face %d\n", len(m.Faces))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	if m.Width > 0 && m.Height > 0 {
		fmt.Fprintf(bw, "%d %d\n", m.Width, m.Height)
	}
	for i, v := range m.Vertices {
		fmt.Fprintf(bw, "%g %g %g", v.X, v.Y, v.Z)
		if hasNormals {
			n := m.Normals[i]
			fmt.Fprintf(bw, " %g %g %g", n.X, n.Y, n.Z)
		}
		if hasUV {
			fmt.Fprintf(bw, " %g %g", m.UV[i].X, m.UV[i].Y)
		}
		fmt.Fprintln(bw)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	return bw.Flush()
}

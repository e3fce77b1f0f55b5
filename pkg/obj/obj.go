// Package obj reads and writes Wavefront OBJ meshes with an optional
// per-vertex texture coordinate channel.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"go.uber.org/multierr"
)

// ErrMalformed is returned for lines that cannot be parsed
var ErrMalformed = errors.New("malformed OBJ")

// ReadFile reads an OBJ mesh from disk
func ReadFile(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read decodes an OBJ mesh. Polygons are fan triangulated. Texture
// coordinates referenced by faces are stored per vertex; when a vertex is
// referenced with different texture coordinates the last one wins.
func Read(r io.Reader) (*mesh.Mesh, error) {
	m := mesh.New("")
	var texcoords []geometry.Vector2
	var normals []geometry.Vector3
	uv := map[int]geometry.Vector2{}
	vn := map[int]geometry.Vector3{}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		words := strings.Fields(scanner.Text())
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}

		switch words[0] {
		case "o":
			if len(words) > 1 {
				m.Name = strings.Join(words[1:], " ")
			}

		case "v", "vn":
			if len(words) < 4 {
				return nil, fmt.Errorf("%w: line %d: %s needs three values", ErrMalformed, line, words[0])
			}
			p, err := parseFloats(words[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v := geometry.NewVector3(p[0], p[1], p[2])
			if words[0] == "v" {
				m.AddVertex(v)
			} else {
				normals = append(normals, v)
			}

		case "vt":
			if len(words) < 3 {
				return nil, fmt.Errorf("%w: line %d: vt needs two values", ErrMalformed, line)
			}
			p, err := parseFloats(words[1:3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			texcoords = append(texcoords, geometry.NewVector2(p[0], p[1]))

		case "f":
			if len(words) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs three corners", ErrMalformed, line)
			}
			corners := make([]int, 0, len(words)-1)
			for _, word := range words[1:] {
				c, err := parseCorner(word, len(m.Vertices), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				if c.texture >= 0 {
					uv[c.vertex] = texcoords[c.texture]
				}
				if c.normal >= 0 {
					vn[c.vertex] = normals[c.normal]
				}
				corners = append(corners, c.vertex)
			}
			for k := 1; k+1 < len(corners); k++ {
				m.AddFace(corners[0], corners[k], corners[k+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(uv) == len(m.Vertices) && len(uv) > 0 {
		m.UV = make([]geometry.Vector2, len(m.Vertices))
		for i, t := range uv {
			m.UV[i] = t
		}
	}
	if len(vn) == len(m.Vertices) && len(vn) > 0 {
		m.Normals = make([]geometry.Vector3, len(m.Vertices))
		for i, n := range vn {
			m.Normals[i] = n
		}
	}
	return m, nil
}

type corner struct {
	vertex, texture, normal int
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn. Indices are 1-based;
// negative indices count back from the last element read.
func parseCorner(word string, nv, nt, nn int) (corner, error) {
	c := corner{texture: -1, normal: -1}
	parts := strings.Split(word, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("%w: corner %q", ErrMalformed, word)
	}

	counts := [3]int{nv, nt, nn}
	targets := [3]*int{&c.vertex, &c.texture, &c.normal}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return c, fmt.Errorf("%w: corner %q", ErrMalformed, word)
			}
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil {
			return c, fmt.Errorf("%w: corner %q", ErrMalformed, word)
		}
		if idx < 0 {
			idx = counts[i] + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= counts[i] {
			return c, fmt.Errorf("%w: corner %q out of range", ErrMalformed, word)
		}
		*targets[i] = idx
	}
	return c, nil
}

func parseFloats(words []string) ([]float64, error) {
	values := make([]float64, len(words))
	for i, w := range words {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		values[i] = v
	}
	return values, nil
}

// WriteFile writes m to disk in OBJ format
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

// Write encodes m as OBJ. Texture coordinates and normals share the vertex
// numbering, so faces are written as v/v/v.
func Write(w io.Writer, m *mesh.Mesh) error {
	hasUV := m.HasUV()
	hasNormals := len(m.Normals) > 0 && len(m.Normals) == len(m.Vertices)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# written by meshflat")
	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	if hasUV {
		for _, t := range m.UV {
			fmt.Fprintf(bw, "vt %g %g\n", t.X, t.Y)
		}
	}
	if hasNormals {
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
	}

	for _, f := range m.Faces {
		fmt.Fprint(bw, "f")
		for _, v := range f {
			idx := v + 1
			switch {
			case hasUV && hasNormals:
				fmt.Fprintf(bw, " %d/%d/%d", idx, idx, idx)
			case hasUV:
				fmt.Fprintf(bw, " %d/%d", idx, idx)
			case hasNormals:
				fmt.Fprintf(bw, " %d//%d", idx, idx)
			default:
				fmt.Fprintf(bw, " %d", idx)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// Package ply reads and writes ASCII PLY meshes.
//
// Vertices carry x y z with optional nx ny nz normals and s t (or u v)
// texture coordinates. Faces are vertex_indices lists; polygons are
// triangulated as fans. An optional "dimensions" element stores the width
// and height of ordered meshes.
package ply

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
)

var (
	// ErrNotPLY is returned when the magic line is missing.
	ErrNotPLY = errors.New("not a PLY file")
	// ErrUnsupportedFormat is returned for binary PLY encodings.
	ErrUnsupportedFormat = errors.New("unsupported PLY format")
	// ErrMalformed is returned for header or body syntax errors.
	ErrMalformed = errors.New("malformed PLY")
)

// typeAliases maps the sized type names of newer exporters to the classic
// names the decoder understands.
var typeAliases = map[string]string{
	"int8":    "char",
	"uint8":   "uchar",
	"int16":   "short",
	"uint16":  "ushort",
	"int32":   "int",
	"uint32":  "uint",
	"float32": "float",
	"float64": "double",
}

// ReadFile reads a PLY mesh from disk
func ReadFile(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read decodes an ASCII PLY mesh
func Read(r io.Reader) (*mesh.Mesh, error) {
	source, err := normalize(r)
	if err != nil {
		return nil, err
	}

	p, err := decode(source)
	if err != nil {
		return nil, err
	}

	m := mesh.New("")
	if err := readVertices(p.Elements("vertex"), m); err != nil {
		return nil, fmt.Errorf("element vertex: %w", err)
	}
	if err := readFaces(p.Elements("face"), m); err != nil {
		return nil, fmt.Errorf("element face: %w", err)
	}
	if err := readDimensions(p.Elements("dimensions"), m); err != nil {
		return nil, fmt.Errorf("element dimensions: %w", err)
	}
	return m, nil
}

// normalize validates the header and rewrites the input into the subset
// goply accepts: no blank lines, no obj_info, classic type names.
func normalize(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, ErrNotPLY
	}

	var out bytes.Buffer
	out.WriteString("ply\n")
	header := true
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if header {
			switch fields[0] {
			case "format":
				if len(fields) < 2 || fields[1] != "ascii" {
					return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, strings.Join(fields[1:], " "))
				}
			case "obj_info":
				continue
			case "property":
				for i := 1; i < len(fields)-1; i++ {
					if alias, ok := typeAliases[fields[i]]; ok {
						fields[i] = alias
					}
				}
			case "end_header":
				header = false
			}
		}
		out.WriteString(strings.Join(fields, " "))
		out.WriteByte('\n')
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if header {
		return nil, fmt.Errorf("%w: missing end_header", ErrMalformed)
	}
	return out.Bytes(), nil
}

// decode runs goply, which reports syntax errors by panicking
func decode(source []byte) (p *goply.Ply, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	return goply.New(bytes.NewReader(source)), nil
}

func readVertices(elements []goply.PlyElement, m *mesh.Mesh) error {
	for i := range elements {
		e := &elements[i]
		x, okX := toFloat(e.Property("x"))
		y, okY := toFloat(e.Property("y"))
		z, okZ := toFloat(e.Property("z"))
		if !okX || !okY || !okZ {
			return fmt.Errorf("%w: vertex %d without x y z", ErrMalformed, i)
		}
		m.AddVertex(geometry.NewVector3(x, y, z))

		if nx, ny, nz, ok := triple(e, "nx", "ny", "nz"); ok {
			m.Normals = append(m.Normals, geometry.NewVector3(finite(nx), finite(ny), finite(nz)))
		}
		if s, t, ok := pair(e, "s", "t"); ok {
			m.UV = append(m.UV, geometry.NewVector2(s, t))
		} else if u, v, ok := pair(e, "u", "v"); ok {
			m.UV = append(m.UV, geometry.NewVector2(u, v))
		}
	}

	if len(m.Normals) != len(m.Vertices) {
		m.Normals = nil
	}
	if len(m.UV) != len(m.Vertices) {
		m.UV = nil
	}
	return nil
}

func pair(e *goply.PlyElement, a, b string) (float64, float64, bool) {
	va, okA := toFloat(e.Property(a))
	vb, okB := toFloat(e.Property(b))
	return va, vb, okA && okB
}

func triple(e *goply.PlyElement, a, b, c string) (float64, float64, float64, bool) {
	va, vb, ok := pair(e, a, b)
	vc, okC := toFloat(e.Property(c))
	return va, vb, vc, ok && okC
}

// finite maps NaN components, which some scanners write for missing
// normals, to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func readFaces(elements []goply.PlyElement, m *mesh.Mesh) error {
	for i := range elements {
		e := &elements[i]
		list, ok := e.Property("vertex_indices").([]interface{})
		if !ok {
			list, ok = e.Property("vertex_index").([]interface{})
		}
		if !ok {
			return fmt.Errorf("%w: face %d without a vertex index list", ErrMalformed, i)
		}
		if len(list) < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrMalformed, i, len(list))
		}

		indices := make([]int, len(list))
		for k, v := range list {
			if indices[k], ok = toInt(v); !ok {
				return fmt.Errorf("%w: face %d index %v", ErrMalformed, i, v)
			}
		}
		for k := 1; k+1 < len(indices); k++ {
			m.AddFace(indices[0], indices[k], indices[k+1])
		}
	}
	return nil
}

func readDimensions(elements []goply.PlyElement, m *mesh.Mesh) error {
	for i := range elements {
		e := &elements[i]
		w, okW := toInt(e.Property("width"))
		h, okH := toInt(e.Property("height"))
		if !okW || !okH {
			return fmt.Errorf("%w: dimensions need integer width and height", ErrMalformed)
		}
		m.Width, m.Height = w, h
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	i, ok := toInt(v)
	return float64(i), ok
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int8:
		return int(n), true
	case uint8:
		return int(n), true
	case int16:
		return int(n), true
	case uint16:
		return int(n), true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	}
	return 0, false
}

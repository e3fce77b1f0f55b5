package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"go.uber.org/multierr"
)

// WriteMesh writes m as a binary STL file
func WriteMesh(filename string, m *mesh.Mesh) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	w := bufio.NewWriter(file)
	if err := Write(w, FromMesh(m)); err != nil {
		return err
	}
	return w.Flush()
}

// Write encodes the model in binary STL format
func Write(w io.Writer, model *Model) error {
	header := make([]byte, headerSize)
	copy(header, model.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, t := range model.Triangles {
		f := facet{
			Normal:   toFloat32(t.Normal),
			Vertices: [3][3]float32{toFloat32(t.V1), toFloat32(t.V2), toFloat32(t.V3)},
		}
		if err := binary.Write(w, binary.LittleEndian, &f); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return nil
}

func toFloat32(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

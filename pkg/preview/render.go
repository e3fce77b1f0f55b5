// Package preview renders UV layouts to PNG images, optionally shaded by
// the per-triangle area distortion.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"go.uber.org/multierr"
)

// ErrNoUV is returned when the mesh to render has no UV channel
var ErrNoUV = errors.New("mesh has no UV coordinates")

var (
	background = color.RGBA{255, 255, 255, 255}
	neutral    = color.RGBA{232, 232, 232, 255}
	stretched  = color.RGBA{220, 50, 47, 255}
	shrunk     = color.RGBA{38, 139, 210, 255}
	flipped    = color.RGBA{211, 54, 130, 255}
	interior   = color.RGBA{120, 120, 120, 255}
	border     = color.RGBA{0, 0, 0, 255}
	pinColor   = color.RGBA{133, 153, 0, 255}
)

// Options configures Render
type Options struct {
	// Size is the length of the longer image side in pixels
	Size   int
	Margin int

	Wireframe bool
	// Heatmap shades triangles by area distortion. It needs the surface.
	Heatmap bool
	Pins    []int
}

// DefaultOptions returns the options used by the CLI
func DefaultOptions() Options {
	return Options{
		Size:      1024,
		Margin:    16,
		Wireframe: true,
		Heatmap:   true,
	}
}

// Render draws the UV layout of flat. surface is the original 3D mesh with
// the same faces and may be nil when no heatmap is wanted.
func Render(surface, flat *mesh.Mesh, opts Options) (*image.RGBA, error) {
	if !flat.HasUV() {
		return nil, ErrNoUV
	}
	if surface != nil && len(surface.Faces) != len(flat.Faces) {
		return nil, fmt.Errorf("surface has %d faces, layout %d", len(surface.Faces), len(flat.Faces))
	}
	if opts.Size <= 2*opts.Margin {
		return nil, fmt.Errorf("image size %d too small for margin %d", opts.Size, opts.Margin)
	}

	bounds := flat.UVBounds()
	width, height := imageSize(bounds.Size(), opts.Size, opts.Margin)
	view := NewView(bounds, width, height, opts.Margin)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	p := newPainter(img)

	project := func(v int) [2]float64 {
		x, y := view.Project(flat.UV[v])
		return [2]float64{x, y}
	}

	colors := faceColors(surface, flat, opts.Heatmap)
	for i, f := range flat.Faces {
		p.fill([][2]float64{project(f[0]), project(f[1]), project(f[2])}, colors[i])
	}

	if opts.Wireframe {
		uses := make(map[[2]int]int)
		var order [][2]int
		for _, f := range flat.Faces {
			for k := 0; k < 3; k++ {
				a, b := f[k], f[(k+1)%3]
				if a > b {
					a, b = b, a
				}
				if uses[[2]int{a, b}] == 0 {
					order = append(order, [2]int{a, b})
				}
				uses[[2]int{a, b}]++
			}
		}
		for _, e := range order {
			a, b := project(e[0]), project(e[1])
			if uses[e] == 1 {
				p.line(a[0], a[1], b[0], b[1], 2, border)
			} else {
				p.line(a[0], a[1], b[0], b[1], 1, interior)
			}
		}
	}

	for _, v := range opts.Pins {
		if v >= 0 && v < len(flat.UV) {
			pt := project(v)
			p.dot(pt[0], pt[1], 8, pinColor)
		}
	}
	return img, nil
}

// imageSize fits the layout aspect ratio into a size x size square
func imageSize(uv geometry.Vector2, size, margin int) (int, int) {
	inner := float64(size - 2*margin)
	switch {
	case uv.X <= 0 && uv.Y <= 0:
		return size, size
	case uv.X >= uv.Y:
		return size, 2*margin + max(1, int(math.Round(inner*uv.Y/uv.X)))
	default:
		return 2*margin + max(1, int(math.Round(inner*uv.X/uv.Y))), size
	}
}

// faceColors shades each face by log2 of its normalized area ratio. Faces
// oriented against the majority are marked as flipped.
func faceColors(surface, flat *mesh.Mesh, heatmap bool) []color.RGBA {
	colors := make([]color.RGBA, len(flat.Faces))
	for i := range colors {
		colors[i] = neutral
	}
	if surface == nil || !heatmap {
		return colors
	}

	areas := make([]float64, len(flat.Faces))
	uvAreas := make([]float64, len(flat.Faces))
	var total, uvTotal float64
	positive := 0
	for i, f := range flat.Faces {
		areas[i] = surface.Triangle(i).Area()
		uvAreas[i] = geometry.SignedArea2D(flat.UV[f[0]], flat.UV[f[1]], flat.UV[f[2]])
		if uvAreas[i] > 0 {
			positive++
		}
		total += areas[i]
		uvTotal += math.Abs(uvAreas[i])
	}
	if total == 0 || uvTotal == 0 {
		return colors
	}

	sign := 1.0
	if 2*positive < len(flat.Faces) {
		sign = -1
	}
	scale := total / uvTotal
	for i := range colors {
		if uvAreas[i]*sign < 0 {
			colors[i] = flipped
			continue
		}
		if areas[i] == 0 || uvAreas[i] == 0 {
			continue
		}
		t := math.Log2(math.Abs(uvAreas[i])*scale/areas[i]) / 2
		t = math.Max(-1, math.Min(1, t))
		if t > 0 {
			colors[i] = blend(neutral, stretched, t)
		} else {
			colors[i] = blend(neutral, shrunk, -t)
		}
	}
	return colors
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// WritePNG encodes img to filename
func WritePNG(filename string, img image.Image) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	return png.Encode(file, img)
}

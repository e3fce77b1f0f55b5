package preview

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout returns a plane and its flattened copy with UV equal to XY
func layout(t *testing.T, width, height float64) (*mesh.Mesh, *mesh.Mesh) {
	t.Helper()
	surface, err := mesh.Plane(5, 3, width, height)
	require.NoError(t, err)

	uv := make([]geometry.Vector2, surface.VertexCount())
	for i, p := range surface.Vertices {
		uv[i] = geometry.NewVector2(p.X, p.Y)
	}
	return surface, surface.Flattened(uv)
}

func TestNewViewFitsBounds(t *testing.T) {
	bounds := geometry.NewBoundingBox2()
	bounds.Extend(geometry.NewVector2(-1, 2))
	bounds.Extend(geometry.NewVector2(3, 4))

	view := NewView(bounds, 420, 220, 10)
	assert.InDelta(t, 100, view.Scale, 1e-9)

	x, y := view.Project(geometry.NewVector2(-1, 2))
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 210, y, 1e-9)

	x, y = view.Project(geometry.NewVector2(3, 4))
	assert.InDelta(t, 410, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestImageSize(t *testing.T) {
	w, h := imageSize(geometry.NewVector2(4, 1), 420, 10)
	assert.Equal(t, 420, w)
	assert.Equal(t, 120, h)

	w, h = imageSize(geometry.NewVector2(1, 2), 420, 10)
	assert.Equal(t, 220, w)
	assert.Equal(t, 420, h)

	w, h = imageSize(geometry.Vector2{}, 64, 4)
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, h)
}

func TestRenderLayout(t *testing.T) {
	surface, flat := layout(t, 4, 2)

	opts := DefaultOptions()
	opts.Size = 200
	opts.Margin = 10
	opts.Pins = []int{0, 14}
	img, err := Render(surface, flat, opts)
	require.NoError(t, err)

	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 110, img.Bounds().Dy())
	assert.Equal(t, background, img.RGBAAt(2, 2))

	// an undistorted layout is shaded neutral inside the cells
	inside := img.RGBAAt(60, 40)
	assert.InDelta(t, float64(neutral.R), float64(inside.R), 2)
	assert.InDelta(t, float64(neutral.B), float64(inside.B), 2)
	assert.NotEqual(t, background, img.RGBAAt(10, 50))
}

func TestHeatmapMarksDistortion(t *testing.T) {
	surface, flat := layout(t, 4, 2)
	// stretch the second row of the layout vertically
	for i := 10; i < 15; i++ {
		flat.UV[i].Y *= 3
	}

	colors := faceColors(surface, flat, true)
	require.Len(t, colors, 16)
	assert.NotEqual(t, neutral, colors[0])
	assert.Greater(t, colors[15].R, colors[15].B, "stretched faces turn red")
	assert.Greater(t, colors[0].B, colors[0].R, "shrunk faces turn blue")

	for i, c := range faceColors(surface, flat, false) {
		assert.Equal(t, neutral, c, "face %d", i)
	}
	for _, c := range faceColors(nil, flat, true) {
		assert.Equal(t, neutral, c)
	}
}

func TestHeatmapMarksFlipped(t *testing.T) {
	surface, flat := layout(t, 4, 2)
	flat.UV[6] = geometry.NewVector2(3.5, 0.2)

	colors := faceColors(surface, flat, true)
	count := 0
	for _, c := range colors {
		if c == flipped {
			count++
		}
	}
	assert.Positive(t, count)
}

func TestRenderErrors(t *testing.T) {
	surface, flat := layout(t, 1, 1)

	_, err := Render(surface, surface, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoUV)

	small := DefaultOptions()
	small.Size = 10
	small.Margin = 5
	_, err = Render(surface, flat, small)
	assert.Error(t, err)

	other, err := mesh.Plane(2, 2, 1, 1)
	require.NoError(t, err)
	_, err = Render(other, flat, DefaultOptions())
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	surface, flat := layout(t, 2, 1)
	opts := DefaultOptions()
	opts.Size = 128
	img, err := Render(surface, flat, opts)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "layout.png")
	require.NoError(t, WritePNG(path, img))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	decoded, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, background, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255})
}

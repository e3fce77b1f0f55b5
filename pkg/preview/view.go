package preview

import (
	"math"

	"github.com/philipparndt/meshflat/pkg/geometry"
)

// View maps UV coordinates to pixel coordinates. The layout is scaled
// uniformly to fit the image and centered; V points up.
type View struct {
	Width, Height int
	Scale         float64
	Offset        geometry.Vector2
	min           geometry.Vector2
}

// NewView creates a view showing bounds inside a width x height image with
// margin pixels on every side.
func NewView(bounds geometry.BoundingBox2, width, height, margin int) View {
	size := bounds.Size()
	availW := float64(width - 2*margin)
	availH := float64(height - 2*margin)

	scale := 1.0
	if size.X > 0 || size.Y > 0 {
		scale = math.Min(availW/math.Max(size.X, 1e-12), availH/math.Max(size.Y, 1e-12))
	}

	offset := geometry.NewVector2(
		(float64(width)-size.X*scale)/2,
		(float64(height)-size.Y*scale)/2,
	)
	return View{Width: width, Height: height, Scale: scale, Offset: offset, min: bounds.Min}
}

// Project converts a UV coordinate to pixel coordinates
func (v View) Project(uv geometry.Vector2) (float64, float64) {
	x := (uv.X-v.min.X)*v.Scale + v.Offset.X
	y := float64(v.Height) - ((uv.Y-v.min.Y)*v.Scale + v.Offset.Y)
	return x, y
}

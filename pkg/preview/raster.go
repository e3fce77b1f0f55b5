package preview

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// painter fills anti-aliased polygons. The rasterizer is sized to the
// bounding box of each polygon so that small shapes stay cheap.
type painter struct {
	dst *image.RGBA
	r   *vector.Rasterizer
}

func newPainter(dst *image.RGBA) *painter {
	return &painter{dst: dst, r: vector.NewRasterizer(1, 1)}
}

// fill draws the closed polygon through pts
func (p *painter) fill(pts [][2]float64, col color.RGBA) {
	if len(pts) < 3 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range pts {
		minX, maxX = math.Min(minX, pt[0]), math.Max(maxX, pt[0])
		minY, maxY = math.Min(minY, pt[1]), math.Max(maxY, pt[1])
	}

	rect := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(p.dst.Bounds())
	if rect.Empty() {
		return
	}

	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	p.r.Reset(rect.Dx(), rect.Dy())
	p.r.MoveTo(float32(pts[0][0]-ox), float32(pts[0][1]-oy))
	for _, pt := range pts[1:] {
		p.r.LineTo(float32(pt[0]-ox), float32(pt[1]-oy))
	}
	p.r.ClosePath()
	p.r.Draw(p.dst, rect, image.NewUniform(col), image.Point{})
}

// line draws a segment of the given width as a thin quad
func (p *painter) line(x1, y1, x2, y2, width float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	p.fill([][2]float64{
		{x1 + nx, y1 + ny},
		{x2 + nx, y2 + ny},
		{x2 - nx, y2 - ny},
		{x1 - nx, y1 - ny},
	}, col)
}

// dot draws a filled square marker centered on (x, y)
func (p *painter) dot(x, y, size float64, col color.RGBA) {
	h := size / 2
	p.fill([][2]float64{{x - h, y - h}, {x + h, y - h}, {x + h, y + h}, {x - h, y + h}}, col)
}

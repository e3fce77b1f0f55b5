package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates a new bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent
func (b BoundingBox) LongestAxis() int {
	size := b.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0
	}
	if size.Y >= size.Z {
		return 1
	}
	return 2
}

// BoundingBox2 represents an axis-aligned rectangle in the UV plane
type BoundingBox2 struct {
	Min Vector2
	Max Vector2
}

// NewBoundingBox2 creates an empty rectangle
func NewBoundingBox2() BoundingBox2 {
	return BoundingBox2{
		Min: Vector2{X: math.MaxFloat64, Y: math.MaxFloat64},
		Max: Vector2{X: -math.MaxFloat64, Y: -math.MaxFloat64},
	}
}

// Extend expands the rectangle to include a point
func (b *BoundingBox2) Extend(point Vector2) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Size returns the width and height of the rectangle
func (b BoundingBox2) Size() Vector2 {
	return b.Max.Sub(b.Min)
}

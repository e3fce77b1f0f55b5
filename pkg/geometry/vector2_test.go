package geometry

import (
	"math"
	"testing"
)

func TestVector2Distance(t *testing.T) {
	v1 := NewVector2(0, 0)
	v2 := NewVector2(3, 4)

	if d := v1.Distance(v2); math.Abs(d-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5, got %v", d)
	}
}

func TestVector2Cross(t *testing.T) {
	if c := NewVector2(1, 0).Cross(NewVector2(0, 1)); c != 1 {
		t.Errorf("Cross failed: expected 1, got %v", c)
	}
}

func TestSignedArea2D(t *testing.T) {
	a := NewVector2(0, 0)
	b := NewVector2(2, 0)
	c := NewVector2(0, 2)

	if area := SignedArea2D(a, b, c); math.Abs(area-2) > 1e-12 {
		t.Errorf("expected +2 for counter-clockwise, got %v", area)
	}
	if area := SignedArea2D(a, c, b); math.Abs(area+2) > 1e-12 {
		t.Errorf("expected -2 for clockwise, got %v", area)
	}
}

package halfedge

import (
	"errors"
	"testing"
)

// square split into two triangles: 0-1-2, 0-2-3
var square = [][3]int{{0, 1, 2}, {0, 2, 3}}

// fan of four triangles around centre vertex 4
var fan = [][3]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}

// tetrahedron, closed
var tetra = [][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}}

func TestBuildNavigation(t *testing.T) {
	m, err := Build(4, square)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if m.HalfEdgeCount() != 6 {
		t.Errorf("Expected 6 half-edges, got %d", m.HalfEdgeCount())
	}

	for h := 0; h < m.HalfEdgeCount(); h++ {
		if m.Next(m.Prev(h)) != h {
			t.Errorf("Next(Prev(%d)) != %d", h, h)
		}
		if m.Next(m.Next(m.Next(h))) != h {
			t.Errorf("Next^3(%d) != %d", h, h)
		}
		if m.Face(h) != h/3 {
			t.Errorf("Face(%d) = %d", h, m.Face(h))
		}
		if tw := m.Twin(h); tw != None {
			if m.Twin(tw) != h {
				t.Errorf("Twin is not symmetric for %d", h)
			}
			if m.Origin(tw) != m.Dest(h) || m.Dest(tw) != m.Origin(h) {
				t.Errorf("Twin of %d has wrong endpoints", h)
			}
		}
	}

	// diagonal 0->2 (h=2 is 2->0, h=3 is 0->2)
	if m.Twin(2) != 3 {
		t.Errorf("Expected twin of 2 to be 3, got %d", m.Twin(2))
	}
}

func TestBuildNonManifoldEdge(t *testing.T) {
	_, err := Build(4, [][3]int{{0, 1, 2}, {0, 1, 3}})
	if !errors.Is(err, ErrNonManifoldEdge) {
		t.Errorf("Expected ErrNonManifoldEdge, got %v", err)
	}
}

func TestBuildInvalidFace(t *testing.T) {
	tests := []struct {
		name  string
		faces [][3]int
	}{
		{"out of range", [][3]int{{0, 1, 5}}},
		{"negative", [][3]int{{0, -1, 2}}},
		{"repeated corner", [][3]int{{0, 1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(3, tt.faces)
			if !errors.Is(err, ErrInvalidFace) {
				t.Errorf("Expected ErrInvalidFace, got %v", err)
			}
		})
	}
}

func TestFanInteriorVertex(t *testing.T) {
	m, err := Build(5, fan)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	edges, closed := m.Fan(4)
	if !closed {
		t.Error("Expected closed fan around the centre vertex")
	}
	if len(edges) != 4 {
		t.Fatalf("Expected 4 fan edges, got %d", len(edges))
	}

	seen := map[int]bool{}
	for _, h := range edges {
		if m.Origin(h) != 4 {
			t.Errorf("Fan edge %d does not leave vertex 4", h)
		}
		seen[m.Face(h)] = true
	}
	if len(seen) != 4 {
		t.Errorf("Expected fan to touch 4 faces, got %d", len(seen))
	}
}

func TestFanBoundaryVertex(t *testing.T) {
	m, err := Build(5, fan)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// each corner vertex of the square touches two triangles
	for v := 0; v < 4; v++ {
		if !m.IsBoundary(m.Outgoing(v)) {
			t.Errorf("Expected boundary outgoing edge for vertex %d", v)
		}
		edges, closed := m.Fan(v)
		if closed {
			t.Errorf("Vertex %d fan should be open", v)
		}
		if len(edges) != 2 {
			t.Errorf("Vertex %d: expected 2 fan edges, got %d", v, len(edges))
		}
	}
}

func TestCursor(t *testing.T) {
	m, err := Build(5, fan)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	c := m.At(0)
	if c.Origin() != 0 || c.Face() != 0 {
		t.Errorf("Unexpected cursor position: origin %d face %d", c.Origin(), c.Face())
	}

	n := c.NextAroundFace()
	if n.Edge() != 1 || n.Origin() != 1 {
		t.Errorf("NextAroundFace: got edge %d origin %d", n.Edge(), n.Origin())
	}
	if n.PrevAroundFace().Edge() != c.Edge() {
		t.Error("PrevAroundFace should undo NextAroundFace")
	}
	if c.Edge() != 0 {
		t.Error("Moving a cursor must not change the original")
	}

	around := m.At(2).NextAroundVertex() // 4->0 in face 0, rotates across 1->4
	if !around.Valid() || around.Origin() != 4 || around.Face() != 1 {
		t.Errorf("NextAroundVertex: got edge %d", around.Edge())
	}
}

func TestBoundaryLoops(t *testing.T) {
	m, err := Build(5, fan)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	loops := m.BoundaryLoops()
	if len(loops) != 1 {
		t.Fatalf("Expected 1 boundary loop, got %d", len(loops))
	}

	expected := []int{0, 1, 2, 3}
	if len(loops[0]) != len(expected) {
		t.Fatalf("Expected loop %v, got %v", expected, loops[0])
	}
	for i := range expected {
		if loops[0][i] != expected[i] {
			t.Errorf("Expected loop %v, got %v", expected, loops[0])
			break
		}
	}

	onBoundary := m.BoundaryVertices()
	for v := 0; v < 4; v++ {
		if !onBoundary[v] {
			t.Errorf("Vertex %d should be on the boundary", v)
		}
	}
	if onBoundary[4] {
		t.Error("Centre vertex should be interior")
	}
}

func TestBoundaryLoopsTwoHoles(t *testing.T) {
	// two disjoint triangles produce two loops
	m, err := Build(6, [][3]int{{0, 1, 2}, {3, 4, 5}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	loops := m.BoundaryLoops()
	if len(loops) != 2 {
		t.Fatalf("Expected 2 loops, got %d", len(loops))
	}
	if loops[0][0] != 0 || loops[1][0] != 3 {
		t.Errorf("Unexpected loop order: %v", loops)
	}
}

func TestClosedMesh(t *testing.T) {
	m, err := Build(4, tetra)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if loops := m.BoundaryLoops(); len(loops) != 0 {
		t.Errorf("Expected no boundary loops, got %v", loops)
	}
	for v := 0; v < 4; v++ {
		edges, closed := m.Fan(v)
		if !closed || len(edges) != 3 {
			t.Errorf("Vertex %d: expected closed fan of 3, got %d (closed=%v)", v, len(edges), closed)
		}
	}
}

func TestUnusedVertex(t *testing.T) {
	m, err := Build(4, [][3]int{{0, 1, 2}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.Outgoing(3) != None {
		t.Error("Unused vertex should have no outgoing edge")
	}
	if m.AtVertex(3).Valid() {
		t.Error("Cursor at unused vertex should be invalid")
	}
}

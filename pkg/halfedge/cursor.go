package halfedge

// Cursor is a position on a half-edge. Cursors are values: moving returns a
// new cursor and never mutates the receiver.
type Cursor struct {
	mesh *Mesh
	edge int
}

// At returns a cursor on half-edge h
func (m *Mesh) At(h int) Cursor {
	return Cursor{mesh: m, edge: h}
}

// AtVertex returns a cursor on the outgoing half-edge of vertex v
func (m *Mesh) AtVertex(v int) Cursor {
	return Cursor{mesh: m, edge: m.outgoing[v]}
}

// Edge returns the current half-edge, or None
func (c Cursor) Edge() int {
	return c.edge
}

// Valid reports whether the cursor is on a half-edge
func (c Cursor) Valid() bool {
	return c.edge != None
}

// Origin returns the vertex the current half-edge leaves from
func (c Cursor) Origin() int {
	return c.mesh.origin[c.edge]
}

// Face returns the face of the current half-edge
func (c Cursor) Face() int {
	return c.edge / 3
}

// NextAroundFace moves to the next half-edge of the same face
func (c Cursor) NextAroundFace() Cursor {
	return Cursor{mesh: c.mesh, edge: c.mesh.Next(c.edge)}
}

// PrevAroundFace moves to the previous half-edge of the same face
func (c Cursor) PrevAroundFace() Cursor {
	return Cursor{mesh: c.mesh, edge: c.mesh.Prev(c.edge)}
}

// NextAroundVertex moves to the next half-edge leaving the same origin:
// the twin of the half-edge that enters the origin in the current face.
// The result is invalid when the rotation crosses the boundary.
func (c Cursor) NextAroundVertex() Cursor {
	return Cursor{mesh: c.mesh, edge: c.mesh.twin[c.mesh.Prev(c.edge)]}
}

// Fan returns the half-edges leaving vertex v in rotational order, starting
// at its outgoing half-edge. closed is false when the walk stopped at the
// boundary.
func (m *Mesh) Fan(v int) (edges []int, closed bool) {
	start := m.AtVertex(v)
	if !start.Valid() {
		return nil, false
	}

	c := start
	for {
		edges = append(edges, c.Edge())
		c = c.NextAroundVertex()
		if !c.Valid() {
			return edges, false
		}
		if c.Edge() == start.Edge() || len(edges) > len(m.origin) {
			return edges, c.Edge() == start.Edge()
		}
	}
}

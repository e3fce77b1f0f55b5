package halfedge

// BoundaryLoops returns every boundary loop as the ordered list of its
// vertices. Loops are reported in order of their lowest boundary half-edge.
func (m *Mesh) BoundaryLoops() [][]int {
	visited := make([]bool, len(m.origin))
	var loops [][]int

	for h := range m.origin {
		if !m.IsBoundary(h) || visited[h] {
			continue
		}

		var loop []int
		for e := h; !visited[e]; e = m.nextBoundary(e) {
			visited[e] = true
			loop = append(loop, m.origin[e])
		}
		loops = append(loops, loop)
	}
	return loops
}

// nextBoundary returns the boundary half-edge leaving the destination of
// boundary half-edge h, found by rotating through the interior of the fan.
func (m *Mesh) nextBoundary(h int) int {
	e := m.Next(h)
	for i := 0; i < len(m.origin) && !m.IsBoundary(e); i++ {
		e = m.Next(m.twin[e])
	}
	return e
}

// BoundaryVertices returns a flag per vertex marking boundary vertices
func (m *Mesh) BoundaryVertices() []bool {
	onBoundary := make([]bool, len(m.outgoing))
	for h, t := range m.twin {
		if t == None {
			onBoundary[m.origin[h]] = true
		}
	}
	return onBoundary
}

package spatial

// Edge is an undirected connection between two nodes. It tracks the
// tetrahedra it belongs to and accumulates the cross-section area
// contributed by each of them. Edges are created on demand while
// tetrahedra wire themselves up and disappear when their last
// incident tetrahedron is removed.
type Edge struct {
	a, b             *SpaceNode
	tetrahedra       []*Tetrahedron
	crossSectionArea float64
}

// newEdge creates an edge between a and b and registers it with both
// endpoints.
func newEdge(a, b *SpaceNode) *Edge {
	e := &Edge{a: a, b: b}
	if a != nil {
		a.addEdge(e)
	}
	if b != nil {
		b.addEdge(e)
	}
	return e
}

// Opposite returns the endpoint opposite to node, or
// ErrEdgeNotIncident if node is not an endpoint of this edge.
func (e *Edge) Opposite(node *SpaceNode) (*SpaceNode, error) {
	switch node {
	case e.a:
		return e.b, nil
	case e.b:
		return e.a, nil
	}
	return nil, ErrEdgeNotIncident
}

// otherEnd is the internal endpoint lookup. Callers guarantee that
// node is an endpoint.
func (e *Edge) otherEnd(node *SpaceNode) *SpaceNode {
	if node == e.a {
		return e.b
	}
	return e.a
}

// OppositeUserObject returns the user object at the far end of the
// edge, given the user object at one end.
func (e *Edge) OppositeUserObject(userObject any) any {
	if e.a == nil || e.b == nil {
		return nil
	}
	if userObject == e.a.UserObject() {
		return e.b.UserObject()
	}
	return e.a.UserObject()
}

// CrossSectionArea returns the accumulated cross-section area of this
// edge, the sum of the contributions of its incident tetrahedra.
func (e *Edge) CrossSectionArea() float64 {
	return e.crossSectionArea
}

// Tetrahedra returns the tetrahedra incident to this edge.
func (e *Edge) Tetrahedra() []*Tetrahedron {
	return e.tetrahedra
}

func (e *Edge) equals(a, b *SpaceNode) bool {
	return (e.a == a && e.b == b) || (e.a == b && e.b == a)
}

func (e *Edge) addTetrahedron(tet *Tetrahedron) {
	e.tetrahedra = append(e.tetrahedra, tet)
}

// removeTetrahedron drops tet from the incidence list. The edge
// detaches itself from its endpoints when the last tetrahedron is
// gone.
func (e *Edge) removeTetrahedron(tet *Tetrahedron) {
	for i, t := range e.tetrahedra {
		if t == tet {
			e.tetrahedra = append(e.tetrahedra[:i], e.tetrahedra[i+1:]...)
			break
		}
	}
	if len(e.tetrahedra) == 0 {
		e.detach()
	}
}

func (e *Edge) detach() {
	if e.a != nil {
		e.a.removeEdge(e)
	}
	if e.b != nil {
		e.b.removeEdge(e)
	}
}

func (e *Edge) changeCrossSectionArea(delta float64) {
	e.crossSectionArea += delta
}

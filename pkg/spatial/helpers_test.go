package spatial

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// insertAll inserts the given positions in order and returns the
// created nodes. The first insertion seeds the session.
func insertAll(t *testing.T, tri *Triangulation, positions []v3.Vec) []*SpaceNode {
	t.Helper()
	nodes := make([]*SpaceNode, 0, len(positions))
	for i, pos := range positions {
		node, err := tri.InsertAt(pos, i)
		if err != nil {
			t.Fatalf("insert %v: %v", pos, err)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// unitTetrahedronPositions is the end-to-end scenario 1 point set.
func unitTetrahedronPositions() []v3.Vec {
	return []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

// octahedronPositions is the end-to-end scenario 2 point set.
func octahedronPositions() []v3.Vec {
	return []v3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
	}
}

func finiteTetrahedra(tri *Triangulation) []*Tetrahedron {
	var result []*Tetrahedron
	for _, tet := range tri.Tetrahedra() {
		if !tet.IsInfinite() {
			result = append(result, tet)
		}
	}
	return result
}

// checkDelaunay verifies P1: no node lies strictly inside the
// circumsphere of any finite, non-flat tetrahedron it is not part of.
func checkDelaunay(t *testing.T, tri *Triangulation) {
	t.Helper()
	for _, tet := range finiteTetrahedra(tri) {
		if tet.IsFlat() {
			continue
		}
		for _, node := range tri.Nodes() {
			if tet.isAdjacentToNode(node) {
				continue
			}
			if tet.Orientation(node.Position()) > 0 {
				t.Errorf("delaunay violation: node %d at %v strictly inside circumsphere of %v",
					node.ID(), node.Position(), tet.Nodes())
			}
		}
	}
}

// checkTriangleIncidence verifies P2: every triangle of a valid
// tetrahedron is paired with exactly two tetrahedra.
func checkTriangleIncidence(t *testing.T, tri *Triangulation) {
	t.Helper()
	for _, tet := range tri.Tetrahedra() {
		for _, triangle := range tet.triangles {
			if !triangle.isClosed() {
				t.Errorf("triangle %v of a valid tetrahedron is not closed", triangleNodes(triangle))
			}
		}
	}
}

// checkCrossSections verifies P4: every edge's cross-section area is
// the sum of the contributions of its incident tetrahedra.
func checkCrossSections(t *testing.T, tri *Triangulation) {
	t.Helper()
	sums := make(map[*Edge]float64)
	for _, tet := range tri.Tetrahedra() {
		for i, e := range tet.edges {
			if e != nil {
				sums[e] += tet.crossSections[i]
			}
		}
	}
	for e, want := range sums {
		if got := e.CrossSectionArea(); math.Abs(got-want) > 1e-9 {
			t.Errorf("edge cross-section = %g, sum of contributions = %g", got, want)
		}
	}
}

func checkAllInvariants(t *testing.T, tri *Triangulation) {
	t.Helper()
	checkDelaunay(t, tri)
	checkTriangleIncidence(t, tri)
	checkCrossSections(t, tri)
}

func triangleNodes(triangle *Triangle) [3]int {
	var ids [3]int
	for i, n := range triangle.nodes {
		ids[i] = nodeKeyID(n)
	}
	return ids
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// recordingListener counts listener callbacks and remembers the last
// movement delta.
type recordingListener struct {
	aboutToMove    int
	moved          int
	aboutToBeAdded int
	added          int
	aboutToRemove  int
	removed        int
	lastDelta      v3.Vec
	lastVertices   [4]any
}

func (r *recordingListener) NodeAboutToMove(node *SpaceNode, delta v3.Vec) {
	r.aboutToMove++
	r.lastDelta = delta
}

func (r *recordingListener) NodeMoved(node *SpaceNode) {
	r.moved++
}

func (r *recordingListener) NodeAboutToBeAdded(node *SpaceNode, position v3.Vec, vertices [4]any) {
	r.aboutToBeAdded++
	r.lastVertices = vertices
}

func (r *recordingListener) NodeAdded(node *SpaceNode) {
	r.added++
}

func (r *recordingListener) NodeAboutToBeRemoved(node *SpaceNode) {
	r.aboutToRemove++
}

func (r *recordingListener) NodeRemoved(node *SpaceNode) {
	r.removed++
}

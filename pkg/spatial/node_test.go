package spatial

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestNeighbors(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	// In a single tetrahedron every node sees the other three.
	for _, n := range nodes {
		neighbors := n.Neighbors()
		if len(neighbors) != 3 {
			t.Errorf("node %d has %d neighbors, want 3", n.ID(), len(neighbors))
		}
		seen := make(map[any]bool)
		for _, obj := range neighbors {
			seen[obj] = true
		}
		if seen[n.UserObject()] {
			t.Errorf("node %d lists itself as neighbor", n.ID())
		}
	}
}

func TestEdgeOpposite(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	edge := nodes[0].Edges()[0]
	opp, err := edge.Opposite(nodes[0])
	if err != nil {
		t.Fatalf("opposite: %v", err)
	}
	if opp == nodes[0] {
		t.Error("opposite endpoint equals the query node")
	}

	// A node that is not an endpoint is a programming error.
	var stranger *SpaceNode
	for _, n := range nodes {
		if n != edge.a && n != edge.b {
			stranger = n
			break
		}
	}
	if _, err := edge.Opposite(stranger); !errors.Is(err, ErrEdgeNotIncident) {
		t.Errorf("error = %v, want ErrEdgeNotIncident", err)
	}
}

func TestListenerNotifications(t *testing.T) {
	rec := &recordingListener{}
	tri := New(WithListener(rec))
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	// The fifth insertion goes through the full insert path and must
	// announce the containing tetrahedron's user objects.
	center, err := tri.InsertAt(v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, "center")
	if err != nil {
		t.Fatalf("insert center: %v", err)
	}
	if rec.aboutToBeAdded != 1 || rec.added != 1 {
		t.Errorf("add callbacks = %d/%d, want 1/1", rec.aboutToBeAdded, rec.added)
	}
	for i, obj := range rec.lastVertices {
		if obj == nil {
			t.Errorf("vertex slot %d of a finite containing tetrahedron is nil", i)
		}
	}

	if err := center.MoveTo(v3.Vec{X: 0.3, Y: 0.3, Z: 0.3}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if rec.aboutToMove == 0 || rec.moved == 0 {
		t.Errorf("move callbacks = %d/%d, want at least 1 each", rec.aboutToMove, rec.moved)
	}
	if !almostEqual(rec.lastDelta.X, 0.05, 1e-12) ||
		!almostEqual(rec.lastDelta.Y, 0.05, 1e-12) ||
		!almostEqual(rec.lastDelta.Z, 0.05, 1e-12) {
		t.Errorf("delta = %v, want (0.05, 0.05, 0.05)", rec.lastDelta)
	}

	if err := center.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if rec.aboutToRemove != 1 || rec.removed != 1 {
		t.Errorf("remove callbacks = %d/%d, want 1/1", rec.aboutToRemove, rec.removed)
	}
	_ = nodes
}

func TestVerticesOfTetrahedronContaining(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	vertices, ok := nodes[0].VerticesOfTetrahedronContaining(v3.Vec{X: 0.1, Y: 0.1, Z: 0.1})
	if !ok {
		t.Fatal("interior position should be containable")
	}
	seen := make(map[any]bool)
	for _, obj := range vertices {
		seen[obj] = true
	}
	for _, n := range nodes {
		if !seen[n.UserObject()] {
			t.Errorf("containing tetrahedron misses user object of node %d", n.ID())
		}
	}

	if _, ok := nodes[0].VerticesOfTetrahedronContaining(v3.Vec{X: 50, Y: 50, Z: 50}); ok {
		t.Error("position outside the convex hull should report !ok")
	}
}

func TestProposeNewPosition(t *testing.T) {
	tri := New()
	insertAll(t, tri, unitTetrahedronPositions())
	center, err := tri.InsertAt(v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, "center")
	if err != nil {
		t.Fatalf("insert center: %v", err)
	}
	proposed := center.ProposeNewPosition()
	if proposed == center.Position() {
		t.Error("proposed position should differ from the current one")
	}
	// The proposal must be a usable target.
	if err := center.MoveTo(proposed); err != nil {
		t.Errorf("moving to proposed position: %v", err)
	}
	checkAllInvariants(t, tri)
}

func TestBuildUpRegime(t *testing.T) {
	tri := New()
	a := tri.InsertFirstNode(v3.Vec{X: 0, Y: 0, Z: 0}, "a")
	b, err := tri.InsertAt(v3.Vec{X: 1, Y: 0, Z: 0}, "b")
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if len(a.Tetrahedra()) != 0 || len(b.Tetrahedra()) != 0 {
		t.Error("no tetrahedra should exist with two nodes")
	}
	if len(a.Edges()) != 1 {
		t.Errorf("first node has %d edges, want 1", len(a.Edges()))
	}

	if _, err := tri.InsertAt(v3.Vec{X: 0, Y: 1, Z: 0}, "c"); err != nil {
		t.Fatalf("third insert: %v", err)
	}
	if len(finiteTetrahedra(tri)) != 0 {
		t.Error("three nodes must not form a tetrahedron")
	}

	if _, err := tri.InsertAt(v3.Vec{X: 0, Y: 0, Z: 1}, "d"); err != nil {
		t.Fatalf("fourth insert: %v", err)
	}
	if len(finiteTetrahedra(tri)) != 1 {
		t.Errorf("finite tetrahedra = %d, want 1 after four non-coplanar nodes", len(finiteTetrahedra(tri)))
	}
	checkAllInvariants(t, tri)
}

func TestBuildUpStaysFlatForCoplanarPoints(t *testing.T) {
	tri := New()
	positions := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 2, Y: 2, Z: 0},
	}
	insertAll(t, tri, positions)
	if len(tri.Tetrahedra()) != 0 {
		t.Error("coplanar points must not produce tetrahedra")
	}

	// The first off-plane point seeds the tetrahedron and absorbs the
	// backlog.
	if _, err := tri.InsertAt(v3.Vec{X: 0.5, Y: 0.5, Z: 1}, "apex"); err != nil {
		t.Fatalf("apex insert: %v", err)
	}
	if len(finiteTetrahedra(tri)) == 0 {
		t.Fatal("apex should have seeded the triangulation")
	}
	if tri.NodeCount() != 6 {
		t.Errorf("node count = %d, want 6", tri.NodeCount())
	}
	checkAllInvariants(t, tri)
}

func TestRemoveInBuildUpRegime(t *testing.T) {
	tri := New()
	a := tri.InsertFirstNode(v3.Vec{X: 0, Y: 0, Z: 0}, "a")
	b, err := tri.InsertAt(v3.Vec{X: 1, Y: 0, Z: 0}, "b")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if tri.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", tri.NodeCount())
	}
	if len(a.Edges()) != 0 {
		t.Errorf("edges left behind after removal: %d", len(a.Edges()))
	}
}

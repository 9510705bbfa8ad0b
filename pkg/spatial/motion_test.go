package spatial

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestMoveWithoutFlip(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	// Stretch the apex: the single finite tetrahedron only grows.
	apex := nodes[3]
	if err := apex.MoveTo(v3.Vec{X: 0, Y: 0, Z: 1.1}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if apex.Position() != (v3.Vec{X: 0, Y: 0, Z: 1.1}) {
		t.Errorf("position = %v, want (0, 0, 1.1)", apex.Position())
	}
	if !almostEqual(tri.Volume(), 1.1/6.0, 1e-12) {
		t.Errorf("volume = %g, want 1.1/6", tri.Volume())
	}
	if len(finiteTetrahedra(tri)) != 1 {
		t.Errorf("finite tetrahedra = %d, want 1", len(finiteTetrahedra(tri)))
	}
	checkAllInvariants(t, tri)
}

func TestMoveBy(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	if err := nodes[3].MoveBy(v3.Vec{X: 0, Y: 0, Z: 0.25}); err != nil {
		t.Fatalf("move by: %v", err)
	}
	if nodes[3].Position() != (v3.Vec{X: 0, Y: 0, Z: 1.25}) {
		t.Errorf("position = %v, want (0, 0, 1.25)", nodes[3].Position())
	}
	checkAllInvariants(t, tri)
}

func TestMoveRestoresDelaunay(t *testing.T) {
	tri := New()
	positions := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 0, Y: 0, Z: 2},
		{X: 1, Y: 1, Z: 1},
	}
	nodes := insertAll(t, tri, positions)
	checkAllInvariants(t, tri)

	if err := nodes[4].MoveTo(v3.Vec{X: 1, Y: 1, Z: 2.5}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if tri.NodeCount() != 5 {
		t.Fatalf("node count = %d, want 5", tri.NodeCount())
	}
	// The final triangulation is Delaunay for all node/tetrahedron
	// combinations.
	checkAllInvariants(t, tri)
}

func TestMoveToCurrentPositionIsNoOp(t *testing.T) {
	tri := New()
	insertAll(t, tri, unitTetrahedronPositions())
	center, err := tri.InsertAt(v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, "center")
	if err != nil {
		t.Fatalf("insert center: %v", err)
	}
	rec := &recordingListener{}
	center.AddMovementListener(rec)
	volumeBefore := tri.Volume()
	finiteBefore := len(finiteTetrahedra(tri))

	if err := center.MoveTo(center.Position()); err != nil {
		t.Fatalf("move to current position: %v", err)
	}
	if tri.Volume() != volumeBefore {
		t.Errorf("volume changed by zero-delta move")
	}
	if len(finiteTetrahedra(tri)) != finiteBefore {
		t.Errorf("tetrahedron count changed by zero-delta move")
	}
	// Listeners fire with a zero delta.
	if rec.aboutToMove != 1 || rec.moved != 1 {
		t.Errorf("listener calls = %d/%d, want 1/1", rec.aboutToMove, rec.moved)
	}
	if rec.lastDelta != (v3.Vec{}) {
		t.Errorf("delta = %v, want zero", rec.lastDelta)
	}
	checkAllInvariants(t, tri)
}

func TestMoveHullNodeOutward(t *testing.T) {
	tri := New()
	positions := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 0, Y: 0, Z: 2},
		{X: 0.5, Y: 0.5, Z: 0.5},
	}
	nodes := insertAll(t, tri, positions)

	// A hull node motion goes through remove + reinsert.
	if err := nodes[1].MoveTo(v3.Vec{X: 3, Y: 0, Z: 0}); err != nil {
		t.Fatalf("move hull node: %v", err)
	}
	if nodes[1].Position() != (v3.Vec{X: 3, Y: 0, Z: 0}) {
		t.Errorf("position = %v, want (3, 0, 0)", nodes[1].Position())
	}
	if tri.NodeCount() != 5 {
		t.Fatalf("node count = %d, want 5", tri.NodeCount())
	}
	checkAllInvariants(t, tri)
}

func TestMoveOntoExistingNodeRejected(t *testing.T) {
	tri := New()
	positions := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 0, Y: 0, Z: 2},
		{X: 0.5, Y: 0.5, Z: 0.5},
	}
	nodes := insertAll(t, tri, positions)

	inner := nodes[4]
	before := inner.Position()
	err := inner.MoveTo(v3.Vec{X: 0, Y: 0, Z: 0})
	if err == nil {
		t.Fatal("moving onto an existing node should fail")
	}
	if inner.Position() != before {
		t.Errorf("position = %v after failed move, want %v", inner.Position(), before)
	}
	if tri.NodeCount() != 5 {
		t.Errorf("node count = %d, want 5", tri.NodeCount())
	}
	checkAllInvariants(t, tri)
}

func TestMoveApexIntoPlaneCollapsesHull(t *testing.T) {
	tri := New()
	// Four coplanar nodes plus an apex above them: a square pyramid.
	positions := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0.5, Y: 0.5, Z: 1},
	}
	nodes := insertAll(t, tri, positions)
	if !almostEqual(tri.Volume(), 1.0/3.0, 1e-9) {
		t.Fatalf("pyramid volume = %g, want 1/3", tri.Volume())
	}
	checkAllInvariants(t, tri)

	// Moving the apex into the base plane makes all five nodes
	// coplanar. Degenerate tetrahedra must be removed; the hull
	// volume collapses to zero and the invariants still hold.
	if err := nodes[4].MoveTo(v3.Vec{X: 0.5, Y: 0.5, Z: 0}); err != nil {
		t.Fatalf("move apex into plane: %v", err)
	}
	if tri.NodeCount() != 5 {
		t.Fatalf("node count = %d, want 5", tri.NodeCount())
	}
	if !almostEqual(tri.Volume(), 0, 1e-9) {
		t.Errorf("volume = %g, want 0 for coplanar node set", tri.Volume())
	}
	for _, tet := range finiteTetrahedra(tri) {
		if !tet.IsFlat() && tet.Volume() > 1e-9 {
			t.Errorf("coplanar node set left a non-flat tetrahedron with volume %g", tet.Volume())
		}
	}
	checkAllInvariants(t, tri)

	// Lifting the apex back out of the plane restores a proper
	// triangulation.
	if err := nodes[4].MoveTo(v3.Vec{X: 0.5, Y: 0.5, Z: 1}); err != nil {
		t.Fatalf("move apex back: %v", err)
	}
	if !almostEqual(tri.Volume(), 1.0/3.0, 1e-9) {
		t.Errorf("volume after lifting apex = %g, want 1/3", tri.Volume())
	}
	checkAllInvariants(t, tri)
}

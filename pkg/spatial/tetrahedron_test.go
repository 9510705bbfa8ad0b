package spatial

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestEdgeNumberMapping(t *testing.T) {
	cases := []struct {
		n1, n2, want int
	}{
		{0, 1, 0},
		{0, 2, 1},
		{0, 3, 2},
		{1, 2, 3},
		{1, 3, 4},
		{2, 3, 5},
	}
	for _, c := range cases {
		if got := edgeNumber(c.n1, c.n2); got != c.want {
			t.Errorf("edgeNumber(%d, %d) = %d, want %d", c.n1, c.n2, got, c.want)
		}
		if got := edgeNumber(c.n2, c.n1); got != c.want {
			t.Errorf("edgeNumber(%d, %d) = %d, want %d", c.n2, c.n1, got, c.want)
		}
	}
}

func TestOrientationPredicate(t *testing.T) {
	tri := New()
	insertAll(t, tri, unitTetrahedronPositions())
	tet := finiteTetrahedra(tri)[0]

	// Circumsphere of the unit corner tetrahedron: center
	// (1/2, 1/2, 1/2), squared radius 3/4.
	cases := []struct {
		point v3.Vec
		want  int
	}{
		{v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 1},  // center
		{v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, 1}, // inside
		{v3.Vec{X: 5, Y: 5, Z: 5}, -1},       // far outside
		{v3.Vec{X: 1, Y: 1, Z: 0}, 0},        // exactly on the sphere
		{v3.Vec{X: 1, Y: 0, Z: 1}, 0},        // exactly on the sphere
		{v3.Vec{X: 1, Y: 1, Z: 1}, 0},        // exactly on the sphere
	}
	for _, c := range cases {
		if got := tet.Orientation(c.point); got != c.want {
			t.Errorf("Orientation(%v) = %d, want %d", c.point, got, c.want)
		}
	}
}

func TestOrientationOnSphereIsDeterministic(t *testing.T) {
	// The on-sphere case lands in the tolerance envelope and must be
	// decided by the exact predicate, identically on every call.
	tri := New()
	insertAll(t, tri, unitTetrahedronPositions())
	tet := finiteTetrahedra(tri)[0]
	point := v3.Vec{X: 1, Y: 1, Z: 0}
	first := tet.Orientation(point)
	for i := 0; i < 100; i++ {
		if got := tet.Orientation(point); got != first {
			t.Fatalf("orientation changed between calls: %d then %d", first, got)
		}
	}
	if first != 0 {
		t.Errorf("on-sphere orientation = %d, want 0", first)
	}
}

func TestWalkToPoint(t *testing.T) {
	tri := New()
	insertAll(t, tri, unitTetrahedronPositions())
	tet := finiteTetrahedra(tri)[0]
	order := [4]int{0, 1, 2, 3}

	// A contained point keeps the walk in place.
	inside := v3.Vec{X: 0.1, Y: 0.1, Z: 0.1}
	got, err := tet.walkToPoint(inside, order)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if got != tet {
		t.Error("walk from the containing tetrahedron should return it")
	}

	// A coordinate equal to a node is rejected.
	if _, err := tet.walkToPoint(v3.Vec{X: 1, Y: 0, Z: 0}, order); !errors.Is(err, ErrPositionNotAllowed) {
		t.Errorf("walk onto node error = %v, want ErrPositionNotAllowed", err)
	}
}

func TestVolumeDistribution(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, unitTetrahedronPositions())

	// Each node carries a quarter of every incident tetrahedron.
	for _, n := range nodes {
		if !almostEqual(n.Volume(), 1.0/24.0, 1e-12) {
			t.Errorf("node %d volume = %g, want 1/24", n.ID(), n.Volume())
		}
	}
}

func TestUserObjectsOfInfiniteTetrahedron(t *testing.T) {
	tri := New()
	insertAll(t, tri, unitTetrahedronPositions())
	for _, tet := range tri.Tetrahedra() {
		if !tet.IsInfinite() {
			continue
		}
		objs := tet.UserObjects()
		if objs[0] != nil {
			t.Error("infinite tetrahedron should report a nil user object in slot 0")
		}
		for i := 1; i < 4; i++ {
			if objs[i] == nil {
				t.Errorf("slot %d of infinite tetrahedron should carry a user object", i)
			}
		}
		break
	}
}

func TestFlip2to3CreatesFlatTetrahedron(t *testing.T) {
	tri := New()
	// Two tetrahedra over the shared base {a, b, c}. The lower apex q
	// is coplanar with the upper face {a, b, p}, so the 2->3 flip
	// degenerates one of the three new tetrahedra to a flat one.
	positions := []v3.Vec{
		{X: 0, Y: 0, Z: 0},        // a
		{X: 2, Y: 0, Z: 0},        // b
		{X: 0, Y: 2, Z: 0},        // c
		{X: 0.5, Y: 0.5, Z: 1},    // p (upper apex)
		{X: 0.5, Y: -0.5, Z: -1},  // q (lower apex, in the plane of a, b, p)
	}
	nodes := insertAll(t, tri, positions)
	a, b, c := nodes[0], nodes[1], nodes[2]

	// Locate the two tetrahedra sharing the triangle {a, b, c}.
	var upper, lower *Tetrahedron
	for _, tet := range finiteTetrahedra(tri) {
		if tet.isAdjacentToNode(a) && tet.isAdjacentToNode(b) && tet.isAdjacentToNode(c) {
			if tet.isAdjacentToNode(nodes[3]) {
				upper = tet
			} else if tet.isAdjacentToNode(nodes[4]) {
				lower = tet
			}
		}
	}
	if upper == nil || lower == nil {
		t.Fatal("expected tetrahedra sharing the base triangle on both sides")
	}

	created := flip2to3(upper, lower)
	if created[0] == nil {
		t.Fatal("flip2to3 did not fire")
	}
	flats := 0
	for _, tet := range created {
		if tet.IsFlat() {
			flats++
			if tet.Volume() != 0 {
				t.Errorf("flat tetrahedron volume = %g, want 0", tet.Volume())
			}
		}
	}
	if flats != 1 {
		t.Errorf("flat tetrahedra created = %d, want 1", flats)
	}
}

func TestCrossSectionAccountingAfterMutations(t *testing.T) {
	tri := New()
	nodes := insertAll(t, tri, octahedronPositions())
	checkCrossSections(t, tri)

	if err := nodes[0].MoveTo(v3.Vec{X: 1.25, Y: 0.1, Z: 0}); err != nil {
		t.Fatalf("move: %v", err)
	}
	checkCrossSections(t, tri)

	if err := nodes[5].Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	checkCrossSections(t, tri)
}

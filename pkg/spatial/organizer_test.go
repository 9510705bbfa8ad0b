package spatial

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTriangleKeyPermutationInvariance(t *testing.T) {
	tri := New()
	a := tri.InsertFirstNode(v3.Vec{X: 0, Y: 0, Z: 0}, nil)
	b, _ := tri.InsertAt(v3.Vec{X: 1, Y: 0, Z: 0}, nil)
	c, _ := tri.InsertAt(v3.Vec{X: 0, Y: 1, Z: 0}, nil)

	want := makeTriangleKey(a, b, c)
	perms := [][3]*SpaceNode{
		{a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, p := range perms {
		if got := makeTriangleKey(p[0], p[1], p[2]); got != want {
			t.Errorf("key of permutation %v = %v, want %v", p, got, want)
		}
	}

	// Infinite triangles (nil node) key consistently too.
	k1 := makeTriangleKey(nil, a, b)
	k2 := makeTriangleKey(b, nil, a)
	if k1 != k2 {
		t.Errorf("infinite triangle keys differ: %v vs %v", k1, k2)
	}
	if k1 == want {
		t.Error("infinite key must differ from finite key")
	}
}

func TestOrganizerPutRemovePoll(t *testing.T) {
	tri := New()
	a := tri.InsertFirstNode(v3.Vec{X: 0, Y: 0, Z: 0}, nil)
	b, _ := tri.InsertAt(v3.Vec{X: 1, Y: 0, Z: 0}, nil)
	c, _ := tri.InsertAt(v3.Vec{X: 0, Y: 1, Z: 0}, nil)

	o := tri.newOpenTriangleOrganizer()
	if !o.IsEmpty() {
		t.Error("fresh organizer should be empty")
	}
	triangle := newTriangle(a, b, c)
	o.Put(triangle)
	if o.IsEmpty() {
		t.Error("organizer should hold the triangle")
	}
	if !o.contains(c, a, b) {
		t.Error("lookup must be permutation invariant")
	}
	o.Remove(triangle)
	if !o.IsEmpty() {
		t.Error("organizer should be empty after Remove")
	}

	o.Put(triangle)
	if got := o.PollAny(); got != triangle {
		t.Errorf("PollAny = %v, want the stored triangle", got)
	}
	if !o.IsEmpty() {
		t.Error("PollAny should remove the triangle")
	}
	if o.PollAny() != nil {
		t.Error("PollAny on empty organizer should be nil")
	}
}

func TestGetTrianglePairsExistingTriangle(t *testing.T) {
	tri := New()
	a := tri.InsertFirstNode(v3.Vec{X: 0, Y: 0, Z: 0}, nil)
	b, _ := tri.InsertAt(v3.Vec{X: 1, Y: 0, Z: 0}, nil)
	c, _ := tri.InsertAt(v3.Vec{X: 0, Y: 1, Z: 0}, nil)

	o := tri.newOpenTriangleOrganizer()
	first := o.getTriangle(a, b, c)
	second := o.getTriangle(c, b, a)
	if first != second {
		t.Error("getTriangle should pair the open triangle instead of creating a new one")
	}
}

func TestOrganizerEmptyAfterMutations(t *testing.T) {
	// Invariant P2: no triangle is left in any organizer after public
	// operations; observable as every triangle of the triangulation
	// being closed.
	tri := New()
	nodes := insertAll(t, tri, octahedronPositions())
	checkTriangleIncidence(t, tri)

	if err := nodes[2].Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	checkTriangleIncidence(t, tri)

	if _, err := tri.InsertAt(v3.Vec{X: 0.1, Y: 0.2, Z: 0.3}, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	checkTriangleIncidence(t, tri)
}

package spatial

import (
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// checkingIndexModulus wraps the per-restoration-pass stamp counter.
// A full pass allocates one stamp, so realistic workloads never come
// close to wrapping within a single pass.
const checkingIndexModulus = 2000000000

// TriangleOrderFunc supplies a permutation of {0,1,2,3} used to
// randomize the visibility walk. It is called once per walk step.
type TriangleOrderFunc func() [4]int

// Triangulation is a single-threaded triangulation session: the node
// registry, the checking-index counter and the listener set. All
// mutation methods on the session and its nodes must be called from
// one goroutine; listeners are invoked synchronously and must not
// call back into the kernel.
type Triangulation struct {
	idCounter     int
	checkingIndex int
	triangleOrder TriangleOrderFunc
	listeners     []MovementListener
	index         *nodeIndex
}

// Option configures a Triangulation.
type Option func(*Triangulation)

// WithTriangleOrder injects the walk-order source, replacing the
// default seeded generator. Useful for deterministic replay and
// testing.
func WithTriangleOrder(f TriangleOrderFunc) Option {
	return func(t *Triangulation) {
		t.triangleOrder = f
	}
}

// WithListener registers a movement listener that every node created
// through this session will carry.
func WithListener(l MovementListener) Option {
	return func(t *Triangulation) {
		t.listeners = append(t.listeners, l)
	}
}

// New creates an empty triangulation session. The default triangle
// order source is a session-owned seeded generator, so runs replay
// deterministically; inject your own with WithTriangleOrder.
func New(opts ...Option) *Triangulation {
	t := &Triangulation{index: newNodeIndex()}
	rnd := rand.New(rand.NewSource(1))
	t.triangleOrder = func() [4]int {
		var order [4]int
		copy(order[:], rnd.Perm(4))
		return order
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// InsertFirstNode seeds the triangulation with its first node. The
// triangulation builds up through plain edges until four
// non-coplanar nodes exist, which triggers construction of the
// initial tetrahedron and its four infinite hull companions.
func (t *Triangulation) InsertFirstNode(position v3.Vec, userObject any) *SpaceNode {
	n := t.newNode(position, userObject)
	n.listeners = append([]MovementListener(nil), t.listeners...)
	return n
}

// InsertAt inserts a node at position, starting the insertion from
// the nearest registered node. With an empty session it behaves like
// InsertFirstNode.
func (t *Triangulation) InsertAt(position v3.Vec, userObject any) (*SpaceNode, error) {
	nearest := t.index.nearest(position)
	if nearest == nil {
		return t.InsertFirstNode(position, userObject), nil
	}
	return nearest.GetNewInstance(position, userObject)
}

// NearestNode returns the registered node closest to position, or nil
// for an empty session.
func (t *Triangulation) NearestNode(position v3.Vec) *SpaceNode {
	return t.index.nearest(position)
}

// Nodes returns all registered nodes ordered by id.
func (t *Triangulation) Nodes() []*SpaceNode {
	return t.index.all()
}

// NodeCount returns the number of registered nodes.
func (t *Triangulation) NodeCount() int {
	return t.index.size()
}

// Volume returns the total volume of the triangulation, the sum of
// all finite tetrahedron volumes (equivalently, of all dual-cell node
// volumes).
func (t *Triangulation) Volume() float64 {
	total := 0.0
	for _, n := range t.index.all() {
		total += n.volume
	}
	return total
}

// Tetrahedra returns every valid tetrahedron of the triangulation,
// including the infinite hull ones.
func (t *Triangulation) Tetrahedra() []*Tetrahedron {
	seen := make(map[*Tetrahedron]bool)
	var result []*Tetrahedron
	for _, n := range t.index.all() {
		for _, tet := range n.tetrahedra {
			if tet.valid && !seen[tet] {
				seen[tet] = true
				result = append(result, tet)
			}
		}
	}
	return result
}

// newCheckingIndex allocates a fresh restoration-pass stamp.
func (t *Triangulation) newCheckingIndex() int {
	t.checkingIndex = (t.checkingIndex + 1) % checkingIndexModulus
	return t.checkingIndex
}

func (t *Triangulation) newNode(position v3.Vec, userObject any) *SpaceNode {
	n := &SpaceNode{
		t:          t,
		id:         t.idCounter,
		userObject: userObject,
		position:   position,
	}
	t.idCounter++
	t.index.add(n)
	return n
}

func (t *Triangulation) newOpenTriangleOrganizer() *OpenTriangleOrganizer {
	return newOpenTriangleOrganizer(t)
}

// anyNodeWithTetrahedra returns some node that is part of a
// tetrahedron, or nil when none exists.
func (t *Triangulation) anyNodeWithTetrahedra() *SpaceNode {
	for _, n := range t.index.all() {
		if len(n.tetrahedra) > 0 {
			return n
		}
	}
	return nil
}

// reseed builds the initial tetrahedron as soon as the session holds
// four non-coplanar nodes and no tetrahedron exists yet (either
// during build-up, or after a fully coplanar configuration collapsed
// the triangulation). Remaining nodes are inserted into the fresh
// tetrahedron.
func (t *Triangulation) reseed() error {
	nodes := t.index.all()
	for _, n := range nodes {
		if len(n.tetrahedra) > 0 {
			return nil
		}
	}
	seed := findNonCoplanarQuad(nodes)
	if seed == nil {
		return nil
	}
	// Tear down the provisional edges; the tetrahedron construction
	// rebuilds real ones.
	for _, n := range nodes {
		for _, e := range append([]*Edge(nil), n.edges...) {
			e.detach()
		}
		n.edges = nil
	}
	oto := t.newOpenTriangleOrganizer()
	tet := createInitialTetrahedron(seed[0], seed[1], seed[2], seed[3], oto)
	for _, n := range nodes {
		if n == seed[0] || n == seed[1] || n == seed[2] || n == seed[3] {
			continue
		}
		if _, err := n.Insert(tet); err != nil {
			return err
		}
	}
	return nil
}

// searchInsertionTetrahedron walks from start towards coordinate
// until the containing tetrahedron is reached. An infinite start is
// first resolved to its finite neighbor; a walk ending on an infinite
// tetrahedron means the coordinate lies outside the convex hull, and
// that infinite tetrahedron is the insertion site.
func (t *Triangulation) searchInsertionTetrahedron(start *Tetrahedron, coordinate v3.Vec) (*Tetrahedron, error) {
	current := start
	if current.isInfinite() {
		current = current.oppositeTriangle(nil).oppositeTetrahedron(current)
	}
	var last *Tetrahedron
	for current != last && !current.isInfinite() {
		last = current
		next, err := current.walkToPoint(coordinate, t.triangleOrder())
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/neuropil/pkg/exact"
)

// maxRestorationRounds bounds the outer restoration loop. Geometric
// progress makes the loop terminate on real inputs; the bound turns a
// kernel bug or a pathological cospherical input into
// ErrInvariantViolated instead of an endless loop.
const maxRestorationRounds = 1000

// MovementListener receives synchronous notifications around every
// topology-changing node operation. The physics layer uses these to
// keep its own quantities consistent with the triangulation.
// Listeners must not call back into any mutating kernel method.
type MovementListener interface {
	// NodeAboutToMove fires before a position update, exactly once
	// per motion, with the planned movement delta.
	NodeAboutToMove(node *SpaceNode, delta v3.Vec)
	// NodeMoved fires after all flips of a motion completed.
	NodeMoved(node *SpaceNode)
	// NodeAboutToBeAdded fires before an insertion creates geometry.
	// vertices holds the user objects of the tetrahedron containing
	// the new position; one slot may be nil in the infinite case.
	NodeAboutToBeAdded(node *SpaceNode, position v3.Vec, vertices [4]any)
	// NodeAdded fires after the insertion cavity is retriangulated.
	NodeAdded(node *SpaceNode)
	NodeAboutToBeRemoved(node *SpaceNode)
	NodeRemoved(node *SpaceNode)
}

// SpaceNode is a point of the triangulation. It carries an opaque
// user object for the client, its incident edges and tetrahedra, and
// the volume of its dual cell (a quarter of each incident
// tetrahedron's volume). All external mutation of the triangulation
// enters through a node: Insert, MoveTo/MoveBy, Remove.
type SpaceNode struct {
	t          *Triangulation
	id         int
	userObject any
	position   v3.Vec
	listeners  []MovementListener

	// edges is ordered newest first.
	edges      []*Edge
	tetrahedra []*Tetrahedron
	volume     float64
}

// ID returns the node's unique, monotonically assigned id.
func (n *SpaceNode) ID() int {
	return n.id
}

// Position returns the node's current position.
func (n *SpaceNode) Position() v3.Vec {
	return n.position
}

// UserObject returns the opaque client handle attached to this node.
func (n *SpaceNode) UserObject() any {
	return n.userObject
}

// Volume returns the accumulated dual-cell volume of this node.
func (n *SpaceNode) Volume() float64 {
	return n.volume
}

// Edges returns the incident edges.
func (n *SpaceNode) Edges() []*Edge {
	return n.edges
}

// Tetrahedra returns the incident tetrahedra.
func (n *SpaceNode) Tetrahedra() []*Tetrahedron {
	return n.tetrahedra
}

// AddMovementListener registers a listener for this node's mutations.
func (n *SpaceNode) AddMovementListener(listener MovementListener) {
	n.listeners = append(n.listeners, listener)
}

// Neighbors returns the user objects of all nodes connected to this
// node by an edge.
func (n *SpaceNode) Neighbors() []any {
	var result []any
	for _, e := range n.edges {
		result = append(result, e.otherEnd(n).UserObject())
	}
	return result
}

// PermanentNeighbors is like Neighbors but skips endpoints that are
// already torn down.
func (n *SpaceNode) PermanentNeighbors() []any {
	var result []any
	for _, e := range n.edges {
		if opp := e.otherEnd(n); opp != nil {
			result = append(result, opp.UserObject())
		}
	}
	return result
}

// VerticesOfTetrahedronContaining walks from an incident tetrahedron
// to the tetrahedron containing position and returns the user objects
// of its vertices. ok is false when the node has no incident
// tetrahedra yet or the position lies outside the convex hull.
func (n *SpaceNode) VerticesOfTetrahedronContaining(position v3.Vec) (vertices [4]any, ok bool) {
	if len(n.tetrahedra) == 0 {
		return vertices, false
	}
	insertionTetrahedron := n.tetrahedra[0]
	if insertionTetrahedron.isInfinite() {
		insertionTetrahedron = insertionTetrahedron.oppositeTriangle(nil).oppositeTetrahedron(insertionTetrahedron)
	}
	var last *Tetrahedron
	for insertionTetrahedron != last && !insertionTetrahedron.isInfinite() {
		last = insertionTetrahedron
		next, err := insertionTetrahedron.walkToPoint(position, n.t.triangleOrder())
		if err != nil {
			// The position coincides with a node; stay at the current
			// tetrahedron, whose vertices are still the answer.
			break
		}
		insertionTetrahedron = next
	}
	if insertionTetrahedron.isInfinite() {
		return vertices, false
	}
	count := 0
	for _, node := range insertionTetrahedron.nodes {
		if node != nil {
			vertices[count] = node.UserObject()
			count++
		}
	}
	return vertices, true
}

// ---------------------------------------------------------------------------
// Incidence bookkeeping
// ---------------------------------------------------------------------------

// addEdge prepends, keeping the newest edge first.
func (n *SpaceNode) addEdge(e *Edge) {
	n.edges = append([]*Edge{e}, n.edges...)
}

func (n *SpaceNode) removeEdge(e *Edge) {
	for i, cur := range n.edges {
		if cur == e {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			return
		}
	}
}

func (n *SpaceNode) addTetrahedron(tet *Tetrahedron) {
	n.tetrahedra = append(n.tetrahedra, tet)
}

func (n *SpaceNode) removeTetrahedron(tet *Tetrahedron) {
	for i, cur := range n.tetrahedra {
		if cur == tet {
			n.tetrahedra = append(n.tetrahedra[:i], n.tetrahedra[i+1:]...)
			return
		}
	}
}

func (n *SpaceNode) changeVolume(change float64) {
	n.volume += change
}

// searchEdge returns the edge between this node and oppositeNode,
// creating and registering it when none exists yet.
func (n *SpaceNode) searchEdge(oppositeNode *SpaceNode) *Edge {
	for _, e := range n.edges {
		if opp := e.otherEnd(n); opp == oppositeNode {
			return e
		}
	}
	return newEdge(n, oppositeNode)
}

// ---------------------------------------------------------------------------
// Insertion
// ---------------------------------------------------------------------------

// GetNewInstance creates a node at position carrying userObject and
// inserts it next to this node. While no tetrahedron exists yet the
// triangulation is built up through plain edges; as soon as four
// non-coplanar nodes are available the initial tetrahedron and its
// four infinite hull companions are constructed and any remaining
// nodes are inserted into it.
func (n *SpaceNode) GetNewInstance(position v3.Vec, userObject any) (*SpaceNode, error) {
	if existing := n.t.index.nearest(position); existing != nil && existing.position == position {
		return nil, ErrPositionNotAllowed
	}
	insertPoint := n.t.newNode(position, userObject)
	insertPoint.listeners = append([]MovementListener(nil), n.listeners...)
	if len(n.tetrahedra) > 0 {
		if _, err := insertPoint.Insert(n.tetrahedra[0]); err != nil {
			n.t.index.remove(insertPoint)
			return nil, err
		}
		return insertPoint, nil
	}
	// This node has no tetrahedra. If the session has any, insert
	// through one of them; otherwise chain the new node to this one
	// and try to seed the first tetrahedron.
	if host := n.t.anyNodeWithTetrahedra(); host != nil {
		if _, err := insertPoint.Insert(host.tetrahedra[0]); err != nil {
			n.t.index.remove(insertPoint)
			return nil, err
		}
		return insertPoint, nil
	}
	newEdge(n, insertPoint)
	if err := n.t.reseed(); err != nil {
		return nil, err
	}
	return insertPoint, nil
}

// findNonCoplanarQuad picks four nodes in general position, or nil
// when every quadruple is coplanar. Degeneracy is decided with exact
// arithmetic.
func findNonCoplanarQuad(nodes []*SpaceNode) []*SpaceNode {
	if len(nodes) < 4 {
		return nil
	}
	a := nodes[0]
	var b *SpaceNode
	for _, candidate := range nodes[1:] {
		if candidate.position != a.position {
			b = candidate
			break
		}
	}
	if b == nil {
		return nil
	}
	ab := exactVec(b.position).Sub(exactVec(a.position))
	var c *SpaceNode
	for _, candidate := range nodes[1:] {
		if candidate == b {
			continue
		}
		ac := exactVec(candidate.position).Sub(exactVec(a.position))
		if !ab.Cross(ac).SquaredLength().IsZero() {
			c = candidate
			break
		}
	}
	if c == nil {
		return nil
	}
	ac := exactVec(c.position).Sub(exactVec(a.position))
	for _, candidate := range nodes[1:] {
		if candidate == b || candidate == c {
			continue
		}
		ad := exactVec(candidate.position).Sub(exactVec(a.position))
		if !exact.Det(ab, ac, ad).IsZero() {
			return []*SpaceNode{a, b, c, candidate}
		}
	}
	return nil
}

// Insert adds this node to the triangulation, walking from start to
// the containing tetrahedron and retriangulating the star-shaped
// cavity of all tetrahedra whose circumsphere contains the new
// position. It returns one of the created tetrahedra as a hint for
// the next insertion. A position equal to an existing node's yields
// ErrPositionNotAllowed and leaves the triangulation unchanged.
func (n *SpaceNode) Insert(start *Tetrahedron) (*Tetrahedron, error) {
	insertionStart, err := n.t.searchInsertionTetrahedron(start, n.position)
	if err != nil {
		return nil, err
	}
	if len(n.listeners) > 0 {
		vertices := insertionStart.UserObjects()
		for _, l := range n.listeners {
			l.NodeAboutToBeAdded(n, n.position, vertices)
		}
	}

	oto := n.t.newOpenTriangleOrganizer()
	var queue []*Triangle
	var outerTriangles []*Triangle

	n.processTetrahedron(insertionStart, &queue, oto)
	for i := 0; i < len(queue); i++ {
		currentTriangle := queue[i]
		oppositeTetrahedron := currentTriangle.oppositeTetrahedron(nil)
		if oppositeTetrahedron == nil {
			continue
		}
		if oppositeTetrahedron.isTrulyInsideSphere(n.position) {
			n.processTetrahedron(oppositeTetrahedron, &queue, oto)
		} else {
			outerTriangles = append(outerTriangles, currentTriangle)
		}
	}
	// Create the star-shaped triangulation.
	var ret *Tetrahedron
	for _, currentTriangle := range outerTriangles {
		if !currentTriangle.isCompletelyOpen() {
			ret = newTetrahedron(currentTriangle, n, oto)
		}
	}
	for _, l := range n.listeners {
		l.NodeAdded(n)
	}
	return ret, nil
}

// processTetrahedron removes a cavity tetrahedron and feeds its faces
// to the organizer and the expansion queue.
func (n *SpaceNode) processTetrahedron(tet *Tetrahedron, queue *[]*Triangle, oto *OpenTriangleOrganizer) {
	tet.remove()
	for _, currentTriangle := range tet.triangles {
		if currentTriangle.isCompletelyOpen() {
			oto.removeTriangle(currentTriangle)
		} else {
			*queue = append(*queue, currentTriangle)
			oto.putTriangle(currentTriangle)
		}
	}
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

// Remove deletes this node from the triangulation, tearing down all
// incident geometry and retriangulating the resulting cavity.
func (n *SpaceNode) Remove() error {
	if _, err := n.removeAndReturnCreatedTetrahedron(); err != nil {
		return err
	}
	n.t.index.remove(n)
	return nil
}

func (n *SpaceNode) removeAndReturnCreatedTetrahedron() (*Tetrahedron, error) {
	for _, l := range n.listeners {
		l.NodeAboutToBeRemoved(n)
	}
	if len(n.tetrahedra) == 0 {
		// Build-up regime: only edges exist.
		for _, e := range append([]*Edge(nil), n.edges...) {
			e.detach()
		}
		for _, l := range n.listeners {
			l.NodeRemoved(n)
		}
		return nil, nil
	}
	oto := n.t.newOpenTriangleOrganizer()
	var messedUpTetrahedra []*Tetrahedron
	// Collect the triangles that are opened by removing the point and
	// remove the corresponding tetrahedra.
	for _, tet := range append([]*Tetrahedron(nil), n.tetrahedra...) {
		if !tet.valid {
			continue
		}
		oppositeTriangle := tet.oppositeTriangle(n)
		oto.putTriangle(oppositeTriangle)
		oppositeTetrahedron := oppositeTriangle.oppositeTetrahedron(tet)
		tet.remove()
		if oppositeTetrahedron != nil && !oppositeTetrahedron.isInfinite() &&
			oppositeTetrahedron.isInsideSphere(n.position) {
			messedUpTetrahedra = append(messedUpTetrahedra, oppositeTetrahedron)
		}
	}
	for _, tet := range messedUpTetrahedra {
		if tet.valid {
			oto.removeAllTetrahedraInSphere(tet)
		}
	}
	if err := oto.Triangulate(); err != nil {
		return nil, err
	}
	for _, l := range n.listeners {
		l.NodeRemoved(n)
	}
	return oto.aNewTetrahedron, nil
}

// ---------------------------------------------------------------------------
// Motion
// ---------------------------------------------------------------------------

// MoveBy moves this node by delta. See MoveTo.
func (n *SpaceNode) MoveBy(delta v3.Vec) error {
	return n.MoveTo(n.position.Add(delta))
}

// MoveTo moves this node to newPosition. If the node stays inside the
// star of its incident tetrahedra the position is updated in place
// and the Delaunay property restored by local flips; otherwise the
// node is removed and reinserted at the new position. Listeners fire
// on every call, including a zero-delta move. Moving onto an existing
// node yields ErrPositionNotAllowed; the position is unchanged.
func (n *SpaceNode) MoveTo(newPosition v3.Vec) error {
	if len(n.tetrahedra) == 0 {
		// Build-up regime: no geometry beyond edges to maintain, but
		// the motion may make a first tetrahedron possible.
		delta := newPosition.Sub(n.position)
		for _, l := range n.listeners {
			l.NodeAboutToMove(n, delta)
		}
		n.position = newPosition
		n.t.index.update(n)
		if err := n.t.reseed(); err != nil {
			return err
		}
		for _, l := range n.listeners {
			l.NodeMoved(n)
		}
		return nil
	}
	stillValid, err := n.checkIfTriangulationIsStillValid(newPosition)
	if err != nil {
		return err
	}
	if stillValid {
		delta := newPosition.Sub(n.position)
		for _, l := range n.listeners {
			l.NodeAboutToMove(n, delta)
		}
		n.position = newPosition
		n.t.index.update(n)
		if err := n.restoreDelaunay(); err != nil {
			return err
		}
		for _, l := range n.listeners {
			l.NodeMoved(n)
		}
		return nil
	}
	// Slow path: remove and reinsert at the new position.
	insertPosition, err := n.t.searchInsertionTetrahedron(n.tetrahedra[0], newPosition)
	if err != nil {
		return err
	}
	delta := newPosition.Sub(n.position)
	for _, l := range n.listeners {
		l.NodeAboutToMove(n, delta)
	}
	createdTetrahedron, err := n.removeAndReturnCreatedTetrahedron()
	if err != nil {
		return err
	}
	if insertPosition == nil || !insertPosition.valid {
		insertPosition = createdTetrahedron
	}
	oldPosition := n.position
	n.position = newPosition
	n.t.index.update(n)
	if insertPosition == nil || !insertPosition.valid {
		// The removal annihilated the triangulation (fully coplanar
		// configuration); try to seed a fresh one instead.
		if err := n.t.reseed(); err != nil {
			return err
		}
	} else if _, err := n.Insert(insertPosition); err != nil {
		// Revert and go back to where the node came from.
		n.position = oldPosition
		n.t.index.update(n)
		if _, err2 := n.Insert(insertPosition); err2 != nil {
			return err2
		}
		return err
	}
	for _, l := range n.listeners {
		l.NodeMoved(n)
	}
	return nil
}

// checkIfTriangulationIsStillValid reports whether all incident
// tetrahedra stay intact when this node moves to newPosition: every
// finite one must keep the node on its current side, flat ones always
// force the slow path, and infinite ones only pass in the one
// configuration where the whole triangulation consists of a single
// finite tetrahedron.
func (n *SpaceNode) checkIfTriangulationIsStillValid(newPosition v3.Vec) (bool, error) {
	for _, tet := range n.tetrahedra {
		if tet.flat {
			return false, nil
		}
		if tet.isInfinite() {
			inner := tet.adjacentTetrahedron(0)
			if inner == nil {
				return false, nil
			}
			for i := 0; i < 4; i++ {
				neighbor := inner.adjacentTetrahedron(i)
				if neighbor == nil || !neighbor.isInfinite() {
					return false, nil
				}
			}
			continue
		}
		triangle := tet.oppositeTriangle(n)
		triangle.updatePlaneEquationIfNecessary()
		if !triangle.trulyOnSameSide(n.position, newPosition) {
			if err := tet.testPosition(newPosition); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	return true, nil
}

// ---------------------------------------------------------------------------
// Delaunay restoration
// ---------------------------------------------------------------------------

// restoreDelaunay recomputes the circumspheres of all incident
// tetrahedra and then removes Delaunay violations by local flips
// until the active set runs dry. Violations no flip can fix are
// collected and handed to cleanUp, which cuts the offending region
// out and retriangulates it.
func (n *SpaceNode) restoreDelaunay() error {
	var activeTetrahedra []*Tetrahedron
	for _, tet := range append([]*Tetrahedron(nil), n.tetrahedra...) {
		tet.updateCircumSphereAfterNodeMovement(n)
		activeTetrahedra = append(activeTetrahedra, tet)
	}
	rounds := 0
	for len(activeTetrahedra) > 0 {
		rounds++
		if rounds > maxRestorationRounds {
			return ErrInvariantViolated
		}
		checkingIndex := n.t.newCheckingIndex()
		var problemTetrahedra []*Tetrahedron
		var flatTetrahedra []*Tetrahedron
		for len(activeTetrahedra) > 0 {
			tetrahedron := activeTetrahedra[0]
			activeTetrahedra = activeTetrahedra[1:]
			if !tetrahedron.valid {
				continue
			}
			start := 0
			if tetrahedron.isInfinite() {
				start = 1
			}
			for i := start; i < 4; i++ {
				triangleI := tetrahedron.triangles[i]
				if triangleI.wasCheckedAlready(checkingIndex) {
					continue
				}
				tetrahedronI := triangleI.oppositeTetrahedron(tetrahedron)
				if tetrahedronI == nil {
					continue
				}
				nodeI := tetrahedronI.oppositeNode(triangleI)
				// Is there a violation of the Delaunay criterion?
				if nodeI == nil {
					continue
				}
				if !tetrahedron.isTrulyInsideSphere(nodeI.position) &&
					!(tetrahedron.flat && tetrahedronI.flat) {
					continue
				}
				var newTetrahedra []*Tetrahedron
				// Look for a third tetrahedron sharing an edge with
				// both, allowing a 3->2 flip.
				for j := start; j < 4; j++ {
					if i == j {
						continue
					}
					triangleJ := tetrahedron.triangles[j]
					tetrahedronJ := triangleJ.oppositeTetrahedron(tetrahedron)
					if tetrahedronJ == nil || !tetrahedronJ.isNeighbor(tetrahedronI) {
						continue
					}
					oppJ := tetrahedron.nodes[j]
					oppI := tetrahedron.nodes[i]
					if oppI == nil || oppJ == nil {
						continue
					}
					// Either all three tetrahedra are flat and pairwise
					// adjacent, or their spheres mutually contain the
					// other tetrahedra's apices.
					if (tetrahedron.flat && tetrahedronI.flat && tetrahedronJ.flat && tetrahedronI != tetrahedronJ) ||
						(tetrahedronJ.isTrulyInsideSphere(oppJ.position) &&
							tetrahedronI.isTrulyInsideSphere(oppI.position)) {
						pair := flip3to2(tetrahedron, tetrahedronI, tetrahedronJ)
						newTetrahedra = append(newTetrahedra, pair[0], pair[1])
						break
					}
				}
				if len(newTetrahedra) == 0 {
					if tetrahedron.flat && tetrahedronI.flat && tetrahedron.isAdjacentToNode(nodeI) {
						newTetrahedra = removeTwoFlatTetrahedra(tetrahedron, tetrahedronI)
					} else if !tetrahedron.flat && !tetrahedronI.flat {
						triple := flip2to3(tetrahedron, tetrahedronI)
						if triple[0] != nil {
							newTetrahedra = append(newTetrahedra, triple[0], triple[1], triple[2])
						}
					}
				}
				if len(newTetrahedra) > 0 {
					for _, created := range newTetrahedra {
						activeTetrahedra = append(activeTetrahedra, created)
						if created.flat {
							flatTetrahedra = append(flatTetrahedra, created)
						}
					}
					break
				}
				problemTetrahedra = append(problemTetrahedra, tetrahedron, tetrahedronI)
				activeTetrahedra = append(activeTetrahedra, tetrahedronI)
			}
		}
		// In some configurations (like an octahedron) no local flip
		// applies. Cut out all tetrahedra that are still in conflict
		// and retriangulate the holes.
		var messedUpTetrahedra []*Tetrahedron
		for _, flatTetrahedron := range flatTetrahedra {
			if !flatTetrahedron.valid || containsTetrahedron(messedUpTetrahedra, flatTetrahedron) {
				continue
			}
			for _, triangle := range flatTetrahedron.triangles {
				opposite := triangle.oppositeTetrahedron(flatTetrahedron)
				if opposite != nil && opposite.valid && !containsTetrahedron(messedUpTetrahedra, opposite) {
					messedUpTetrahedra = append(messedUpTetrahedra, opposite)
				}
			}
			messedUpTetrahedra = append(messedUpTetrahedra, flatTetrahedron)
		}
		for _, tetrahedron := range problemTetrahedra {
			if !tetrahedron.valid || tetrahedron.flat || containsTetrahedron(messedUpTetrahedra, tetrahedron) {
				continue
			}
			for _, triangle := range tetrahedron.triangles {
				opposite := triangle.oppositeTetrahedron(tetrahedron)
				if opposite == nil || opposite.isInfinite() {
					continue
				}
				oppositeNode := opposite.oppositeNode(triangle)
				if oppositeNode != nil && tetrahedron.isTrulyInsideSphere(oppositeNode.position) {
					messedUpTetrahedra = append(messedUpTetrahedra, tetrahedron)
					break
				}
			}
		}
		if len(messedUpTetrahedra) > 0 {
			if err := n.cleanUp(messedUpTetrahedra); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanUp removes the given tetrahedra plus any neighbors that still
// conflict with a node of the removed region, then retriangulates the
// cavity via gift-wrapping.
func (n *SpaceNode) cleanUp(messedUpTetrahedra []*Tetrahedron) error {
	var outerTetrahedra []*Tetrahedron
	var problemNodes []*SpaceNode
	oto := n.t.newOpenTriangleOrganizer()
	for _, tet := range messedUpTetrahedra {
		if !tet.valid {
			continue
		}
		removeTetrahedronDuringCleanUp(tet, &outerTetrahedra, &problemNodes, oto)
		removeFromTetrahedronList(&outerTetrahedra, tet)
	}
	for {
		var problemTetrahedron *Tetrahedron
		for _, outerTetrahedron := range outerTetrahedra {
			if !outerTetrahedron.valid {
				continue
			}
			for _, node := range problemNodes {
				if outerTetrahedron.isAdjacentToNode(node) {
					continue
				}
				if outerTetrahedron.flat || outerTetrahedron.isInsideSphere(node.position) {
					removeTetrahedronDuringCleanUp(outerTetrahedron, &outerTetrahedra, &problemNodes, oto)
					problemTetrahedron = outerTetrahedron
					break
				}
			}
			if problemTetrahedron != nil {
				break
			}
		}
		if problemTetrahedron == nil {
			break
		}
		removeFromTetrahedronList(&outerTetrahedra, problemTetrahedron)
	}
	return oto.Triangulate()
}

func removeTetrahedronDuringCleanUp(tet *Tetrahedron, list *[]*Tetrahedron, nodeList *[]*SpaceNode, oto *OpenTriangleOrganizer) {
	for _, node := range tet.nodes {
		if node != nil && !containsNode(*nodeList, node) {
			*nodeList = append(*nodeList, node)
		}
	}
	for _, triangle := range tet.triangles {
		opposite := triangle.oppositeTetrahedron(tet)
		if opposite != nil && !containsTetrahedron(*list, opposite) {
			*list = append(*list, opposite)
		}
	}
	tet.remove()
	for _, triangle := range tet.triangles {
		if triangle.isCompletelyOpen() {
			oto.removeTriangle(triangle)
		} else {
			oto.putTriangle(triangle)
		}
	}
}

func removeFromTetrahedronList(list *[]*Tetrahedron, tet *Tetrahedron) {
	for i, cur := range *list {
		if cur == tet {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func containsNode(list []*SpaceNode, node *SpaceNode) bool {
	for _, n := range list {
		if n == node {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Position proposal
// ---------------------------------------------------------------------------

// ProposeNewPosition suggests a nearby free position for this node,
// used by clients after a move was rejected with
// ErrPositionNotAllowed: the point half the minimum incident edge
// length away from this node in the direction of its farthest
// neighbor. The outward-hull-normal branch below only applies to an
// edge without a far endpoint; edges built by tetrahedra always have
// both endpoints, so hull nodes move toward their farthest neighbor
// as well.
func (n *SpaceNode) ProposeNewPosition() v3.Vec {
	minDistance := math.MaxFloat64
	maxDistance := -math.MaxFloat64
	var farthestAwayDiff v3.Vec
	for _, edge := range n.edges {
		otherNode := edge.otherEnd(n)
		if otherNode != nil {
			diff := otherNode.position.Sub(n.position)
			distance := diff.Dot(diff)
			if distance < minDistance {
				minDistance = distance
			}
			if distance > maxDistance {
				maxDistance = distance
				farthestAwayDiff = diff
			}
		} else if maxDistance < math.MaxFloat64 {
			maxDistance = math.MaxFloat64
			someAdjacentTetrahedron := edge.tetrahedra[0]
			triangle := someAdjacentTetrahedron.triangles[0]
			triangle.updatePlaneEquationIfNecessary()
			oppositeTetrahedron := triangle.oppositeTetrahedron(someAdjacentTetrahedron)
			farthestAwayDiff = triangle.normal
			if oppositeTetrahedron != nil && !oppositeTetrahedron.isInfinite() {
				outerPosition := n.position.Add(farthestAwayDiff)
				position := oppositeTetrahedron.oppositeNode(triangle).position
				if triangle.onSameSide(outerPosition, position) {
					farthestAwayDiff = farthestAwayDiff.Neg()
				}
			}
		}
	}
	direction := farthestAwayDiff.DivScalar(farthestAwayDiff.Length())
	return n.position.Add(direction.MulScalar(math.Sqrt(minDistance) * 0.5))
}

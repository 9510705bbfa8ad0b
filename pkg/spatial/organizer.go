package spatial

import (
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/neuropil/pkg/exact"
)

// maxTriangulateRounds bounds the gift-wrapping loop. The original
// algorithm relies on geometric progress; the bound surfaces a
// non-converging cavity as ErrInvariantViolated.
const maxTriangulateRounds = 2000

// triangleKey identifies a triangle by the sorted ids of its nodes,
// invariant under node permutation. A nil node maps to -1.
type triangleKey [3]int

func nodeKeyID(n *SpaceNode) int {
	if n == nil {
		return -1
	}
	return n.id
}

func makeTriangleKey(a, b, c *SpaceNode) triangleKey {
	k := triangleKey{nodeKeyID(a), nodeKeyID(b), nodeKeyID(c)}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	if k[1] > k[2] {
		k[1], k[2] = k[2], k[1]
	}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	return k
}

// pairKey identifies an unordered node pair.
type pairKey struct {
	lo, hi int
}

func makePairKey(a, b *SpaceNode) pairKey {
	if a.id < b.id {
		return pairKey{a.id, b.id}
	}
	return pairKey{b.id, a.id}
}

// openEdge is a directed boundary edge of a partially wrapped cavity
// surface, remembering the normal of the face it came from so the
// next face can be chosen by smallest dihedral cosine.
type openEdge struct {
	a, b       *SpaceNode
	ab         v3.Vec
	lastNormal v3.Vec
}

func newOpenEdge(a, b, oppositeNode *SpaceNode) *openEdge {
	ab := b.position.Sub(a.position)
	sub := oppositeNode.position.Sub(a.position)
	cross := ab.Cross(sub)
	return &openEdge{a: a, b: b, ab: ab, lastNormal: cross.DivScalar(cross.Length())}
}

// cosine returns the cosine of the angle between the face through
// this edge and fourthPoint and the face the edge came from, clamped
// at exact ±1 near the ends.
func (e *openEdge) cosine(fourthPoint v3.Vec) float64 {
	difference := fourthPoint.Sub(e.a.position)
	cross := e.ab.Cross(difference)
	normal := cross.DivScalar(cross.Length())
	cos := normal.Dot(e.lastNormal)
	if cos > 0.999999999 {
		return 1
	}
	if cos < -0.99999999 {
		return -1
	}
	return cos
}

// OpenTriangleOrganizer tracks the set of currently unpaired
// triangles during cavity repair, keyed by their node triple, and
// retriangulates the cavity they enclose by gift-wrapping. Sessions
// create one per repair step; it must be empty (fully wrapped) when
// the step finishes.
type OpenTriangleOrganizer struct {
	t *Triangulation

	triangles map[triangleKey]*Triangle
	openStack []*Triangle

	// cavityNodes collects the endpoints of every triangle that went
	// through the organizer; triangulate picks its apices from here.
	cavityNodes map[int]*SpaceNode

	newTetrahedra    []*Tetrahedron
	aNewTetrahedron  *Tetrahedron
	shortestDistance float64
}

func newOpenTriangleOrganizer(t *Triangulation) *OpenTriangleOrganizer {
	return &OpenTriangleOrganizer{
		t:                t,
		triangles:        make(map[triangleKey]*Triangle),
		cavityNodes:      make(map[int]*SpaceNode),
		shortestDistance: math.MaxFloat64,
	}
}

// IsEmpty reports whether no open triangle is stored.
func (o *OpenTriangleOrganizer) IsEmpty() bool {
	return len(o.triangles) == 0
}

// NewTetrahedra returns the tetrahedra created by this organizer.
func (o *OpenTriangleOrganizer) NewTetrahedra() []*Tetrahedron {
	return o.newTetrahedra
}

func (o *OpenTriangleOrganizer) putTriangle(triangle *Triangle) {
	nodes := triangle.nodes
	o.triangles[makeTriangleKey(nodes[0], nodes[1], nodes[2])] = triangle
	for _, n := range []*SpaceNode{nodes[1], nodes[2], nodes[0]} {
		if n != nil {
			o.cavityNodes[n.id] = n
		}
	}
	o.openStack = append(o.openStack, triangle)
}

func (o *OpenTriangleOrganizer) removeTriangle(triangle *Triangle) {
	nodes := triangle.nodes
	delete(o.triangles, makeTriangleKey(nodes[0], nodes[1], nodes[2]))
}

// Put records triangle as open.
func (o *OpenTriangleOrganizer) Put(triangle *Triangle) {
	o.putTriangle(triangle)
}

// Remove drops triangle from the open set.
func (o *OpenTriangleOrganizer) Remove(triangle *Triangle) {
	o.removeTriangle(triangle)
}

// PollAny removes and returns any stored triangle, or nil when the
// organizer is empty.
func (o *OpenTriangleOrganizer) PollAny() *Triangle {
	for key, triangle := range o.triangles {
		delete(o.triangles, key)
		return triangle
	}
	return nil
}

func (o *OpenTriangleOrganizer) contains(a, b, c *SpaceNode) bool {
	_, ok := o.triangles[makeTriangleKey(a, b, c)]
	return ok
}

// getTriangle returns the open triangle over the three nodes, pairing
// and closing it when it already exists, or creating a fresh one.
func (o *OpenTriangleOrganizer) getTriangle(a, b, c *SpaceNode) *Triangle {
	key := makeTriangleKey(a, b, c)
	if existing, ok := o.triangles[key]; ok {
		if existing.isCompletelyOpen() {
			o.openStack = append(o.openStack, existing)
		} else {
			delete(o.triangles, key)
		}
		return existing
	}
	triangle := newTriangle(a, b, c)
	o.triangles[key] = triangle
	o.openStack = append(o.openStack, triangle)
	return triangle
}

// getTriangleWithoutRemoving is like getTriangle but never closes an
// existing triangle.
func (o *OpenTriangleOrganizer) getTriangleWithoutRemoving(a, b, c *SpaceNode) *Triangle {
	key := makeTriangleKey(a, b, c)
	if existing, ok := o.triangles[key]; ok {
		return existing
	}
	triangle := newTriangle(a, b, c)
	o.triangles[key] = triangle
	o.openStack = append(o.openStack, triangle)
	return triangle
}

// removeAllTetrahedraInSphere expands the cavity: it removes
// startingTetrahedron and, recursively, every neighbor of the same
// kind (finite with finite, infinite with infinite) whose apex lies
// inside the starting tetrahedron's circumsphere, feeding the opened
// faces to the organizer.
func (o *OpenTriangleOrganizer) removeAllTetrahedraInSphere(startingTetrahedron *Tetrahedron) {
	if startingTetrahedron == nil || !startingTetrahedron.valid {
		return
	}
	var tetrahedraToRemove []*Tetrahedron
	for _, triangle := range startingTetrahedron.triangles {
		oppositeTetrahedron := triangle.oppositeTetrahedron(startingTetrahedron)
		if oppositeTetrahedron != nil &&
			startingTetrahedron.isInfinite() == oppositeTetrahedron.isInfinite() {
			oppositeNode := oppositeTetrahedron.oppositeNode(triangle)
			if oppositeNode != nil && startingTetrahedron.isInsideSphere(oppositeNode.position) {
				tetrahedraToRemove = append(tetrahedraToRemove, oppositeTetrahedron)
			}
		}
		if triangle.isClosed() {
			o.putTriangle(triangle)
		} else {
			o.removeTriangle(triangle)
		}
	}
	startingTetrahedron.remove()
	for _, tet := range tetrahedraToRemove {
		o.removeAllTetrahedraInSphere(tet)
	}
}

// RemoveAllTetrahedraInSphere is the exported form of the cavity
// expansion used during node removal.
func (o *OpenTriangleOrganizer) RemoveAllTetrahedraInSphere(seed *Tetrahedron) {
	o.removeAllTetrahedraInSphere(seed)
}

func (o *OpenTriangleOrganizer) createNewTetrahedron(openTriangle *Triangle, oppositeNode *SpaceNode) {
	o.aNewTetrahedron = newTetrahedron(openTriangle, oppositeNode, o)
	o.newTetrahedra = append(o.newTetrahedra, o.aNewTetrahedron)
}

// getAnOpenTriangle pops a finite triangle that is still half-open.
func (o *OpenTriangleOrganizer) getAnOpenTriangle() *Triangle {
	for len(o.openStack) > 0 {
		last := len(o.openStack) - 1
		ret := o.openStack[last]
		o.openStack = o.openStack[:last]
		if !ret.isInfinite() && !ret.isClosed() && !ret.isCompletelyOpen() {
			return ret
		}
	}
	return nil
}

// cavityNodeList returns the collected cavity nodes ordered by id.
func (o *OpenTriangleOrganizer) cavityNodeList() []*SpaceNode {
	ids := make([]int, 0, len(o.cavityNodes))
	for id := range o.cavityNodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	nodes := make([]*SpaceNode, len(ids))
	for i, id := range ids {
		nodes[i] = o.cavityNodes[id]
	}
	return nodes
}

// Triangulate closes the cavity bounded by the stored open triangles:
// it repeatedly picks an open triangle and pairs it with the apex
// node minimizing the signed Delaunay distance, creating one
// tetrahedron per step. Cospherical and cocircular apex candidates
// are resolved by triangulating the whole sphere/circle patch at
// once.
func (o *OpenTriangleOrganizer) Triangulate() error {
	if len(o.openStack) == 0 {
		if len(o.cavityNodes) < 3 {
			return nil
		}
		o.createInitialTriangle()
	}
	var similarDistanceNodes, onCircleNodes []*SpaceNode
	openTriangle := o.getAnOpenTriangle()
	securityCounter := 0
	for openTriangle != nil {
		openTriangle.update()
		openTriangle.orientToOpenSide()
		var pickedNode *SpaceNode
		o.shortestDistance = math.MaxFloat64
		upperBound := o.shortestDistance
		lowerBound := o.shortestDistance
		tolerance := openTriangle.typicalSDDistance() * 1e-7
		for _, node := range o.cavityNodeList() {
			if openTriangle.isAdjacentToNode(node) {
				continue
			}
			currentDistance := openTriangle.sdDistance(node.position)
			if currentDistance < upperBound {
				smaller := false
				if currentDistance > lowerBound {
					lastSDDistance := openTriangle.sdDistanceExact(pickedNode.position)
					newSDDistance := openTriangle.sdDistanceExact(node.position)
					comparison := lastSDDistance.Cmp(newSDDistance)
					if comparison == 0 {
						similarDistanceNodes = append(similarDistanceNodes, node)
					} else if comparison > 0 {
						smaller = true
					}
				} else {
					smaller = true
				}
				if smaller {
					similarDistanceNodes = similarDistanceNodes[:0]
					o.shortestDistance = currentDistance
					// Bounds to catch other nodes causing the "same"
					// signed Delaunay distance.
					upperBound = o.shortestDistance + tolerance
					lowerBound = o.shortestDistance - tolerance
					pickedNode = node
				}
			} else if openTriangle.orientationToUpperSide(node.position) == 0 &&
				openTriangle.circleOrientation(node.position) == 0 {
				onCircleNodes = append(onCircleNodes, node)
			}
		}
		if pickedNode == nil || (len(similarDistanceNodes) == 0 && len(onCircleNodes) == 0) {
			o.createNewTetrahedron(openTriangle, pickedNode)
		} else {
			similarDistanceNodes = append(similarDistanceNodes, pickedNode)
			o.triangulatePointsOnSphere(similarDistanceNodes, onCircleNodes, openTriangle)
		}
		similarDistanceNodes = similarDistanceNodes[:0]
		onCircleNodes = onCircleNodes[:0]
		openTriangle = o.getAnOpenTriangle()
		securityCounter++
		if securityCounter > maxTriangulateRounds {
			return ErrInvariantViolated
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Gift-wrapping helpers
// ---------------------------------------------------------------------------

// putEdgeOnMap records the open edge (a, b); if it was already on the
// map the two faces met and the edge closes instead. Returns a still
// open edge to continue from.
func (o *OpenTriangleOrganizer) putEdgeOnMap(a, b, oppositeNode *SpaceNode, oldOpenEdge *openEdge, edges map[pairKey]*openEdge) *openEdge {
	key := makePairKey(a, b)
	if _, ok := edges[key]; ok {
		delete(edges, key)
		return oldOpenEdge
	}
	edge := newOpenEdge(a, b, oppositeNode)
	edges[key] = edge
	return edge
}

// findCenterNode picks the node with the lowest id, the deterministic
// anchor for circle and sphere triangulations.
func findCenterNode(nodes []*SpaceNode) *SpaceNode {
	var centerNode *SpaceNode
	minID := math.MaxInt
	for _, node := range nodes {
		if node.id < minID {
			minID = node.id
			centerNode = node
		}
	}
	return centerNode
}

// anyOpenEdge returns a deterministic entry of the map.
func anyOpenEdge(edges map[pairKey]*openEdge) *openEdge {
	var best *openEdge
	var bestKey pairKey
	for key, edge := range edges {
		if best == nil || key.lo < bestKey.lo || (key.lo == bestKey.lo && key.hi < bestKey.hi) {
			best = edge
			bestKey = key
		}
	}
	return best
}

// triangulateSortedCirclePoints fans the sorted circle nodes around
// their center node, recording the surface triangles and boundary
// edges.
func (o *OpenTriangleOrganizer) triangulateSortedCirclePoints(sortedNodes []*SpaceNode, centerNode *SpaceNode,
	edges map[pairKey]*openEdge, triangleList *[]*Triangle) *openEdge {
	var retValue *openEdge
	for i := 1; i+1 < len(sortedNodes); i++ {
		last := sortedNodes[i]
		current := sortedNodes[i+1]
		triangle := o.getTriangleWithoutRemoving(last, current, centerNode)
		*triangleList = append(*triangleList, triangle)
		o.putEdgeOnMap(centerNode, last, current, nil, edges)
		retValue = o.putEdgeOnMap(last, current, centerNode, retValue, edges)
		o.putEdgeOnMap(current, centerNode, last, nil, edges)
	}
	return retValue
}

// removeForbiddenTriangles removes triangles (and their incident
// tetrahedra) that would intersect the fan about to be created over
// cocircular nodes.
func (o *OpenTriangleOrganizer) removeForbiddenTriangles(sortedNodes []*SpaceNode) {
	// Special treatment for the situation with 4 nodes only.
	if len(sortedNodes) == 4 {
		center, a, b, c := sortedNodes[0], sortedNodes[1], sortedNodes[2], sortedNodes[3]
		if o.contains(center, a, b) {
			if !o.contains(center, b, c) {
				tet := o.getTriangleWithoutRemoving(center, a, b).oppositeTetrahedron(nil)
				o.removeAllTetrahedraInSphere(tet)
			}
		} else if o.contains(center, b, c) {
			tet := o.getTriangleWithoutRemoving(center, b, c).oppositeTetrahedron(nil)
			o.removeAllTetrahedraInSphere(tet)
		} else {
			if o.contains(a, b, c) {
				o.removeAllTetrahedraInSphere(o.getTriangleWithoutRemoving(a, b, c).oppositeTetrahedron(nil))
			}
			if o.contains(center, a, c) {
				o.removeAllTetrahedraInSphere(o.getTriangleWithoutRemoving(center, a, c).oppositeTetrahedron(nil))
			}
		}
		return
	}
	// General case: if any fan triangle is missing, remove every
	// triangle spanned by the circle nodes.
	removeAllCircleTriangles := false
	for i := 1; i < len(sortedNodes)-1 && !removeAllCircleTriangles; i++ {
		if !o.contains(sortedNodes[0], sortedNodes[i], sortedNodes[i+1]) {
			removeAllCircleTriangles = true
		}
	}
	if !removeAllCircleTriangles {
		return
	}
	for i := 0; i < len(sortedNodes)-2; i++ {
		for j := i + 1; j < len(sortedNodes)-1; j++ {
			for k := j + 1; k < len(sortedNodes); k++ {
				if o.contains(sortedNodes[i], sortedNodes[j], sortedNodes[k]) {
					tet := o.getTriangleWithoutRemoving(sortedNodes[i], sortedNodes[j], sortedNodes[k]).oppositeTetrahedron(nil)
					o.removeAllTetrahedraInSphere(tet)
				}
			}
		}
	}
}

// sortCircleNodes orders cocircular nodes along their circle,
// starting from startingEdge (or the closest pair when absent), and
// rotates the result so centerNode leads.
func (o *OpenTriangleOrganizer) sortCircleNodes(nodes []*SpaceNode, startingEdge *openEdge, centerNode *SpaceNode) []*SpaceNode {
	remaining := append([]*SpaceNode(nil), nodes...)
	var sorted []*SpaceNode
	var searchNode, lastSearchNode *SpaceNode
	var removedNode1, removedNode2 *SpaceNode
	if startingEdge == nil {
		lastSearchNode = remaining[0]
		remaining = remaining[1:]
		minDistance := math.MaxFloat64
		for _, node := range remaining {
			d := lastSearchNode.position.Sub(node.position)
			if dot := d.Dot(d); dot < minDistance {
				searchNode = node
				minDistance = dot
			}
		}
		remaining = removeNodeFromList(remaining, searchNode)
		removedNode1 = lastSearchNode
		removedNode2 = searchNode
	} else {
		searchNode = startingEdge.b
		lastSearchNode = startingEdge.a
	}
	for len(remaining) > 0 {
		lastVector := searchNode.position.Sub(lastSearchNode.position)
		lastVector = lastVector.DivScalar(lastVector.Length())
		biggestCosine := -2.0
		var pickedNode *SpaceNode
		for _, node := range remaining {
			direction := node.position.Sub(searchNode.position)
			direction = direction.DivScalar(direction.Length())
			if cos := direction.Dot(lastVector); cos > biggestCosine {
				biggestCosine = cos
				pickedNode = node
			}
		}
		sorted = append(sorted, pickedNode)
		lastSearchNode = searchNode
		searchNode = pickedNode
		remaining = removeNodeFromList(remaining, pickedNode)
	}
	if startingEdge != nil {
		sorted = append([]*SpaceNode{startingEdge.a, startingEdge.b}, sorted...)
	} else {
		sorted = append([]*SpaceNode{removedNode1, removedNode2}, sorted...)
	}
	// Rotate the cyclic order so the center node leads.
	for i, node := range sorted {
		if node == centerNode {
			return append(append([]*SpaceNode(nil), sorted[i:]...), sorted[:i]...)
		}
	}
	return sorted
}

// triangulatePointsOnCircle closes a patch of cocircular nodes by
// fanning them around the lowest-id node.
func (o *OpenTriangleOrganizer) triangulatePointsOnCircle(similarDistanceNodes []*SpaceNode, startingEdge *openEdge,
	edges map[pairKey]*openEdge, triangleList *[]*Triangle) *openEdge {
	withEndpoints := similarDistanceNodes
	if startingEdge != nil {
		withEndpoints = append([]*SpaceNode{startingEdge.b, startingEdge.a}, similarDistanceNodes...)
	}
	centerNode := findCenterNode(withEndpoints)
	sortedNodes := o.sortCircleNodes(similarDistanceNodes, startingEdge, centerNode)
	o.removeForbiddenTriangles(sortedNodes)
	return o.triangulateSortedCirclePoints(sortedNodes, centerNode, edges, triangleList)
}

// triangulatePointsOnSphere wraps a patch of cospherical nodes: all
// candidate apices with the same signed Delaunay distance plus any
// cocircular boundary nodes, seeded by startingTriangle.
func (o *OpenTriangleOrganizer) triangulatePointsOnSphere(nodes []*SpaceNode, onCircleNodes []*SpaceNode, startingTriangle *Triangle) {
	var surfaceTriangles []*Triangle
	stn := startingTriangle.nodes
	allNodes := append(append([]*SpaceNode(nil), nodes...), stn[0], stn[1], stn[2])
	allNodes = append(allNodes, onCircleNodes...)
	edges := make(map[pairKey]*openEdge)
	var anEdge *openEdge
	if len(onCircleNodes) == 0 {
		surfaceTriangles = append(surfaceTriangles, startingTriangle)
		for i := 0; i < 3; i++ {
			anEdge = o.putEdgeOnMap(stn[i], stn[(i+1)%3], stn[(i+2)%3], anEdge, edges)
		}
	} else {
		circle := append(append([]*SpaceNode(nil), onCircleNodes...), stn[0], stn[1], stn[2])
		anEdge = o.triangulatePointsOnCircle(circle, nil, edges, &surfaceTriangles)
	}
	var similarDistanceNodes []*SpaceNode
	for len(edges) > 0 {
		if anEdge == nil {
			anEdge = anyOpenEdge(edges)
		}
		a, b := anEdge.a, anEdge.b
		smallestCosine := math.MaxFloat64
		upperBound, lowerBound := smallestCosine, smallestCosine
		var pickedNode *SpaceNode
		const tolerance = 1e-9
		for _, currentNode := range allNodes {
			if currentNode == a || currentNode == b {
				continue
			}
			cosine := anEdge.cosine(currentNode.position)
			if cosine < upperBound {
				if cosine > lowerBound {
					similarDistanceNodes = append(similarDistanceNodes, currentNode)
				} else {
					pickedNode = currentNode
					smallestCosine = cosine
					upperBound = smallestCosine + tolerance
					lowerBound = smallestCosine - tolerance
					similarDistanceNodes = similarDistanceNodes[:0]
				}
			}
		}
		if pickedNode == nil {
			delete(edges, makePairKey(a, b))
			anEdge = nil
			continue
		}
		if len(similarDistanceNodes) == 0 {
			newTri := o.getTriangleWithoutRemoving(a, b, pickedNode)
			surfaceTriangles = append(surfaceTriangles, newTri)
			delete(edges, makePairKey(a, b))
			anEdge = o.putEdgeOnMap(a, pickedNode, b, nil, edges)
			anEdge = o.putEdgeOnMap(b, pickedNode, a, anEdge, edges)
		} else {
			similarDistanceNodes = append(similarDistanceNodes, pickedNode)
			anEdge = o.triangulatePointsOnCircle(similarDistanceNodes, anEdge, edges, &surfaceTriangles)
			similarDistanceNodes = similarDistanceNodes[:0]
		}
		if anEdge == nil && len(edges) > 0 {
			anEdge = anyOpenEdge(edges)
		}
	}
	centerNode := findCenterNode(allNodes)
	for _, triangle := range surfaceTriangles {
		if !triangle.isAdjacentToNode(centerNode) {
			o.createNewTetrahedron(triangle, centerNode)
		}
	}
}

// calc2DSDDistanceExact computes the exact squared distance between
// the circumcenter of (av, bv, thirdPoint) and the midpoint of av-bv,
// the tie-break measure for the third node of the initial triangle.
func calc2DSDDistanceExact(av, bv, thirdPoint v3.Vec) *exact.Rational {
	a := exactVec(av)
	b := exactVec(bv)
	third := exactVec(thirdPoint)
	aToThird := third.Sub(a)
	half := exact.New(1, 2)
	normals := [3]exact.Vector{
		b.Sub(a),
		b.Sub(a).Cross(aToThird),
		aToThird,
	}
	offsets := [3]*exact.Rational{
		normals[0].Dot(a.Add(b)).Mul(half),
		normals[1].Dot(a),
		normals[2].Dot(a.Add(third)).Mul(half),
	}
	circumCenter := intersectThreePlanesExact(normals, offsets, exact.Det(normals[0], normals[1], normals[2]))
	return circumCenter.Sub(a.Add(b).Scale(half)).SquaredLength()
}

// createInitialTriangle seeds an empty organizer with a first
// triangle: the lowest-id cavity node, the cavity node closest to it,
// and the node minimizing the distance between the circumcenter and
// the midpoint of those two. Ties are broken exactly.
func (o *OpenTriangleOrganizer) createInitialTriangle() {
	nodes := o.cavityNodeList()
	a := nodes[0]

	tolerance := 1e-9
	o.shortestDistance = math.MaxFloat64
	var b *SpaceNode
	for _, dummy := range nodes {
		if dummy == a {
			continue
		}
		vector := dummy.position.Sub(a.position)
		distance := vector.Dot(vector)
		if distance >= o.shortestDistance+tolerance {
			continue
		}
		if b != nil && distance > o.shortestDistance-tolerance {
			distNew := exactVec(a.position).Sub(exactVec(dummy.position)).SquaredLength()
			distLast := exactVec(a.position).Sub(exactVec(b.position)).SquaredLength()
			if distLast.Cmp(distNew) > 0 {
				b = dummy
				o.shortestDistance = math.Min(o.shortestDistance, distance)
			}
		} else {
			b = dummy
			o.shortestDistance = distance
			tolerance = 1e-9 * distance
		}
	}

	// Find the third node by minimizing the distance between the
	// center of the circumcircle and the middle point between a and b.
	o.shortestDistance = math.MaxFloat64
	av, bv := a.position, b.position
	var normals [3]v3.Vec
	var offsets [3]float64
	normals[0] = bv.Sub(av)
	offsets[0] = 0.5 * normals[0].Dot(av.Add(bv))
	var c *SpaceNode
	tolerance = normals[0].Dot(normals[0]) * 1e-9
	for _, dummy := range nodes {
		if dummy == a || dummy == b {
			continue
		}
		dummyPos := dummy.position
		avToDummy := dummyPos.Sub(av)
		normals[1] = normals[0].Cross(avToDummy)
		offsets[1] = normals[1].Dot(av)
		normals[2] = avToDummy
		offsets[2] = 0.5 * normals[2].Dot(av.Add(dummyPos))
		// Cut three planes: equal distance to a and b, the plane of
		// a, b and dummy, equal distance to a and dummy.
		circumCenter := intersectThreePlanes(normals, offsets, det3(normals[0], normals[1], normals[2]))
		vector := circumCenter.Sub(av.Add(bv).MulScalar(0.5))
		distance := vector.Dot(vector)
		if distance >= o.shortestDistance+tolerance {
			continue
		}
		if c != nil && distance > o.shortestDistance-tolerance {
			dist1 := calc2DSDDistanceExact(av, bv, dummyPos)
			dist2 := calc2DSDDistanceExact(av, bv, c.position)
			comparison := dist1.Cmp(dist2)
			if comparison < 0 || (comparison == 0 && dummy.id < c.id) {
				c = dummy
				o.shortestDistance = math.Min(o.shortestDistance, distance)
			}
		} else {
			c = dummy
			o.shortestDistance = distance
		}
	}
	o.putTriangle(newTriangle(a, b, c))
}

func removeNodeFromList(list []*SpaceNode, node *SpaceNode) []*SpaceNode {
	for i, n := range list {
		if n == node {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

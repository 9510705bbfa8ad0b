package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/neuropil/pkg/exact"
)

// Tetrahedron is the central element of the triangulation: four
// nodes, four triangles (triangle i lies opposite node i) and six
// edges. Two degenerate variants share the type:
//
//   - infinite: the first node is nil; the tetrahedron represents a
//     convex-hull face paired with "infinity".
//   - flat: the four nodes are coplanar (flat flag set); volume and
//     cross sections are identically zero and the circumsphere is
//     replaced by plane/circumcircle tests.
//
// A removed tetrahedron keeps its references but has its validity
// flag cleared, so in-flight iterators can detect it.
type Tetrahedron struct {
	nodes     [4]*SpaceNode
	triangles [4]*Triangle
	edges     [6]*Edge

	crossSections [6]float64

	circumCenter  v3.Vec
	squaredRadius float64
	tolerance     float64
	volume        float64

	flat  bool
	valid bool
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func blankTetrahedron() *Tetrahedron {
	return &Tetrahedron{tolerance: 1e-7, valid: true}
}

// newTetrahedron builds a tetrahedron from a base triangle and an
// apex node. The three side triangles are created or paired through
// the organizer. A nil apex produces an infinite tetrahedron; an
// infinite base triangle is resolved to the corresponding finite one
// first.
func newTetrahedron(base *Triangle, apex *SpaceNode, oto *OpenTriangleOrganizer) *Tetrahedron {
	t := blankTetrahedron()
	t.init(base, apex, oto)
	return t
}

// newTetrahedronFromTriangles wires a tetrahedron from four existing
// triangles and four nodes. The caller guarantees that triangle i
// lies opposite node i. flat marks the coplanar variant.
func newTetrahedronFromTriangles(ta, tb, tc, td *Triangle, a, b, c, d *SpaceNode, flat bool) *Tetrahedron {
	t := blankTetrahedron()
	t.flat = flat
	t.initFromTriangles(ta, tb, tc, td, a, b, c, d)
	return t
}

// createInitialTetrahedron builds the very first finite tetrahedron
// over four nodes together with the four infinite tetrahedra that
// close the hull around it.
func createInitialTetrahedron(a, b, c, d *SpaceNode, oto *OpenTriangleOrganizer) *Tetrahedron {
	triangleA := newTriangle(b, c, d)
	triangleB := newTriangle(a, c, d)
	triangleC := newTriangle(a, b, d)
	triangleD := newTriangle(a, b, c)
	ret := newTetrahedronFromTriangles(triangleA, triangleB, triangleC, triangleD, a, b, c, d, false)

	newTetrahedron(triangleA, nil, oto)
	newTetrahedron(triangleB, nil, oto)
	newTetrahedron(triangleC, nil, oto)
	newTetrahedron(triangleD, nil, oto)
	return ret
}

func (t *Tetrahedron) init(base *Triangle, apex *SpaceNode, oto *OpenTriangleOrganizer) {
	triangle := base
	point := apex
	if triangle.isInfinite() {
		// The finite counterpart of a hull face becomes the base of a
		// new infinite tetrahedron.
		nodes := triangle.nodes
		a := nodes[0]
		if a == nil {
			a = nodes[1]
		}
		b := nodes[2]
		if b == nil {
			b = nodes[1]
		}
		triangle = oto.getTriangleWithoutRemoving(a, b, point)
		point = nil
	}
	t.nodes[0] = point
	if point != nil {
		point.addTetrahedron(t)
	}
	tn := triangle.nodes
	for i := 0; i < 3; i++ {
		t.nodes[i+1] = tn[i]
		tn[i].addTetrahedron(t)
	}
	// Attach the triangles so that triangles[i] lies opposite nodes[i].
	t.triangles[0] = triangle
	if !triangle.isCompletelyOpen() {
		oto.removeTriangle(triangle)
	}
	t.triangles[1] = oto.getTriangle(point, tn[1], tn[2])
	t.triangles[2] = oto.getTriangle(point, tn[0], tn[2])
	t.triangles[3] = oto.getTriangle(point, tn[0], tn[1])
	for i := 0; i < 4; i++ {
		t.triangles[i].addTetrahedron(t)
	}
	t.registerEdges()
	t.calculateCircumSphere()
}

func (t *Tetrahedron) initFromTriangles(ta, tb, tc, td *Triangle, a, b, c, d *SpaceNode) {
	t.triangles = [4]*Triangle{ta, tb, tc, td}
	t.nodes = [4]*SpaceNode{a, b, c, d}
	for i := 0; i < 4; i++ {
		t.triangles[i].addTetrahedron(t)
		if t.nodes[i] != nil {
			t.nodes[i].addTetrahedron(t)
		}
	}
	t.registerEdges()
	t.calculateCircumSphere()
}

// registerEdges collects the six edges from already-wired neighbor
// tetrahedra where possible, creates the missing ones through the
// endpoints, and registers this tetrahedron with each.
func (t *Tetrahedron) registerEdges() {
	if t.isInfinite() {
		return
	}
	for i := 0; i < 4; i++ {
		neighbor := t.triangles[i].oppositeTetrahedron(t)
		if neighbor == nil || neighbor.isInfinite() {
			continue
		}
		n1 := neighbor.nodeNumber(t.nodes[(i+1)%4])
		n2 := neighbor.nodeNumber(t.nodes[(i+2)%4])
		n3 := neighbor.nodeNumber(t.nodes[(i+3)%4])
		switch i {
		case 0:
			t.edges[3] = neighbor.edge(n1, n2)
			t.edges[4] = neighbor.edge(n1, n3)
			t.edges[5] = neighbor.edge(n2, n3)
		case 1:
			t.edges[1] = neighbor.edge(n1, n3)
			t.edges[2] = neighbor.edge(n2, n3)
			if t.edges[5] == nil {
				t.edges[5] = neighbor.edge(n1, n2)
			}
		case 2:
			t.edges[0] = neighbor.edge(n2, n3)
			if t.edges[2] == nil {
				t.edges[2] = neighbor.edge(n1, n2)
			}
			if t.edges[4] == nil {
				t.edges[4] = neighbor.edge(n1, n3)
			}
		case 3:
			if t.edges[0] == nil {
				t.edges[0] = neighbor.edge(n1, n2)
			}
			if t.edges[1] == nil {
				t.edges[1] = neighbor.edge(n1, n3)
			}
			if t.edges[3] == nil {
				t.edges[3] = neighbor.edge(n2, n3)
			}
		}
	}
	// Fill up the ones no neighbor could provide.
	if t.edges[0] == nil {
		t.edges[0] = t.nodes[0].searchEdge(t.nodes[1])
	}
	if t.edges[1] == nil {
		t.edges[1] = t.nodes[0].searchEdge(t.nodes[2])
	}
	if t.edges[2] == nil {
		t.edges[2] = t.nodes[0].searchEdge(t.nodes[3])
	}
	if t.edges[3] == nil {
		t.edges[3] = t.nodes[1].searchEdge(t.nodes[2])
	}
	if t.edges[4] == nil {
		t.edges[4] = t.nodes[1].searchEdge(t.nodes[3])
	}
	if t.edges[5] == nil {
		t.edges[5] = t.nodes[2].searchEdge(t.nodes[3])
	}
	for i := 0; i < 6; i++ {
		if t.edges[i] != nil {
			t.edges[i].addTetrahedron(t)
		}
	}
}

// ---------------------------------------------------------------------------
// Circumsphere and volume
// ---------------------------------------------------------------------------

// calculateCircumSphere recomputes circumsphere, tolerance envelope,
// volume and cross sections. Flat and infinite tetrahedra keep their
// zero volume and have no circumsphere.
func (t *Tetrahedron) calculateCircumSphere() {
	if t.flat || t.isInfinite() {
		return
	}
	t.computeCircumsphereCenterAndVolume()
}

// updateCircumSphereAfterNodeMovement refreshes this tetrahedron
// after movedNode changed its position and invalidates the planes of
// the triangles the node lies on.
func (t *Tetrahedron) updateCircumSphereAfterNodeMovement(movedNode *SpaceNode) {
	if t.flat {
		for i := 0; i < 4; i++ {
			if t.nodes[i] != movedNode {
				t.triangles[i].informAboutNodeMovement()
			}
		}
		return
	}
	nodeNumber := t.nodeNumber(movedNode)
	if !t.isInfinite() {
		t.computeCircumsphereCenterAndVolume()
	}
	for i := 0; i < 4; i++ {
		if i != nodeNumber {
			t.triangles[i].informAboutNodeMovement()
		}
	}
}

// planeNormals returns the three difference vectors from node 0 to
// nodes 1..3.
func (t *Tetrahedron) planeNormals() [3]v3.Vec {
	p0 := t.nodes[0].position
	return [3]v3.Vec{
		t.nodes[1].position.Sub(p0),
		t.nodes[2].position.Sub(p0),
		t.nodes[3].position.Sub(p0),
	}
}

// computeCircumsphereCenterAndVolume solves for the point equidistant
// from the four nodes via the 3-plane intersection and derives the
// volume from the same determinant. Alongside it accumulates an upper
// bound on the absolute rounding error, which becomes the tolerance
// envelope used by the orientation predicate.
func (t *Tetrahedron) computeCircumsphereCenterAndVolume() {
	normals := t.planeNormals()
	t.changeVolume(math.Abs(det3(normals[0], normals[1], normals[2])) / 6.0)

	nm := maxAbsComponent(normals[0], normals[1], normals[2])
	maxLength2 := 0.0
	for i := 0; i < 3; i++ {
		length := normals[i].Dot(normals[i])
		if length > maxLength2 {
			maxLength2 = length
		}
		normals[i] = normals[i].DivScalar(math.Sqrt(length))
	}
	const my2 = 1e-15
	// Error bound of the normalized normals, relative to my2.
	dns2 := math.Max(1.0, nm*nm*(1/maxLength2+1/(maxLength2*maxLength2)))
	ddet2 := 36 * dns2

	p0 := t.nodes[0].position
	p1 := t.nodes[1].position
	p2 := t.nodes[2].position
	p3 := t.nodes[3].position
	pm2 := maxAbsComponent(p0, p1, p2, p3)
	pm2 *= pm2
	doff2 := 6 * pm2 * (dns2 + 1)
	dscalar2 := 4*doff2 + 36*pm2*dns2

	det := det3(normals[0], normals[1], normals[2])
	offsets := [3]float64{
		0.5 * normals[0].Dot(p0.Add(p1)),
		0.5 * normals[1].Dot(p0.Add(p2)),
		0.5 * normals[2].Dot(p0.Add(p3)),
	}
	t.circumCenter = intersectThreePlanes(normals, offsets, det)
	if det != 0 {
		ddiv2 := 1/(det*det)*3*dscalar2 + 324*pm2*ddet2/(det*det*det*det)
		dummy := t.circumCenter.Sub(p0)
		t.squaredRadius = dummy.Dot(dummy)
		t.tolerance = math.Sqrt(12*ddiv2*t.squaredRadius) * my2
	}
	t.updateCrossSectionAreas()
}

// changeVolume updates the volume and distributes the per-node share
// of the change to the four nodes.
func (t *Tetrahedron) changeVolume(newVolume float64) {
	changePerNode := (newVolume - t.volume) / 4.0
	if changePerNode != 0.0 {
		for _, node := range t.nodes {
			if node != nil {
				node.changeVolume(changePerNode)
			}
		}
	}
	t.volume = newVolume
}

// Volume returns the volume of this tetrahedron (zero for flat and
// infinite ones).
func (t *Tetrahedron) Volume() float64 {
	return t.volume
}

// ---------------------------------------------------------------------------
// Cross-section accounting
// ---------------------------------------------------------------------------

func (t *Tetrahedron) changeCrossSection(number int, newValue float64) {
	change := newValue - t.crossSections[number]
	if change != 0 && t.edges[number] != nil {
		t.edges[number].changeCrossSectionArea(change)
	}
	t.crossSections[number] = newValue
}

// updateCrossSectionAreas recomputes the per-edge share this
// tetrahedron contributes to the cross-section area of each of its
// six edges.
func (t *Tetrahedron) updateCrossSectionAreas() {
	if t.isInfinite() || t.flat {
		for i := 0; i < 6; i++ {
			t.changeCrossSection(i, 0.0)
		}
		return
	}
	var positions [4]v3.Vec
	for i := range positions {
		positions[i] = t.nodes[i].position
	}
	tetraMiddle := positions[0].Add(positions[1]).Add(positions[2]).Add(positions[3]).MulScalar(0.25)
	var lineMiddles, lineVectors [6]v3.Vec
	var areaMiddles [4]v3.Vec
	lineCounter := 0
	for j := 0; j < 4; j++ {
		for k := j + 1; k < 4; k++ {
			lineMiddles[lineCounter] = positions[j].Add(positions[k]).MulScalar(0.5)
			lineVectors[lineCounter] = positions[j].Sub(positions[k])
			lineCounter++
		}
		sum := v3.Vec{}
		for k := 0; k < 4; k++ {
			if k != j {
				sum = sum.Add(positions[k])
			}
		}
		areaMiddles[j] = sum.DivScalar(3)
	}
	counter := 5
	for j := 0; j < 4; j++ {
		for k := j + 1; k < 4; k++ {
			diff1 := lineMiddles[counter].Sub(tetraMiddle)
			diff2 := areaMiddles[j].Sub(areaMiddles[k])
			dot := diff1.Cross(diff2).Dot(lineVectors[counter])
			t.changeCrossSection(counter, math.Abs(dot/lineVectors[counter].Length()))
			counter--
		}
	}
}

// ---------------------------------------------------------------------------
// Orientation predicate
// ---------------------------------------------------------------------------

// Orientation classifies point against this tetrahedron's
// circumsphere: -1 outside, 0 on the sphere, +1 inside. Results
// inside the tolerance envelope are decided with exact arithmetic.
//
// Infinite tetrahedra report points beyond their hull face as inside.
// Flat tetrahedra report every point strictly off their plane as
// inside their degenerate circumsphere (so that restoration always
// removes them) and test in-plane points against the facet
// circumcircles.
func (t *Tetrahedron) Orientation(point v3.Vec) int {
	if t.flat {
		return t.flatOrientation(point)
	}
	if t.isInfinite() {
		inner := t.adjacentTetrahedron(0)
		t.triangles[0].updatePlaneEquationIfNecessary()
		var orientation int
		if inner != nil {
			if inner.isInfinite() {
				return 1
			}
			position := inner.oppositeNode(t.triangles[0]).position
			orientation = t.triangles[0].sideOrientation(point, position)
		} else {
			orientation = t.triangles[0].orientationToUpperSide(point)
		}
		if orientation == 0 {
			return t.triangles[0].circleOrientation(point)
		}
		return -orientation
	}
	d := t.circumCenter.Sub(point)
	dum := d.Dot(d)
	if dum > t.squaredRadius+t.tolerance {
		return -1
	}
	if dum < t.squaredRadius-t.tolerance {
		return 1
	}
	return t.orientationExact(point)
}

func (t *Tetrahedron) flatOrientation(point v3.Vec) int {
	t.triangles[0].updatePlaneEquationIfNecessary()
	orientation := t.triangles[0].sideOrientation(point, point)
	if orientation != 0 {
		return orientation
	}
	memory := -1
	for i := 0; i < 4; i++ {
		if t.triangles[i] == nil {
			continue
		}
		switch t.triangles[i].circleOrientation(point) {
		case 1:
			return 1
		case 0:
			memory = 0
		}
	}
	return memory
}

// orientationExact evaluates the in-sphere predicate with exact
// rational arithmetic.
func (t *Tetrahedron) orientationExact(position v3.Vec) int {
	if t.isInfinite() {
		return 1
	}
	var points [4]exact.Vector
	for i := 0; i < 4; i++ {
		points[i] = exactVec(t.nodes[i].position)
	}
	var normals [3]exact.Vector
	for j := 0; j < 3; j++ {
		normals[j] = points[j+1].Sub(points[0])
	}
	det := exact.Det(normals[0], normals[1], normals[2])
	half := exact.New(1, 2)
	var offsets [3]*exact.Rational
	for j := 0; j < 3; j++ {
		offsets[j] = points[0].Add(points[j+1]).Dot(normals[j]).Mul(half)
	}
	center := intersectThreePlanesExact(normals, offsets, det)
	squaredRadius := center.Sub(points[0]).SquaredLength()
	distance := center.Sub(exactVec(position)).SquaredLength()
	return squaredRadius.Cmp(distance)
}

func (t *Tetrahedron) isTrulyInsideSphere(point v3.Vec) bool {
	return t.Orientation(point) > 0
}

func (t *Tetrahedron) isInsideSphere(point v3.Vec) bool {
	return t.Orientation(point) >= 0
}

// ---------------------------------------------------------------------------
// Visibility walk
// ---------------------------------------------------------------------------

// walkToPoint performs one visibility-walk step towards coordinate:
// it returns the neighbor across the first triangle (in the order
// given by triangleOrder) that separates the coordinate from its
// opposite node, or the tetrahedron itself if the coordinate is
// contained. A coordinate coinciding with a node yields
// ErrPositionNotAllowed.
func (t *Tetrahedron) walkToPoint(coordinate v3.Vec, triangleOrder [4]int) (*Tetrahedron, error) {
	if t.isInfinite() {
		if !t.isInsideSphere(coordinate) {
			return t.triangles[0].oppositeTetrahedron(t), nil
		}
	} else {
		for _, pos := range triangleOrder {
			currentTriangle := t.triangles[pos]
			currentTriangle.updatePlaneEquationIfNecessary()
			orientation := currentTriangle.sideOrientation(t.nodes[pos].position, coordinate)
			if orientation < 0 {
				return currentTriangle.oppositeTetrahedron(t), nil
			}
			if orientation == 0 {
				opposite := currentTriangle.oppositeTetrahedron(t)
				if opposite != nil && opposite.isInfinite() && t.isTrulyInsideSphere(coordinate) {
					if err := t.testPosition(coordinate); err != nil {
						return nil, err
					}
					return opposite, nil
				}
			}
		}
	}
	if err := t.testPosition(coordinate); err != nil {
		return nil, err
	}
	return t, nil
}

// testPosition returns ErrPositionNotAllowed when position coincides
// exactly with one of this tetrahedron's nodes.
func (t *Tetrahedron) testPosition(position v3.Vec) error {
	for _, node := range t.nodes {
		if node == nil {
			continue
		}
		p := node.position
		if position.X == p.X && position.Y == p.Y && position.Z == p.Z {
			return ErrPositionNotAllowed
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Convexity
// ---------------------------------------------------------------------------

// isInConvexPosition reports where point lies relative to the three
// faces other than connectingTriangleNumber: +1 strictly convex, 0 on
// a boundary plane, -1 non-convex. For a flat tetrahedron the answer
// degenerates to an in-plane test.
func (t *Tetrahedron) isInConvexPosition(point v3.Vec, connectingTriangleNumber int) int {
	if t.flat {
		t.triangles[0].updatePlaneEquationIfNecessary()
		if t.triangles[0].sideOrientation(point, point) == 0 {
			return 0
		}
		return -1
	}
	if t.isInfinite() {
		return -1
	}
	result := 1
	for i := 0; i < 4; i++ {
		if i == connectingTriangleNumber {
			continue
		}
		t.triangles[i].updatePlaneEquationIfNecessary()
		current := t.triangles[i].sideOrientation(t.nodes[i].position, point)
		if current < 0 {
			return -1
		}
		result *= current
	}
	return result
}

// ---------------------------------------------------------------------------
// Flips
// ---------------------------------------------------------------------------

// flip2to3 replaces two tetrahedra sharing a triangle by three
// tetrahedra around the new edge between their opposite nodes. The
// flip is performed only if the union of the two tetrahedra is
// convex; otherwise all returned entries are nil. Tetrahedra created
// across a boundary plane degenerate to flat ones.
func flip2to3(tetrahedronA, tetrahedronB *Tetrahedron) [3]*Tetrahedron {
	var ret [3]*Tetrahedron
	connectingTriangleNumber := tetrahedronA.connectingTriangleNumber(tetrahedronB)
	if connectingTriangleNumber < 0 {
		return ret
	}
	connectingTriangle := tetrahedronA.triangles[connectingTriangleNumber]
	lowerNode := tetrahedronB.oppositeNode(connectingTriangle)
	convexPosition := 1
	if lowerNode != nil {
		convexPosition = tetrahedronA.isInConvexPosition(lowerNode.position, connectingTriangleNumber)
	}
	if convexPosition < 0 {
		return ret
	}
	checkForFlatTetrahedra := convexPosition == 0
	upperTriangles := tetrahedronA.touchingTriangles(connectingTriangle)
	lowerTriangles := tetrahedronB.touchingTriangles(connectingTriangle)
	upperNode := tetrahedronA.nodes[connectingTriangleNumber]
	connectingNodes := connectingTriangle.nodes
	var newTriangles [3]*Triangle
	for i := 0; i < 3; i++ {
		newTriangles[i] = newTriangle(upperNode, lowerNode, connectingNodes[i])
	}
	tetrahedronA.remove()
	tetrahedronB.remove()
	for i := 0; i < 3; i++ {
		// Keep a nil node (infinite marker) in slot 0 when it is part
		// of the connecting triangle.
		a := (i + 1) % 3
		b := (i + 2) % 3
		if b == 0 {
			b = 2
			a = 0
		}
		flat := false
		if checkForFlatTetrahedra {
			position := lowerNode.position
			flat = upperTriangles[i].sideOrientation(position, position) == 0
		}
		ret[i] = newTetrahedronFromTriangles(
			newTriangles[b], upperTriangles[i], lowerTriangles[i], newTriangles[a],
			connectingNodes[a], lowerNode, upperNode, connectingNodes[b], flat)
	}
	return ret
}

// flip3to2 replaces three tetrahedra that share a common edge and are
// pairwise adjacent by two tetrahedra over the triangle spanned by
// their outer apices. If all three inputs are flat the two results
// are flat as well.
func flip3to2(tetrahedronA, tetrahedronB, tetrahedronC *Tetrahedron) [2]*Tetrahedron {
	var newTriangleNodes [3]*SpaceNode
	numA := tetrahedronA.connectingTriangleNumber(tetrahedronB)
	numB := tetrahedronB.connectingTriangleNumber(tetrahedronC)
	numC := tetrahedronC.connectingTriangleNumber(tetrahedronA)
	newTriangleNodes[0] = tetrahedronA.nodes[numA]
	newTriangleNodes[1] = tetrahedronB.nodes[numB]
	newTriangleNodes[2] = tetrahedronC.nodes[numC]

	upperNode := tetrahedronA.firstOtherNode(newTriangleNodes[0], newTriangleNodes[1])
	lowerNode := tetrahedronA.secondOtherNode(newTriangleNodes[0], newTriangleNodes[1])

	triangle := newTriangle(newTriangleNodes[0], newTriangleNodes[1], newTriangleNodes[2])

	aLow := tetrahedronA.oppositeTriangle(lowerNode)
	bLow := tetrahedronB.oppositeTriangle(lowerNode)
	cLow := tetrahedronC.oppositeTriangle(lowerNode)
	aUp := tetrahedronA.oppositeTriangle(upperNode)
	bUp := tetrahedronB.oppositeTriangle(upperNode)
	cUp := tetrahedronC.oppositeTriangle(upperNode)

	flat := tetrahedronA.flat && tetrahedronB.flat && tetrahedronC.flat
	tetrahedronA.remove()
	tetrahedronB.remove()
	tetrahedronC.remove()

	var ret [2]*Tetrahedron
	ret[0] = newTetrahedronFromTriangles(triangle, aLow, bLow, cLow,
		upperNode, newTriangleNodes[2], newTriangleNodes[0], newTriangleNodes[1], flat)
	ret[1] = newTetrahedronFromTriangles(triangle, aUp, bUp, cUp,
		lowerNode, newTriangleNodes[2], newTriangleNodes[0], newTriangleNodes[1], flat)
	return ret
}

// removeTwoFlatTetrahedra removes two flat tetrahedra that share two
// triangles (four coplanar points in non-convex position) and glues
// their remaining neighbors directly together. It returns the former
// neighbors for subsequent Delaunay re-checking.
func removeTwoFlatTetrahedra(tetrahedronA, tetrahedronB *Tetrahedron) []*Tetrahedron {
	triangleListA := tetrahedronA.triangles
	triangleListB := tetrahedronB.triangles
	var adjacent []*Tetrahedron
	var outerA, outerB [3]int
	outerCount := 0
	for i := 0; i < 4; i++ {
		shared := false
		for j := 0; j < 4; j++ {
			if triangleListA[i] == triangleListB[j] {
				shared = true
				break
			}
		}
		if shared {
			continue
		}
		outerA[outerCount] = i
		for j := 0; j < 4; j++ {
			if triangleListA[i].isSimilarTo(triangleListB[j]) {
				outerB[outerCount] = j
			}
		}
		outerCount++
	}
	tetrahedronA.remove()
	tetrahedronB.remove()
	for i := 0; i < outerCount; i++ {
		a := triangleListA[outerA[i]].oppositeTetrahedron(nil)
		if a != nil && !containsTetrahedron(adjacent, a) {
			adjacent = append(adjacent, a)
		}
		b := triangleListB[outerB[i]].oppositeTetrahedron(nil)
		if b != nil && !containsTetrahedron(adjacent, b) {
			adjacent = append(adjacent, b)
		}
		if a != nil {
			a.replaceTriangle(triangleListA[outerA[i]], triangleListB[outerB[i]])
		}
	}
	return adjacent
}

// replaceTriangle swaps oldTriangle for newTriangle and migrates the
// three edges bounding it to the ones the tetrahedron across
// newTriangle already carries.
func (t *Tetrahedron) replaceTriangle(oldTriangle, replacement *Triangle) {
	replacement.addTetrahedron(t)
	other := replacement.oppositeTetrahedron(t)
	triangleNumber := t.triangleNumber(oldTriangle)
	position := (triangleNumber + 2) % 4
	lastPosition := (triangleNumber + 1) % 4
	for i := 0; i < 3; i++ {
		number := edgeNumber(lastPosition, position)
		otherEdge := other.edgeBetween(t.nodes[lastPosition], t.nodes[position])
		if otherEdge != t.edges[number] {
			t.edges[number].removeTetrahedron(t)
			otherEdge.addTetrahedron(t)
			t.edges[number] = otherEdge
		}
		lastPosition = position
		position = (position + 1) % 4
		if position == triangleNumber {
			position = (position + 1) % 4
		}
	}
	t.triangles[triangleNumber] = replacement
	replacement.checkedIndex = -1
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

// remove detaches this tetrahedron from all incident geometry and
// clears its validity flag. Triangles and edges left without any
// incident tetrahedron tear themselves down.
func (t *Tetrahedron) remove() {
	t.valid = false
	for i := 0; i < 4; i++ {
		if t.nodes[i] != nil {
			t.nodes[i].changeVolume(-t.volume / 4.0)
			t.nodes[i].removeTetrahedron(t)
		}
		opposite := t.adjacentTetrahedron(i)
		if opposite != nil && !t.isInfinite() && opposite.isInfinite() {
			// A hull triangle loses its inner tetrahedron: keep its
			// upper side pointing inward.
			t.triangles[i].orientToSide(t.nodes[i].position)
		}
		t.triangles[i].removeTetrahedron(t)
	}
	for i := 0; i < 6; i++ {
		if t.edges[i] != nil {
			t.edges[i].changeCrossSectionArea(-t.crossSections[i])
			t.edges[i].removeTetrahedron(t)
		}
	}
}

// ---------------------------------------------------------------------------
// Adjacency lookups
// ---------------------------------------------------------------------------

// IsValid reports whether this tetrahedron still belongs to the
// triangulation.
func (t *Tetrahedron) IsValid() bool {
	return t.valid
}

// IsInfinite reports whether this tetrahedron represents a hull face
// paired with "infinity".
func (t *Tetrahedron) IsInfinite() bool {
	return t.isInfinite()
}

func (t *Tetrahedron) isInfinite() bool {
	return t.nodes[0] == nil
}

// IsFlat reports whether the four nodes are coplanar.
func (t *Tetrahedron) IsFlat() bool {
	return t.flat
}

// Nodes returns the four nodes; the first is nil for an infinite
// tetrahedron.
func (t *Tetrahedron) Nodes() [4]*SpaceNode {
	return t.nodes
}

// UserObjects returns the user objects of the four nodes; entries for
// absent nodes are nil.
func (t *Tetrahedron) UserObjects() [4]any {
	var ret [4]any
	for i, node := range t.nodes {
		if node != nil {
			ret[i] = node.UserObject()
		}
	}
	return ret
}

func (t *Tetrahedron) isAdjacentToNode(node *SpaceNode) bool {
	return t.nodes[0] == node || t.nodes[1] == node || t.nodes[2] == node || t.nodes[3] == node
}

func (t *Tetrahedron) isNeighbor(other *Tetrahedron) bool {
	return t.triangles[0].isAdjacentToTetrahedron(other) ||
		t.triangles[1].isAdjacentToTetrahedron(other) ||
		t.triangles[2].isAdjacentToTetrahedron(other) ||
		t.triangles[3].isAdjacentToTetrahedron(other)
}

// adjacentTetrahedron returns the neighbor across triangle number i.
func (t *Tetrahedron) adjacentTetrahedron(i int) *Tetrahedron {
	if t.triangles[i] == nil {
		return nil
	}
	return t.triangles[i].oppositeTetrahedron(t)
}

func (t *Tetrahedron) nodeNumber(node *SpaceNode) int {
	for i, n := range t.nodes {
		if n == node {
			return i
		}
	}
	return -1
}

func (t *Tetrahedron) triangleNumber(triangle *Triangle) int {
	for i, tri := range t.triangles {
		if tri == triangle {
			return i
		}
	}
	return -1
}

// edgeNumber maps two node slots to the canonical edge slot:
// (0,1)→0, (0,2)→1, (0,3)→2, (1,2)→3, (1,3)→4, (2,3)→5.
func edgeNumber(nodeNumber1, nodeNumber2 int) int {
	subtract := 0
	if nodeNumber1 == 0 || nodeNumber2 == 0 {
		subtract = 1
	}
	return nodeNumber1 + nodeNumber2 - subtract
}

func (t *Tetrahedron) edge(nodeNumber1, nodeNumber2 int) *Edge {
	return t.edges[edgeNumber(nodeNumber1, nodeNumber2)]
}

func (t *Tetrahedron) edgeBetween(a, b *SpaceNode) *Edge {
	return t.edge(t.nodeNumber(a), t.nodeNumber(b))
}

// oppositeTriangle returns the triangle lying opposite node.
func (t *Tetrahedron) oppositeTriangle(node *SpaceNode) *Triangle {
	for i := 0; i < 4; i++ {
		if t.nodes[i] == node {
			return t.triangles[i]
		}
	}
	return nil
}

// oppositeNode returns the node lying opposite triangle.
func (t *Tetrahedron) oppositeNode(triangle *Triangle) *SpaceNode {
	for i := 0; i < 4; i++ {
		if t.triangles[i] == triangle {
			return t.nodes[i]
		}
	}
	return nil
}

func (t *Tetrahedron) connectingTriangle(other *Tetrahedron) *Triangle {
	for i := 0; i < 4; i++ {
		if t.triangles[i].isAdjacentToTetrahedron(other) {
			return t.triangles[i]
		}
	}
	return nil
}

func (t *Tetrahedron) connectingTriangleNumber(other *Tetrahedron) int {
	for i := 0; i < 4; i++ {
		if t.triangles[i].isAdjacentToTetrahedron(other) {
			return i
		}
	}
	return -1
}

// touchingTriangles returns, for each node of base, the triangle of
// this tetrahedron lying opposite that node.
func (t *Tetrahedron) touchingTriangles(base *Triangle) [3]*Triangle {
	var ret [3]*Triangle
	for i, node := range base.nodes {
		ret[i] = t.oppositeTriangle(node)
	}
	return ret
}

// firstOtherNode returns the first node that is neither a nor b.
func (t *Tetrahedron) firstOtherNode(a, b *SpaceNode) *SpaceNode {
	for _, node := range t.nodes {
		if node != a && node != b {
			return node
		}
	}
	return nil
}

// secondOtherNode returns the last node that is neither a nor b.
func (t *Tetrahedron) secondOtherNode(a, b *SpaceNode) *SpaceNode {
	for i := 3; i >= 0; i-- {
		if t.nodes[i] != a && t.nodes[i] != b {
			return t.nodes[i]
		}
	}
	return nil
}

func containsTetrahedron(list []*Tetrahedron, tet *Tetrahedron) bool {
	for _, t := range list {
		if t == tet {
			return true
		}
	}
	return false
}

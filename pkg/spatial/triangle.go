package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/neuropil/pkg/exact"
)

// sdDistanceInfinite marks a signed Delaunay distance that could not
// be computed (infinite triangle, apex in the plane, wrong side).
const sdDistanceInfinite = math.MaxFloat64

// Triangle is an unordered triple of nodes shared by at most two
// tetrahedra, the "upper" and the "lower" one. It caches the plane
// its nodes span and the circumcircle center, both invalidated when
// an endpoint moves. An infinite triangle (first node nil) stands in
// for a hull face seen from an infinite tetrahedron.
type Triangle struct {
	plane

	nodes      [3]*SpaceNode
	tetrahedra [2]*Tetrahedron

	circumCenter        v3.Vec
	planeUpdated        bool
	circumCenterUpdated bool
	upperSidePositive   bool

	// checkedIndex carries the restoration-pass stamp that prevents a
	// (triangle, tetrahedron) pair from being examined twice.
	checkedIndex int
}

// newTriangle creates a triangle between the three nodes. A nil node
// is moved to the first slot, marking the triangle infinite.
func newTriangle(a, b, c *SpaceNode) *Triangle {
	t := &Triangle{
		nodes:             [3]*SpaceNode{a, b, c},
		upperSidePositive: true,
		checkedIndex:      -1,
	}
	if b == nil {
		t.nodes[1] = a
		t.nodes[0] = nil
	}
	if c == nil {
		t.nodes[2] = a
		t.nodes[0] = nil
	}
	return t
}

// Nodes returns the three endpoints; the first is nil for an infinite
// triangle.
func (t *Triangle) Nodes() [3]*SpaceNode {
	return t.nodes
}

func (t *Triangle) isInfinite() bool {
	return t.nodes[0] == nil
}

// isSimilarTo reports whether other spans the same three nodes.
func (t *Triangle) isSimilarTo(other *Triangle) bool {
	on := other.nodes
	return t.isAdjacentToNode(on[0]) && t.isAdjacentToNode(on[1]) && t.isAdjacentToNode(on[2])
}

func (t *Triangle) isAdjacentToNode(node *SpaceNode) bool {
	return t.nodes[0] == node || t.nodes[1] == node || t.nodes[2] == node
}

func (t *Triangle) isAdjacentToTetrahedron(tet *Tetrahedron) bool {
	return t.tetrahedra[0] == tet || t.tetrahedra[1] == tet
}

func (t *Triangle) isCompletelyOpen() bool {
	return t.tetrahedra[0] == nil && t.tetrahedra[1] == nil
}

func (t *Triangle) isClosed() bool {
	return t.tetrahedra[0] != nil && t.tetrahedra[1] != nil
}

// oppositeTetrahedron returns the incident tetrahedron that is not
// the given one. Called with nil it returns whichever side is filled.
func (t *Triangle) oppositeTetrahedron(incident *Tetrahedron) *Tetrahedron {
	if t.tetrahedra[0] == incident {
		return t.tetrahedra[1]
	}
	return t.tetrahedra[0]
}

// addTetrahedron attaches tet on the first free side and resets the
// restoration stamp.
func (t *Triangle) addTetrahedron(tet *Tetrahedron) {
	if t.tetrahedra[0] == nil {
		t.tetrahedra[0] = tet
	} else {
		t.tetrahedra[1] = tet
	}
	t.checkedIndex = -1
}

func (t *Triangle) removeTetrahedron(tet *Tetrahedron) {
	if t.tetrahedra[0] == tet {
		t.tetrahedra[0] = nil
	} else {
		t.tetrahedra[1] = nil
	}
}

// wasCheckedAlready reports whether this triangle was already stamped
// with checkingIndex during the current restoration pass, stamping it
// as a side effect.
func (t *Triangle) wasCheckedAlready(checkingIndex int) bool {
	if checkingIndex == t.checkedIndex {
		return true
	}
	t.checkedIndex = checkingIndex
	return false
}

// informAboutNodeMovement invalidates the cached plane equation and
// circumcircle after an endpoint moved.
func (t *Triangle) informAboutNodeMovement() {
	t.circumCenterUpdated = false
	t.planeUpdated = false
}

// updatePlaneEquationIfNecessary recomputes the (non-normalized)
// plane equation when it is stale.
func (t *Triangle) updatePlaneEquationIfNecessary() {
	if t.planeUpdated || t.isInfinite() {
		return
	}
	p0 := t.nodes[0].position
	diff1 := t.nodes[1].position.Sub(p0)
	diff2 := t.nodes[2].position.Sub(p0)
	t.initPlane(diff1, diff2, p0, false)
	t.planeUpdated = true
}

// update refreshes both the circumcircle and the plane equation.
func (t *Triangle) update() {
	t.updateCircumCenterIfNecessary()
	t.updatePlaneEquationIfNecessary()
}

// updateCircumCenterIfNecessary recomputes the circumcircle center.
// As a side effect it replaces the cached plane equation with one
// whose normal is the cross product of the two unit edge directions,
// which the signed-distance computations rely on.
func (t *Triangle) updateCircumCenterIfNecessary() {
	if t.circumCenterUpdated || t.isInfinite() {
		return
	}
	t.circumCenterUpdated = true
	a := t.nodes[0].position
	line1 := t.nodes[1].position.Sub(a)
	line2 := t.nodes[2].position.Sub(a)
	var n [3]v3.Vec
	n[0] = line1.DivScalar(line1.Length())
	n[1] = line2.DivScalar(line2.Length())
	n[2] = n[0].Cross(n[1])

	t.normal = n[2]
	t.offset = t.normal.Dot(a)
	t.tolerance = t.normal.Dot(t.normal) * 1e-9
	t.planeUpdated = true

	offsets := [3]float64{
		a.Add(t.nodes[1].position).Dot(n[0]) * 0.5,
		a.Add(t.nodes[2].position).Dot(n[1]) * 0.5,
		a.Dot(n[2]),
	}
	t.circumCenter = intersectThreePlanes(n, offsets, det3(n[0], n[1], n[2]))
}

// circleOrientation classifies point against the circumcircle of this
// triangle: +1 inside, 0 on the circle, -1 outside. Only meaningful
// for points in the triangle's plane.
func (t *Triangle) circleOrientation(point v3.Vec) int {
	t.updateCircumCenterIfNecessary()
	d := point.Sub(t.circumCenter)
	squaredDistance := d.Dot(d)
	radial := t.nodes[0].position.Sub(t.circumCenter)
	squaredRadius := radial.Dot(radial)
	tolerance := squaredRadius * 1e-9
	if squaredDistance >= squaredRadius+tolerance {
		return -1
	}
	if squaredDistance <= squaredRadius-tolerance {
		return 1
	}
	points := t.exactPositionVectors()
	center := circumCircleCenterExact(points, exactNormalVector(points))
	pointDistance := center.Sub(exactVec(point)).SquaredLength()
	radius := center.Sub(points[0]).SquaredLength()
	return radius.Cmp(pointDistance)
}

// orientToSide orients the upper side of this triangle towards the
// given position. The position must not lie in the plane.
func (t *Triangle) orientToSide(position v3.Vec) {
	if t.isInfinite() {
		return
	}
	t.updatePlaneEquationIfNecessary()
	dot := position.Dot(t.normal)
	switch {
	case dot > t.offset+t.tolerance:
		t.upperSidePositive = true
	case dot < t.offset-t.tolerance:
		t.upperSidePositive = false
	default:
		points := t.exactPositionVectors()
		normal := exactNormalVector(points)
		dot1 := normal.Dot(points[0])
		dot2 := normal.Dot(exactVec(position))
		t.upperSidePositive = dot1.Cmp(dot2) < 0
	}
}

// orientToOpenSide orients the upper side towards the open (not yet
// paired) side of the triangle.
func (t *Triangle) orientToOpenSide() {
	if t.isInfinite() {
		return
	}
	if t.tetrahedra[0] == nil {
		if t.tetrahedra[1] != nil && !t.tetrahedra[1].isInfinite() {
			t.orientToSide(t.tetrahedra[1].oppositeNode(t).position)
			t.upperSidePositive = !t.upperSidePositive
		}
	} else if t.tetrahedra[1] == nil {
		if !t.tetrahedra[0].isInfinite() {
			t.orientToSide(t.tetrahedra[0].oppositeNode(t).position)
			t.upperSidePositive = !t.upperSidePositive
		}
	}
}

// orientationToUpperSide classifies point against the oriented plane:
// +1 upper side, -1 lower side, 0 in the plane.
func (t *Triangle) orientationToUpperSide(point v3.Vec) int {
	dot := point.Dot(t.normal)
	if dot > t.offset+t.tolerance {
		if t.upperSidePositive {
			return 1
		}
		return -1
	}
	if dot < t.offset-t.tolerance {
		if t.upperSidePositive {
			return -1
		}
		return 1
	}
	points := t.exactPositionVectors()
	normal := exactNormalVector(points)
	dot1 := normal.Dot(points[0])
	dot2 := normal.Dot(exactVec(point))
	cmp := dot1.Cmp(dot2)
	if cmp == 0 {
		return 0
	}
	if (cmp > 0) != t.upperSidePositive {
		return 1
	}
	return -1
}

func (t *Triangle) onUpperSide(point v3.Vec) bool {
	return t.orientationToUpperSide(point) >= 0
}

// isOpenToSide reports whether the triangle has a free side facing
// the given point.
func (t *Triangle) isOpenToSide(point v3.Vec) bool {
	if t.tetrahedra[0] == nil {
		if t.tetrahedra[1] == nil {
			return true
		}
		if t.tetrahedra[1].isInfinite() {
			return true
		}
		return !t.onSameSide(t.tetrahedra[1].oppositeNode(t).position, point)
	}
	if t.tetrahedra[1] == nil {
		if t.tetrahedra[0].isInfinite() {
			return true
		}
		return !t.onSameSide(t.tetrahedra[0].oppositeNode(t).position, point)
	}
	return false
}

// sdDistance returns the signed Delaunay distance of fourthPoint: the
// signed distance between the circumcircle center and the center of
// the sphere through the three endpoints and fourthPoint, measured
// along the (oriented) normal. Callers must update() first.
func (t *Triangle) sdDistance(fourthPoint v3.Vec) float64 {
	if t.isInfinite() || !t.onUpperSide(fourthPoint) {
		return sdDistanceInfinite
	}
	sd := t.calculateSDDistance(fourthPoint)
	if sd == sdDistanceInfinite {
		return sdDistanceInfinite
	}
	if t.upperSidePositive {
		return sd
	}
	return -sd
}

func (t *Triangle) calculateSDDistance(fourthPoint v3.Vec) float64 {
	if t.isInfinite() {
		return sdDistanceInfinite
	}
	ad := t.nodes[0].position.Sub(fourthPoint)
	denominator := ad.Dot(t.normal)
	if denominator != 0.0 && math.Abs(denominator) < t.tolerance {
		// Too close to the plane for floats; recompute the sign of the
		// denominator exactly.
		n0 := exactVec(t.nodes[0].position)
		v1 := n0.Sub(exactVec(t.nodes[1].position))
		v2 := n0.Sub(exactVec(t.nodes[2].position))
		normal := v1.Cross(v2)
		dot := normal.Dot(n0.Sub(exactVec(fourthPoint)))
		if dot.IsZero() {
			denominator = 0.0
		} else {
			denominator = dot.Float64()
			if normal.Dot(exactVec(t.normal)).Sign() < 0 {
				denominator = -denominator
			}
		}
	}
	if denominator == 0.0 {
		return sdDistanceInfinite
	}
	mid := t.nodes[0].position.Add(fourthPoint).MulScalar(0.5)
	return ad.Dot(mid.Sub(t.circumCenter)) / denominator
}

// sdDistanceExact is the exact counterpart of sdDistance, used to
// break ties between apex candidates during gift-wrapping.
func (t *Triangle) sdDistanceExact(fourthPoint v3.Vec) *exact.Rational {
	if t.isInfinite() || !t.onUpperSide(fourthPoint) {
		return exact.New(math.MaxInt64, 1)
	}
	p3 := t.exactPositionVectors()
	points := [4]exact.Vector{p3[0], p3[1], p3[2], exactVec(fourthPoint)}
	normal := exactNormalVector(p3)
	if normal.Dot(exactVec(t.normal)).Sign() < 0 {
		normal = normal.Neg()
	}
	sd := calculateSDDistanceExact(points, normal)
	if t.upperSidePositive {
		return sd
	}
	return sd.Neg()
}

func calculateSDDistanceExact(points [4]exact.Vector, normal exact.Vector) *exact.Rational {
	ad := points[0].Sub(points[3])
	denominator := ad.Dot(normal)
	if denominator.IsZero() {
		return exact.New(math.MaxInt64, 1)
	}
	p3 := [3]exact.Vector{points[0], points[1], points[2]}
	center := circumCircleCenterExact(p3, normal)
	half := exact.New(1, 2)
	mid := points[0].Add(points[3]).Scale(half)
	return mid.Sub(center).Dot(ad).Div(denominator)
}

// typicalSDDistance gives the scale on which signed Delaunay
// distances around this triangle live, used to derive tolerances.
func (t *Triangle) typicalSDDistance() float64 {
	if t.isInfinite() {
		return sdDistanceInfinite
	}
	d := t.nodes[0].position.Sub(t.circumCenter)
	return d.Length() / t.normal.Length()
}

func (t *Triangle) exactPositionVectors() [3]exact.Vector {
	var res [3]exact.Vector
	for i := 0; i < 3; i++ {
		res[i] = exactVec(t.nodes[i].position)
	}
	return res
}

func exactNormalVector(points [3]exact.Vector) exact.Vector {
	return points[1].Sub(points[0]).Cross(points[2].Sub(points[0]))
}

// circumCircleCenterExact computes the circumcircle center of the
// three points exactly, given a normal of their plane.
func circumCircleCenterExact(points [3]exact.Vector, normal exact.Vector) exact.Vector {
	a := points[0]
	half := exact.New(1, 2)
	n := [3]exact.Vector{points[1].Sub(a), points[2].Sub(a), normal}
	offsets := [3]*exact.Rational{
		points[1].Add(a).Dot(n[0]).Mul(half),
		points[2].Add(a).Dot(n[1]).Mul(half),
		a.Dot(n[2]),
	}
	return intersectThreePlanesExact(n, offsets, exact.Det(n[0], n[1], n[2]))
}

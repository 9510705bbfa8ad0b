package spatial

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/neuropil/pkg/exact"
)

// plane is a plane equation normal · x = offset with a numerical
// tolerance band. Orientation queries that land inside the band are
// decided with exact arithmetic. Triangle embeds plane to cache the
// plane its three nodes span.
type plane struct {
	normal    v3.Vec
	offset    float64
	tolerance float64
}

// initPlane derives the plane spanned by two direction vectors through
// a position. With normalize set the normal is scaled to unit length
// and the tolerance becomes absolute instead of normal-relative.
func (p *plane) initPlane(dir1, dir2, position v3.Vec, normalize bool) {
	p.normal = dir1.Cross(dir2)
	p.tolerance = p.normal.Dot(p.normal) * 1e-9
	if normalize {
		p.normal = p.normal.DivScalar(p.normal.Length())
		p.tolerance = 1e-9
	}
	p.offset = p.normal.Dot(position)
}

// changeUpperSide flips which half-space counts as the upper side.
func (p *plane) changeUpperSide() {
	p.offset = -p.offset
	p.normal = p.normal.Neg()
}

// defineUpperSide orients the plane so that point lies on the upper side.
func (p *plane) defineUpperSide(point v3.Vec) {
	if point.Dot(p.normal)+p.tolerance < p.offset {
		p.changeUpperSide()
	}
}

// sideOrientation reports the relative position of two points:
// +1 if they lie on the same side of the plane, -1 on opposite sides,
// 0 if at least one lies in the plane. Results inside the tolerance
// band are decided exactly.
func (p *plane) sideOrientation(point1, point2 v3.Vec) int {
	dot1 := point1.Dot(p.normal)
	dot2 := point2.Dot(p.normal)
	switch {
	case dot1 > p.offset+p.tolerance:
		if dot2 < p.offset-p.tolerance {
			return -1
		} else if dot2 > p.offset+p.tolerance {
			return 1
		}
	case dot1 < p.offset-p.tolerance:
		if dot2 > p.offset+p.tolerance {
			return -1
		} else if dot2 < p.offset-p.tolerance {
			return 1
		}
	}
	return p.sideOrientationExact(point1, point2)
}

func (p *plane) sideOrientationExact(point1, point2 v3.Vec) int {
	normal := exactVec(p.normal)
	offset := exact.FromFloat(p.offset)
	c1 := normal.Dot(exactVec(point1)).Cmp(offset)
	c2 := normal.Dot(exactVec(point2)).Cmp(offset)
	return c1 * c2
}

// trulyOnSameSide reports whether both points lie strictly on the same
// side of the plane.
func (p *plane) trulyOnSameSide(point1, point2 v3.Vec) bool {
	return p.sideOrientation(point1, point2) > 0
}

// onSameSide reports whether the points lie on the same side or at
// least one lies in the plane.
func (p *plane) onSameSide(point1, point2 v3.Vec) bool {
	return p.sideOrientation(point1, point2) >= 0
}

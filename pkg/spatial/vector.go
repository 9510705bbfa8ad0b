package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/neuropil/pkg/exact"
)

// det3 returns the determinant of the 3×3 matrix with rows a, b, c.
func det3(a, b, c v3.Vec) float64 {
	return a.X*(b.Y*c.Z-b.Z*c.Y) -
		a.Y*(b.X*c.Z-b.Z*c.X) +
		a.Z*(b.X*c.Y-b.Y*c.X)
}

// component returns the i-th component of v (0 = X, 1 = Y, 2 = Z).
func component(v v3.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// setComponent sets the i-th component of v.
func setComponent(v *v3.Vec, i int, val float64) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}

// maxAbsComponent returns the largest absolute component over all
// given vectors.
func maxAbsComponent(vs ...v3.Vec) float64 {
	max := 0.0
	for _, v := range vs {
		for i := 0; i < 3; i++ {
			if c := component(v, i); c > max {
				max = c
			} else if -c > max {
				max = -c
			}
		}
	}
	return max
}

// exactVec converts a float position into its exact rational form.
func exactVec(v v3.Vec) exact.Vector {
	return exact.NewVector(v.X, v.Y, v.Z)
}

// intersectThreePlanes returns the point at which three planes cross.
// Each plane i is given by normals[i] · x = offsets[i]; det is the
// determinant of the normal matrix. A zero determinant yields the
// far-away marker point (MaxFloat64 in every component).
func intersectThreePlanes(normals [3]v3.Vec, offsets [3]float64, det float64) v3.Vec {
	if det == 0.0 {
		far := math.MaxFloat64
		return v3.Vec{X: far, Y: far, Z: far}
	}
	sum := normals[1].Cross(normals[2]).MulScalar(offsets[0])
	sum = sum.Add(normals[2].Cross(normals[0]).MulScalar(offsets[1]))
	sum = sum.Add(normals[0].Cross(normals[1]).MulScalar(offsets[2]))
	return sum.MulScalar(1 / det)
}

// intersectThreePlanesExact is the exact-arithmetic counterpart of
// intersectThreePlanes.
func intersectThreePlanesExact(normals [3]exact.Vector, offsets [3]*exact.Rational, det *exact.Rational) exact.Vector {
	if det.IsZero() {
		far := math.MaxFloat64
		return exact.NewVector(far, far, far)
	}
	sum := normals[1].Cross(normals[2]).Scale(offsets[0])
	sum = sum.Add(normals[2].Cross(normals[0]).Scale(offsets[1]))
	sum = sum.Add(normals[0].Cross(normals[1]).Scale(offsets[2]))
	return sum.Div(det)
}

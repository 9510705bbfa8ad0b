package exact

// Vector is a 3-vector of exact rationals. Like Rational it is
// immutable: every operation returns a fresh vector.
type Vector [3]*Rational

// NewVector returns the exact vector with the given float components.
func NewVector(x, y, z float64) Vector {
	return Vector{FromFloat(x), FromFloat(y), FromFloat(z)}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v[0].Add(o[0]), v[1].Add(o[1]), v[2].Add(o[2])}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v[0].Sub(o[0]), v[1].Sub(o[1]), v[2].Sub(o[2])}
}

// Scale returns v * f componentwise.
func (v Vector) Scale(f *Rational) Vector {
	return Vector{v[0].Mul(f), v[1].Mul(f), v[2].Mul(f)}
}

// Div returns v / f componentwise. f must not be zero.
func (v Vector) Div(f *Rational) Vector {
	return Vector{v[0].Div(f), v[1].Div(f), v[2].Div(f)}
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{v[0].Neg(), v[1].Neg(), v[2].Neg()}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) *Rational {
	sum := v[0].Mul(o[0])
	sum = sum.Add(v[1].Mul(o[1]))
	return sum.Add(v[2].Mul(o[2]))
}

// Cross returns the cross product v × o.
func (v Vector) Cross(o Vector) Vector {
	var res Vector
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		res[i] = v[j].Mul(o[k]).Sub(v[k].Mul(o[j]))
	}
	return res
}

// SquaredLength returns v · v.
func (v Vector) SquaredLength() *Rational {
	return v.Dot(v)
}

// Equal reports whether v and o are componentwise equal.
func (v Vector) Equal(o Vector) bool {
	return v[0].Cmp(o[0]) == 0 && v[1].Cmp(o[1]) == 0 && v[2].Cmp(o[2]) == 0
}

// Det returns the determinant of the 3×3 matrix with rows a, b, c.
func Det(a, b, c Vector) *Rational {
	d := a[0].Mul(b[1]).Mul(c[2])
	d = d.Add(a[1].Mul(b[2]).Mul(c[0]))
	d = d.Add(a[2].Mul(b[0]).Mul(c[1]))
	d = d.Sub(a[0].Mul(b[2]).Mul(c[1]))
	d = d.Sub(a[1].Mul(b[0]).Mul(c[2]))
	d = d.Sub(a[2].Mul(b[1]).Mul(c[0]))
	return d
}

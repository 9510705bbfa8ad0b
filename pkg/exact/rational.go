// Package exact provides arbitrary-precision rational arithmetic for
// the geometric predicates in pkg/spatial. Floating-point in-sphere
// and in-plane tests fall back to these types whenever a result lands
// inside the computed tolerance envelope, so the outcome of a
// predicate never depends on rounding.
package exact

import "math/big"

// Rational is an immutable arbitrary-precision rational number.
// All operations return a fresh value; arguments are never modified.
type Rational struct {
	v big.Rat
}

// New returns the rational numerator/denominator.
func New(numerator, denominator int64) *Rational {
	r := &Rational{}
	r.v.SetFrac64(numerator, denominator)
	return r
}

// FromFloat returns the exact rational value of f. Every finite
// float64 has an exact rational representation, so no error is
// introduced by the conversion.
func FromFloat(f float64) *Rational {
	r := &Rational{}
	r.v.SetFloat64(f)
	return r
}

// Add returns r + o.
func (r *Rational) Add(o *Rational) *Rational {
	res := &Rational{}
	res.v.Add(&r.v, &o.v)
	return res
}

// Sub returns r - o.
func (r *Rational) Sub(o *Rational) *Rational {
	res := &Rational{}
	res.v.Sub(&r.v, &o.v)
	return res
}

// Mul returns r * o.
func (r *Rational) Mul(o *Rational) *Rational {
	res := &Rational{}
	res.v.Mul(&r.v, &o.v)
	return res
}

// Div returns r / o. o must not be zero.
func (r *Rational) Div(o *Rational) *Rational {
	res := &Rational{}
	res.v.Quo(&r.v, &o.v)
	return res
}

// Neg returns -r.
func (r *Rational) Neg() *Rational {
	res := &Rational{}
	res.v.Neg(&r.v)
	return res
}

// Cmp compares r and o, returning -1, 0 or +1.
func (r *Rational) Cmp(o *Rational) int {
	return r.v.Cmp(&o.v)
}

// Sign returns -1, 0 or +1 depending on the sign of r.
func (r *Rational) Sign() int {
	return r.v.Sign()
}

// IsZero reports whether r is exactly zero.
func (r *Rational) IsZero() bool {
	return r.v.Sign() == 0
}

// Float64 returns the nearest float64 to r.
func (r *Rational) Float64() float64 {
	f, _ := r.v.Float64()
	return f
}

func (r *Rational) String() string {
	return r.v.RatString()
}

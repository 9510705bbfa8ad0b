package exact

import "testing"

func TestRationalArithmetic(t *testing.T) {
	half := New(1, 2)
	third := New(1, 3)

	sum := half.Add(third)
	if sum.Cmp(New(5, 6)) != 0 {
		t.Errorf("1/2 + 1/3 = %s, want 5/6", sum)
	}

	diff := half.Sub(third)
	if diff.Cmp(New(1, 6)) != 0 {
		t.Errorf("1/2 - 1/3 = %s, want 1/6", diff)
	}

	prod := half.Mul(third)
	if prod.Cmp(New(1, 6)) != 0 {
		t.Errorf("1/2 * 1/3 = %s, want 1/6", prod)
	}

	quot := half.Div(third)
	if quot.Cmp(New(3, 2)) != 0 {
		t.Errorf("(1/2) / (1/3) = %s, want 3/2", quot)
	}

	neg := half.Neg()
	if neg.Cmp(New(-1, 2)) != 0 {
		t.Errorf("-(1/2) = %s, want -1/2", neg)
	}
}

func TestRationalImmutability(t *testing.T) {
	a := New(1, 2)
	b := New(1, 4)
	_ = a.Add(b)
	if a.Cmp(New(1, 2)) != 0 || b.Cmp(New(1, 4)) != 0 {
		t.Error("Add must not modify its operands")
	}
}

func TestRationalSignAndZero(t *testing.T) {
	if !New(0, 5).IsZero() {
		t.Error("0/5 should be zero")
	}
	if New(1, 1000000000).IsZero() {
		t.Error("tiny nonzero rational should not be zero")
	}
	if New(-3, 4).Sign() != -1 {
		t.Error("-3/4 should have sign -1")
	}
	if New(3, 4).Sign() != 1 {
		t.Error("3/4 should have sign +1")
	}
}

func TestFromFloatIsExact(t *testing.T) {
	// 0.1 + 0.2 != 0.3 in binary floating point; the exact rationals
	// of those floats must preserve that inequality.
	sum := FromFloat(0.1).Add(FromFloat(0.2))
	if sum.Cmp(FromFloat(0.3)) == 0 {
		t.Error("exact rationals should expose the float representation error of 0.1+0.2")
	}

	// Dyadic values convert without error.
	if FromFloat(0.375).Cmp(New(3, 8)) != 0 {
		t.Errorf("FromFloat(0.375) = %s, want 3/8", FromFloat(0.375))
	}
	if FromFloat(-2.5).Cmp(New(-5, 2)) != 0 {
		t.Errorf("FromFloat(-2.5) = %s, want -5/2", FromFloat(-2.5))
	}
}

func TestRationalFloat64RoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 0.5, 1e-30, 123456.789} {
		if got := FromFloat(f).Float64(); got != f {
			t.Errorf("Float64 round trip of %g = %g", f, got)
		}
	}
}

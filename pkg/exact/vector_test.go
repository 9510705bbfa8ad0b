package exact

import "testing"

func TestVectorOps(t *testing.T) {
	a := NewVector(1, 2, 3)
	b := NewVector(4, 5, 6)

	sum := a.Add(b)
	if !sum.Equal(NewVector(5, 7, 9)) {
		t.Errorf("Add = %v, want (5, 7, 9)", sum)
	}

	diff := b.Sub(a)
	if !diff.Equal(NewVector(3, 3, 3)) {
		t.Errorf("Sub = %v, want (3, 3, 3)", diff)
	}

	dot := a.Dot(b)
	if dot.Cmp(New(32, 1)) != 0 {
		t.Errorf("Dot = %s, want 32", dot)
	}

	cross := a.Cross(b)
	if !cross.Equal(NewVector(-3, 6, -3)) {
		t.Errorf("Cross = %v, want (-3, 6, -3)", cross)
	}

	if sq := a.SquaredLength(); sq.Cmp(New(14, 1)) != 0 {
		t.Errorf("SquaredLength = %s, want 14", sq)
	}
}

func TestVectorScale(t *testing.T) {
	v := NewVector(2, 4, 6)
	half := New(1, 2)
	scaled := v.Scale(half)
	if !scaled.Equal(NewVector(1, 2, 3)) {
		t.Errorf("Scale by 1/2 = %v, want (1, 2, 3)", scaled)
	}
	back := scaled.Div(half)
	if !back.Equal(v) {
		t.Errorf("Div by 1/2 = %v, want original", back)
	}
}

func TestDet(t *testing.T) {
	// Identity matrix.
	d := Det(NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(0, 0, 1))
	if d.Cmp(New(1, 1)) != 0 {
		t.Errorf("det(I) = %s, want 1", d)
	}

	// Coplanar rows give zero.
	d = Det(NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(1, 1, 0))
	if !d.IsZero() {
		t.Errorf("det of coplanar rows = %s, want 0", d)
	}

	// Swapping rows negates.
	d1 := Det(NewVector(2, 0, 0), NewVector(0, 3, 0), NewVector(0, 0, 4))
	d2 := Det(NewVector(0, 3, 0), NewVector(2, 0, 0), NewVector(0, 0, 4))
	if d1.Cmp(d2.Neg()) != 0 {
		t.Errorf("row swap should negate determinant: %s vs %s", d1, d2)
	}
}

package engine

import (
	"math"
	"testing"
)

func TestPreprocessSource(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"(move-to \"a\" 1 2 3)", "(move_to \"a\" 1 2 3)"},
		{"; a comment\n(volume)", "// a comment\n(volume)"},
		{";; doubled\n", "// doubled\n"},
		{"(insert 1 -2 3)", "(insert 1 -2 3)"}, // minus stays minus
		{"\"keep-this-string\"", "\"keep-this-string\""},
		{"(node-count)", "(node_count)"},
	}
	for _, c := range cases {
		if got := preprocessSource(c.in); got != c.want {
			t.Errorf("preprocess(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestScenarioOctahedron(t *testing.T) {
	e := NewEngine()
	source := `
(insert "xp"  1  0  0)
(insert "xn" -1  0  0)
(insert "yp"  0  1  0)
(insert "yn"  0 -1  0)
(insert "zp"  0  0  1)
(insert "zn"  0  0 -1)
`
	tri, evalErrs, err := e.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if tri.NodeCount() != 6 {
		t.Errorf("node count = %d, want 6", tri.NodeCount())
	}
	if math.Abs(tri.Volume()-4.0/3.0) > 1e-9 {
		t.Errorf("volume = %g, want 4/3", tri.Volume())
	}
}

func TestScenarioMoveAndRemove(t *testing.T) {
	e := NewEngine()
	source := `
(insert "a" 0 0 0)
(insert "b" 1 0 0)
(insert "c" 0 1 0)
(insert "d" 0 0 1)
(move-to "d" 0 0 1.5)
(remove "a")
`
	tri, evalErrs, err := e.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if tri.NodeCount() != 3 {
		t.Errorf("node count = %d, want 3", tri.NodeCount())
	}
}

func TestAutoNamedInserts(t *testing.T) {
	e := NewEngine()
	source := `
(insert 0 0 0)
(insert 1 0 0)
(insert 0 1 0)
(insert 0 0 1)
(move-to "n4" 0 0 2)
`
	tri, evalErrs, err := e.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if tri.NodeCount() != 4 {
		t.Errorf("node count = %d, want 4", tri.NodeCount())
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	e := NewEngine()
	source := `
(insert "a" 0 0 0)
(insert "a" 1 0 0)
`
	_, evalErrs, err := e.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("duplicate node name should surface as an eval error")
	}
}

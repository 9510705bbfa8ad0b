package engine

import (
	"fmt"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/neuropil/pkg/spatial"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scenario Lisp source before passing it
// to zygomys:
//
//  1. Traditional ; line comments become // comments (zygomys uses
//     // for line comments).
//  2. Kebab-case identifiers become underscore form (move-to ->
//     move_to); zygomys interprets hyphens as subtraction.
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not
		// a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Scenario state
// ---------------------------------------------------------------------------

// scenario is the mutable state one evaluation builds up: the
// triangulation session and the name -> node registry. Node user
// objects are their scenario names, which is what neighbor queries
// report back.
type scenario struct {
	triangulation *spatial.Triangulation
	nodes         map[string]*spatial.SpaceNode
	autoID        int
}

func newScenario() *scenario {
	return &scenario{
		triangulation: spatial.New(),
		nodes:         make(map[string]*spatial.SpaceNode),
	}
}

func (sc *scenario) lookup(name string) (*spatial.SpaceNode, error) {
	node, ok := sc.nodes[name]
	if !ok {
		return nil, fmt.Errorf("no node named %q", name)
	}
	return node, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec extracts three consecutive numeric args as a vector.
func toVec(args []zygo.Sexp) (v3.Vec, error) {
	if len(args) != 3 {
		return v3.Vec{}, fmt.Errorf("expected 3 coordinates, got %d", len(args))
	}
	x, err := toFloat64(args[0])
	if err != nil {
		return v3.Vec{}, err
	}
	y, err := toFloat64(args[1])
	if err != nil {
		return v3.Vec{}, err
	}
	z, err := toFloat64(args[2])
	if err != nil {
		return v3.Vec{}, err
	}
	return v3.Vec{X: x, Y: y, Z: z}, nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the scenario DSL into env, closing over
// the scenario state.
func registerBuiltins(env *zygo.Zlisp, sc *scenario) {
	// (insert x y z) or (insert "name" x y z)
	// Inserts a node and returns its name.
	env.AddFunction("insert", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var nodeName string
		coordArgs := args
		if len(args) == 4 {
			n, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("insert: %w", err)
			}
			nodeName = n
			coordArgs = args[1:]
		} else {
			sc.autoID++
			nodeName = fmt.Sprintf("n%d", sc.autoID)
		}
		if _, exists := sc.nodes[nodeName]; exists {
			return zygo.SexpNull, fmt.Errorf("insert: node %q already defined", nodeName)
		}
		pos, err := toVec(coordArgs)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("insert: %w", err)
		}
		node, err := sc.triangulation.InsertAt(pos, nodeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("insert %q: %w", nodeName, err)
		}
		sc.nodes[nodeName] = node
		return &zygo.SexpStr{S: nodeName}, nil
	})

	// (move-to "name" x y z)
	env.AddFunction("move_to", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("move-to: expected name + 3 coordinates")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-to: %w", err)
		}
		node, err := sc.lookup(nodeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-to: %w", err)
		}
		pos, err := toVec(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-to: %w", err)
		}
		if err := node.MoveTo(pos); err != nil {
			return zygo.SexpNull, fmt.Errorf("move-to %q: %w", nodeName, err)
		}
		return &zygo.SexpStr{S: nodeName}, nil
	})

	// (move-by "name" dx dy dz)
	env.AddFunction("move_by", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("move-by: expected name + 3 deltas")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-by: %w", err)
		}
		node, err := sc.lookup(nodeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-by: %w", err)
		}
		delta, err := toVec(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-by: %w", err)
		}
		if err := node.MoveBy(delta); err != nil {
			return zygo.SexpNull, fmt.Errorf("move-by %q: %w", nodeName, err)
		}
		return &zygo.SexpStr{S: nodeName}, nil
	})

	// (remove "name")
	env.AddFunction("remove", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("remove: expected node name")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove: %w", err)
		}
		node, err := sc.lookup(nodeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove: %w", err)
		}
		if err := node.Remove(); err != nil {
			return zygo.SexpNull, fmt.Errorf("remove %q: %w", nodeName, err)
		}
		delete(sc.nodes, nodeName)
		return &zygo.SexpStr{S: nodeName}, nil
	})

	// (volume) -> total volume of the triangulation
	env.AddFunction("volume", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: sc.triangulation.Volume()}, nil
	})

	// (node-count)
	env.AddFunction("node_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(sc.triangulation.NodeCount())}, nil
	})

	// (tetrahedron-count) -> number of finite tetrahedra
	env.AddFunction("tetrahedron_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		count := 0
		for _, tet := range sc.triangulation.Tetrahedra() {
			if !tet.IsInfinite() {
				count++
			}
		}
		return &zygo.SexpInt{Val: int64(count)}, nil
	})

	// (neighbors "name") -> sorted list of neighbor node names
	env.AddFunction("neighbors", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("neighbors: expected node name")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("neighbors: %w", err)
		}
		node, err := sc.lookup(nodeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("neighbors: %w", err)
		}
		var names []string
		for _, obj := range node.Neighbors() {
			if s, ok := obj.(string); ok {
				names = append(names, s)
			}
		}
		sort.Strings(names)
		items := make([]zygo.Sexp, len(names))
		for i, s := range names {
			items[i] = &zygo.SexpStr{S: s}
		}
		return env.NewSexpArray(items), nil
	})

	// (node-volume "name") -> dual-cell volume of one node
	env.AddFunction("node_volume", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("node-volume: expected node name")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node-volume: %w", err)
		}
		node, err := sc.lookup(nodeName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node-volume: %w", err)
		}
		return &zygo.SexpFloat{Val: node.Volume()}, nil
	})
}

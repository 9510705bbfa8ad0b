package main

import (
	"log"

	"github.com/chazu/neuropil/pkg/engine"
)

// demoScenario builds a regular octahedron around the origin, then
// perturbs and trims it. It exercises insertion, motion with flip
// restoration, and removal.
const demoScenario = `
; regular octahedron
(insert "xp"  1  0  0)
(insert "xn" -1  0  0)
(insert "yp"  0  1  0)
(insert "yn"  0 -1  0)
(insert "zp"  0  0  1)
(insert "zn"  0  0 -1)

; push one vertex outward and pull it back
(move-to "zp" 0 0 1.5)
(move-to "zp" 0 0 1)

; drop a vertex: the cavity is retriangulated
(remove "yn")
`

func main() {
	eng := engine.NewEngine()
	tri, evalErrs, err := eng.Evaluate(demoScenario)
	if err != nil {
		log.Fatalf("fatal evaluation error: %v", err)
	}
	for _, e := range evalErrs {
		log.Printf("eval error: %v", e)
	}
	if tri == nil {
		log.Fatal("no triangulation produced")
	}

	finite := 0
	for _, tet := range tri.Tetrahedra() {
		if !tet.IsInfinite() {
			finite++
		}
	}
	log.Printf("nodes: %d", tri.NodeCount())
	log.Printf("finite tetrahedra: %d", finite)
	log.Printf("total volume: %.6f", tri.Volume())
	for _, n := range tri.Nodes() {
		log.Printf("node %v at %v, dual volume %.6f, %d neighbors",
			n.UserObject(), n.Position(), n.Volume(), len(n.Edges()))
	}
}

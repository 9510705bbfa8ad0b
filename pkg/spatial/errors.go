package spatial

import "errors"

var (
	// ErrPositionNotAllowed is returned when a coordinate coincides
	// exactly with an existing node's position. The failed operation
	// leaves the triangulation unchanged.
	ErrPositionNotAllowed = errors.New("spatial: position coincides with an existing node")

	// ErrEdgeNotIncident is returned by endpoint lookups on an edge
	// when the given node is not one of its endpoints.
	ErrEdgeNotIncident = errors.New("spatial: node is not an endpoint of this edge")

	// ErrInvariantViolated is returned when a Delaunay restoration or
	// cavity retriangulation fails to make progress within its bounded
	// iteration count. It indicates a kernel bug or a pathological
	// cospherical input.
	ErrInvariantViolated = errors.New("spatial: delaunay restoration did not converge")
)

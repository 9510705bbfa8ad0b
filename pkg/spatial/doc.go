// Package spatial maintains a dynamic 3D Delaunay tetrahedralization
// over a moving, growing, shrinking set of points. It supports point
// insertion, deletion and motion while preserving the Delaunay
// property through local flip operations, and exposes the adjacency
// graph (nodes, edges, triangles, tetrahedra) to client code.
package spatial

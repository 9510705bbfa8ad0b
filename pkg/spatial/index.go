package spatial

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

// indexRectTolerance is half the edge length of the small cube a
// point is stored under in the R-tree.
const indexRectTolerance = 1e-9

// nodeIndex is the session-wide spatial index over all registered
// nodes, backed by an R-tree. It answers nearest-node queries for
// position-addressed operations and keeps the authoritative node
// registry.
type nodeIndex struct {
	tree    *rtreego.Rtree
	entries map[int]*nodeEntry
}

// nodeEntry adapts a SpaceNode to the rtreego.Spatial interface.
type nodeEntry struct {
	node *SpaceNode
	rect *rtreego.Rect
}

func (e *nodeEntry) Bounds() *rtreego.Rect {
	return e.rect
}

func newNodeIndex() *nodeIndex {
	return &nodeIndex{
		tree:    rtreego.NewTree(3, 2, 25),
		entries: make(map[int]*nodeEntry),
	}
}

func pointOf(p v3.Vec) rtreego.Point {
	return rtreego.Point{p.X, p.Y, p.Z}
}

func (idx *nodeIndex) add(n *SpaceNode) {
	entry := &nodeEntry{node: n, rect: pointOf(n.position).ToRect(indexRectTolerance)}
	idx.entries[n.id] = entry
	idx.tree.Insert(entry)
}

func (idx *nodeIndex) remove(n *SpaceNode) {
	entry, ok := idx.entries[n.id]
	if !ok {
		return
	}
	idx.tree.Delete(entry)
	delete(idx.entries, n.id)
}

// update re-registers a node after its position changed.
func (idx *nodeIndex) update(n *SpaceNode) {
	entry, ok := idx.entries[n.id]
	if !ok {
		return
	}
	idx.tree.Delete(entry)
	entry.rect = pointOf(n.position).ToRect(indexRectTolerance)
	idx.tree.Insert(entry)
}

// nearest returns the registered node closest to position, or nil for
// an empty index.
func (idx *nodeIndex) nearest(position v3.Vec) *SpaceNode {
	if len(idx.entries) == 0 {
		return nil
	}
	found := idx.tree.NearestNeighbor(pointOf(position))
	if found == nil {
		return nil
	}
	return found.(*nodeEntry).node
}

// all returns every registered node ordered by id.
func (idx *nodeIndex) all() []*SpaceNode {
	ids := make([]int, 0, len(idx.entries))
	for id := range idx.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	nodes := make([]*SpaceNode, len(ids))
	for i, id := range ids {
		nodes[i] = idx.entries[id].node
	}
	return nodes
}

func (idx *nodeIndex) size() int {
	return len(idx.entries)
}

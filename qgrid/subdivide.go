package qgrid

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/nauert/qevent"
)

// SubdivideLeaf turns a leaf into a container whose fresh children are
// weighted by ratios, e.g. (2, 3). The node keeps its ID and weight, so its
// position under its parent (or as the root) is unchanged.
//
// The proxies that were attached to the leaf are returned; they are no
// longer attached anywhere and the caller must refit them.
//
// Errors: ErrUnknownNode, ErrNotLeaf, ErrSentinelSubdivision, ErrInvalidRatios.
func (g *Grid) SubdivideLeaf(id NodeID, ratios []int) ([]*qevent.Proxy, error) {
	if err := g.checkSubdivision(id, ratios); err != nil {
		return nil, err
	}

	return g.subdivide(id, ratios), nil
}

// checkSubdivision validates a single leaf subdivision without mutating.
func (g *Grid) checkSubdivision(id NodeID, ratios []int) error {
	if _, err := g.leaf(id); err != nil {
		return err
	}
	if id == g.downbeat {
		return ErrSentinelSubdivision
	}
	if len(ratios) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidRatios)
	}
	var r int
	for _, r = range ratios {
		if r <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidRatios, ratios)
		}
	}

	return nil
}

// subdivide performs an already-validated subdivision.
func (g *Grid) subdivide(id NodeID, ratios []int) []*qevent.Proxy {
	children := make([]NodeID, len(ratios))
	var (
		i int
		r int
	)
	for i, r = range ratios {
		children[i] = NodeID(len(g.nodes))
		g.nodes = append(g.nodes, node{weight: r, parent: id, divisible: true})
	}
	n := &g.nodes[id]
	orphans := n.proxies
	n.proxies = nil
	n.children = children

	return orphans
}

// SubdivideLeaves applies several subdivisions at once. Indices refer to
// the leaf ordering before any of them is applied; duplicate indices keep
// the last entry. Subdivisions run in ascending index order.
//
// After leaf i is subdivided, proxies on the following leaf that sit
// before that leaf's start offset are also detached: with finer resolution
// they may now belong inside the subdivided span.
//
// The returned proxies (from subdivided leaves and reclaimed neighbours,
// in processing order) must be refit by the caller. Validation happens up
// front; on error the grid is unchanged.
//
// Errors: ErrLeafIndexOutOfRange, ErrInvalidRatios.
func (g *Grid) SubdivideLeaves(pairs []Subdivision) ([]*qevent.Proxy, error) {
	byIndex := make(map[int][]int, len(pairs))
	var s Subdivision
	for _, s = range pairs {
		byIndex[s.Index] = s.Ratios
	}
	indices := make([]int, 0, len(byIndex))
	var idx int
	for idx = range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	leaves := g.Leaves()
	var err error
	for _, idx = range indices {
		// The sentinel (last leaf) is never a valid target.
		if idx < 0 || idx >= len(leaves)-1 {
			return nil, fmt.Errorf("%w: %d of %d", ErrLeafIndexOutOfRange, idx, len(leaves)-1)
		}
		if err = g.checkSubdivision(leaves[idx], byIndex[idx]); err != nil {
			return nil, err
		}
	}

	var (
		orphans []*qevent.Proxy
		next    NodeID
	)
	for _, idx = range indices {
		next = leaves[idx+1]
		orphans = append(orphans, g.subdivide(leaves[idx], byIndex[idx])...)
		orphans = append(orphans, g.reclaimPreceding(next)...)
	}

	return orphans, nil
}

// reclaimPreceding detaches the leaf's proxies lying before its start offset.
func (g *Grid) reclaimPreceding(id NodeID) []*qevent.Proxy {
	start := g.StartOffset(id)
	n := &g.nodes[id]
	var (
		kept    = n.proxies[:0:0]
		claimed []*qevent.Proxy
		p       *qevent.Proxy
	)
	for _, p = range n.proxies {
		if p.CmpOffset(start) < 0 {
			claimed = append(claimed, p)
			continue
		}
		kept = append(kept, p)
	}
	n.proxies = kept

	return claimed
}

// RegroupLeavesWithUnnecessaryDivisions collapses every container whose
// children are all leaves and whose children after the first carry no
// proxies. The container becomes a single leaf of its own weight holding
// the first child's proxies. Collapsing repeats until nothing changes.
//
// Distance is unchanged: the surviving proxies keep the same start offset.
// The collapsed children are retired; their IDs report ErrUnknownNode.
func (g *Grid) RegroupLeavesWithUnnecessaryDivisions() {
	for g.regroupOnce(g.root) {
	}
}

// regroupOnce collapses bottom-up below id and reports whether anything changed.
func (g *Grid) regroupOnce(id NodeID) bool {
	n := &g.nodes[id]
	if n.children == nil {
		return false
	}
	var (
		changed bool
		c       NodeID
	)
	for _, c = range n.children {
		if g.regroupOnce(c) {
			changed = true
		}
	}
	if !g.collapsible(id) {
		return changed
	}
	first := &g.nodes[n.children[0]]
	n.proxies = first.proxies
	first.proxies = nil
	for _, c = range n.children {
		g.nodes[c].dead = true
	}
	n.children = nil
	n.divisible = true

	return true
}

func (g *Grid) collapsible(id NodeID) bool {
	var (
		i int
		c NodeID
	)
	for i, c = range g.nodes[id].children {
		if g.nodes[c].children != nil {
			return false
		}
		if i > 0 && len(g.nodes[c].proxies) > 0 {
			return false
		}
	}

	return true
}

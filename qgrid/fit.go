package qgrid

import (
	"math/big"
	"sort"

	"github.com/katalvlaran/nauert/qevent"
)

// FitQEvents attaches each proxy to the leaf whose start offset is nearest.
//
// Rules (bisect-left over Offsets()):
//   - an exact hit attaches to the leaf at that offset;
//   - otherwise the nearer of the two neighbouring leaves wins, and a tie
//     goes to the later leaf.
//
// A proxy at exactly 1 therefore lands on the sentinel. The grid's shape is
// not changed, so refitting the same proxies onto the same shape always
// yields the same assignment.
//
// Complexity: O(n + k·log n).
func (g *Grid) FitQEvents(proxies []*qevent.Proxy) {
	leaves, offsets := g.layout()
	var (
		p     *qevent.Proxy
		idx   int
		left  *big.Rat
		right *big.Rat
	)
	for _, p = range proxies {
		idx = sort.Search(len(offsets), func(i int) bool { return p.CmpOffset(offsets[i]) <= 0 })
		if idx == len(offsets) {
			// Offsets end at 1 and proxies never exceed it; guard anyway.
			idx = len(offsets) - 1
		}
		if idx == 0 || p.CmpOffset(offsets[idx]) == 0 {
			g.nodes[leaves[idx]].proxies = append(g.nodes[leaves[idx]].proxies, p)
			continue
		}
		left = p.AbsDistance(offsets[idx-1])
		right = p.AbsDistance(offsets[idx])
		if left.Cmp(right) < 0 {
			idx--
		}
		g.nodes[leaves[idx]].proxies = append(g.nodes[leaves[idx]].proxies, p)
	}
}

// Distance returns the mean absolute deviation between every attached
// proxy and its leaf's start offset. The boolean is false when the grid
// holds no proxies: the distance is then undefined, not zero.
func (g *Grid) Distance() (*big.Rat, bool) {
	leaves, offsets := g.layout()
	var (
		sum   = new(big.Rat)
		count int64
		i     int
		p     *qevent.Proxy
	)
	for i = range leaves {
		for _, p = range g.nodes[leaves[i]].proxies {
			sum.Add(sum, p.AbsDistance(offsets[i]))
			count++
		}
	}
	if count == 0 {
		return nil, false
	}

	return sum.Quo(sum, big.NewRat(count, 1)), true
}

// SortQEventsByIndex stable-sorts every leaf's proxies by event index, so
// co-located events keep their creation order regardless of fit order.
func (g *Grid) SortQEventsByIndex() {
	var (
		id NodeID
		ps []*qevent.Proxy
	)
	for _, id = range g.Leaves() {
		ps = g.nodes[id].proxies
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Index() < ps[j].Index() })
	}
}

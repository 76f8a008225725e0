package searchtree

import (
	"fmt"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/qgrid"
)

// candidate is a leaf (by pre-subdivision index) and its legal options.
type candidate struct {
	index   int
	options [][]int
}

// Expand returns every grid reachable from g by one simultaneous round of
// subdivisions over its misaligned, divisible leaves. g is not modified.
//
// Errors: ErrNilTree, ErrNilGrid, or a qgrid error if the tree proposes an
// invalid ratio tuple.
//
// Complexity: O(C·(n + k·log n)) for C combinations.
func Expand(tree SearchTree, g *qgrid.Grid) ([]*qgrid.Grid, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if g == nil {
		return nil, ErrNilGrid
	}
	cands := findCandidates(tree, g)
	if len(cands) == 0 {
		return nil, nil
	}

	var (
		out     []*qgrid.Grid
		next    *qgrid.Grid
		orphans []*qevent.Proxy
		err     error
	)
	for _, combo := range product(cands) {
		next = g.Clone()
		if orphans, err = next.SubdivideLeaves(combo); err != nil {
			return nil, fmt.Errorf("searchtree: %s: %w", tree.Name(), err)
		}
		next.FitQEvents(orphans)
		out = append(out, next)
	}

	return out, nil
}

// findCandidates scans adjacent leaf pairs for divisible, misaligned leaves.
func findCandidates(tree SearchTree, g *qgrid.Grid) []candidate {
	leaves := g.Leaves()
	var (
		out     []candidate
		i       int
		one     qgrid.NodeID
		options [][]int
	)
	for i = 0; i < len(leaves)-1; i++ {
		one = leaves[i]
		if !g.IsDivisible(one) {
			continue
		}
		if aligned(g, one, leaves[i+1]) {
			continue
		}
		if options = tree.Subdivisions(g.Parentage(one)); len(options) > 0 {
			out = append(out, candidate{index: i, options: options})
		}
	}

	return out
}

// aligned reports whether leaf one needs no further division: nothing on
// two falls before two's start, and everything on one sits on one's start.
func aligned(g *qgrid.Grid, one, two qgrid.NodeID) bool {
	if len(g.PrecedingProxies(two)) > 0 {
		return false
	}
	start := g.StartOffset(one)
	var p *qevent.Proxy
	for _, p = range g.SucceedingProxies(one) {
		if p.CmpOffset(start) != 0 {
			return false
		}
	}

	return true
}

// product returns the Cartesian product of the candidates' options as
// subdivision batches, iterating like an odometer (last candidate fastest).
func product(cands []candidate) [][]qgrid.Subdivision {
	total := 1
	var c candidate
	for _, c = range cands {
		total *= len(c.options)
	}
	out := make([][]qgrid.Subdivision, 0, total)
	digits := make([]int, len(cands))
	var (
		combo []qgrid.Subdivision
		i     int
	)
	for {
		combo = make([]qgrid.Subdivision, len(cands))
		for i, c = range cands {
			combo[i] = qgrid.Subdivision{Index: c.index, Ratios: c.options[digits[i]]}
		}
		out = append(out, combo)

		for i = len(digits) - 1; i >= 0; i-- {
			digits[i]++
			if digits[i] < len(cands[i].options) {
				break
			}
			digits[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}

package quantize

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/nauert/qgrid"
)

// Heuristic assigns exactly one grid to every beat.
type Heuristic interface {
	Select(beats []*TargetBeat) error
}

// DistanceHeuristic picks, per beat, the grid with the smallest distance
// and, among equal distances, the fewest leaves. Exact ties keep the
// earliest candidate. A beat without candidates gets the trivial grid.
type DistanceHeuristic struct{}

var _ Heuristic = DistanceHeuristic{}

// Select implements Heuristic.
//
// Errors: ErrNoBeats, ErrNilBeat.
func (DistanceHeuristic) Select(beats []*TargetBeat) error {
	if len(beats) == 0 {
		return ErrNoBeats
	}
	var (
		i int
		b *TargetBeat
	)
	for i, b = range beats {
		if b == nil {
			return fmt.Errorf("%w: index %d", ErrNilBeat, i)
		}
		if len(b.grids) == 0 {
			b.grid = qgrid.New()
			continue
		}
		b.grid = bestGrid(b.grids)
	}

	return nil
}

// scored caches a grid's sort key.
type scored struct {
	grid     *qgrid.Grid
	distance *big.Rat // nil when the grid holds no proxies
	leaves   int
}

func score(g *qgrid.Grid) scored {
	d, _ := g.Distance()

	return scored{grid: g, distance: d, leaves: g.LeafCount()}
}

// less orders by (distance, leaves); an undefined distance sorts last.
func (a scored) less(b scored) bool {
	switch {
	case a.distance == nil && b.distance == nil:
		return a.leaves < b.leaves
	case a.distance == nil:
		return false
	case b.distance == nil:
		return true
	}
	if c := a.distance.Cmp(b.distance); c != 0 {
		return c < 0
	}

	return a.leaves < b.leaves
}

func bestGrid(grids []*qgrid.Grid) *qgrid.Grid {
	best := score(grids[0])
	var (
		g *qgrid.Grid
		s scored
	)
	for _, g = range grids[1:] {
		if s = score(g); s.less(best) {
			best = s
		}
	}

	return best.grid
}

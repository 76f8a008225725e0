package quantize_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/qgrid"
	"github.com/katalvlaran/nauert/quantize"
	"github.com/katalvlaran/nauert/searchtree"
)

func r(a, b int64) *big.Rat { return big.NewRat(a, b) }

// sequenceAt builds a sequence of pitched onsets closed by a terminal at the last offset.
func sequenceAt(t testing.TB, ms ...int64) *qevent.Sequence {
	t.Helper()
	offsets := make([]*big.Rat, len(ms))
	for i, m := range ms {
		offsets[i] = r(m, 1)
	}
	seq, err := qevent.FromMillisecondOffsets(offsets)
	require.NoError(t, err)

	return seq
}

// proxiesAt builds beat-relative proxies; event indices follow argument order.
func proxiesAt(t testing.TB, offsets ...*big.Rat) []*qevent.Proxy {
	t.Helper()
	out := make([]*qevent.Proxy, len(offsets))
	for i, off := range offsets {
		e, err := qevent.NewSilent(new(big.Rat), qevent.WithIndex(i))
		require.NoError(t, err)
		out[i], err = qevent.NewProxy(e, off)
		require.NoError(t, err)
	}

	return out
}

// fittedGrid subdivides the root by ratios (if any) and fits proxies at offsets.
func fittedGrid(t *testing.T, ratios []int, offsets ...*big.Rat) *qgrid.Grid {
	t.Helper()
	g := qgrid.New()
	if ratios != nil {
		_, err := g.SubdivideLeaf(g.Root(), ratios)
		require.NoError(t, err)
	}
	g.FitQEvents(proxiesAt(t, offsets...))

	return g
}

// smallTree keeps exhaustive searches short.
func smallTree(t testing.TB) searchtree.SearchTree {
	t.Helper()
	tree, err := searchtree.NewUnweighted(searchtree.Definition{
		2: {2: {2: nil}, 3: nil},
		3: {2: nil},
		5: nil,
	})
	require.NoError(t, err)

	return tree
}

func quarterAt60() qevent.Tempo {
	return qevent.Tempo{ReferenceDuration: r(1, 4), UnitsPerMinute: r(60, 1)}
}

func newBeat(t *testing.T) *quantize.TargetBeat {
	t.Helper()
	b, err := quantize.NewTargetBeat(r(1, 4), r(0, 1), quarterAt60(), searchtree.DefaultUnweighted())
	require.NoError(t, err)

	return b
}

func rtmsOf(grids []*qgrid.Grid) []string {
	out := make([]string, len(grids))
	for i, g := range grids {
		out[i] = g.RTMFormat()
	}

	return out
}

func signaturesOf(grids []*qgrid.Grid) []string {
	out := make([]string, len(grids))
	for i, g := range grids {
		out[i] = g.Signature()
	}

	return out
}

package qgrid_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nauert/qgrid"
)

// roundTripOffsets sit around 0, 1/2 and 1 with symmetric deviations.
func roundTripOffsets() []*big.Rat {
	return []*big.Rat{r(0, 1), r(1, 20), r(9, 20), r(1, 2), r(11, 20), r(19, 20), r(1, 1)}
}

func TestFitQEvents_RoundTrip(t *testing.T) {
	g := qgrid.New()
	g.FitQEvents(proxiesAt(t, roundTripOffsets()...))

	assert.Equal(t, []int{0, 1, 2}, indicesOn(g, g.Root()))
	assert.Equal(t, []int{3, 4, 5, 6}, indicesOn(g, g.NextDownbeat()))
	d, ok := g.Distance()
	require.True(t, ok)
	assert.Equal(t, "3/14", d.RatString())

	orphans, err := g.SubdivideLeaves([]qgrid.Subdivision{{Index: 0, Ratios: []int{1, 1}}})
	require.NoError(t, err)
	assert.Len(t, orphans, 6)
	g.FitQEvents(orphans)

	leaves := g.Leaves()
	assert.Equal(t, []int{0, 1}, indicesOn(g, leaves[0]))
	assert.Equal(t, []int{2, 3, 4}, indicesOn(g, leaves[1]))
	assert.ElementsMatch(t, []int{5, 6}, indicesOn(g, leaves[2]))
	d, ok = g.Distance()
	require.True(t, ok)
	assert.Equal(t, "1/35", d.RatString())
}

func TestFitQEvents_FreshMatchesRefit(t *testing.T) {
	fresh := split(t, qgrid.Subdivision{Index: 0, Ratios: []int{1, 1}})
	fresh.FitQEvents(proxiesAt(t, roundTripOffsets()...))

	d, ok := fresh.Distance()
	require.True(t, ok)
	assert.Equal(t, "1/35", d.RatString())
}

func TestFitQEvents_Ties(t *testing.T) {
	cases := []struct {
		name   string
		offset *big.Rat
		leaf   int
	}{
		{"exact start", r(1, 2), 1},
		{"midpoint goes right", r(1, 4), 1},
		{"nearer left", r(1, 5), 0},
		{"upper midpoint goes to sentinel", r(3, 4), 2},
		{"one lands on sentinel", r(1, 1), 2},
		{"zero", r(0, 1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := split(t, qgrid.Subdivision{Index: 0, Ratios: []int{1, 1}})
			g.FitQEvents(proxiesAt(t, tc.offset))
			assert.Equal(t, []int{0}, indicesOn(g, g.Leaves()[tc.leaf]))
		})
	}
}

func TestFitQEvents_Deterministic(t *testing.T) {
	a := split(t, qgrid.Subdivision{Index: 0, Ratios: []int{2, 3}})
	b := split(t, qgrid.Subdivision{Index: 0, Ratios: []int{2, 3}})
	ps := proxiesAt(t, roundTripOffsets()...)
	a.FitQEvents(ps)
	b.FitQEvents(ps)

	assert.Equal(t, a.Signature(), b.Signature())
}

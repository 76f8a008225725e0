package searchtree_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/qgrid"
	"github.com/katalvlaran/nauert/searchtree"
)

// fitted returns the trivial grid with one proxy per offset.
func fitted(t *testing.T, offsets ...*big.Rat) *qgrid.Grid {
	t.Helper()
	proxies := make([]*qevent.Proxy, len(offsets))
	for i, off := range offsets {
		e, err := qevent.NewSilent(new(big.Rat), qevent.WithIndex(i))
		require.NoError(t, err)
		proxies[i], err = qevent.NewProxy(e, off)
		require.NoError(t, err)
	}
	g := qgrid.New()
	g.FitQEvents(proxies)

	return g
}

func rtms(grids []*qgrid.Grid) []string {
	out := make([]string, len(grids))
	for i, g := range grids {
		out[i] = g.RTMFormat()
	}

	return out
}

func lengths(tuples [][]int) []int {
	out := make([]int, len(tuples))
	for i, tup := range tuples {
		out[i] = len(tup)
	}

	return out
}

func TestNewUnweighted_Validation(t *testing.T) {
	bad := map[string]searchtree.Definition{
		"nil":          nil,
		"empty":        {},
		"one":          {1: nil},
		"four":         {4: nil},
		"six":          {6: nil},
		"nine nested":  {2: {9: nil}},
		"empty nested": {2: {}},
		"negative":     {-3: nil},
		"deep bad":     {3: {2: {2: {8: nil}}}},
		"zero":         {0: nil},
	}
	for name, def := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := searchtree.NewUnweighted(def)
			assert.ErrorIs(t, err, searchtree.ErrInvalidDefinition)
		})
	}

	tree, err := searchtree.NewUnweighted(searchtree.Definition{13: nil, 2: {3: nil}})
	require.NoError(t, err)
	assert.Equal(t, "unweighted", tree.Name())

	_, err = searchtree.NewUnweighted(searchtree.DefaultUnweightedDefinition())
	assert.NoError(t, err)
}

func TestUnweighted_DefinitionIsCopied(t *testing.T) {
	def := searchtree.Definition{2: {2: nil}}
	tree, err := searchtree.NewUnweighted(def)
	require.NoError(t, err)

	def[3] = nil
	got := tree.Definition()
	got[2][5] = nil
	assert.Equal(t, searchtree.Definition{2: {2: nil}}, tree.Definition())
}

func TestUnweighted_Subdivisions(t *testing.T) {
	tree := searchtree.DefaultUnweighted()
	step := func(contents int) qgrid.Ratio { return qgrid.Ratio{Weight: 1, Contents: contents} }

	cases := []struct {
		name  string
		steps []qgrid.Ratio
		want  []int
	}{
		{"root", nil, []int{2, 3, 5, 7, 11, 13}},
		{"under two", []qgrid.Ratio{step(2)}, []int{2, 3, 5, 7}},
		{"under three then two", []qgrid.Ratio{step(3), step(2)}, []int{2}},
		{"deepest twos", []qgrid.Ratio{step(2), step(2), step(2)}, []int{2}},
		{"below terminal", []qgrid.Ratio{step(2), step(2), step(2), step(2)}, nil},
		{"terminal divisor", []qgrid.Ratio{step(11)}, nil},
		{"unknown divisor", []qgrid.Ratio{step(4)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tree.Subdivisions(qgrid.Parentage{Root: 1, Steps: tc.steps})
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tc.want, lengths(got))
			for _, tup := range got {
				for _, w := range tup {
					assert.Equal(t, 1, w)
				}
			}
		})
	}
}

func TestNewWeighted_Validation(t *testing.T) {
	bad := []searchtree.WeightedDefinition{
		{Divisors: nil, MaxDepth: 3, MaxDivisions: 2},
		{Divisors: []int{1, 2}, MaxDepth: 3, MaxDivisions: 2},
		{Divisors: []int{2}, MaxDepth: 0, MaxDivisions: 2},
		{Divisors: []int{2}, MaxDepth: 3, MaxDivisions: 1},
	}
	for _, def := range bad {
		_, err := searchtree.NewWeighted(def)
		assert.ErrorIs(t, err, searchtree.ErrInvalidDefinition, "%+v", def)
	}
}

func TestWeighted_Compositions(t *testing.T) {
	tree := searchtree.DefaultWeighted()
	assert.Equal(t, "weighted", tree.Name())
	assert.Equal(t, [][]int{
		{1, 1},
		{2, 1}, {1, 2},
		{4, 1}, {3, 2}, {2, 3}, {1, 4},
		{6, 1}, {5, 2}, {4, 3}, {3, 4}, {2, 5}, {1, 6},
	}, tree.Compositions())

	three, err := searchtree.NewWeighted(searchtree.WeightedDefinition{Divisors: []int{3}, MaxDepth: 1, MaxDivisions: 3})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2, 1}, {1, 2}, {1, 1, 1}}, three.Compositions())
}

func TestWeighted_DepthLimit(t *testing.T) {
	tree := searchtree.DefaultWeighted()
	two := []qgrid.Ratio{{Weight: 1, Contents: 2}, {Weight: 2, Contents: 3}}

	assert.Len(t, tree.Subdivisions(qgrid.Parentage{Root: 1, Steps: two}), 13)
	assert.Nil(t, tree.Subdivisions(qgrid.Parentage{Root: 1, Steps: append(two, qgrid.Ratio{Weight: 1, Contents: 2})}))
}

func TestExpand_TwoRounds(t *testing.T) {
	tree, err := searchtree.NewUnweighted(searchtree.Definition{2: {2: nil}, 3: nil})
	require.NoError(t, err)
	seed := fitted(t, big.NewRat(1, 4))

	first, err := searchtree.Expand(tree, seed)
	require.NoError(t, err)
	assert.Equal(t, []string{"(1 (1 1))", "(1 (1 1 1))"}, rtms(first))
	assert.Equal(t, "1", seed.RTMFormat(), "input grid is not modified")

	var second []*qgrid.Grid
	for _, g := range first {
		children, err := searchtree.Expand(tree, g)
		require.NoError(t, err)
		second = append(second, children...)
	}
	require.Equal(t, []string{"(1 ((1 (1 1)) 1))"}, rtms(second))

	d, ok := second[0].Distance()
	require.True(t, ok)
	assert.Equal(t, 0, d.Sign())

	third, err := searchtree.Expand(tree, second[0])
	require.NoError(t, err)
	assert.Empty(t, third, "aligned grids have no children")
}

func TestExpand_Weighted(t *testing.T) {
	children, err := searchtree.Expand(searchtree.DefaultWeighted(), fitted(t, big.NewRat(1, 3)))
	require.NoError(t, err)
	require.Len(t, children, 13)
	assert.Contains(t, rtms(children), "(1 (1 2))")

	for _, g := range children {
		if g.RTMFormat() != "(1 (1 2))" {
			continue
		}
		d, ok := g.Distance()
		require.True(t, ok)
		assert.Equal(t, 0, d.Sign())
	}
}

func TestExpand_NoCandidates(t *testing.T) {
	tree := searchtree.DefaultUnweighted()

	children, err := searchtree.Expand(tree, fitted(t))
	require.NoError(t, err)
	assert.Empty(t, children, "no proxies, nothing to align")

	children, err = searchtree.Expand(tree, fitted(t, big.NewRat(0, 1), big.NewRat(1, 1)))
	require.NoError(t, err)
	assert.Empty(t, children)

	g := fitted(t, big.NewRat(1, 4))
	require.NoError(t, g.SetDivisible(g.Root(), false))
	children, err = searchtree.Expand(tree, g)
	require.NoError(t, err)
	assert.Empty(t, children, "indivisible leaves are skipped")
}

func TestExpand_Errors(t *testing.T) {
	_, err := searchtree.Expand(nil, qgrid.New())
	assert.ErrorIs(t, err, searchtree.ErrNilTree)

	_, err = searchtree.Expand(searchtree.DefaultUnweighted(), nil)
	assert.ErrorIs(t, err, searchtree.ErrNilGrid)
}

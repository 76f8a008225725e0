package searchtree

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/katalvlaran/nauert/qgrid"
)

// Weighted offers every composition of its divisors, uneven ones included,
// to any node shallower than MaxDepth.
type Weighted struct {
	def          WeightedDefinition
	compositions [][]int
}

var _ SearchTree = (*Weighted)(nil)

// DefaultWeightedDefinition returns divisors {2, 3, 5, 7}, depth 3, two parts.
func DefaultWeightedDefinition() WeightedDefinition {
	return WeightedDefinition{Divisors: []int{2, 3, 5, 7}, MaxDepth: 3, MaxDivisions: 2}
}

// NewWeighted validates def and precomputes the candidate compositions.
//
// Contract:
//   - len(Divisors) > 0 and every divisor > 1.
//   - MaxDepth > 0.
//   - MaxDivisions > 1.
//
// Errors: ErrInvalidDefinition.
func NewWeighted(def WeightedDefinition) (*Weighted, error) {
	if err := validateWeighted(def); err != nil {
		return nil, err
	}
	def.Divisors = slices.Clone(def.Divisors)

	return &Weighted{def: def, compositions: precompute(def)}, nil
}

// DefaultWeighted returns a tree over DefaultWeightedDefinition.
func DefaultWeighted() *Weighted {
	def := DefaultWeightedDefinition()

	return &Weighted{def: def, compositions: precompute(def)}
}

func validateWeighted(def WeightedDefinition) error {
	if len(def.Divisors) == 0 {
		return fmt.Errorf("%w: no divisors", ErrInvalidDefinition)
	}
	var d int
	for _, d = range def.Divisors {
		if d <= 1 {
			return fmt.Errorf("%w: divisor %d must be > 1", ErrInvalidDefinition, d)
		}
	}
	if def.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth %d must be > 0", ErrInvalidDefinition, def.MaxDepth)
	}
	if def.MaxDivisions <= 1 {
		return fmt.Errorf("%w: max divisions %d must be > 1", ErrInvalidDefinition, def.MaxDivisions)
	}

	return nil
}

// precompute gathers, divisor by divisor, every composition with 2..MaxDivisions parts.
func precompute(def WeightedDefinition) [][]int {
	var (
		out [][]int
		d   int
	)
	for _, d = range def.Divisors {
		out = appendCompositions(out, nil, d, def.MaxDivisions)
	}

	return out
}

// appendCompositions extends prefix with every composition of rest, keeping
// results of 2..maxParts parts.
// Larger first parts come first: 3 → (2 1), (1 2).
func appendCompositions(out [][]int, prefix []int, rest, maxParts int) [][]int {
	if rest == 0 {
		if len(prefix) > 1 {
			out = append(out, slices.Clone(prefix))
		}
		return out
	}
	if len(prefix) == maxParts {
		return out
	}
	var part int
	for part = rest; part >= 1; part-- {
		out = appendCompositions(out, append(prefix, part), rest-part, maxParts)
	}

	return out
}

// Name implements SearchTree.
func (t *Weighted) Name() string { return "weighted" }

// Definition returns a copy of the configuration.
func (t *Weighted) Definition() WeightedDefinition {
	def := t.def
	def.Divisors = slices.Clone(t.def.Divisors)

	return def
}

// Compositions returns a copy of the precomputed candidate set.
func (t *Weighted) Compositions() [][]int { return cloneTuples(t.compositions) }

// Subdivisions offers the full candidate set while p.Depth() < MaxDepth.
func (t *Weighted) Subdivisions(p qgrid.Parentage) [][]int {
	if p.Depth() >= t.def.MaxDepth {
		return nil
	}

	return cloneTuples(t.compositions)
}

func cloneTuples(in [][]int) [][]int {
	out := make([][]int, len(in))
	var i int
	for i = range in {
		out[i] = slices.Clone(in[i])
	}

	return out
}

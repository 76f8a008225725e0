package searchtree

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/katalvlaran/nauert/qgrid"
)

// Unweighted is a search tree driven by a nested divisor table. Every
// offered subdivision is even: divisor d yields d parts of weight 1.
type Unweighted struct {
	def Definition
}

var _ SearchTree = (*Unweighted)(nil)

// DefaultUnweightedDefinition returns Paul Nauert's table: top-level
// divisions by 2, 3, 5, 7, 11 or 13, with progressively fewer options
// below 2, 3, 5 and 7.
func DefaultUnweightedDefinition() Definition {
	return Definition{
		2: {
			2: {
				2: {2: nil},
				3: nil,
			},
			3: nil,
			5: nil,
			7: nil,
		},
		3: {
			2: {2: nil},
			3: nil,
			5: nil,
		},
		5:  {2: nil, 3: nil},
		7:  {2: nil},
		11: nil,
		13: nil,
	}
}

// NewUnweighted validates def and returns a tree owning a deep copy of it.
//
// Contract:
//   - def is non-empty.
//   - every key, at every level, has exactly two positive divisors.
//   - every value is nil (terminal) or a non-empty table obeying the same rules.
//
// Errors: ErrInvalidDefinition wrapped with the offending path.
func NewUnweighted(def Definition) (*Unweighted, error) {
	if len(def) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidDefinition)
	}
	if err := validateTable(def, nil); err != nil {
		return nil, err
	}

	return &Unweighted{def: cloneDefinition(def)}, nil
}

// DefaultUnweighted returns a tree over DefaultUnweightedDefinition.
func DefaultUnweighted() *Unweighted {
	return &Unweighted{def: DefaultUnweightedDefinition()}
}

// validateTable walks the table depth-first; path names the keys above it.
func validateTable(def Definition, path []int) error {
	var (
		key int
		sub Definition
		err error
	)
	for _, key = range sortedKeys(def) {
		if key <= 0 || divisorCount(key) != 2 {
			return fmt.Errorf("%w: key %d at %v needs exactly two divisors", ErrInvalidDefinition, key, path)
		}
		sub = def[key]
		if sub == nil {
			continue
		}
		if len(sub) == 0 {
			return fmt.Errorf("%w: empty table under %v", ErrInvalidDefinition, append(path, key))
		}
		if err = validateTable(sub, append(append([]int(nil), path...), key)); err != nil {
			return err
		}
	}

	return nil
}

// divisorCount counts the positive divisors of n (n > 0).
// divisorCount(1) == 1, so 1 is never a valid key.
func divisorCount[T constraints.Integer](n T) int {
	var (
		count int
		i     T
	)
	for i = 1; i*i <= n; i++ {
		if n%i != 0 {
			continue
		}
		count++
		if i != n/i {
			count++
		}
	}

	return count
}

func sortedKeys(def Definition) []int {
	keys := maps.Keys(def)
	slices.Sort(keys)

	return keys
}

func cloneDefinition(def Definition) Definition {
	if def == nil {
		return nil
	}
	out := make(Definition, len(def))
	var (
		k int
		v Definition
	)
	for k, v = range def {
		out[k] = cloneDefinition(v)
	}

	return out
}

// Name implements SearchTree.
func (t *Unweighted) Name() string { return "unweighted" }

// Definition returns a deep copy of the table.
func (t *Unweighted) Definition() Definition { return cloneDefinition(t.def) }

// Subdivisions follows the parent contents (divisor) of each step below
// the root through the table. Reaching a terminal entry, or a divisor the
// table does not list, means no further subdivision. Otherwise each key at
// the reached level yields an all-ones tuple of that length, smallest first.
func (t *Unweighted) Subdivisions(p qgrid.Parentage) [][]int {
	node := t.def
	var (
		step qgrid.Ratio
		ok   bool
	)
	for _, step = range p.Steps {
		if node, ok = node[step.Contents]; !ok || node == nil {
			return nil
		}
	}
	keys := sortedKeys(node)
	out := make([][]int, len(keys))
	var i int
	for i = range keys {
		out[i] = ones(keys[i])
	}

	return out
}

func ones(n int) []int {
	out := make([]int, n)
	var i int
	for i = range out {
		out[i] = 1
	}

	return out
}

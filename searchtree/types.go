package searchtree

import (
	"errors"

	"github.com/katalvlaran/nauert/qgrid"
)

// Sentinel errors for search tree construction and expansion.
var (
	// ErrInvalidDefinition is returned when a definition fails validation.
	ErrInvalidDefinition = errors.New("searchtree: invalid definition")

	// ErrNilGrid is returned when Expand receives a nil grid.
	ErrNilGrid = errors.New("searchtree: grid is nil")

	// ErrNilTree is returned when Expand receives a nil tree.
	ErrNilTree = errors.New("searchtree: tree is nil")
)

// SearchTree decides which subdivisions are legal for a leaf.
// Implementations are immutable and safe for concurrent use.
type SearchTree interface {
	// Name identifies the variant for logs and metrics.
	Name() string

	// Subdivisions returns the ratio tuples a leaf with ancestry p may be
	// split by; nil when the leaf may not be split further.
	Subdivisions(p qgrid.Parentage) [][]int
}

// Definition is the unweighted tree table: divisor → nested table, with a
// nil value marking a terminal divisor.
type Definition map[int]Definition

// WeightedDefinition configures a Weighted search tree.
type WeightedDefinition struct {
	// Divisors whose compositions are offered, each > 1.
	Divisors []int

	// MaxDepth bounds nesting: nodes at depth ≥ MaxDepth are not split.
	MaxDepth int

	// MaxDivisions bounds the number of parts per composition, > 1.
	MaxDivisions int
}

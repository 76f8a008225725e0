package qgrid

import (
	"errors"

	"github.com/katalvlaran/nauert/qevent"
)

// Sentinel errors for grid mutation.
var (
	// ErrUnknownNode is returned when a NodeID does not address a live node,
	// including nodes removed by RegroupLeavesWithUnnecessaryDivisions.
	ErrUnknownNode = errors.New("qgrid: unknown node")

	// ErrNotLeaf is returned when a leaf-only operation receives a container.
	ErrNotLeaf = errors.New("qgrid: node is not a leaf")

	// ErrSentinelSubdivision is returned when the next-downbeat leaf is subdivided.
	ErrSentinelSubdivision = errors.New("qgrid: next downbeat cannot be subdivided")

	// ErrInvalidRatios is returned for empty or non-positive subdivision ratios.
	ErrInvalidRatios = errors.New("qgrid: invalid subdivision ratios")

	// ErrLeafIndexOutOfRange is returned when a subdivision names a missing leaf.
	ErrLeafIndexOutOfRange = errors.New("qgrid: leaf index out of range")
)

// NodeID addresses a node inside one Grid's arena.
type NodeID int

// noParent marks the root and the sentinel.
const noParent NodeID = -1

// node is one arena slot. children == nil marks a leaf.
type node struct {
	weight    int
	parent    NodeID
	children  []NodeID
	proxies   []*qevent.Proxy
	divisible bool
	dead      bool // collapsed away by regrouping
}

// Ratio is one step of a node's ancestry: the node's own weight and the
// summed weights of its parent's children (the parent's contents duration).
type Ratio struct {
	Weight   int
	Contents int
}

// Parentage describes a node's position in the tree, from the root down.
// Depth 0 means the node is the root (or the sentinel).
type Parentage struct {
	// Root is the root node's own weight.
	Root int

	// Steps lists one Ratio per level below the root, outermost first.
	Steps []Ratio
}

// Depth returns the number of containers above the node.
func (p Parentage) Depth() int { return len(p.Steps) }

// Subdivision is one entry of a batch subdivision: the leaf's index in the
// pre-subdivision leaf ordering and the ratios to split it by.
type Subdivision struct {
	Index  int
	Ratios []int
}

package qgrid

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/nauert/qevent"
)

// Grid is a rhythm tree over one beat plus the next-downbeat sentinel.
// A Grid is not safe for concurrent mutation; clone it per goroutine.
type Grid struct {
	nodes    []node
	root     NodeID
	downbeat NodeID
}

// New returns the trivial grid: one undivided root leaf and the sentinel.
func New() *Grid {
	return &Grid{
		nodes: []node{
			{weight: 1, parent: noParent, divisible: true},
			{weight: 1, parent: noParent, divisible: true},
		},
		root:     0,
		downbeat: 1,
	}
}

// Root returns the root node.
func (g *Grid) Root() NodeID { return g.root }

// NextDownbeat returns the sentinel leaf standing for offset 1.
func (g *Grid) NextDownbeat() NodeID { return g.downbeat }

// Clone returns a deep copy of the tree. Proxies are shared, not copied:
// they are immutable, and only the per-leaf lists change.
func (g *Grid) Clone() *Grid {
	c := &Grid{nodes: make([]node, len(g.nodes)), root: g.root, downbeat: g.downbeat}
	var i int
	for i = range g.nodes {
		c.nodes[i] = g.nodes[i]
		if g.nodes[i].children != nil {
			c.nodes[i].children = append([]NodeID(nil), g.nodes[i].children...)
		}
		if g.nodes[i].proxies != nil {
			c.nodes[i].proxies = append([]*qevent.Proxy(nil), g.nodes[i].proxies...)
		}
	}

	return c
}

// node returns the arena slot for id or ErrUnknownNode.
func (g *Grid) node(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(g.nodes) || g.nodes[id].dead {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}

	return &g.nodes[id], nil
}

// IsLeaf reports whether id is a leaf. Unknown IDs report false.
func (g *Grid) IsLeaf(id NodeID) bool {
	n, err := g.node(id)

	return err == nil && n.children == nil
}

// Weight returns the node's preprolated duration; 0 for unknown IDs.
func (g *Grid) Weight(id NodeID) int {
	n, err := g.node(id)
	if err != nil {
		return 0
	}

	return n.weight
}

// Parent returns the node's parent and false for the root, the sentinel
// and unknown IDs.
func (g *Grid) Parent(id NodeID) (NodeID, bool) {
	n, err := g.node(id)
	if err != nil || n.parent == noParent {
		return noParent, false
	}

	return n.parent, true
}

// Children returns a copy of the node's children; nil for leaves and
// unknown IDs.
func (g *Grid) Children(id NodeID) []NodeID {
	n, err := g.node(id)
	if err != nil || n.children == nil {
		return nil
	}

	return append([]NodeID(nil), n.children...)
}

// IsDivisible reports whether a leaf may still be subdivided by the search.
// Unknown IDs report false.
func (g *Grid) IsDivisible(id NodeID) bool {
	n, err := g.node(id)

	return err == nil && n.divisible
}

// SetDivisible marks a leaf as (in)divisible.
func (g *Grid) SetDivisible(id NodeID, divisible bool) error {
	n, err := g.leaf(id)
	if err != nil {
		return err
	}
	n.divisible = divisible

	return nil
}

// leaf returns the slot for id, requiring it to be a leaf.
func (g *Grid) leaf(id NodeID) (*node, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if n.children != nil {
		return nil, fmt.Errorf("%w: %d", ErrNotLeaf, id)
	}

	return n, nil
}

// contents sums the weights of a container's children.
func (g *Grid) contents(id NodeID) int {
	var (
		sum int
		c   NodeID
	)
	for _, c = range g.nodes[id].children {
		sum += g.nodes[c].weight
	}

	return sum
}

// Leaves returns the tree's leaves depth-first, left to right, followed by
// the next-downbeat sentinel.
func (g *Grid) Leaves() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	out = g.appendLeaves(out, g.root)

	return append(out, g.downbeat)
}

func (g *Grid) appendLeaves(out []NodeID, id NodeID) []NodeID {
	if g.nodes[id].children == nil {
		return append(out, id)
	}
	var c NodeID
	for _, c = range g.nodes[id].children {
		out = g.appendLeaves(out, c)
	}

	return out
}

// LeafCount returns len(Leaves()), sentinel included.
func (g *Grid) LeafCount() int { return len(g.Leaves()) }

// Offsets returns each leaf's start offset in Leaves() order; the last entry
// is 1 for the sentinel.
func (g *Grid) Offsets() []*big.Rat {
	_, offsets := g.layout()

	return offsets
}

// layout walks the tree once and returns the aligned leaves and offsets.
func (g *Grid) layout() ([]NodeID, []*big.Rat) {
	leaves := make([]NodeID, 0, len(g.nodes))
	offsets := make([]*big.Rat, 0, len(g.nodes))
	leaves, offsets = g.walk(leaves, offsets, g.root, new(big.Rat), big.NewRat(1, 1))

	return append(leaves, g.downbeat), append(offsets, big.NewRat(1, 1))
}

// walk descends from id, whose span is [start, start+span).
func (g *Grid) walk(leaves []NodeID, offsets []*big.Rat, id NodeID, start, span *big.Rat) ([]NodeID, []*big.Rat) {
	n := &g.nodes[id]
	if n.children == nil {
		return append(leaves, id), append(offsets, start)
	}
	total := big.NewRat(int64(g.contents(id)), 1)
	cursor := new(big.Rat).Set(start)
	var (
		c     NodeID
		child *big.Rat
	)
	for _, c = range n.children {
		child = new(big.Rat).Mul(span, big.NewRat(int64(g.nodes[c].weight), 1))
		child.Quo(child, total)
		leaves, offsets = g.walk(leaves, offsets, c, new(big.Rat).Set(cursor), child)
		cursor.Add(cursor, child)
	}

	return leaves, offsets
}

// StartOffset returns the node's start offset in [0, 1]; the sentinel is 1.
// It returns nil for unknown IDs.
func (g *Grid) StartOffset(id NodeID) *big.Rat {
	if _, err := g.node(id); err != nil {
		return nil
	}
	start, _ := g.span(id)

	return start
}

// span returns the node's start offset and length within the beat.
func (g *Grid) span(id NodeID) (*big.Rat, *big.Rat) {
	if id == g.downbeat {
		return big.NewRat(1, 1), big.NewRat(1, 1)
	}
	p := g.nodes[id].parent
	if p == noParent {
		return new(big.Rat), big.NewRat(1, 1)
	}
	start, span := g.span(p)
	total := big.NewRat(int64(g.contents(p)), 1)
	var (
		before int
		c      NodeID
	)
	for _, c = range g.nodes[p].children {
		if c == id {
			break
		}
		before += g.nodes[c].weight
	}
	unit := new(big.Rat).Quo(span, total)
	start.Add(start, new(big.Rat).Mul(unit, big.NewRat(int64(before), 1)))

	return start, unit.Mul(unit, big.NewRat(int64(g.nodes[id].weight), 1))
}

// Parentage returns the ratio chain from the root down to id; the zero
// Parentage for unknown IDs.
func (g *Grid) Parentage(id NodeID) Parentage {
	if _, err := g.node(id); err != nil {
		return Parentage{}
	}
	var (
		steps []Ratio
		cur   = id
		p     NodeID
	)
	for p = g.nodes[cur].parent; p != noParent; p = g.nodes[cur].parent {
		steps = append(steps, Ratio{Weight: g.nodes[cur].weight, Contents: g.contents(p)})
		cur = p
	}
	var i, j int
	for i, j = 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return Parentage{Root: g.nodes[cur].weight, Steps: steps}
}

// Proxies returns a copy of the proxies attached to a leaf; nil for
// unknown IDs.
func (g *Grid) Proxies(id NodeID) []*qevent.Proxy {
	n, err := g.node(id)
	if err != nil {
		return nil
	}

	return append([]*qevent.Proxy(nil), n.proxies...)
}

// PrecedingProxies returns the leaf's proxies that lie before its start offset.
func (g *Grid) PrecedingProxies(id NodeID) []*qevent.Proxy {
	return g.filterProxies(id, func(c int) bool { return c < 0 })
}

// SucceedingProxies returns the leaf's proxies at or after its start offset.
func (g *Grid) SucceedingProxies(id NodeID) []*qevent.Proxy {
	return g.filterProxies(id, func(c int) bool { return c >= 0 })
}

func (g *Grid) filterProxies(id NodeID, keep func(cmp int) bool) []*qevent.Proxy {
	start := g.StartOffset(id)
	if start == nil {
		return nil
	}
	var (
		out []*qevent.Proxy
		p   *qevent.Proxy
	)
	for _, p = range g.nodes[id].proxies {
		if keep(p.CmpOffset(start)) {
			out = append(out, p)
		}
	}

	return out
}

// ProxyCount returns the number of proxies attached anywhere in the grid.
func (g *Grid) ProxyCount() int {
	var (
		n  int
		id NodeID
	)
	for _, id = range g.Leaves() {
		n += len(g.nodes[id].proxies)
	}

	return n
}

// AttachProxies appends proxies to a leaf without refitting.
func (g *Grid) AttachProxies(id NodeID, proxies ...*qevent.Proxy) error {
	n, err := g.leaf(id)
	if err != nil {
		return err
	}
	n.proxies = append(n.proxies, proxies...)

	return nil
}

// DetachProxies removes and returns every proxy attached to a leaf.
func (g *Grid) DetachProxies(id NodeID) ([]*qevent.Proxy, error) {
	n, err := g.leaf(id)
	if err != nil {
		return nil, err
	}
	out := n.proxies
	n.proxies = nil

	return out, nil
}

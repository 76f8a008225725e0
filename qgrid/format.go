package qgrid

import (
	"strconv"
	"strings"
)

// RTMFormat renders the tree's nesting shape, e.g. "(1 ((1 (1 1)) 1))".
// An undivided grid renders as "1". The sentinel is not part of the shape.
func (g *Grid) RTMFormat() string {
	var b strings.Builder
	g.writeRTM(&b, g.root)

	return b.String()
}

func (g *Grid) writeRTM(b *strings.Builder, id NodeID) {
	n := &g.nodes[id]
	if n.children == nil {
		b.WriteString(strconv.Itoa(n.weight))
		return
	}
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(n.weight))
	b.WriteString(" (")
	var (
		i int
		c NodeID
	)
	for i, c = range n.children {
		if i > 0 {
			b.WriteByte(' ')
		}
		g.writeRTM(b, c)
	}
	b.WriteString("))")
}

// PrettyRTMFormat renders RTMFormat one node per line, indented by depth.
func (g *Grid) PrettyRTMFormat() string {
	var lines []string
	lines = g.prettyRTM(lines, g.root, 0)

	return strings.Join(lines, "\n")
}

func (g *Grid) prettyRTM(lines []string, id NodeID, depth int) []string {
	indent := strings.Repeat("    ", depth)
	n := &g.nodes[id]
	if n.children == nil {
		return append(lines, indent+strconv.Itoa(n.weight))
	}
	lines = append(lines, indent+"("+strconv.Itoa(n.weight)+" (")
	var c NodeID
	for _, c = range n.children {
		lines = g.prettyRTM(lines, c, depth+1)
	}
	lines[len(lines)-1] += "))"

	return lines
}

// Signature fingerprints shape and assignment: the rtm format followed by
// every leaf's proxies as index@offset, in leaf order. Two grids with equal
// signatures quantize their events identically.
func (g *Grid) Signature() string {
	var b strings.Builder
	b.WriteString(g.RTMFormat())
	var (
		i  int
		id NodeID
	)
	for i, id = range g.Leaves() {
		b.WriteString(" |")
		b.WriteString(strconv.Itoa(i))
		for _, p := range g.nodes[id].proxies {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(p.Index()))
			b.WriteByte('@')
			b.WriteString(p.Offset().RatString())
		}
	}

	return b.String()
}

// Equal reports whether two grids share shape and proxy assignment.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}

	return g.Signature() == other.Signature()
}

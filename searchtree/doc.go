// Package searchtree enumerates the legal ways to subdivide a QGrid.
//
// A SearchTree answers one question: given a leaf's ancestry (its
// qgrid.Parentage), which ratio tuples may it be split by? Expand applies
// that answer to a whole grid for exactly one round:
//
//  1. For every adjacent leaf pair (a, b) where a is divisible, look at a's
//     proxies at/after its start and b's proxies before its start. If b has
//     none before and every proxy on a sits exactly on a's start, a is
//     already aligned. Otherwise a is a candidate, and its options come
//     from the tree.
//  2. No candidates ⇒ no children; the search below this grid ends.
//  3. Otherwise take the Cartesian product of the candidates' options.
//  4. For each combination: clone, SubdivideLeaves, refit the orphans.
//
// Recursion is the caller's job (see package quantize).
//
// Variants:
//
//   - Unweighted: a nested divisor table. A node reached through divisors
//     d1, d2, … may be split evenly by any key of table[d1][d2]…; a nil
//     entry is terminal. Keys must have exactly two positive divisors.
//   - Weighted:   every composition of each divisor into 2..MaxDivisions
//     parts, offered to any node shallower than MaxDepth.
//
// The branching factor is the product of the candidates' option counts.
// A permissive definition combined with many misaligned events grows the
// search space combinatorially; keep definitions tight.
//
// Errors:
//
//   - ErrInvalidDefinition  if a definition fails validation.
//   - ErrNilGrid            if Expand receives a nil grid.
//   - ErrNilTree            if Expand receives a nil tree.
package searchtree

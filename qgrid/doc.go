// Package qgrid implements the QGrid: one candidate discretization of a
// beat as a rhythm tree of integer-weighted nodes, plus a trailing
// "next downbeat" sentinel leaf at offset 1.
//
// What is a QGrid?
//
//	The root starts as a single leaf spanning [0, 1). Subdividing a leaf by
//	ratios (2, 3) replaces it with a container of two leaves weighted 2 and
//	3, i.e. spans 2/5 and 3/5 of the original leaf. Leaves are read
//	depth-first, left to right, and the sentinel is appended last:
//
//	    (1 ((1 (1 1)) 1))        offsets: 0, 1/4, 1/2, 1
//	     └─┬──────────┘
//	       root: weights 1:1, first half split again 1:1
//
// Event proxies (qevent.Proxy) attach to the leaf whose start offset is
// nearest to their normalized offset. The grid's distance is the mean
// absolute deviation between proxies and their leaves' start offsets and
// is the fitness signal the search minimizes.
//
// Representation:
//
//	Nodes live in an arena addressed by NodeID. Parent links are indices,
//	so Clone is a flat slice copy plus per-node slice copies. Subdividing a
//	leaf turns that same node into a container in place, so its ID stays
//	valid. Regrouping is the only removal: the children of a collapsed
//	container become unknown IDs (ErrUnknownNode, zero-value accessors).
//
// Complexity (n = nodes, k = proxies):
//
//   - Leaves, Offsets:      O(n)
//   - FitQEvents:           O(n + k·log n)
//   - Distance:             O(n + k)
//   - SubdivideLeaves:      O(n·m) for m subdivisions
//   - Clone:                O(n + k)
//
// Errors:
//
//   - ErrUnknownNode          if a NodeID is not part of the grid.
//   - ErrNotLeaf              if a container is passed where a leaf is required.
//   - ErrSentinelSubdivision  if the next-downbeat leaf is subdivided.
//   - ErrInvalidRatios        if subdivision ratios are empty or non-positive.
//   - ErrLeafIndexOutOfRange  if a batch subdivision names a missing leaf.
package qgrid

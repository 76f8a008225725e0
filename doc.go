// Package nauert quantizes free, non-metrical onsets into notatable,
// nested tuplet rhythms.
//
// 🚀 What does it do?
//
//	Given attack points in exact milliseconds (e.g. captured from a live
//	performance), nauert finds, beat by beat, the simplest nested
//	subdivision whose leaf onsets best approximate the input:
//
//	  onsets (ms):   0     490   1000
//	  beat 0:        (1 (1 1))    events near 0 and 1/2 of the beat
//
// ✨ How?
//
//   - qevent/    : events, validated sequences, beat-relative proxies
//   - qgrid/     : the candidate rhythm tree (arena-backed), fitting & distance
//   - searchtree/: which subdivisions are legal where (Nauert's table or
//     weighted compositions), one expansion round at a time
//   - quantize/  : per-beat exhaustive search jobs, serial/parallel
//     handlers, the distance heuristic, and the Quantize pipeline
//   - cmd/       : `nauert quantize` and `nauert serve`
//
// All offsets are math/big.Rat: no rounding error, however deep the nesting.
//
//	go get github.com/katalvlaran/nauert
package nauert

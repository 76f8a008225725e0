// Package qevent defines the input side of rhythm quantization: timestamped
// attack points (QEvents), validated event sequences, and the beat-relative
// proxies through which the search engine sees them.
//
// 🚀 What is a QEvent?
//
//	A QEvent is an onset measured in exact milliseconds. It is one of:
//	  • Pitched : carries one or more pitch values
//	  • Silent  : a rest onset
//	  • Terminal: closes a sequence; carries no content
//
// A Sequence is a non-empty run of Pitched/Silent events followed by
// exactly one Terminal event, with non-decreasing offsets starting at or
// after zero. Factories build sequences from raw offsets, signed durations,
// (duration, pitches) pairs, or tempo-scaled note values.
//
// A Proxy re-expresses an event's absolute offset as a fraction in [0, 1]
// of one beat's span:
//
//	normalized = (event.offset − beatStart) / (beatEnd − beatStart)
//
// All arithmetic uses math/big.Rat. Offsets never pass through floating
// point, so deep subdivisions accumulate no rounding error.
//
// Errors:
//
//   - ErrNegativeOffset   if an event offset is below zero.
//   - ErrNoPitches        if a pitched event is built without pitches.
//   - ErrInvalidSequence  if a sequence violates ordering or shape rules.
//   - ErrZeroDuration     if a duration-based factory receives a zero duration.
//   - ErrInvalidTempo     if a tempo has a non-positive rate or reference.
//   - ErrNilEvent         if a proxy is built over a nil event.
//   - ErrProxyOutOfRange  if a proxy offset falls outside [0, 1] or the span.
//   - ErrInvalidSpan      if a proxy span is empty or inverted.
package qevent

package qevent

import (
	"fmt"
	"math/big"
)

// Sequence is an immutable, validated list of events closed by a Terminal.
type Sequence struct {
	events []*Event
}

// NewSequence validates events and wraps them in a Sequence.
//
// Contract:
//   - len(events) > 1.
//   - events[:len-1] are Pitched or Silent; the last event is Terminal.
//   - offsets are non-decreasing and the first offset is ≥ 0.
//
// Errors: ErrInvalidSequence wrapped with the first violation found.
//
// Complexity: O(n).
func NewSequence(events []*Event) (*Sequence, error) {
	if err := validateSequence(events); err != nil {
		return nil, err
	}

	return &Sequence{events: append([]*Event(nil), events...)}, nil
}

// validateSequence checks the shape and ordering rules of NewSequence.
func validateSequence(events []*Event) error {
	if len(events) < 2 {
		return fmt.Errorf("%w: need at least one event and a terminal, got %d", ErrInvalidSequence, len(events))
	}
	var (
		i    int
		e    *Event
		last = len(events) - 1
	)
	for i, e = range events {
		if e == nil {
			return fmt.Errorf("%w: nil event at %d", ErrInvalidSequence, i)
		}
		if i < last && e.kind == Terminal {
			return fmt.Errorf("%w: terminal event at %d before end", ErrInvalidSequence, i)
		}
		if i == last && e.kind != Terminal {
			return fmt.Errorf("%w: last event is %s, want terminal", ErrInvalidSequence, e.kind)
		}
		if i == 0 && e.offset.Sign() < 0 {
			return fmt.Errorf("%w: first offset %s is negative", ErrInvalidSequence, e.offset.RatString())
		}
		if i > 0 && e.cmpOffset(events[i-1].offset) < 0 {
			return fmt.Errorf("%w: offset at %d decreases (%s < %s)",
				ErrInvalidSequence, i, e.offset.RatString(), events[i-1].offset.RatString())
		}
	}

	return nil
}

// Events returns a copy of the event list; the events themselves are shared.
func (s *Sequence) Events() []*Event { return append([]*Event(nil), s.events...) }

// Len returns the number of events including the terminal.
func (s *Sequence) Len() int { return len(s.events) }

// At returns the i-th event.
func (s *Sequence) At(i int) *Event { return s.events[i] }

// Duration returns the terminal offset, i.e. the total span in milliseconds.
func (s *Sequence) Duration() *big.Rat { return s.events[len(s.events)-1].Offset() }

// FromMillisecondOffsets builds a sequence with a pitched event (pitch 0) at
// every offset but the last, and a terminal at the last.
//
// Errors: ErrInvalidSequence, ErrNegativeOffset.
func FromMillisecondOffsets(offsets []*big.Rat) (*Sequence, error) {
	if len(offsets) < 2 {
		return nil, fmt.Errorf("%w: need at least two offsets", ErrInvalidSequence)
	}
	events := make([]*Event, 0, len(offsets))
	var (
		i   int
		e   *Event
		err error
	)
	for i = 0; i < len(offsets)-1; i++ {
		if e, err = NewPitched(offsets[i], []float64{0}, WithIndex(i)); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if e, err = NewTerminal(offsets[len(offsets)-1]); err != nil {
		return nil, err
	}

	return NewSequence(append(events, e))
}

// FromMillisecondDurations builds a sequence from signed durations.
// A positive duration yields a pitched event (pitch 0), a negative one a
// silence; offsets are the running sums of absolute durations. When
// fuseSilences is set, consecutive negative durations merge into one rest.
//
// Errors: ErrZeroDuration, ErrInvalidSequence.
func FromMillisecondDurations(durations []*big.Rat, fuseSilences bool) (*Sequence, error) {
	if err := checkNonZero(durations); err != nil {
		return nil, err
	}
	if fuseSilences {
		durations = fuseNegative(durations)
	}

	return fromSignedDurations(durations)
}

// FromMillisecondPitchPairs builds a sequence from (duration, pitches) pairs.
// Durations must be positive. Pairs with no pitches are silences, and runs
// of consecutive silences are always fused into a single rest.
//
// Errors: ErrZeroDuration, ErrInvalidSequence.
func FromMillisecondPitchPairs(pairs []PitchPair) (*Sequence, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pitch pairs", ErrInvalidSequence)
	}
	var (
		grouped []PitchPair
		p       PitchPair
		n       int
	)
	for _, p = range pairs {
		if p.Duration == nil || p.Duration.Sign() <= 0 {
			return nil, fmt.Errorf("%w: pitch pair duration %v", ErrZeroDuration, p.Duration)
		}
		n = len(grouped)
		if len(p.Pitches) == 0 && n > 0 && len(grouped[n-1].Pitches) == 0 {
			grouped[n-1].Duration = new(big.Rat).Add(grouped[n-1].Duration, p.Duration)
			continue
		}
		grouped = append(grouped, PitchPair{Duration: new(big.Rat).Set(p.Duration), Pitches: p.Pitches})
	}

	events := make([]*Event, 0, len(grouped)+1)
	offset := new(big.Rat)
	var (
		i   int
		e   *Event
		err error
	)
	for i, p = range grouped {
		if len(p.Pitches) == 0 {
			e, err = NewSilent(offset, WithIndex(i))
		} else {
			e, err = NewPitched(offset, p.Pitches, WithIndex(i))
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		offset.Add(offset, p.Duration)
	}
	if e, err = NewTerminal(offset); err != nil {
		return nil, err
	}

	return NewSequence(append(events, e))
}

// FromTempoScaledDurations builds a sequence from signed note durations
// (fractions of a whole note) played at tempo. Negative durations are
// silences; consecutive silences are fused.
//
// Errors: ErrInvalidTempo, ErrZeroDuration, ErrInvalidSequence.
func FromTempoScaledDurations(durations []*big.Rat, tempo Tempo) (*Sequence, error) {
	if err := tempo.Validate(); err != nil {
		return nil, err
	}
	if err := checkNonZero(durations); err != nil {
		return nil, err
	}
	fused := fuseNegative(durations)
	ms := make([]*big.Rat, len(fused))
	var i int
	for i = range fused {
		ms[i] = tempo.DurationToMilliseconds(fused[i])
	}

	return fromSignedDurations(ms)
}

// Validate reports ErrInvalidTempo unless both fields are positive.
func (t Tempo) Validate() error {
	if t.ReferenceDuration == nil || t.ReferenceDuration.Sign() <= 0 {
		return fmt.Errorf("%w: reference duration %v", ErrInvalidTempo, t.ReferenceDuration)
	}
	if t.UnitsPerMinute == nil || t.UnitsPerMinute.Sign() <= 0 {
		return fmt.Errorf("%w: units per minute %v", ErrInvalidTempo, t.UnitsPerMinute)
	}

	return nil
}

// DurationToMilliseconds converts a note value (fraction of a whole note)
// to milliseconds; the sign of d is preserved. The tempo must be valid.
func (t Tempo) DurationToMilliseconds(d *big.Rat) *big.Rat {
	// ms = d · 60000 / (units per minute · reference duration)
	den := new(big.Rat).Mul(t.UnitsPerMinute, t.ReferenceDuration)
	ms := new(big.Rat).Mul(d, big.NewRat(60000, 1))

	return ms.Quo(ms, den)
}

// fromSignedDurations lays out non-zero signed durations back to back.
func fromSignedDurations(durations []*big.Rat) (*Sequence, error) {
	if len(durations) == 0 {
		return nil, fmt.Errorf("%w: no durations", ErrInvalidSequence)
	}
	events := make([]*Event, 0, len(durations)+1)
	offset := new(big.Rat)
	var (
		i   int
		d   *big.Rat
		e   *Event
		err error
	)
	for i, d = range durations {
		if d.Sign() < 0 {
			e, err = NewSilent(offset, WithIndex(i))
		} else {
			e, err = NewPitched(offset, []float64{0}, WithIndex(i))
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		offset.Add(offset, new(big.Rat).Abs(d))
	}
	if e, err = NewTerminal(offset); err != nil {
		return nil, err
	}

	return NewSequence(append(events, e))
}

func checkNonZero(durations []*big.Rat) error {
	var (
		i int
		d *big.Rat
	)
	for i, d = range durations {
		if d == nil || d.Sign() == 0 {
			return fmt.Errorf("%w: duration %d", ErrZeroDuration, i)
		}
	}

	return nil
}

// fuseNegative sums runs of consecutive negative values; the input is not modified.
func fuseNegative(durations []*big.Rat) []*big.Rat {
	out := make([]*big.Rat, 0, len(durations))
	var (
		d *big.Rat
		n int
	)
	for _, d = range durations {
		n = len(out)
		if d.Sign() < 0 && n > 0 && out[n-1].Sign() < 0 {
			out[n-1].Add(out[n-1], d)
			continue
		}
		out = append(out, new(big.Rat).Set(d))
	}

	return out
}

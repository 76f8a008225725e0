package qevent

import (
	"fmt"
	"math/big"
)

// NewPitched builds a pitched event at offset with the given pitches.
//
// Errors: ErrNegativeOffset, ErrNoPitches.
func NewPitched(offset *big.Rat, pitches []float64, opts ...Option) (*Event, error) {
	if len(pitches) == 0 {
		return nil, ErrNoPitches
	}
	e, err := newEvent(Pitched, offset, opts)
	if err != nil {
		return nil, err
	}
	e.pitches = append([]float64(nil), pitches...)

	return e, nil
}

// NewSilent builds a rest onset at offset.
//
// Errors: ErrNegativeOffset.
func NewSilent(offset *big.Rat, opts ...Option) (*Event, error) {
	return newEvent(Silent, offset, opts)
}

// NewTerminal builds the end-of-sequence marker at offset.
// Terminal events carry no pitches, index or attachments.
//
// Errors: ErrNegativeOffset.
func NewTerminal(offset *big.Rat) (*Event, error) {
	return newEvent(Terminal, offset, nil)
}

func newEvent(kind Kind, offset *big.Rat, opts []Option) (*Event, error) {
	if offset == nil || offset.Sign() < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeOffset, offset)
	}
	e := &Event{kind: kind, offset: new(big.Rat).Set(offset)}
	var opt Option
	for _, opt = range opts {
		opt(e)
	}

	return e, nil
}

// Kind reports the event variant.
func (e *Event) Kind() Kind { return e.kind }

// Offset returns a copy of the absolute offset in milliseconds.
func (e *Event) Offset() *big.Rat { return new(big.Rat).Set(e.offset) }

// Index returns the disambiguating index (0 when unset).
func (e *Event) Index() int { return e.index }

// Pitches returns a copy of the pitch list; empty for silent and terminal events.
func (e *Event) Pitches() []float64 { return append([]float64(nil), e.pitches...) }

// Attachments returns a copy of the opaque payload list.
func (e *Event) Attachments() []any { return append([]any(nil), e.attachments...) }

// cmpOffset compares the event offset against x without copying.
func (e *Event) cmpOffset(x *big.Rat) int { return e.offset.Cmp(x) }

// String renders the event as kind@offset for diagnostics.
func (e *Event) String() string {
	return fmt.Sprintf("%s@%s", e.kind, e.offset.RatString())
}

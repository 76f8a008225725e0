package qevent

import (
	"errors"
	"math/big"
)

// Sentinel errors for event, sequence and proxy construction.
var (
	// ErrNegativeOffset is returned when an event offset is below zero.
	ErrNegativeOffset = errors.New("qevent: offset must be non-negative")

	// ErrNoPitches is returned when a pitched event has an empty pitch list.
	ErrNoPitches = errors.New("qevent: pitched event requires at least one pitch")

	// ErrInvalidSequence is returned when a sequence breaks its shape or ordering contract.
	ErrInvalidSequence = errors.New("qevent: invalid event sequence")

	// ErrZeroDuration is returned by duration-based factories for zero-length durations.
	ErrZeroDuration = errors.New("qevent: durations must be non-zero")

	// ErrInvalidTempo is returned for tempos with a non-positive rate or reference duration.
	ErrInvalidTempo = errors.New("qevent: invalid tempo")

	// ErrNilEvent is returned when a proxy is constructed over a nil event.
	ErrNilEvent = errors.New("qevent: event is nil")

	// ErrProxyOutOfRange is returned when a proxy offset leaves [0, 1] or its stated span.
	ErrProxyOutOfRange = errors.New("qevent: proxy offset out of range")

	// ErrInvalidSpan is returned when a proxy span has min >= max.
	ErrInvalidSpan = errors.New("qevent: invalid proxy span")
)

// Kind tags the variant of an Event.
type Kind int

const (
	Pitched  Kind = iota // Pitched: an attack with one or more pitches.
	Silent               // Silent: a rest onset.
	Terminal             // Terminal: end-of-sequence marker.
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case Pitched:
		return "pitched"
	case Silent:
		return "silent"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Event is an immutable attack point at an absolute offset in milliseconds.
// Construct it with NewPitched, NewSilent or NewTerminal.
type Event struct {
	kind        Kind
	offset      *big.Rat
	index       int
	pitches     []float64
	attachments []any
}

// Option configures optional Event fields at construction time.
type Option func(*Event)

// WithIndex sets the disambiguating index used to order co-located events.
// Events without an explicit index sort as index 0.
func WithIndex(i int) Option {
	return func(e *Event) {
		e.index = i
	}
}

// WithAttachments stores opaque payloads carried through quantization untouched.
func WithAttachments(a ...any) Option {
	return func(e *Event) {
		e.attachments = append([]any(nil), a...)
	}
}

// PitchPair is a (duration, pitches) pair consumed by FromMillisecondPitchPairs.
// An empty Pitches slice denotes a silence.
type PitchPair struct {
	Duration *big.Rat
	Pitches  []float64
}

// Tempo relates a reference note value to a rate, e.g. quarter = 60 is
// Tempo{ReferenceDuration: 1/4, UnitsPerMinute: 60}.
type Tempo struct {
	ReferenceDuration *big.Rat
	UnitsPerMinute    *big.Rat
}

package quantize

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Sentinel errors for quantization.
var (
	// ErrNilSequence is returned when Quantize receives a nil sequence.
	ErrNilSequence = errors.New("quantize: sequence is nil")

	// ErrNilSearchTree is returned when a job or schema has no search tree.
	ErrNilSearchTree = errors.New("quantize: search tree is nil")

	// ErrInvalidSchema is returned for non-positive beatspans or invalid tempos.
	ErrInvalidSchema = errors.New("quantize: invalid beat schema")

	// ErrNoBeats is returned when a heuristic receives no beats.
	ErrNoBeats = errors.New("quantize: no beats to select from")

	// ErrNilBeat is returned when a heuristic receives a nil beat.
	ErrNilBeat = errors.New("quantize: beat is nil")

	// ErrInvalidOption is returned for inconsistent options.
	ErrInvalidOption = errors.New("quantize: invalid option")
)

// Option configures Quantize via functional arguments.
type Option func(*Options)

// Options holds the collaborators of one Quantize run.
type Options struct {
	// Schema partitions the sequence into beats. Default: DefaultBeatSchema().
	Schema BeatSchema

	// Handler executes the per-beat jobs. Default: SerialHandler.
	Handler JobHandler

	// Heuristic picks one grid per beat. Default: DistanceHeuristic.
	Heuristic Heuristic

	// Logger receives debug-level progress. Default: a discarding logger.
	Logger logrus.FieldLogger
}

// DefaultOptions returns Options with:
//   - DefaultBeatSchema (quarter-note beats, quarter = 60, Nauert's tree)
//   - serial job execution
//   - DistanceHeuristic
//   - a logger that discards output
func DefaultOptions() Options {
	return Options{
		Schema:    DefaultBeatSchema(),
		Handler:   SerialHandler{},
		Heuristic: DistanceHeuristic{},
		Logger:    discardLogger(),
	}
}

// WithSchema sets the beat schema.
func WithSchema(s BeatSchema) Option {
	return func(o *Options) {
		o.Schema = s
	}
}

// WithHandler sets the job handler. Passing nil has no effect.
func WithHandler(h JobHandler) Option {
	return func(o *Options) {
		if h != nil {
			o.Handler = h
		}
	}
}

// WithHeuristic sets the grid selection strategy. Passing nil has no effect.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h != nil {
			o.Heuristic = h
		}
	}
}

// WithWorkers selects ParallelHandler with n workers, or SerialHandler
// when n == 1. n < 1 is reported as ErrInvalidOption by Quantize.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n == 1 {
			o.Handler = SerialHandler{}
			return
		}
		o.Handler = ParallelHandler{Workers: n}
	}
}

// WithLogger sets the logger. Passing nil has no effect.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

package quantize

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/qgrid"
)

// Result is the outcome of one Quantize run.
type Result struct {
	// RunID correlates logs and spans of this run.
	RunID string

	// Beats holds every beat in time order with its selected grid.
	Beats []*TargetBeat
}

// RTMFormats returns the selected grid's rtm format for every beat.
func (r *Result) RTMFormats() []string {
	out := make([]string, len(r.Beats))
	var i int
	for i = range r.Beats {
		out[i] = r.Beats[i].grid.RTMFormat()
	}

	return out
}

// Quantize partitions seq into beats, searches every non-empty beat,
// selects one grid per beat, moves events resting on a beat's next
// downbeat into the following beat, and sorts each leaf's events by index.
//
// Errors: ErrNilSequence, ErrInvalidOption, schema errors, job errors,
// heuristic errors, and context errors.
func Quantize(ctx context.Context, seq *qevent.Sequence, opts ...Option) (res *Result, err error) {
	if seq == nil {
		return nil, ErrNilSequence
	}
	o := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&o)
	}
	if err = bindLogger(&o); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	log := o.Logger.WithField("run_id", runID)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "quantize.Quantize",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("events", seq.Len()),
			attribute.String("search_tree", searchTreeName(o.Schema)),
		),
	)
	defer func() {
		runsTotal.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.WithError(err).Debug("quantize failed")
		}
		span.End()
	}()

	beats, err := o.Schema.Partition(seq)
	if err != nil {
		return nil, err
	}
	runBeats.Observe(float64(len(beats)))
	log.WithFields(logrus.Fields{"events": seq.Len(), "beats": len(beats)}).Debug("quantize started")

	var (
		jobs []*Job
		job  *Job
		i    int
	)
	for i = range beats {
		if job, err = beats[i].Job(i); err != nil {
			return nil, err
		}
		if job != nil {
			jobs = append(jobs, job)
		}
	}

	if jobs, err = o.Handler.Handle(ctx, jobs); err != nil {
		return nil, err
	}
	for _, job = range jobs {
		beats[job.ID()].grids = job.Grids()
	}

	if err = o.Heuristic.Select(beats); err != nil {
		return nil, err
	}
	if err = shiftDownbeatProxies(beats); err != nil {
		return nil, err
	}
	for i = range beats {
		beats[i].grid.SortQEventsByIndex()
	}

	log.WithFields(logrus.Fields{
		"jobs":     len(jobs),
		"duration": time.Since(start),
	}).Debug("quantize complete")
	span.SetAttributes(attribute.Int("beats", len(beats)), attribute.Int("jobs", len(jobs)))
	span.SetStatus(codes.Ok, "quantized")

	return &Result{RunID: runID, Beats: beats}, nil
}

// bindLogger validates collaborators and hands the run logger to the
// built-in handlers that have none.
func bindLogger(o *Options) error {
	if o.Handler == nil || o.Heuristic == nil || o.Logger == nil {
		return fmt.Errorf("%w: handler, heuristic and logger are required", ErrInvalidOption)
	}
	switch h := o.Handler.(type) {
	case SerialHandler:
		if h.Logger == nil {
			h.Logger = o.Logger
			o.Handler = h
		}
	case ParallelHandler:
		if h.Workers < 1 {
			return fmt.Errorf("%w: workers %d", ErrInvalidOption, h.Workers)
		}
		if h.Logger == nil {
			h.Logger = o.Logger
			o.Handler = h
		}
	}

	return o.Schema.Validate()
}

func searchTreeName(s BeatSchema) string {
	if s.SearchTree == nil {
		return ""
	}

	return s.SearchTree.Name()
}

// shiftDownbeatProxies moves proxies resting on beat i's next-downbeat
// sentinel onto the first leaf of beat i+1, re-expressed at offset 0.
// Proxies on the last beat's sentinel stay where they are.
func shiftDownbeatProxies(beats []*TargetBeat) error {
	var (
		i       int
		one     *qgrid.Grid
		two     *qgrid.Grid
		moved   []*qevent.Proxy
		shifted []*qevent.Proxy
		p       *qevent.Proxy
		np      *qevent.Proxy
		err     error
	)
	for i = 0; i+1 < len(beats); i++ {
		one, two = beats[i].grid, beats[i+1].grid
		if moved, err = one.DetachProxies(one.NextDownbeat()); err != nil {
			return err
		}
		if len(moved) == 0 {
			continue
		}
		shifted = shifted[:0]
		for _, p = range moved {
			if np, err = qevent.NewProxy(p.Event(), new(big.Rat)); err != nil {
				return err
			}
			shifted = append(shifted, np)
		}
		if err = two.AttachProxies(two.Leaves()[0], shifted...); err != nil {
			return err
		}
	}

	return nil
}

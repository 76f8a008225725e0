package quantize

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/qgrid"
	"github.com/katalvlaran/nauert/searchtree"
)

const tracerName = "github.com/katalvlaran/nauert/quantize"

// Job is one beat's unit of work: a search tree, the beat's proxies and,
// once executed, every grid the search reached. Jobs share no mutable
// state and can run on any goroutine.
type Job struct {
	id       int
	tree     searchtree.SearchTree
	proxies  []*qevent.Proxy
	grids    []*qgrid.Grid
	executed bool
}

// NewJob builds an unexecuted job. id is carried through dispatch so that
// results can be put back in beat order.
//
// Errors: ErrNilSearchTree.
func NewJob(id int, tree searchtree.SearchTree, proxies []*qevent.Proxy) (*Job, error) {
	if tree == nil {
		return nil, ErrNilSearchTree
	}

	return &Job{id: id, tree: tree, proxies: append([]*qevent.Proxy(nil), proxies...)}, nil
}

// ID returns the job identifier.
func (j *Job) ID() int { return j.id }

// SearchTree returns the job's search tree.
func (j *Job) SearchTree() searchtree.SearchTree { return j.tree }

// Proxies returns a copy of the job's proxies.
func (j *Job) Proxies() []*qevent.Proxy { return append([]*qevent.Proxy(nil), j.proxies...) }

// Executed reports whether Execute has completed successfully.
func (j *Job) Executed() bool { return j.executed }

// Grids returns a copy of the discovered grids; nil before execution.
func (j *Job) Grids() []*qgrid.Grid { return append([]*qgrid.Grid(nil), j.grids...) }

// Execute searches exhaustively from the trivial grid:
//
//  1. Fit all proxies onto qgrid.New() and push it on a stack.
//  2. Pop a grid, record it, push searchtree.Expand's children.
//  3. Repeat until the stack is empty.
//  4. Regroup every recorded grid's unnecessary divisions.
//
// Calling Execute again discards earlier results. The context is checked
// before every pop; on cancellation the previous results are kept.
func (j *Job) Execute(ctx context.Context) (err error) {
	start := time.Now()
	name := j.tree.Name()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "quantize.Job.Execute",
		trace.WithAttributes(
			attribute.Int("job_id", j.id),
			attribute.Int("proxies", len(j.proxies)),
			attribute.String("search_tree", name),
		),
	)
	defer func() {
		jobsTotal.WithLabelValues(name, resultLabel(err)).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	seed := qgrid.New()
	seed.FitQEvents(j.proxies)

	var (
		stack    = []*qgrid.Grid{seed}
		found    []*qgrid.Grid
		g        *qgrid.Grid
		children []*qgrid.Grid
	)
	for len(stack) > 0 {
		if err = ctx.Err(); err != nil {
			return err
		}
		g = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if children, err = searchtree.Expand(j.tree, g); err != nil {
			return fmt.Errorf("quantize: job %d: %w", j.id, err)
		}
		stack = append(stack, children...)
		found = append(found, g)
	}
	for _, g = range found {
		g.RegroupLeavesWithUnnecessaryDivisions()
	}

	j.grids = found
	j.executed = true
	jobGrids.WithLabelValues(name).Observe(float64(len(found)))
	span.SetAttributes(attribute.Int("grids", len(found)))

	return nil
}

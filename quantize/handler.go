package quantize

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// JobHandler executes jobs and returns them, each with its grids filled
// in, ordered by job ID.
type JobHandler interface {
	Handle(ctx context.Context, jobs []*Job) ([]*Job, error)
}

// SerialHandler runs jobs one after another on the calling goroutine.
type SerialHandler struct {
	// Logger receives one debug line per job; nil discards.
	Logger logrus.FieldLogger
}

var _ JobHandler = SerialHandler{}

// Handle implements JobHandler.
func (h SerialHandler) Handle(ctx context.Context, jobs []*Job) ([]*Job, error) {
	log := loggerOrDiscard(h.Logger)
	var (
		j   *Job
		err error
	)
	for _, j = range jobs {
		if err = j.Execute(ctx); err != nil {
			return nil, err
		}
		logJob(log, j)
	}

	return sortedByID(jobs), nil
}

// ParallelHandler fans jobs out to at most Workers goroutines and gathers
// them back in ID order. The first failing job cancels the rest.
type ParallelHandler struct {
	// Workers bounds concurrency; must be ≥ 1.
	Workers int

	// Logger receives one debug line per job; nil discards.
	Logger logrus.FieldLogger
}

var _ JobHandler = ParallelHandler{}

// Handle implements JobHandler.
func (h ParallelHandler) Handle(ctx context.Context, jobs []*Job) ([]*Job, error) {
	if h.Workers < 1 {
		return nil, fmt.Errorf("%w: workers %d", ErrInvalidOption, h.Workers)
	}
	log := loggerOrDiscard(h.Logger)
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(h.Workers)
	var j *Job
	for _, j = range jobs {
		job := j
		grp.Go(func() error {
			if err := job.Execute(gctx); err != nil {
				return err
			}
			logJob(log, job)

			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return sortedByID(jobs), nil
}

func sortedByID(jobs []*Job) []*Job {
	out := append([]*Job(nil), jobs...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].id < out[b].id })

	return out
}

func logJob(log logrus.FieldLogger, j *Job) {
	log.WithFields(logrus.Fields{
		"job_id":      j.id,
		"proxies":     len(j.proxies),
		"grids":       len(j.grids),
		"search_tree": j.tree.Name(),
	}).Debug("job executed")
}

func loggerOrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return discardLogger()
	}

	return l
}

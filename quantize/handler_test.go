package quantize_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nauert/quantize"
)

// buildJobs partitions a fixed sequence and returns one job per non-empty beat.
func buildJobs(t *testing.T) []*quantize.Job {
	t.Helper()
	schema := quantize.DefaultBeatSchema()
	schema.SearchTree = smallTree(t)
	beats, err := schema.Partition(sequenceAt(t, 0, 130, 470, 1000, 1333, 1667, 2250, 2500, 3000))
	require.NoError(t, err)

	var jobs []*quantize.Job
	for i, b := range beats {
		job, err := b.Job(i)
		require.NoError(t, err)
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	require.Len(t, jobs, 4)

	return jobs
}

func TestHandlers_SerialMatchesParallel(t *testing.T) {
	serial, err := quantize.SerialHandler{}.Handle(context.Background(), buildJobs(t))
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 8} {
		parallel, err := quantize.ParallelHandler{Workers: workers}.Handle(context.Background(), buildJobs(t))
		require.NoError(t, err)
		require.Len(t, parallel, len(serial))

		for i := range serial {
			assert.Equal(t, serial[i].ID(), parallel[i].ID())
			assert.True(t, parallel[i].Executed())
			assert.ElementsMatch(t, signaturesOf(serial[i].Grids()), signaturesOf(parallel[i].Grids()),
				"workers=%d job=%d", workers, serial[i].ID())
		}
	}
}

func TestHandlers_OrderByID(t *testing.T) {
	jobs := buildJobs(t)
	reversed := make([]*quantize.Job, len(jobs))
	for i, j := range jobs {
		reversed[len(jobs)-1-i] = j
	}

	out, err := quantize.ParallelHandler{Workers: 3}.Handle(context.Background(), reversed)
	require.NoError(t, err)
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i-1].ID(), out[i].ID())
	}
}

func TestParallelHandler_InvalidWorkers(t *testing.T) {
	_, err := quantize.ParallelHandler{}.Handle(context.Background(), buildJobs(t))
	assert.ErrorIs(t, err, quantize.ErrInvalidOption)
}

func TestHandlers_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quantize.SerialHandler{}.Handle(ctx, buildJobs(t))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = quantize.ParallelHandler{Workers: 2}.Handle(ctx, buildJobs(t))
	assert.ErrorIs(t, err, context.Canceled)
}

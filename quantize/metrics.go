package quantize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// jobsTotal counts executed jobs by search tree and outcome.
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nauert_jobs_total",
		Help: "Total quantization jobs executed",
	}, []string{"search_tree", "result"})

	// jobGrids tracks how many grids one job discovers.
	jobGrids = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nauert_job_grids",
		Help:    "Grids discovered per quantization job",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1 to 8192
	}, []string{"search_tree"})

	// jobDuration tracks job execution latency.
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nauert_job_duration_seconds",
		Help:    "Quantization job duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	}, []string{"search_tree"})

	// runsTotal counts Quantize runs by outcome.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nauert_quantize_runs_total",
		Help: "Total quantize runs by result",
	}, []string{"result"})

	// runBeats tracks beats per run.
	runBeats = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nauert_quantize_beats",
		Help:    "Beats per quantize run",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
	})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkerMetrics records per-job outcomes for the sync worker loop.
type WorkerMetrics struct {
	duration  *prometheus.HistogramVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewWorkerMetrics registers the worker metrics on the provided registerer.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		return &WorkerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_job_duration_seconds",
		Help:    "Duration of worker job runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	successes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_job_success_total",
		Help: "Completed worker job runs.",
	}, []string{"job"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_job_failure_total",
		Help: "Failed worker job runs.",
	}, []string{"job"})
	reg.MustRegister(duration, successes, failures)
	return &WorkerMetrics{duration: duration, successes: successes, failures: failures}
}

// ObserveDuration records one job run's duration.
func (w *WorkerMetrics) ObserveDuration(job string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(job).Observe(duration.Seconds())
}

// IncSuccess counts a completed run.
func (w *WorkerMetrics) IncSuccess(job string) {
	if w == nil || w.successes == nil {
		return
	}
	w.successes.WithLabelValues(job).Inc()
}

// IncFailure counts a failed run.
func (w *WorkerMetrics) IncFailure(job string) {
	if w == nil || w.failures == nil {
		return
	}
	w.failures.WithLabelValues(job).Inc()
}

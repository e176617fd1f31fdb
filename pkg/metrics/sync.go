package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records pass-level counters for the order synchronizer.
type SyncMetrics struct {
	passDuration *prometheus.HistogramVec
	records      *prometheus.CounterVec
	failures     *prometheus.CounterVec
	passAborts   prometheus.Counter
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	passDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_pass_duration_seconds",
		Help:    "Duration of sync passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_total",
		Help: "Records synced successfully, labelled by direction.",
	}, []string{"direction"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_record_failures_total",
		Help: "Per-record failures logged and skipped.",
	}, []string{"direction"})
	passAborts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_pass_aborts_total",
		Help: "Sync passes aborted by the reserved payment-required signal.",
	})
	reg.MustRegister(passDuration, records, failures, passAborts)
	return &SyncMetrics{
		passDuration: passDuration,
		records:      records,
		failures:     failures,
		passAborts:   passAborts,
	}
}

// ObservePass records the duration for one direction of a sync pass.
func (s *SyncMetrics) ObservePass(direction string, duration time.Duration) {
	if s == nil || s.passDuration == nil {
		return
	}
	s.passDuration.WithLabelValues(normalizeLabel(direction)).Observe(duration.Seconds())
}

// AddRecords counts records synced in the given direction.
func (s *SyncMetrics) AddRecords(direction string, n int) {
	if s == nil || s.records == nil || n <= 0 {
		return
	}
	s.records.WithLabelValues(normalizeLabel(direction)).Add(float64(n))
}

// IncFailure counts one skipped record.
func (s *SyncMetrics) IncFailure(direction string) {
	if s == nil || s.failures == nil {
		return
	}
	s.failures.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncPassAbort counts a pass aborted by the reserved signal.
func (s *SyncMetrics) IncPassAbort() {
	if s == nil || s.passAborts == nil {
		return
	}
	s.passAborts.Inc()
}

func normalizeLabel(direction string) string {
	if direction == "" {
		return "unknown"
	}
	return direction
}

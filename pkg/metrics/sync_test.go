package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilReceiverAndNilRegistererAreSafe(t *testing.T) {
	var m *SyncMetrics
	m.ObservePass("inbound", time.Second)
	m.AddRecords("inbound", 3)
	m.IncFailure("outbound")
	m.IncPassAbort()

	unregistered := NewSyncMetrics(nil)
	unregistered.ObservePass("inbound", time.Second)
	unregistered.AddRecords("outbound", 1)
	unregistered.IncFailure("inbound")
	unregistered.IncPassAbort()
}

func TestRegistersOnProvidedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)
	m.ObservePass("inbound", 250*time.Millisecond)
	m.AddRecords("inbound", 2)
	m.IncFailure("outbound")
	m.IncPassAbort()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestAddRecordsIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)
	m.AddRecords("inbound", 0)
	m.AddRecords("inbound", -2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == "sync_records_total" && len(fam.GetMetric()) != 0 {
			t.Fatal("expected no samples for non-positive adds")
		}
	}
}

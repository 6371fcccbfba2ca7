package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()

	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("build sink: %v", err)
	}

	sink.RecordRelease("released")
	sink.RecordRelease("released")
	sink.RecordRelease("NO_PACKAGES_IN_STOCK")
	sink.RecordIntentTransition("accepted")
	sink.RecordPickup()
	sink.RecordSweep(3)

	if got := testutil.ToFloat64(sink.releases.WithLabelValues("released")); got != 2 {
		t.Fatalf("released count = %f, want 2", got)
	}
	if got := testutil.ToFloat64(sink.releases.WithLabelValues("NO_PACKAGES_IN_STOCK")); got != 1 {
		t.Fatalf("failed release count = %f, want 1", got)
	}
	if got := testutil.ToFloat64(sink.transitions.WithLabelValues("accepted")); got != 1 {
		t.Fatalf("transition count = %f, want 1", got)
	}
	if got := testutil.ToFloat64(sink.pickups); got != 1 {
		t.Fatalf("pickup count = %f, want 1", got)
	}
	if got := testutil.ToFloat64(sink.sweepClosed); got != 3 {
		t.Fatalf("sweep count = %f, want 3", got)
	}
}

func TestNewPromSinkReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}

	first.RecordPickup()
	second.RecordPickup()

	if got := testutil.ToFloat64(first.pickups); got != 2 {
		t.Fatalf("pickup count = %f, want shared counter at 2", got)
	}
}

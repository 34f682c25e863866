package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.MessagesReceived.WithLabelValues("telegram").Inc()
	m.MessagesProcessed.WithLabelValues("telegram", OutcomeOK).Inc()
	m.BecknRequests.WithLabelValues("deg:schemes", "search", "ok").Inc()
	m.ActiveSessions.Set(3)

	if got := testutil.ToFloat64(m.MessagesReceived.WithLabelValues("telegram")); got != 1 {
		t.Errorf("MessagesReceived = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActiveSessions); got != 3 {
		t.Errorf("ActiveSessions = %v, want 3", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families, got none")
	}
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	t.Parallel()

	m := NewMetrics(nil)

	// Collectors must remain usable without a registry.
	m.MessagesReceived.WithLabelValues("telegram").Inc()
	m.TradesExecuted.WithLabelValues("auto").Inc()

	if got := testutil.ToFloat64(m.TradesExecuted.WithLabelValues("auto")); got != 1 {
		t.Errorf("TradesExecuted = %v, want 1", got)
	}
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	t.Parallel()

	a := NewMetrics(prometheus.NewRegistry())
	b := NewMetrics(prometheus.NewRegistry())

	a.MessagesReceived.WithLabelValues("telegram").Inc()

	if got := testutil.ToFloat64(b.MessagesReceived.WithLabelValues("telegram")); got != 0 {
		t.Errorf("collectors shared across instances: got %v, want 0", got)
	}
}

func TestSetupTracing_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := SetupTracing(context.Background(), TracingOptions{Enabled: false})
	if err != nil {
		t.Fatalf("SetupTracing() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

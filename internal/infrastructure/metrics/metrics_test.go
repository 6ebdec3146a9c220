package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.MovementsCreated == nil || m.HTTPRequests == nil || m.DBRetries == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.MovementsCreated.WithLabelValues("CREDIT").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.MovementsCreated.WithLabelValues("CREDIT")); got != 1 {
		t.Fatalf("expected 1 credit recorded, got %v", got)
	}
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// Each service builds its own set; two registries must not collide.
	first := New(prometheus.NewRegistry())
	second := New(prometheus.NewRegistry())

	first.AccountsCreated.Inc()

	if got := testutil.ToFloat64(second.AccountsCreated); got != 0 {
		t.Fatalf("registries should be independent, got %v", got)
	}
}

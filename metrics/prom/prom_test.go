package prom

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-gridbase/cache"
)

func TestAdapter(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "gridbase", "cache", nil)

	a.Hit()
	a.Hit()
	a.Miss()
	a.Evict(cache.EvictExpired)
	a.Evict(cache.EvictCapacity)
	a.Evict(cache.EvictCapacity)
	a.Size(7)

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(a.evicts.WithLabelValues("expired")); got != 1 {
		t.Errorf("expired evictions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(a.evicts.WithLabelValues("capacity")); got != 2 {
		t.Errorf("capacity evictions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(a.entries); got != 7 {
		t.Errorf("entries = %v, want 7", got)
	}
}

func TestAdapter_DrivenByMemoryStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "gridbase", "cache", prometheus.Labels{"store": "memory"})
	store := cache.NewMemoryStore(cache.WithMaxSize(1), cache.WithMetrics(a))

	ctx := context.Background()
	if err := store.Set(ctx, "a", 1, 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, _, err := store.Get(ctx, "a"); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if err := store.Set(ctx, "b", 2, 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	if got := testutil.ToFloat64(a.hits); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(a.evicts.WithLabelValues("capacity")); got != 1 {
		t.Errorf("capacity evictions = %v, want 1", got)
	}
}

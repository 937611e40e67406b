package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/data-tales/datasources/internal/cache"
	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/ogc"
	"github.com/data-tales/datasources/internal/pipeline"
	"github.com/data-tales/datasources/internal/registry"
)

const wmsDoc = `<?xml version="1.0"?>
<WMS_Capabilities version="1.3.0">
  <Capability>
    <Layer><Name>warm</Name><Title>Warm layer</Title></Layer>
  </Capability>
</WMS_Capabilities>`

func newWarmStack(t *testing.T, failing *atomic.Bool) (*pipeline.Pipeline, *cache.ResultCache) {
	t.Helper()

	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing != nil && failing.Load() {
			http.Error(w, "down", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(wmsDoc))
	}))
	t.Cleanup(ts.Close)

	reg, err := registry.Build(&registry.File{
		Groups: []registry.GroupConfig{{
			Name: "Test",
			Services: []registry.ServiceConfig{{
				Key: "warm_wms", Label: "Warm", Kind: "wms", URL: ts.URL + "/wms",
			}},
		}},
	})
	if err != nil {
		t.Fatalf("registry.Build() error = %v", err)
	}

	log := logger.New("error", false)
	transport := ogc.NewTransport(ogc.TransportConfig{
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    5 * time.Second,
		MaxBytes:       1 << 20,
		UserAgent:      "test-agent",
	}, log).WithHTTPClient(ts.Client())

	resultCache := cache.New(15*time.Minute, 8)
	p := pipeline.New(reg, ogc.NewNegotiator(transport, 400, log), resultCache, nil, log)
	return p, resultCache
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestPrewarmerWarmsOnStart(t *testing.T) {
	p, resultCache := newWarmStack(t, nil)
	trigger := make(chan struct{}, 1)
	pw := NewPrewarmer(p, resultCache, []string{"warm_wms"}, time.Hour, logger.New("error", false), trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pw.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer pw.Stop()

	if !waitFor(t, 2*time.Second, func() bool { return resultCache.Size() == 1 }) {
		t.Fatalf("cache size = %d, want 1 after the initial warm cycle", resultCache.Size())
	}

	if _, hit := resultCache.Get("warm_wms"); !hit {
		t.Error("warm_wms not cached after warm cycle")
	}
}

func TestPrewarmerManualTrigger(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	p, resultCache := newWarmStack(t, &failing)
	trigger := make(chan struct{}, 1)
	pw := NewPrewarmer(p, resultCache, []string{"warm_wms"}, time.Hour, logger.New("error", false), trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pw.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer pw.Stop()

	// The initial cycle fails against the broken upstream and caches
	// nothing; the manual trigger after recovery fills the cache.
	time.Sleep(100 * time.Millisecond)
	if resultCache.Size() != 0 {
		t.Fatalf("cache size = %d after failed warm, want 0", resultCache.Size())
	}

	failing.Store(false)
	trigger <- struct{}{}

	if !waitFor(t, 2*time.Second, func() bool { return resultCache.Size() == 1 }) {
		t.Fatalf("cache size = %d, want 1 after manual trigger", resultCache.Size())
	}
}

func TestPrewarmerUnknownKeyDoesNotAbortCycle(t *testing.T) {
	p, resultCache := newWarmStack(t, nil)
	trigger := make(chan struct{}, 1)
	pw := NewPrewarmer(p, resultCache, []string{"no_such_key", "warm_wms"}, time.Hour, logger.New("error", false), trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pw.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer pw.Stop()

	if !waitFor(t, 2*time.Second, func() bool { return resultCache.Size() == 1 }) {
		t.Fatal("valid key was not warmed after the unknown key failed")
	}
}

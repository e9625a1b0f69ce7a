package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, "erdos_renyi", 100)
	p.OnGenerateComplete(ctx, "erdos_renyi", 250, time.Second, nil)
	p.OnLayoutStart(ctx, "spring", 100)
	p.OnLayoutComplete(ctx, "spring", time.Second, nil)
	p.OnNormalizeComplete(ctx, false, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/scenes")
	h.OnResponse(ctx, "POST", "/v1/scenes", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}
	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnGenerateComplete(ctx, "barabasi_albert", 300, 2*time.Millisecond, nil)
	h.OnGenerateComplete(ctx, "barabasi_albert", 0, time.Millisecond, errors.New("boom"))
	h.OnLayoutComplete(ctx, "spring", 40*time.Millisecond, nil)
	h.OnNormalizeComplete(ctx, true, time.Microsecond, nil)
	h.OnCacheMiss(ctx, "graph")
	h.OnCacheSet(ctx, "graph", 512)
	h.OnCacheSet(ctx, "graph", 256)
	h.OnCacheHit(ctx, "layout")
	h.OnResponse(ctx, "POST", "/v1/scenes", 200, 50*time.Millisecond)
	h.OnResponse(ctx, "POST", "/v1/scenes", 400, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"generate errors", testutil.ToFloat64(h.stageErrors.WithLabelValues("generate", "barabasi_albert")), 1},
		{"layout errors", testutil.ToFloat64(h.stageErrors.WithLabelValues("layout", "spring")), 0},
		{"degenerate", testutil.ToFloat64(h.degenerate), 1},
		{"cache miss", testutil.ToFloat64(h.cacheEvents.WithLabelValues("graph", "miss")), 1},
		{"cache set", testutil.ToFloat64(h.cacheEvents.WithLabelValues("graph", "set")), 2},
		{"cache bytes", testutil.ToFloat64(h.cacheBytes.WithLabelValues("graph")), 768},
		{"cache hit", testutil.ToFloat64(h.cacheEvents.WithLabelValues("layout", "hit")), 1},
		{"http 200", testutil.ToFloat64(h.httpRequests.WithLabelValues("POST", "/v1/scenes", "200")), 1},
		{"http 400", testutil.ToFloat64(h.httpRequests.WithLabelValues("POST", "/v1/scenes", "400")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if n := testutil.CollectAndCount(h.stageDuration); n != 3 {
		t.Errorf("stage duration series = %d, want 3", n)
	}
	if n := testutil.CollectAndCount(h.generatedEdges); n != 1 {
		t.Errorf("edge histogram series = %d, want 1 (errors are not observed)", n)
	}
}

func TestPrometheusHooksDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewPrometheusHooks(reg)
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

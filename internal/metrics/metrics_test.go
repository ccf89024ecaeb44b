package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakePool struct{ queue, busy int }

func (f fakePool) QueueDepth() int  { return f.queue }
func (f fakePool) BusyWorkers() int { return f.busy }

func TestObserveBeforeInit(t *testing.T) {
	// Collectors are nil until Init runs; observing must not panic.
	if rendersTotal != nil {
		t.Skip("metrics already initialised")
	}
	ObserveRender("single-status", nil, time.Millisecond)
	ObserveEntityFetch(FetchOK, time.Millisecond)
	IncCacheLookup(CacheMiss)
	IncHTTPResponse("status", "200")
}

func TestCounters(t *testing.T) {
	Init(fakePool{queue: 3, busy: 2})

	before := testutil.ToFloat64(rendersTotal.WithLabelValues("fixed-display", ResultError))
	ObserveRender("fixed-display", errors.New("boom"), time.Millisecond)
	if got := testutil.ToFloat64(rendersTotal.WithLabelValues("fixed-display", ResultError)); got != before+1 {
		t.Errorf("error renders = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(cacheLookups.WithLabelValues(CacheHit))
	IncCacheLookup(CacheHit)
	if got := testutil.ToFloat64(cacheLookups.WithLabelValues(CacheHit)); got != before+1 {
		t.Errorf("cache hits = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(entityFetches.WithLabelValues(FetchNotFound))
	ObserveEntityFetch(FetchNotFound, 5*time.Millisecond)
	if got := testutil.ToFloat64(entityFetches.WithLabelValues(FetchNotFound)); got != before+1 {
		t.Errorf("not found fetches = %v, want %v", got, before+1)
	}
}

func TestHandlerExposesPoolGauges(t *testing.T) {
	Init(fakePool{queue: 3, busy: 2})

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"hass_render_render_queue_depth 3",
		"hass_render_render_workers_busy 2",
		"hass_render_renders_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

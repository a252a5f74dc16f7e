package aggregate

import (
	"testing"
	"time"

	"tickcollector/internal/ftxus/memorystore"

	"go.uber.org/zap"
)

type closedBarCall struct {
	symbol  string
	label   string
	minutes int
	closed  Bar
	next    Bar
}

type fakeSink struct {
	closedBars []closedBarCall
	heartbeats []time.Time
}

func (f *fakeSink) ClosedBar(symbol, label string, minutes int, closed, next Bar) {
	f.closedBars = append(f.closedBars, closedBarCall{symbol, label, minutes, closed, next})
}

func (f *fakeSink) Heartbeat(ts time.Time) {
	f.heartbeats = append(f.heartbeats, ts)
}

func newTestRouter(t *testing.T) (*Router, *memorystore.MarketStore, *Registry, *fakeSink) {
	t.Helper()
	start := time.Date(2026, 8, 30, 13, 45, 0, 0, time.UTC)

	markets := memorystore.NewMarketStore()
	markets.Register("BTC/USD")

	registry := NewRegistry()
	registry.Register(NewSeries("BTC/USD", "1m", 1, start))
	registry.Register(NewSeries("BTC/USD", "5m", 5, start))

	sink := &fakeSink{}
	router := NewRouter(markets, registry, sink, 5*time.Second, false, zap.NewNop())
	return router, markets, registry, sink
}

// go test -v --run TestRouterUnknownSymbolDropped
func TestRouterUnknownSymbolDropped(t *testing.T) {
	router, markets, registry, sink := newTestRouter(t)
	ts := time.Date(2026, 8, 30, 13, 45, 10, 0, time.UTC)

	router.Route(tick("DOGE/USD", 0.1, 1, ts))

	if _, ok := markets.Get("DOGE/USD"); ok {
		t.Error("unknown symbol must not enter the market cache")
	}
	for _, s := range registry.All() {
		if !s.Bar().Empty {
			t.Errorf("series %s/%s mutated by unknown-symbol tick", s.Symbol, s.Label)
		}
	}
	if len(sink.closedBars) != 0 || len(sink.heartbeats) != 0 {
		t.Error("unknown-symbol tick must not reach the sink")
	}
}

// go test -v --run TestRouterFansOutToAllSeries
func TestRouterFansOutToAllSeries(t *testing.T) {
	router, markets, registry, _ := newTestRouter(t)
	ts := time.Date(2026, 8, 30, 13, 45, 10, 0, time.UTC)

	router.Route(tick("BTC/USD", 100, 1, ts))

	quote, ok := markets.Get("BTC/USD")
	if !ok || quote.Bid != 100 || quote.Ask != 100.5 {
		t.Errorf("quote not updated: %+v", quote)
	}
	if quote.Epoch != ts.UnixMilli() {
		t.Errorf("quote epoch = %d, want %d", quote.Epoch, ts.UnixMilli())
	}

	for _, s := range registry.All() {
		bar := s.Bar()
		if bar.Empty || bar.Close != 100 {
			t.Errorf("series %s/%s not updated: %+v", s.Symbol, s.Label, bar)
		}
	}
}

// go test -v --run TestRouterEmitsClosedBar
func TestRouterEmitsClosedBar(t *testing.T) {
	router, _, _, sink := newTestRouter(t)
	base := time.Date(2026, 8, 30, 13, 45, 10, 0, time.UTC)

	router.Route(tick("BTC/USD", 100, 1, base))
	router.Route(tick("BTC/USD", 101, 2, base.Add(time.Minute)))

	// Only the 1-minute series rolled; the 5-minute bucket is still open.
	if len(sink.closedBars) != 1 {
		t.Fatalf("closed bars = %d, want 1", len(sink.closedBars))
	}
	call := sink.closedBars[0]
	if call.symbol != "BTC/USD" || call.label != "1m" || call.minutes != 1 {
		t.Errorf("unexpected closed bar identity: %+v", call)
	}
	if call.closed.Close != 100 {
		t.Errorf("closed bar close = %v, want 100", call.closed.Close)
	}
	if call.next.Open != 101 || !call.next.Start.Equal(call.closed.End) {
		t.Errorf("successor bar wrong: %+v", call.next)
	}
}

// go test -v --run TestRouterHeartbeat
func TestRouterHeartbeat(t *testing.T) {
	router, _, _, sink := newTestRouter(t)
	base := time.Date(2026, 8, 30, 13, 45, 10, 0, time.UTC)

	// First tick is far from the zero heartbeat, so it always stamps.
	router.Route(tick("BTC/USD", 100, 1, base))
	if len(sink.heartbeats) != 1 {
		t.Fatalf("heartbeats = %d, want 1 after first tick", len(sink.heartbeats))
	}

	// Within the threshold: no new heartbeat.
	router.Route(tick("BTC/USD", 100, 1, base.Add(2*time.Second)))
	if len(sink.heartbeats) != 1 {
		t.Fatalf("heartbeats = %d, want still 1 inside threshold", len(sink.heartbeats))
	}

	// Past the threshold: stamped again with the tick's own time.
	late := base.Add(6 * time.Second)
	router.Route(tick("BTC/USD", 100, 1, late))
	if len(sink.heartbeats) != 2 || !sink.heartbeats[1].Equal(late) {
		t.Fatalf("heartbeats = %v, want second stamp at %v", sink.heartbeats, late)
	}
}

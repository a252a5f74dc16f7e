package persist

import (
	"context"
	"sync"
	"testing"
	"time"

	"tickcollector/internal/ftxus/aggregate"
	"tickcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

type fakeStore struct {
	mu           sync.Mutex
	candlesticks []postgres.CandlestickRecord
	timeframes   []postgres.TimeframeRecord
	heartbeats   []time.Time
}

func (f *fakeStore) UpsertCandlestick(_ context.Context, record *postgres.CandlestickRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candlesticks = append(f.candlesticks, *record)
	return nil
}

func (f *fakeStore) UpsertTimeframeBar(_ context.Context, record *postgres.TimeframeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeframes = append(f.timeframes, *record)
	return nil
}

func (f *fakeStore) UpdateExchangeHeartbeat(_ context.Context, _ string, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats = append(f.heartbeats, ts)
	return nil
}

func (f *fakeStore) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.candlesticks), len(f.timeframes), len(f.heartbeats)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// go test -v --run TestWorkerClosedBar
func TestWorkerClosedBar(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &fakeStore{}
	worker := NewWorker("ftxus", store, 16, zap.NewNop())
	worker.Start(ctx)

	start := time.Date(2026, 8, 30, 13, 45, 0, 0, time.UTC)
	closed := aggregate.Bar{Start: start, End: start.Add(time.Minute), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 3}
	next := aggregate.Bar{Start: closed.End, End: closed.End.Add(time.Minute), Open: 102, High: 102, Low: 102, Close: 102, Volume: 1}

	worker.ClosedBar("BTC/USD", "1m", 1, closed, next)

	waitFor(t, func() bool {
		c, tf, _ := store.counts()
		return c == 2 && tf == 1
	})

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.candlesticks[0].Close != 100.5 || store.candlesticks[0].Timeframe != "1m" {
		t.Errorf("final bar record wrong: %+v", store.candlesticks[0])
	}
	if store.candlesticks[1].Open != 102 || !store.candlesticks[1].Start.Equal(next.Start) {
		t.Errorf("successor record wrong: %+v", store.candlesticks[1])
	}
	if store.timeframes[0].Open != 102 || store.timeframes[0].Minutes != 1 {
		t.Errorf("timeframe pointer record wrong: %+v", store.timeframes[0])
	}
}

// go test -v --run TestWorkerHeartbeat
func TestWorkerHeartbeat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &fakeStore{}
	worker := NewWorker("ftxus", store, 16, zap.NewNop())
	worker.Start(ctx)

	ts := time.Date(2026, 8, 30, 13, 45, 10, 0, time.UTC)
	worker.Heartbeat(ts)

	waitFor(t, func() bool {
		_, _, h := store.counts()
		return h == 1
	})

	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.heartbeats[0].Equal(ts) {
		t.Errorf("heartbeat = %v, want %v", store.heartbeats[0], ts)
	}
}

// go test -v --run TestWorkerQueueFullDrops
func TestWorkerQueueFullDrops(t *testing.T) {
	// Worker never started: the queue fills and further writes are dropped
	// without blocking the caller.
	store := &fakeStore{}
	worker := NewWorker("ftxus", store, 2, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			worker.Heartbeat(time.Now())
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
	if worker.Pending() != 2 {
		t.Errorf("pending = %d, want queue capacity 2", worker.Pending())
	}
}

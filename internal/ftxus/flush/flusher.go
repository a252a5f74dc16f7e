package flush

import (
	"context"
	"time"

	"tickcollector/internal/ftxus/aggregate"
	"tickcollector/internal/ftxus/memorystore"
	"tickcollector/internal/ftxus/persist"
	"tickcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

// Store is the slice of the storage client the flusher needs.
type Store interface {
	BulkUpsertMarkets(ctx context.Context, records []postgres.MarketRecord) error
	BulkUpsertCandlesticks(ctx context.Context, records []postgres.CandlestickRecord) error
	BulkUpsertTimeframes(ctx context.Context, records []postgres.TimeframeRecord) error
}

const cycleTimeout = 2 * time.Second

// Flusher periodically pushes the whole in-memory state to storage: every
// market quote, every open bar, and every timeframe's current-bar copy,
// whether or not anything changed since the last cycle. The overwrite is
// idempotent, so a failed cycle is simply repaired by the next one.
type Flusher struct {
	exchange string
	markets  *memorystore.MarketStore
	registry *aggregate.Registry
	store    Store
	interval time.Duration
	logger   *zap.Logger
}

func NewFlusher(exchange string, markets *memorystore.MarketStore, registry *aggregate.Registry,
	store Store, interval time.Duration, logger *zap.Logger) *Flusher {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Flusher{
		exchange: exchange,
		markets:  markets,
		registry: registry,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run flushes on a fixed period until ctx is cancelled.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.FlushOnce(ctx)
		}
	}
}

// FlushOnce performs one full sweep. Each batch failure is logged and does
// not stop the remaining batches.
func (f *Flusher) FlushOnce(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	if err := f.store.BulkUpsertMarkets(flushCtx, f.MarketBatch()); err != nil {
		f.logger.Warn("failed to flush market quotes", zap.Error(err))
	}

	candlesticks, timeframes := f.BarBatches()
	if err := f.store.BulkUpsertCandlesticks(flushCtx, candlesticks); err != nil {
		f.logger.Warn("failed to flush candlesticks", zap.Error(err))
	}
	if err := f.store.BulkUpsertTimeframes(flushCtx, timeframes); err != nil {
		f.logger.Warn("failed to flush timeframes", zap.Error(err))
	}
}

// MarketBatch snapshots every cached quote as an upsert row.
func (f *Flusher) MarketBatch() []postgres.MarketRecord {
	quotes := f.markets.All()
	records := make([]postgres.MarketRecord, 0, len(quotes))
	for _, q := range quotes {
		records = append(records, postgres.MarketRecord{
			Exchange:  f.exchange,
			Symbol:    q.Symbol,
			Bid:       q.Bid,
			Ask:       q.Ask,
			Timestamp: q.Timestamp,
			Epoch:     q.Epoch,
		})
	}
	return records
}

// BarBatches snapshots every series' open bar as a candlestick upsert plus
// a timeframe current-bar upsert.
func (f *Flusher) BarBatches() ([]postgres.CandlestickRecord, []postgres.TimeframeRecord) {
	series := f.registry.All()
	candlesticks := make([]postgres.CandlestickRecord, 0, len(series))
	timeframes := make([]postgres.TimeframeRecord, 0, len(series))
	for _, s := range series {
		bar := s.Bar()
		candlesticks = append(candlesticks, persist.BarRecord(f.exchange, s.Symbol, s.Label, bar))
		timeframes = append(timeframes, *persist.TimeframeBarRecord(f.exchange, s.Symbol, s.Label, s.Minutes, bar))
	}
	return candlesticks, timeframes
}

package bootstrap

import (
	"context"
	"fmt"
	"time"

	"tickcollector/config"
	"tickcollector/internal/ftxus/aggregate"
	"tickcollector/internal/ftxus/memorystore"
	"tickcollector/internal/ftxus/persist"
	"tickcollector/pkg/ftxus"
	"tickcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

// Default instrument metadata used when the exchange does not report a
// market. Matches what the feed historically listed for crypto pairs.
const (
	defaultPricePrecision    = 0.00001
	defaultQuantityPrecision = 1
)

// State is the in-memory world built at startup: the quote cache with every
// instrument registered, and the registry holding one seeded candlestick
// series per (instrument, timeframe).
type State struct {
	Markets  *memorystore.MarketStore
	Registry *aggregate.Registry
}

// Run validates the feed configuration, registers the exchange and its
// instruments in storage (insert-if-absent), and builds the aggregation
// state. The current bar of each series starts at the calendar-aligned
// boundary for "now" and is seeded from a previously persisted bar for
// that boundary when one exists.
func Run(ctx context.Context, cfg *config.Config, client *postgres.PostgresClient,
	rest *ftxus.RESTClient, logger *zap.Logger) (*State, error) {

	instruments := cfg.Feed.InstrumentList()
	if len(instruments) == 0 {
		return nil, fmt.Errorf("no instruments configured")
	}

	timeframes, err := cfg.Feed.TimeframeList()
	if err != nil {
		return nil, err
	}
	for _, tf := range timeframes {
		if !ftxus.IsValidTimeframe(tf.Minutes) {
			return nil, fmt.Errorf("unsupported timeframe: %d minutes (%s)", tf.Minutes, tf.Name)
		}
	}

	loc, err := cfg.Aggregate.Location()
	if err != nil {
		return nil, err
	}

	exchange := cfg.Exchange.Name
	now := time.Now().In(loc)

	if err := client.UpsertExchange(ctx, &postgres.ExchangeRecord{
		Name:      exchange,
		Heartbeat: now.UnixMilli(),
		Timestamp: now,
	}); err != nil {
		return nil, fmt.Errorf("register exchange: %w", err)
	}

	// Precision metadata enrichment is best-effort; a dead REST endpoint
	// must not keep the collector from starting.
	marketInfo := map[string]ftxus.MarketInfo{}
	if rest != nil {
		restCtx, cancel := context.WithTimeout(ctx, cfg.Exchange.REST.Timeout)
		info, err := rest.GetMarkets(restCtx)
		cancel()
		if err != nil {
			logger.Warn("failed to fetch market metadata, using defaults", zap.Error(err))
		} else {
			marketInfo = info
		}
	}

	markets := memorystore.NewMarketStore()
	registry := aggregate.NewRegistry()

	for _, symbol := range instruments {
		if err := client.UpsertInstrument(ctx, instrumentRecord(exchange, symbol, marketInfo)); err != nil {
			logger.Warn("failed to upsert instrument", zap.String("symbol", symbol), zap.Error(err))
		}
		markets.Register(symbol)

		for _, tf := range timeframes {
			start := aggregate.AlignedStart(now, tf.Minutes)
			series := aggregate.NewSeries(symbol, tf.Name, tf.Minutes, start)

			persisted, err := client.GetCandlestick(ctx, exchange, symbol, tf.Name, start)
			if err != nil {
				logger.Warn("failed to look up persisted bar",
					zap.String("symbol", symbol), zap.String("timeframe", tf.Name), zap.Error(err))
			} else if persisted != nil {
				series.Seed(persisted.Open, persisted.High, persisted.Low, persisted.Close, persisted.Volume)
				logger.Info("resumed bar from storage",
					zap.String("symbol", symbol), zap.String("timeframe", tf.Name), zap.Time("start", start))
			}

			registry.Register(series)

			record := persist.TimeframeBarRecord(exchange, symbol, tf.Name, tf.Minutes, series.Bar())
			if err := client.UpsertTimeframe(ctx, record); err != nil {
				logger.Warn("failed to upsert timeframe",
					zap.String("symbol", symbol), zap.String("timeframe", tf.Name), zap.Error(err))
			}
		}
	}

	logger.Info("bootstrap complete",
		zap.Int("instruments", len(instruments)),
		zap.Int("series", registry.Len()))

	return &State{Markets: markets, Registry: registry}, nil
}

func instrumentRecord(exchange, symbol string, info map[string]ftxus.MarketInfo) *postgres.InstrumentRecord {
	record := &postgres.InstrumentRecord{
		Exchange:          exchange,
		Symbol:            symbol,
		MarketSymbol:      symbol,
		Type:              "Crypto",
		PricePrecision:    defaultPricePrecision,
		QuantityPrecision: defaultQuantityPrecision,
	}
	if m, ok := info[symbol]; ok {
		record.PricePrecision = m.PriceIncrement
		record.QuantityPrecision = m.SizeIncrement
		if m.MinProvideSize > 0 {
			minQty := m.MinProvideSize
			record.MinimumQuantity = &minQty
		}
	}
	return record
}

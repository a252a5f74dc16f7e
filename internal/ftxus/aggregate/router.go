package aggregate

import (
	"time"

	"tickcollector/internal/ftxus/memorystore"

	"go.uber.org/zap"
)

// Sink receives persistence requests produced by the router. Implementations
// must not block: the router runs on the feed's message goroutine and a slow
// store must never backpressure ingestion.
type Sink interface {
	// ClosedBar reports a completed bar together with its freshly opened
	// successor on the same series.
	ClosedBar(symbol, label string, minutes int, closed, next Bar)
	// Heartbeat reports feed liveness derived from tick timestamps.
	Heartbeat(ts time.Time)
}

// Router fans each normalized tick out to the market cache and to every
// candlestick series registered for the tick's instrument. All ticks pass
// through Route one at a time on the feed goroutine.
type Router struct {
	markets   *memorystore.MarketStore
	registry  *Registry
	sink      Sink
	threshold time.Duration // max |tick - heartbeat| before a heartbeat write
	heartbeat time.Time
	verbose   bool
	logger    *zap.Logger
}

func NewRouter(markets *memorystore.MarketStore, registry *Registry, sink Sink,
	heartbeatThreshold time.Duration, verbose bool, logger *zap.Logger) *Router {
	return &Router{
		markets:   markets,
		registry:  registry,
		sink:      sink,
		threshold: heartbeatThreshold,
		verbose:   verbose,
		logger:    logger,
	}
}

// Route updates the market cache and every subscribed series with one tick.
// Ticks for unknown symbols are dropped with a warning; nothing else in the
// process learns about them.
func (r *Router) Route(t Tick) {
	if !r.markets.Update(t.Symbol, t.Bid, t.Ask, t.Timestamp) {
		r.logger.Warn("dropping tick for unknown symbol", zap.String("symbol", t.Symbol))
		return
	}

	if r.verbose {
		r.logger.Info("tick",
			zap.String("symbol", t.Symbol),
			zap.Float64("bid", t.Bid),
			zap.Float64("ask", t.Ask),
			zap.Time("timestamp", t.Timestamp),
		)
	}

	for _, s := range r.registry.BySymbol(t.Symbol) {
		closed, rolled := s.Ingest(t)
		if !rolled {
			continue
		}
		r.sink.ClosedBar(s.Symbol, s.Label, s.Minutes, closed, s.Bar())
		if r.verbose {
			r.logger.Info("bar closed",
				zap.String("symbol", s.Symbol),
				zap.String("timeframe", s.Label),
				zap.Time("start", closed.Start),
				zap.Float64("close", closed.Close),
				zap.Float64("volume", closed.Volume),
			)
		}
	}

	// Liveness telemetry only; aggregation does not depend on it.
	if skew := t.Timestamp.Sub(r.heartbeat); skew > r.threshold || skew < -r.threshold {
		r.heartbeat = t.Timestamp
		r.sink.Heartbeat(t.Timestamp)
	}
}

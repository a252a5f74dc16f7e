package persist

import (
	"context"
	"time"

	"tickcollector/internal/ftxus/aggregate"
	"tickcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

// Store is the slice of the storage client the worker needs.
type Store interface {
	UpsertCandlestick(ctx context.Context, record *postgres.CandlestickRecord) error
	UpsertTimeframeBar(ctx context.Context, record *postgres.TimeframeRecord) error
	UpdateExchangeHeartbeat(ctx context.Context, name string, ts time.Time) error
}

const writeTimeout = 2 * time.Second

type request struct {
	candlesticks []postgres.CandlestickRecord
	timeframe    *postgres.TimeframeRecord
	heartbeat    *time.Time
}

// Worker decouples the ingestion path from storage latency: the router
// enqueues rollover and heartbeat writes here and a single goroutine
// executes them against the store. A full queue drops the request with a
// warning rather than blocking ingestion; the periodic flush re-covers the
// same state on its next cycle.
type Worker struct {
	exchange string
	store    Store
	queue    chan request
	logger   *zap.Logger
}

func NewWorker(exchange string, store Store, queueSize int, logger *zap.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Worker{
		exchange: exchange,
		store:    store,
		queue:    make(chan request, queueSize),
		logger:   logger,
	}
}

// Start launches the drain goroutine. It runs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case req := <-w.queue:
				w.process(ctx, req)
			}
		}
	}()
}

// Pending reports the number of queued requests.
func (w *Worker) Pending() int {
	return len(w.queue)
}

// ClosedBar enqueues the final write of a completed bar, the insert of its
// successor, and the timeframe's current-bar pointer update.
func (w *Worker) ClosedBar(symbol, label string, minutes int, closed, next aggregate.Bar) {
	w.enqueue(request{
		candlesticks: []postgres.CandlestickRecord{
			BarRecord(w.exchange, symbol, label, closed),
			BarRecord(w.exchange, symbol, label, next),
		},
		timeframe: TimeframeBarRecord(w.exchange, symbol, label, minutes, next),
	})
}

// Heartbeat enqueues an exchange liveness stamp.
func (w *Worker) Heartbeat(ts time.Time) {
	w.enqueue(request{heartbeat: &ts})
}

func (w *Worker) enqueue(req request) {
	select {
	case w.queue <- req:
	default:
		w.logger.Warn("persistence queue full, dropping write",
			zap.Int("capacity", cap(w.queue)))
	}
}

func (w *Worker) process(ctx context.Context, req request) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	for i := range req.candlesticks {
		if err := w.store.UpsertCandlestick(writeCtx, &req.candlesticks[i]); err != nil {
			w.logger.Warn("failed to upsert candlestick",
				zap.String("symbol", req.candlesticks[i].Symbol),
				zap.String("timeframe", req.candlesticks[i].Timeframe),
				zap.Error(err))
		}
	}
	if req.timeframe != nil {
		if err := w.store.UpsertTimeframeBar(writeCtx, req.timeframe); err != nil {
			w.logger.Warn("failed to upsert timeframe bar",
				zap.String("symbol", req.timeframe.Symbol),
				zap.String("timeframe", req.timeframe.Timeframe),
				zap.Error(err))
		}
	}
	if req.heartbeat != nil {
		if err := w.store.UpdateExchangeHeartbeat(writeCtx, w.exchange, *req.heartbeat); err != nil {
			w.logger.Warn("failed to update exchange heartbeat", zap.Error(err))
		}
	}
}

// BarRecord converts an in-memory bar to its candlestick storage row.
func BarRecord(exchange, symbol, label string, bar aggregate.Bar) postgres.CandlestickRecord {
	return postgres.CandlestickRecord{
		Exchange:  exchange,
		Symbol:    symbol,
		Timeframe: label,
		Start:     bar.Start,
		End:       bar.End,
		Epoch:     bar.Start.UnixMilli(),
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
	}
}

// TimeframeBarRecord converts an in-memory bar to the timeframe's
// denormalized current-bar row.
func TimeframeBarRecord(exchange, symbol, label string, minutes int, bar aggregate.Bar) *postgres.TimeframeRecord {
	return &postgres.TimeframeRecord{
		Exchange:  exchange,
		Symbol:    symbol,
		Timeframe: label,
		Minutes:   minutes,
		BarStart:  bar.Start,
		BarEnd:    bar.End,
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
	}
}

package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Upsert semantics in this package follow the collector's record contract:
// registry rows (exchange, instrument, timeframe identity) are
// insert-if-absent and never overwritten; state rows (market quotes, bars,
// current-bar pointers) are overwritten idempotently on every write.

var candlestickAssignments = []string{"end", "epoch", "open", "high", "low", "close", "volume"}

// UpsertExchange registers the exchange by name, keeping an existing row.
func (p *PostgresClient) UpsertExchange(ctx context.Context, record *ExchangeRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(record).Error
}

// UpdateExchangeHeartbeat stamps the exchange row with the latest observed
// tick time.
func (p *PostgresClient) UpdateExchangeHeartbeat(ctx context.Context, name string, ts time.Time) error {
	return p.DB.WithContext(ctx).
		Model(&ExchangeRecord{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"heartbeat": ts.UnixMilli(),
			"timestamp": ts,
		}).Error
}

// UpsertInstrument inserts the instrument unless it already exists.
func (p *PostgresClient) UpsertInstrument(ctx context.Context, record *InstrumentRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
			{Name: "market_symbol"},
		},
		DoNothing: true,
	}).Create(record).Error
}

// UpsertTimeframe inserts the timeframe identity row unless it already
// exists; bar fields on an existing row are left to the flush path.
func (p *PostgresClient) UpsertTimeframe(ctx context.Context, record *TimeframeRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
			{Name: "timeframe"},
		},
		DoNothing: true,
	}).Create(record).Error
}

// UpsertTimeframeBar overwrites the timeframe's denormalized current bar.
func (p *PostgresClient) UpsertTimeframeBar(ctx context.Context, record *TimeframeRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
			{Name: "timeframe"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"minutes", "bar_start", "bar_end", "open", "high", "low", "close", "volume",
		}),
	}).Create(record).Error
}

// UpsertCandlestick writes one bar, overwriting price fields when the row
// for its (exchange, symbol, timeframe, start) key already exists.
func (p *PostgresClient) UpsertCandlestick(ctx context.Context, record *CandlestickRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
			{Name: "timeframe"},
			{Name: "start"},
		},
		DoUpdates: clause.AssignmentColumns(candlestickAssignments),
	}).Create(record).Error
}

// GetCandlestick fetches the bar persisted for an exact bucket boundary.
// A missing row is reported as (nil, nil); the caller seeds a fresh bar.
func (p *PostgresClient) GetCandlestick(ctx context.Context, exchange, symbol, timeframe string, start time.Time) (*CandlestickRecord, error) {
	var record CandlestickRecord
	err := p.DB.WithContext(ctx).
		Where("exchange = ? AND symbol = ? AND timeframe = ? AND start = ?", exchange, symbol, timeframe, start).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// BulkUpsertMarkets overwrites every given quote in one statement.
func (p *PostgresClient) BulkUpsertMarkets(ctx context.Context, records []MarketRecord) error {
	if len(records) == 0 {
		return nil
	}
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"bid", "ask", "timestamp", "epoch"}),
	}).Create(&records).Error
}

// BulkUpsertCandlesticks overwrites every given bar in one statement.
func (p *PostgresClient) BulkUpsertCandlesticks(ctx context.Context, records []CandlestickRecord) error {
	if len(records) == 0 {
		return nil
	}
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
			{Name: "timeframe"},
			{Name: "start"},
		},
		DoUpdates: clause.AssignmentColumns(candlestickAssignments),
	}).Create(&records).Error
}

// BulkUpsertTimeframes overwrites every timeframe's current bar in one
// statement.
func (p *PostgresClient) BulkUpsertTimeframes(ctx context.Context, records []TimeframeRecord) error {
	if len(records) == 0 {
		return nil
	}
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exchange"},
			{Name: "symbol"},
			{Name: "timeframe"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"minutes", "bar_start", "bar_end", "open", "high", "low", "close", "volume",
		}),
	}).Create(&records).Error
}

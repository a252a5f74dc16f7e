package postgres

import "time"

// ExchangeRecord is the per-exchange registry row carrying the feed heartbeat.
type ExchangeRecord struct {
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"type:text;not null;uniqueIndex:idx_exchange_name"`

	Heartbeat int64     `gorm:"not null"` // last tick timestamp in milliseconds since epoch
	Timestamp time.Time `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (ExchangeRecord) TableName() string {
	return "exchange_record"
}

// InstrumentRecord describes a tradeable symbol. Written once at startup
// with insert-if-absent semantics, never overwritten.
type InstrumentRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Exchange     string `gorm:"type:text;not null;index:idx_instrument_key,unique"`
	Symbol       string `gorm:"type:text;not null;index:idx_instrument_key,unique"`
	MarketSymbol string `gorm:"type:text;not null;index:idx_instrument_key,unique"`

	Type string `gorm:"type:varchar(10);not null"`

	PricePrecision    float64 `gorm:"type:numeric;not null"`
	QuantityPrecision float64 `gorm:"type:numeric;not null"`

	MinimumNotional *float64 `gorm:"type:numeric"`
	MaximumNotional *float64 `gorm:"type:numeric"`
	MinimumQuantity *float64 `gorm:"type:numeric"`
	MaximumQuantity *float64 `gorm:"type:numeric"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (InstrumentRecord) TableName() string {
	return "instrument_record"
}

// MarketRecord is the latest quote per instrument, overwritten every flush.
type MarketRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Exchange string `gorm:"type:text;not null;index:idx_market_key,unique"`
	Symbol   string `gorm:"type:text;not null;index:idx_market_key,unique"`

	Bid       float64   `gorm:"type:numeric;not null"`
	Ask       float64   `gorm:"type:numeric;not null"`
	Timestamp time.Time `gorm:"not null"`
	Epoch     int64     `gorm:"not null"`
}

func (MarketRecord) TableName() string {
	return "market_record"
}

// TimeframeRecord identifies one aggregation cadence for one instrument and
// carries a denormalized copy of its current bar, overwritten every flush
// and on every rollover.
type TimeframeRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Exchange  string `gorm:"type:text;not null;index:idx_timeframe_key,unique"`
	Symbol    string `gorm:"type:text;not null;index:idx_timeframe_key,unique"`
	Timeframe string `gorm:"type:varchar(10);not null;index:idx_timeframe_key,unique"`

	Minutes int `gorm:"not null"`

	BarStart time.Time `gorm:"not null"`
	BarEnd   time.Time `gorm:"not null"`
	Open     float64   `gorm:"type:numeric;not null"`
	High     float64   `gorm:"type:numeric;not null"`
	Low      float64   `gorm:"type:numeric;not null"`
	Close    float64   `gorm:"type:numeric;not null"`
	Volume   float64   `gorm:"type:numeric;not null"`
}

func (TimeframeRecord) TableName() string {
	return "timeframe_record"
}

// CandlestickRecord is one OHLCV bar, open or closed. The open bar is
// updated in place on every flush; a new row appears at each rollover.
type CandlestickRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Exchange  string    `gorm:"type:text;not null;index:idx_candlestick_key,unique"`
	Symbol    string    `gorm:"type:text;not null;index:idx_candlestick_key,unique"`
	Timeframe string    `gorm:"type:varchar(10);not null;index:idx_candlestick_key,unique"`
	Start     time.Time `gorm:"not null;index:idx_candlestick_key,unique"`

	End   time.Time `gorm:"not null"`
	Epoch int64     `gorm:"not null"` // Start in milliseconds since epoch

	Open   float64 `gorm:"type:numeric;not null"`
	High   float64 `gorm:"type:numeric;not null"`
	Low    float64 `gorm:"type:numeric;not null"`
	Close  float64 `gorm:"type:numeric;not null"`
	Volume float64 `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (CandlestickRecord) TableName() string {
	return "candlestick_record"
}

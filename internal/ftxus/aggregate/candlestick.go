package aggregate

import (
	"sync"
	"time"
)

// Tick is a normalized best bid/offer quote for one instrument. Only the bid
// side is aggregated into candlesticks; the ask is kept for the market cache.
type Tick struct {
	Symbol    string
	Bid       float64
	Ask       float64
	BidVolume float64
	AskVolume float64
	Timestamp time.Time
}

// Bar is one OHLCV bucket. Empty marks a bar that has not seen a tick yet,
// so price fields carry no sentinel values while unset.
type Bar struct {
	Start  time.Time
	End    time.Time // exclusive
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Empty  bool
}

// Series owns the single open bar for one (instrument, timeframe) pair and
// applies the update/rollover algorithm tick by tick. Ingest and Bar are
// safe to call concurrently; mutation of the open bar is serialized against
// flush-side reads by the series lock.
type Series struct {
	Symbol  string
	Label   string
	Minutes int

	mu  sync.Mutex
	bar Bar
}

// NewSeries creates a series whose first bar starts at the given aligned
// boundary with no ticks applied.
func NewSeries(symbol, label string, minutes int, start time.Time) *Series {
	return &Series{
		Symbol:  symbol,
		Label:   label,
		Minutes: minutes,
		bar: Bar{
			Start: start,
			End:   start.Add(time.Duration(minutes) * time.Minute),
			Empty: true,
		},
	}
}

// Seed restores the open bar's price fields from a previously persisted bar
// for the same boundary, so a restart continues the bucket instead of
// restating it. Boundaries are kept from the series' own bar.
func (s *Series) Seed(open, high, low, close, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bar.Open = open
	s.bar.High = high
	s.bar.Low = low
	s.bar.Close = close
	s.bar.Volume = volume
	s.bar.Empty = false
}

// Bar returns a copy of the current open bar.
func (s *Series) Bar() Bar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bar
}

// Ingest applies one tick to the series.
//
// A tick stamped before the open bar's end boundary updates the bar in
// place: close always follows the tick, high/low tighten, volume
// accumulates, and open is set by the bar's first tick only. Ticks older
// than the bar's start are accepted the same way; exchange feeds reorder
// near bucket edges and rejecting them would drop real trades.
//
// A tick at or past the end boundary closes the bar and returns it with
// rolled=true. The successor starts exactly at the old end boundary and is
// seeded entirely from the triggering tick. Rollover is single-step: a gap
// spanning several quiet buckets still produces exactly one new bar.
func (s *Series) Ingest(t Tick) (closed Bar, rolled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Timestamp.Before(s.bar.End) {
		if s.bar.Empty {
			s.bar.Open = t.Bid
			s.bar.High = t.Bid
			s.bar.Low = t.Bid
			s.bar.Empty = false
		} else {
			if t.Bid > s.bar.High {
				s.bar.High = t.Bid
			}
			if t.Bid < s.bar.Low {
				s.bar.Low = t.Bid
			}
		}
		s.bar.Close = t.Bid
		s.bar.Volume += t.BidVolume
		return Bar{}, false
	}

	closed = s.bar

	start := s.bar.End
	s.bar = Bar{
		Start:  start,
		End:    start.Add(time.Duration(s.Minutes) * time.Minute),
		Open:   t.Bid,
		High:   t.Bid,
		Low:    t.Bid,
		Close:  t.Bid,
		Volume: t.BidVolume,
	}
	return closed, true
}

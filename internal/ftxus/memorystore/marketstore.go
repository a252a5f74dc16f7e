package memorystore

import (
	"sync"
	"time"
)

// Quote is the latest known best bid/offer for one instrument.
type Quote struct {
	Symbol    string
	Bid       float64
	Ask       float64
	Timestamp time.Time
	Epoch     int64 // Timestamp in milliseconds since epoch
}

// MarketStore caches the latest quote per pre-registered instrument. Entries
// live for the whole process; updates overwrite unconditionally.
type MarketStore struct {
	globalMu sync.RWMutex
	data     map[string]*marketEntry
}

type marketEntry struct {
	mu    sync.Mutex
	quote Quote
}

func NewMarketStore() *MarketStore {
	return &MarketStore{
		data: make(map[string]*marketEntry),
	}
}

// Register adds an instrument to the cache. Only registered symbols accept
// updates; everything else is an unknown-symbol tick.
func (s *MarketStore) Register(symbol string) {
	s.globalMu.Lock()
	defer s.globalMu.Unlock()
	if _, ok := s.data[symbol]; !ok {
		s.data[symbol] = &marketEntry{quote: Quote{Symbol: symbol}}
	}
}

// Update overwrites the quote for a registered symbol. It reports false for
// unknown symbols so the caller can drop the tick.
func (s *MarketStore) Update(symbol string, bid, ask float64, ts time.Time) bool {
	s.globalMu.RLock()
	entry, ok := s.data[symbol]
	s.globalMu.RUnlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	entry.quote.Bid = bid
	entry.quote.Ask = ask
	entry.quote.Timestamp = ts
	entry.quote.Epoch = ts.UnixMilli()
	entry.mu.Unlock()
	return true
}

// Get returns a copy of the latest quote for the symbol.
func (s *MarketStore) Get(symbol string) (Quote, bool) {
	s.globalMu.RLock()
	entry, ok := s.data[symbol]
	s.globalMu.RUnlock()
	if !ok {
		return Quote{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.quote, true
}

// All returns a copy of every cached quote.
func (s *MarketStore) All() []Quote {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	out := make([]Quote, 0, len(s.data))
	for _, entry := range s.data {
		entry.mu.Lock()
		out = append(out, entry.quote)
		entry.mu.Unlock()
	}
	return out
}

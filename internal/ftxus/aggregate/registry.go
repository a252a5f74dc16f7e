package aggregate

import "sync"

// Key identifies one candlestick series.
type Key struct {
	Symbol string
	Label  string
}

// Registry owns every candlestick series in the process and keeps a reverse
// index from instrument symbol to its series, so the router can fan a tick
// out without assembling string keys. Series are registered at startup; the
// lock covers late registration and concurrent flush-side iteration.
type Registry struct {
	mu       sync.RWMutex
	series   map[Key]*Series
	bySymbol map[string][]*Series
}

func NewRegistry() *Registry {
	return &Registry{
		series:   make(map[Key]*Series),
		bySymbol: make(map[string][]*Series),
	}
}

// Register adds a series; a series with the same key replaces the index
// entry rather than duplicating it.
func (r *Registry) Register(s *Series) {
	key := Key{Symbol: s.Symbol, Label: s.Label}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.series[key]; ok {
		list := r.bySymbol[s.Symbol]
		for i, candidate := range list {
			if candidate == old {
				list[i] = s
				break
			}
		}
		r.series[key] = s
		return
	}

	r.series[key] = s
	r.bySymbol[s.Symbol] = append(r.bySymbol[s.Symbol], s)
}

// Get looks up a single series.
func (r *Registry) Get(symbol, label string) (*Series, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.series[Key{Symbol: symbol, Label: label}]
	return s, ok
}

// BySymbol returns the series subscribed to the given instrument.
func (r *Registry) BySymbol(symbol string) []*Series {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySymbol[symbol]
}

// All returns every registered series.
func (r *Registry) All() []*Series {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Series, 0, len(r.series))
	for _, s := range r.series {
		out = append(out, s)
	}
	return out
}

// Len reports the number of registered series.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.series)
}

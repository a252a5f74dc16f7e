package ftxus

// TickerMessage represents a WebSocket message from FTX.US on the ticker channel.
type TickerMessage struct {
	Channel string     `json:"channel"` // Subscription channel, e.g., "ticker"
	Market  string     `json:"market"`  // Exchange pair notation, e.g., "BTC/USD"
	Type    string     `json:"type"`    // Message type: "update", "subscribed", "error", "pong"
	Code    int        `json:"code"`    // Error code, set when Type is "error"
	Msg     string     `json:"msg"`     // Error description, set when Type is "error"
	Data    TickerData `json:"data"`    // Quote payload, set when Type is "update"
}

// TickerData is the best bid/offer snapshot carried by a ticker update.
type TickerData struct {
	Bid     float64 `json:"bid"`
	Ask     float64 `json:"ask"`
	BidSize float64 `json:"bidSize"`
	AskSize float64 `json:"askSize"`
	Last    float64 `json:"last"`
	Time    float64 `json:"time"` // seconds since epoch with fractional milliseconds
}

// APIResponse is the generic REST envelope returned by FTX.US.
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarketInfo describes one tradeable market from GET /api/markets.
type MarketInfo struct {
	Name           string  `json:"name"` // pair notation, e.g., "BTC/USD"
	Enabled        bool    `json:"enabled"`
	BaseCurrency   string  `json:"baseCurrency"`
	QuoteCurrency  string  `json:"quoteCurrency"`
	PriceIncrement float64 `json:"priceIncrement"`
	SizeIncrement  float64 `json:"sizeIncrement"`
	MinProvideSize float64 `json:"minProvideSize"`
}

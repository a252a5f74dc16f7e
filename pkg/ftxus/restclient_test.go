package ftxus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// go test -v --run TestGetMarkets
func TestGetMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/markets" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"result": [
				{"name": "BTC/USD", "enabled": true, "baseCurrency": "BTC", "quoteCurrency": "USD",
				 "priceIncrement": 1.0, "sizeIncrement": 0.0001, "minProvideSize": 0.0001},
				{"name": "ETH/USD", "enabled": true, "baseCurrency": "ETH", "quoteCurrency": "USD",
				 "priceIncrement": 0.05, "sizeIncrement": 0.001, "minProvideSize": 0.001}
			]
		}`))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	markets, err := client.GetMarkets(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("got %d markets, want 2", len(markets))
	}

	btc, ok := markets["BTC/USD"]
	if !ok {
		t.Fatal("BTC/USD missing from result map")
	}
	if btc.PriceIncrement != 1.0 || btc.SizeIncrement != 0.0001 {
		t.Errorf("unexpected BTC/USD metadata: %+v", btc)
	}
}

// go test -v --run TestGetMarketsAPIError
func TestGetMarketsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "Try again later"}`))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.GetMarkets(ctx); err == nil {
		t.Fatal("expected error for unsuccessful API response")
	}
}

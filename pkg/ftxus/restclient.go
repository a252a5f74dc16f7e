package ftxus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetMarkets fetches precision and size metadata for every listed market,
// keyed by pair notation (e.g., "BTC/USD").
func (c *RESTClient) GetMarkets(ctx context.Context) (map[string]MarketInfo, error) {
	endpoint := c.baseURL + "/api/markets"

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ftx error: %s", body)
	}

	var rawResp struct {
		APIResponse
		Result []MarketInfo `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rawResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !rawResp.Success {
		return nil, fmt.Errorf("ftx error: %s", rawResp.Error)
	}

	markets := make(map[string]MarketInfo, len(rawResp.Result))
	for _, m := range rawResp.Result {
		markets[m.Name] = m
	}

	return markets, nil
}

package goldprice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FeedClient fetches the live gold spot price from the upstream feed. The
// feed replies with {"success": bool, "price": rupees-per-gram-24k}.
type FeedClient struct {
	httpClient *http.Client
	url        string
}

type feedResponse struct {
	Success bool    `json:"success"`
	Price   float64 `json:"price"`
}

// NewFeedClient builds a feed client with a bounded request timeout.
func NewFeedClient(url string, timeout time.Duration) (*FeedClient, error) {
	if url == "" {
		return nil, fmt.Errorf("goldprice: feed url is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FeedClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}, nil
}

// Fetch returns the current price per gram of 24K gold. Any reply that is not
// a success with a positive price is an error; the caller decides whether to
// serve a stale value or the fallback.
func (c *FeedClient) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call gold feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("gold feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode gold feed response: %w", err)
	}
	if !body.Success {
		return 0, fmt.Errorf("gold feed reported failure")
	}
	if body.Price <= 0 {
		return 0, fmt.Errorf("gold feed returned non-positive price %v", body.Price)
	}
	return body.Price, nil
}

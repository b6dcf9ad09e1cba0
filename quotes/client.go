// Package quotes reads wrapped BTC and ETH prices from an external feed.
package quotes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"pointledger/metrics"
	"pointledger/models"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// maxBodySize bounds how much of a feed response is read
const maxBodySize = 1 << 20

// Clock supplies the fetch timestamp
type Clock interface {
	Now() time.Time
}

// Config holds client configuration.
type Config struct {
	URL     string
	Timeout time.Duration
	Clock   Clock
}

// Client fetches prices in the CoinGecko simple-price format:
// {"wrapped-bitcoin":{"usd":..},"weth":{"usd":..}}
type Client struct {
	url        string
	httpClient *http.Client
	clock      Clock
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// New creates a new price feed client
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	return &Client{
		url:        cfg.URL,
		clock:      clock,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchQuotes never fails: any transport, status or parse problem leaves the
// affected prices nil.
func (c *Client) FetchQuotes(ctx context.Context) models.Quotes {
	quotes := models.Quotes{FetchedAt: c.clock.Now()}

	body, err := c.fetch(ctx)
	if err != nil {
		log.WithError(err).WithField("url", c.url).Warn("Price feed unavailable")
		metrics.RecordQuoteFetch(false)
		return quotes
	}

	if !gjson.ValidBytes(body) {
		log.WithField("url", c.url).Warn("Price feed returned invalid JSON")
		metrics.RecordQuoteFetch(false)
		return quotes
	}

	quotes.WBTCUSD = price(body, "wrapped-bitcoin.usd")
	quotes.WETHUSD = price(body, "weth.usd")
	metrics.RecordQuoteFetch(quotes.WBTCUSD != nil && quotes.WETHUSD != nil)

	return quotes
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func price(body []byte, path string) *float64 {
	result := gjson.GetBytes(body, path)
	if result.Type != gjson.Number {
		return nil
	}
	value := result.Float()
	return &value
}

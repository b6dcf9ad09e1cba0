package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pointledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var fetchedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(url string, timeout time.Duration) *Client {
	return New(Config{URL: url, Timeout: timeout, Clock: fixedClock{at: fetchedAt}})
}

func TestClient_FetchQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"wrapped-bitcoin":{"usd":64012.5},"weth":{"usd":3120}}`))
	}))
	defer server.Close()

	quotes := newTestClient(server.URL, time.Second).FetchQuotes(context.Background())

	require.NotNil(t, quotes.WBTCUSD)
	require.NotNil(t, quotes.WETHUSD)
	assert.Equal(t, 64012.5, *quotes.WBTCUSD)
	assert.Equal(t, 3120.0, *quotes.WETHUSD)
	assert.Equal(t, fetchedAt, quotes.FetchedAt)
}

func TestClient_FetchQuotes_Degrades(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantWBTC bool
		wantWETH bool
	}{
		{"server error", http.StatusBadGateway, `{}`, false, false},
		{"invalid json", http.StatusOK, `{"wrapped-bitcoin":`, false, false},
		{"missing weth", http.StatusOK, `{"wrapped-bitcoin":{"usd":1}}`, true, false},
		{"non-numeric price", http.StatusOK, `{"wrapped-bitcoin":{"usd":"n/a"},"weth":{"usd":2}}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			quotes := newTestClient(server.URL, time.Second).FetchQuotes(context.Background())

			assert.Equal(t, tt.wantWBTC, quotes.WBTCUSD != nil)
			assert.Equal(t, tt.wantWETH, quotes.WETHUSD != nil)
		})
	}
}

func TestClient_FetchQuotes_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	quotes := newTestClient(server.URL, 50*time.Millisecond).FetchQuotes(context.Background())

	assert.Nil(t, quotes.WBTCUSD)
	assert.Nil(t, quotes.WETHUSD)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) FetchQuotes(ctx context.Context) models.Quotes {
	f.calls.Add(1)
	price := 1.0
	return models.Quotes{WBTCUSD: &price, FetchedAt: time.Now()}
}

func TestCache_StartFetchesImmediately(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewCache(fetcher)

	require.NoError(t, cache.Start(context.Background(), "@every 1h"))
	defer cache.Stop()

	assert.Equal(t, int32(1), fetcher.calls.Load())

	latest := cache.Latest(context.Background())
	require.NotNil(t, latest.WBTCUSD)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestCache_InvalidSchedule(t *testing.T) {
	cache := NewCache(&countingFetcher{})
	assert.Error(t, cache.Start(context.Background(), "whenever"))
}

func TestCache_LatestFetchesWhenEmpty(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewCache(fetcher)

	cache.Latest(context.Background())

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

package quotes

import (
	"context"
	"fmt"
	"sync"

	"pointledger/models"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Fetcher is the part of Client the cache depends on
type Fetcher interface {
	FetchQuotes(ctx context.Context) models.Quotes
}

// Cache serves the last fetched prices and refreshes them on a cron schedule
type Cache struct {
	fetcher Fetcher
	cron    *cron.Cron

	mu     sync.RWMutex
	latest models.Quotes
	ctx    context.Context
}

// NewCache creates a cache; call Start to begin refreshing
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		cron:    cron.New(),
	}
}

// Start fetches once and then refreshes on spec (standard cron syntax or @every)
func (c *Cache) Start(ctx context.Context, spec string) error {
	c.ctx = ctx
	if _, err := c.cron.AddFunc(spec, func() { c.Refresh(c.ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	c.Refresh(ctx)
	c.cron.Start()

	log.WithField("schedule", spec).Info("Quote refresher started")
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish
func (c *Cache) Stop() {
	<-c.cron.Stop().Done()
}

// Refresh fetches now and replaces the cached snapshot
func (c *Cache) Refresh(ctx context.Context) {
	quotes := c.fetcher.FetchQuotes(ctx)

	c.mu.Lock()
	c.latest = quotes
	c.mu.Unlock()
}

// Latest returns the cached snapshot, or a fresh fetch if nothing is cached yet
func (c *Cache) Latest(ctx context.Context) models.Quotes {
	c.mu.RLock()
	latest := c.latest
	c.mu.RUnlock()

	if latest.FetchedAt.IsZero() {
		c.Refresh(ctx)
		c.mu.RLock()
		latest = c.latest
		c.mu.RUnlock()
	}
	return latest
}

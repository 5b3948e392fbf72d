package catalog

import (
	"bytes"
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/metrics"
)

// Provider ties fetching, caching and parsing together and publishes each
// parsed snapshot to a Store.
type Provider struct {
	fetcher *Fetcher
	cache   *Cache // optional
	store   *Store
	logger  *zap.Logger
}

// NewProvider creates a Provider. cache may be nil to disable the disk cache.
func NewProvider(fetcher *Fetcher, cache *Cache, store *Store, logger *zap.Logger) *Provider {
	return &Provider{
		fetcher: fetcher,
		cache:   cache,
		store:   store,
		logger:  logger.Named("catalog"),
	}
}

// Store returns the store snapshots are published to.
func (p *Provider) Store() *Store {
	return p.store
}

// Refresh fetches the catalog, writes it to the cache and publishes the
// parsed snapshot. A cache write failure is logged and does not fail the
// refresh.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	body, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if p.cache != nil {
		if err := p.cache.Write(body, now); err != nil {
			p.logger.Warn("caching catalog page failed", zap.Error(err))
		}
	}

	return p.publish(body, p.fetcher.SourceURL(), now)
}

// LoadCached publishes the newest cached page without touching the network.
func (p *Provider) LoadCached() (*Snapshot, error) {
	if p.cache == nil {
		return nil, eris.New("catalog cache is disabled")
	}
	body, ts, err := p.cache.LoadLatest()
	if err != nil {
		return nil, err
	}
	return p.publish(body, "cache:"+p.cache.Dir(), ts)
}

func (p *Provider) publish(body []byte, source string, fetchedAt time.Time) (*Snapshot, error) {
	records, skipped, err := Parse(bytes.NewReader(body), p.logger)
	if err != nil {
		return nil, err
	}
	metrics.AddRowsParsed(len(records))
	metrics.AddRowsSkipped(skipped)

	snap := &Snapshot{
		Source:    source,
		FetchedAt: fetchedAt,
		Records:   records,
		Skipped:   skipped,
	}
	p.store.Set(snap)

	p.logger.Info("catalog snapshot published",
		zap.String("source", source),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
	)
	return snap, nil
}

package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/stratsim/market"
	"github.com/quantfold/stratsim/store"
)

// Cached wraps a Provider with the SQLite bar cache: cache hits skip the
// source entirely, and fresh fetches are written back for the next run.
type Cached struct {
	Source Provider
	Cache  *store.BarCache
	Log    *zap.Logger
}

// NewCached builds a caching provider. A nil logger disables logging.
func NewCached(source Provider, cache *store.BarCache, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{Source: source, Cache: cache, Log: log}
}

// Fetch serves from the cache when it has any bars for the range, otherwise
// fetches from the source and saves the result. A cache read error is not
// fatal; the source is still consulted.
func (c *Cached) Fetch(ctx context.Context, symbol string, start, end time.Time) (market.Series, error) {
	cached, err := c.Cache.LoadSeries(ctx, symbol, start, end)
	if err != nil {
		c.Log.Warn("bar cache read failed, falling back to source",
			zap.String("symbol", symbol), zap.Error(err))
	} else if !cached.Empty() {
		c.Log.Debug("bar cache hit",
			zap.String("symbol", symbol), zap.Int("bars", cached.Len()))
		return cached, nil
	}

	fetched, err := c.Source.Fetch(ctx, symbol, start, end)
	if err != nil {
		return market.Series{}, err
	}

	if err := c.Cache.SaveSeries(ctx, fetched); err != nil {
		c.Log.Warn("bar cache write failed",
			zap.String("symbol", symbol), zap.Error(err))
	}

	c.Log.Info("fetched bars from source",
		zap.String("symbol", symbol), zap.Int("bars", fetched.Len()))
	return fetched, nil
}

// Package provider supplies historical daily OHLC series to the pipeline.
//
// Providers are the boundary between the pure core and the outside world:
// network fetches, local datasets, and the bar cache all live behind the
// same interface. An unknown symbol or an empty date range yields an empty
// series, never an error; downstream stages treat an empty series as a
// defined pass-through input.
package provider

import (
	"context"
	"time"

	"github.com/quantfold/stratsim/market"
)

// Provider fetches the daily bars for a symbol over [start, end].
type Provider interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (market.Series, error)
}

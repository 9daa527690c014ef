// Package store caches fetched daily bars in SQLite so repeated runs over
// the same symbol and range skip the network. Simulation results are never
// stored here; only provider input data is.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantfold/stratsim/market"
)

// BarCache is a SQLite-backed store of daily bars keyed by symbol and day.
type BarCache struct {
	db *sql.DB
}

// Open opens (creating if needed) the bar cache at path.
func Open(path string) (*BarCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &BarCache{db: db}, nil
}

// SaveSeries upserts every bar of the series. Re-saving a day overwrites it,
// so refreshed downloads win over stale cache rows.
func (c *BarCache) SaveSeries(ctx context.Context, s market.Series) error {
	if s.Empty() {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars
		(symbol, day, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range s.Bars {
		if _, err := stmt.ExecContext(ctx,
			s.Symbol, b.Time.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSeries reads the cached bars for symbol inside [start, end] in
// chronological order. A symbol with no cached rows yields an empty series.
func (c *BarCache) LoadSeries(ctx context.Context, symbol string, start, end time.Time) (market.Series, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT day, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND day >= ? AND day <= ?
		ORDER BY day ASC`,
		symbol, start.UTC(), end.UTC(),
	)
	if err != nil {
		return market.Series{}, err
	}
	defer rows.Close()

	series := market.Series{Symbol: symbol}
	for rows.Next() {
		var b market.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return market.Series{}, err
		}
		b.Time = b.Time.UTC()
		if err := series.Append(b); err != nil {
			return market.Series{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return market.Series{}, err
	}

	return series, nil
}

// Close closes the underlying database.
func (c *BarCache) Close() error {
	return c.db.Close()
}

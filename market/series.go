// Package market defines the daily OHLC bar and the ordered series type that
// every pipeline stage consumes and augments.
package market

import (
	"fmt"
	"math"
	"time"
)

// Undefined is the explicit "no value" marker for warm-up and zero-division
// slots in derived columns. It is IEEE NaN on purpose: it propagates through
// arithmetic and compares false against everything, so a missing value can
// never masquerade as zero or infinity.
func Undefined() float64 { return math.NaN() }

// Defined reports whether v carries a real value.
func Defined(v float64) bool { return !math.IsNaN(v) }

// UndefinedColumn returns a length-n column with every slot undefined.
func UndefinedColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}

// Series is an ordered run of daily bars for a single symbol.
// Insertion order is chronological order: timestamps are unique and strictly
// increasing. Calendar gaps (holidays, weekends) are allowed.
type Series struct {
	Symbol string
	Bars   []Bar
}

// NewSeries builds a Series from bars, enforcing the ordering invariant.
func NewSeries(symbol string, bars []Bar) (Series, error) {
	s := Series{Symbol: symbol}
	for _, b := range bars {
		if err := s.Append(b); err != nil {
			return Series{}, err
		}
	}
	return s, nil
}

// Append adds a bar to the end of the series. The bar's timestamp must be
// strictly after the last bar's.
func (s *Series) Append(b Bar) error {
	if n := len(s.Bars); n > 0 {
		last := s.Bars[n-1].Time
		if !b.Time.After(last) {
			return fmt.Errorf("market: bar %s out of order (last %s)",
				b.Time.Format(time.RFC3339), last.Format(time.RFC3339))
		}
	}
	s.Bars = append(s.Bars, b)
	return nil
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Empty reports whether the series has no bars.
func (s Series) Empty() bool { return len(s.Bars) == 0 }

// Closes returns the close column.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

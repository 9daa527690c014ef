package strategies

import (
	"github.com/quantfold/stratsim/indicators"
	"github.com/quantfold/stratsim/market"
)

// Compile-time interface check.
var _ Strategy = (*SMACross)(nil)

// SMACross holds long while the short-window SMA is above the long-window
// SMA. The signal column defaults to 0.0 and is evaluated only from index
// shortWindow onward; earlier bars keep the flat default even where the short
// SMA is already defined.
//
// shortWindow >= longWindow is numerically well-defined but produces a
// rarely-crossing, mostly useless signal; choosing sensible windows is the
// caller's responsibility.
type SMACross struct {
	shortWindow int
	longWindow  int
}

// NewSMACross creates an SMA crossover strategy with the given windows.
func NewSMACross(short, long int) *SMACross {
	return &SMACross{shortWindow: short, longWindow: long}
}

func (s *SMACross) Name() string { return "sma-cross" }

func (s *SMACross) Generate(series market.Series) SignalSeries {
	if series.Empty() {
		return SignalSeries{Series: series}
	}

	closes := series.Closes()
	short := indicators.SMAColumn(closes, s.shortWindow)
	long := indicators.SMAColumn(closes, s.longWindow)

	signal := make([]float64, series.Len())
	start := s.shortWindow
	if start < 0 {
		start = 0
	}
	for i := start; i < len(signal); i++ {
		// An undefined SMA compares false, so the signal stays flat until
		// both windows have history.
		if short[i] > long[i] {
			signal[i] = 1.0
		}
	}

	return SignalSeries{
		Series:   series,
		ShortSMA: short,
		LongSMA:  long,
		Signal:   signal,
		Position: positionDiff(signal),
	}
}

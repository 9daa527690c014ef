package strategies

import (
	"github.com/quantfold/stratsim/indicators"
	"github.com/quantfold/stratsim/market"
)

// Compile-time interface check.
var _ Strategy = (*RSIReversion)(nil)

// RSIReversion is a mean-reversion regime over the Wilder RSI: enter long
// when RSI drops below the oversold threshold, exit when it rises above the
// overbought threshold, hold otherwise.
//
// The regime scan is inherently sequential: each bar's signal depends on the
// previous bar's state, so Generate folds a single inTrade boolean over the
// series in chronological order. Bars with an undefined RSI (warm-up,
// zero-average-loss) leave the state untouched and emit the current regime.
type RSIReversion struct {
	window     int
	oversold   int
	overbought int
}

// NewRSIReversion creates an RSI mean-reversion strategy. Callers must keep
// oversold < overbought; the reverse orders the thresholds so that the
// regime enters and exits on the same bar range, which is degenerate but
// still deterministic.
func NewRSIReversion(window, oversold, overbought int) *RSIReversion {
	return &RSIReversion{window: window, oversold: oversold, overbought: overbought}
}

func (s *RSIReversion) Name() string { return "rsi-reversion" }

func (s *RSIReversion) Generate(series market.Series) SignalSeries {
	if series.Empty() {
		return SignalSeries{Series: series}
	}

	rsi := indicators.RSIColumn(series.Closes(), s.window)

	signal := make([]float64, series.Len())
	inTrade := false
	for i, v := range rsi {
		if market.Defined(v) {
			switch {
			case !inTrade && v < float64(s.oversold):
				inTrade = true
			case inTrade && v > float64(s.overbought):
				inTrade = false
			}
		}
		if inTrade {
			signal[i] = 1.0
		}
	}

	return SignalSeries{
		Series:   series,
		RSI:      rsi,
		Signal:   signal,
		Position: positionDiff(signal),
	}
}

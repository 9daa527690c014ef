// Package backtest turns a regime signal into lagged market and strategy
// returns with their cumulative compounding.
package backtest

import (
	"github.com/quantfold/stratsim/market"
	"github.com/quantfold/stratsim/strategies"
)

// Report is a signal series annotated with per-bar and cumulative returns.
type Report struct {
	Signals strategies.SignalSeries

	// MarketReturn is Close_t / Close_{t-1} - 1; undefined at index 0.
	MarketReturn []float64

	// StrategyReturn is MarketReturn_t * Signal_{t-1}: the position entered
	// on a bar's close cannot earn that same bar's move. Undefined at
	// index 0.
	StrategyReturn []float64

	// Cumulative products of (1 + return). Undefined slots of the per-bar
	// column stay undefined here and contribute identity to the running
	// product.
	CumMarketReturn   []float64
	CumStrategyReturn []float64
}

// HasReturns reports whether the report carries return columns covering
// every bar.
func (r Report) HasReturns() bool {
	return r.StrategyReturn != nil && len(r.StrategyReturn) == r.Signals.Series.Len()
}

// Run computes the return columns for a signal series. An empty series, or
// one without a signal column, passes through unchanged: that is a defined
// terminal state, not an error.
//
// Run never mutates its input; the returned report shares the input's bars
// and signal columns and adds freshly allocated return columns.
func Run(ss strategies.SignalSeries) Report {
	if ss.Series.Empty() || !ss.HasSignal() {
		return Report{Signals: ss}
	}

	n := ss.Series.Len()
	mkt := market.UndefinedColumn(n)
	strat := market.UndefinedColumn(n)

	for i := 1; i < n; i++ {
		mkt[i] = ss.Series.Bars[i].Close/ss.Series.Bars[i-1].Close - 1
		strat[i] = mkt[i] * ss.Signal[i-1]
	}

	return Report{
		Signals:           ss,
		MarketReturn:      mkt,
		StrategyReturn:    strat,
		CumMarketReturn:   CumulativeReturn(mkt),
		CumStrategyReturn: CumulativeReturn(strat),
	}
}

// CumulativeReturn compounds (1 + r) over the per-bar return column.
// Undefined slots stay undefined in the output and are skipped by the
// running product, so the first defined cumulative value compounds only the
// defined returns before it.
func CumulativeReturn(returns []float64) []float64 {
	out := market.UndefinedColumn(len(returns))
	prod := 1.0
	for i, r := range returns {
		if !market.Defined(r) {
			continue
		}
		prod *= 1 + r
		out[i] = prod
	}
	return out
}

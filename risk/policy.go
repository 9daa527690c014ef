// Package risk caps per-bar strategy losses at a configured stop-loss level.
package risk

import (
	"github.com/quantfold/stratsim/backtest"
	"github.com/quantfold/stratsim/market"
)

// Policy holds the risk limits applied after a backtest run.
type Policy struct {
	// MaxLossPerTrade is the largest tolerated single-bar loss as a
	// fraction in (0, 1], e.g. 0.02 for 2%. Each bar's strategy return is
	// floored at -MaxLossPerTrade, simulating a stop-loss fill at exactly
	// that level.
	MaxLossPerTrade float64
}

// AdjustedReport is a backtest report with the stop-loss clamp applied: the
// StrategyReturn column is floored at -MaxLossPerTrade, CumStrategyReturn is
// recomputed from the clamped returns, and RiskBreach marks the bars that
// were clamped.
type AdjustedReport struct {
	backtest.Report

	// RiskBreach is true where the raw strategy return fell below the cap.
	RiskBreach []bool
}

// Apply clamps each bar's strategy return independently; there is no
// cross-bar state, so a breach on one day never changes the next day's
// return. The engine's cumulative strategy column is stale after clamping
// and is recomputed here from the clamped series.
//
// A report without return columns (empty series, signal-less input) passes
// through unchanged.
func (p Policy) Apply(rep backtest.Report) AdjustedReport {
	if rep.Signals.Series.Empty() || !rep.HasReturns() {
		return AdjustedReport{Report: rep}
	}

	n := len(rep.StrategyReturn)
	clamped := make([]float64, n)
	copy(clamped, rep.StrategyReturn)
	breach := make([]bool, n)

	floor := -p.MaxLossPerTrade
	for i, r := range clamped {
		if market.Defined(r) && r < floor {
			clamped[i] = floor
			breach[i] = true
		}
	}

	out := rep
	out.StrategyReturn = clamped
	out.CumStrategyReturn = backtest.CumulativeReturn(clamped)

	return AdjustedReport{Report: out, RiskBreach: breach}
}

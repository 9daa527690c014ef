// Package report summarizes a finished simulation run for display.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/quantfold/stratsim/market"
	"github.com/quantfold/stratsim/risk"
)

// Summary is a lightweight digest of a simulation run.
type Summary struct {
	RunID    string
	Created  time.Time
	Strategy string
	Symbol   string

	// Start and End bound the bars actually simulated, which can be
	// narrower than the requested range when the source has gaps.
	Start time.Time
	End   time.Time
	Bars  int

	// Trades counts buy transitions in the position column.
	Trades int

	// Total returns over the simulated period, as fractions. HasReturns
	// is false when the run produced no return columns (empty series).
	HasReturns     bool
	MarketReturn   float64
	StrategyReturn float64
	Alpha          float64

	Breaches        int
	MaxLossPerTrade float64
}

// New digests a risk-adjusted report into a printable summary.
func New(runID, strategy string, pol risk.Policy, adj risk.AdjustedReport) Summary {
	s := Summary{
		RunID:           runID,
		Created:         time.Now().UTC(),
		Strategy:        strategy,
		Symbol:          adj.Signals.Series.Symbol,
		Bars:            adj.Signals.Series.Len(),
		MaxLossPerTrade: pol.MaxLossPerTrade,
	}

	if s.Bars > 0 {
		s.Start = adj.Signals.Series.Bars[0].Time
		s.End = adj.Signals.Series.Bars[s.Bars-1].Time
	}

	for _, p := range adj.Signals.Position {
		if market.Defined(p) && p > 0.5 {
			s.Trades++
		}
	}

	for _, b := range adj.RiskBreach {
		if b {
			s.Breaches++
		}
	}

	mkt, okMkt := lastDefined(adj.CumMarketReturn)
	strat, okStrat := lastDefined(adj.CumStrategyReturn)
	if okMkt && okStrat {
		s.HasReturns = true
		s.MarketReturn = mkt - 1
		s.StrategyReturn = strat - 1
		s.Alpha = s.StrategyReturn - s.MarketReturn
	}

	return s
}

// lastDefined returns the last defined value of a column.
func lastDefined(col []float64) (float64, bool) {
	for i := len(col) - 1; i >= 0; i-- {
		if market.Defined(col[i]) {
			return col[i], true
		}
	}
	return 0, false
}

// Print writes the summary in the fixed-width text layout used by the CLI.
func Print(w io.Writer, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Simulation Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", s.RunID)
	fmt.Fprintf(w, "Created:       %s\n", s.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Strategy:      %s\n", s.Strategy)
	fmt.Fprintf(w, "Symbol:        %s\n", s.Symbol)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if s.Bars > 0 {
		fmt.Fprintf(w, "Start:         %s\n", s.Start.Format("2006-01-02"))
		fmt.Fprintf(w, "End:           %s\n", s.End.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Bars:          %d\n", s.Bars)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	if s.HasReturns {
		fmt.Fprintf(w, "Market:        %+.2f%%\n", s.MarketReturn*100)
		fmt.Fprintf(w, "Strategy:      %+.2f%%\n", s.StrategyReturn*100)
		fmt.Fprintf(w, "Alpha:         %+.2f%%\n", s.Alpha*100)
	} else {
		fmt.Fprintln(w, "Returns:       n/a (no bars)")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Loss Cap:      %.2f%%\n", s.MaxLossPerTrade*100)
	fmt.Fprintf(w, "Breaches:      %d\n", s.Breaches)

	fmt.Fprintln(w)
}

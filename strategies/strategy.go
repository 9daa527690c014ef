// Package strategies turns a price series into a per-bar trading regime
// signal. Each strategy is a pure function over the full series: it returns a
// new annotated view and never mutates its input, so running it twice on the
// same series yields identical output.
package strategies

import (
	"fmt"
	"strings"

	"github.com/quantfold/stratsim/market"
)

// SignalSeries is a price series annotated with a regime signal and the
// indicator columns that produced it. Indicator columns are nil when the
// generating strategy does not compute them.
type SignalSeries struct {
	Series market.Series

	ShortSMA []float64 // SMA crossover only
	LongSMA  []float64 // SMA crossover only
	RSI      []float64 // RSI reversion only

	// Signal is the per-bar regime: 1.0 long, 0.0 flat.
	Signal []float64

	// Position is the first difference of Signal: +1.0 buy transition,
	// -1.0 sell transition, 0.0 no change. Undefined at index 0.
	Position []float64
}

// HasSignal reports whether the series carries a signal column covering
// every bar. Downstream stages pass the series through untouched when it
// does not.
func (ss SignalSeries) HasSignal() bool {
	return ss.Signal != nil && len(ss.Signal) == ss.Series.Len()
}

// Strategy generates a regime signal from a price series.
type Strategy interface {
	// Name returns a stable identifier like "sma-cross" or "rsi-reversion".
	Name() string

	// Generate annotates the series with Signal and Position columns.
	// An empty series comes back unchanged with no columns attached.
	Generate(s market.Series) SignalSeries
}

// Params carries the union of strategy parameters so callers can build a
// strategy from configuration. Validation is the caller's job (see
// config.Validate); a strategy fed degenerate parameters still produces a
// well-defined, if useless, signal.
type Params struct {
	ShortWindow int
	LongWindow  int

	RSIWindow  int
	Oversold   int
	Overbought int
}

// ByName builds a strategy from its name and parameters.
func ByName(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sma-cross", "smacross", "sma":
		return NewSMACross(p.ShortWindow, p.LongWindow), nil

	case "rsi-reversion", "rsi":
		return NewRSIReversion(p.RSIWindow, p.Oversold, p.Overbought), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: sma-cross, rsi-reversion)", name)
	}
}

// positionDiff computes the first difference of the signal column. The first
// bar has no predecessor, so its position is undefined.
func positionDiff(signal []float64) []float64 {
	pos := market.UndefinedColumn(len(signal))
	for i := 1; i < len(signal); i++ {
		pos[i] = signal[i] - signal[i-1]
	}
	return pos
}

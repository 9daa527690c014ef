package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/stratsim/backtest"
	"github.com/quantfold/stratsim/market"
	"github.com/quantfold/stratsim/strategies"
)

func reportFor(t *testing.T, closes, signal []float64) backtest.Report {
	t.Helper()
	bars := make([]market.Bar, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = market.Bar{Time: base.AddDate(0, 0, i), Close: c}
	}
	s, err := market.NewSeries("TEST", bars)
	require.NoError(t, err)
	return backtest.Run(strategies.SignalSeries{Series: s, Signal: signal})
}

func TestApplyClampsAndFlags(t *testing.T) {
	// Long from the first bar: day two loses 5%, day three loses 1%.
	rep := reportFor(t, []float64{100, 95, 94.05}, []float64{1, 1, 1})
	require.True(t, rep.HasReturns())
	assert.InDelta(t, -0.05, rep.StrategyReturn[1], 1e-9)
	assert.InDelta(t, -0.01, rep.StrategyReturn[2], 1e-9)

	adj := Policy{MaxLossPerTrade: 0.02}.Apply(rep)

	assert.InDelta(t, -0.02, adj.StrategyReturn[1], 1e-12)
	assert.True(t, adj.RiskBreach[1])

	assert.InDelta(t, -0.01, adj.StrategyReturn[2], 1e-9)
	assert.False(t, adj.RiskBreach[2])

	// Cumulative strategy return is recomputed from the clamped series.
	assert.InDelta(t, 0.98, adj.CumStrategyReturn[1], 1e-12)
	assert.InDelta(t, 0.98*0.99, adj.CumStrategyReturn[2], 1e-9)
}

func TestApplyFloorInvariant(t *testing.T) {
	closes := []float64{100, 90, 99, 80, 100, 97}
	rep := reportFor(t, closes, []float64{1, 1, 1, 1, 1, 1})

	maxLoss := 0.03
	adj := Policy{MaxLossPerTrade: maxLoss}.Apply(rep)

	for i, r := range adj.StrategyReturn {
		if !market.Defined(r) {
			continue
		}
		assert.GreaterOrEqual(t, r, -maxLoss-1e-12, "index %d", i)
		assert.Equal(t, rep.StrategyReturn[i] < -maxLoss, adj.RiskBreach[i], "index %d", i)
	}
}

func TestApplyNoBreachLeavesReturnsAlone(t *testing.T) {
	rep := reportFor(t, []float64{100, 101, 100.5}, []float64{1, 1, 1})
	adj := Policy{MaxLossPerTrade: 0.02}.Apply(rep)

	for i := 1; i < len(adj.StrategyReturn); i++ {
		assert.Equal(t, rep.StrategyReturn[i], adj.StrategyReturn[i], "index %d", i)
		assert.False(t, adj.RiskBreach[i])
	}
}

func TestApplyPassThrough(t *testing.T) {
	// Empty input.
	adj := Policy{MaxLossPerTrade: 0.02}.Apply(backtest.Report{})
	assert.Nil(t, adj.RiskBreach)
	assert.False(t, adj.HasReturns())

	// Series without a signal column never gained return columns; the risk
	// stage passes it through the same way.
	rep := reportFor(t, []float64{100, 101}, nil)
	adj = Policy{MaxLossPerTrade: 0.02}.Apply(rep)
	assert.Nil(t, adj.RiskBreach)
	assert.False(t, adj.HasReturns())
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rep := reportFor(t, []float64{100, 95, 99}, []float64{1, 1, 1})
	raw1 := rep.StrategyReturn[1]
	cum2 := rep.CumStrategyReturn[2]

	_ = Policy{MaxLossPerTrade: 0.02}.Apply(rep)

	assert.Equal(t, raw1, rep.StrategyReturn[1])
	assert.Equal(t, cum2, rep.CumStrategyReturn[2])
}

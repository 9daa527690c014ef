package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/stratsim/market"
)

func TestRSIReversionEntersAndExits(t *testing.T) {
	// Three hard down days push RSI(2) to 0 (enter), then three strong up
	// days push it above 70 (exit).
	closes := []float64{100, 98, 96, 94, 100, 106, 112}
	out := NewRSIReversion(2, 30, 70).Generate(seriesFromCloses(t, closes))
	require.True(t, out.HasSignal())

	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0, 0}, out.Signal)
	assert.False(t, market.Defined(out.Position[0]))
	assert.Equal(t, []float64{0, 1, 0, -1, 0, 0}, out.Position[1:])
}

func TestRSIReversionWarmupStaysFlat(t *testing.T) {
	// RSI(14) never becomes defined on a 5-bar series; the regime stays flat
	// for the whole length.
	out := NewRSIReversion(14, 30, 70).Generate(seriesFromCloses(t, []float64{100, 99, 101, 98, 102}))
	require.True(t, out.HasSignal())
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Signal)

	for i, v := range out.RSI {
		assert.False(t, market.Defined(v), "index %d", i)
	}
}

func TestRSIReversionUndefinedRSIKeepsRegime(t *testing.T) {
	// After entering on the oversold bar, the regime holds through later
	// bars regardless of RSI wiggles below the overbought threshold.
	closes := []float64{100, 97, 94, 91, 92, 91.5, 92.5}
	out := NewRSIReversion(2, 30, 70).Generate(seriesFromCloses(t, closes))

	entered := false
	for i := range out.Signal {
		if out.Signal[i] == 1.0 {
			entered = true
		}
		if entered {
			assert.Equal(t, 1.0, out.Signal[i], "index %d", i)
		}
	}
	assert.True(t, entered)
}

func TestRSIReversionEmptySeries(t *testing.T) {
	var s market.Series
	out := NewRSIReversion(14, 30, 70).Generate(s)
	assert.True(t, out.Series.Empty())
	assert.False(t, out.HasSignal())
}

func TestRSIReversionIdempotent(t *testing.T) {
	closes := []float64{100, 98, 96, 94, 100, 106, 112, 108, 104, 100, 96, 102}
	s := seriesFromCloses(t, closes)

	strat := NewRSIReversion(2, 30, 70)
	first := strat.Generate(s)
	second := strat.Generate(s)

	// No state leaks across calls: outputs are bit-identical.
	assert.Equal(t, first.Signal, second.Signal)
	for i := range first.RSI {
		if market.Defined(first.RSI[i]) {
			assert.Equal(t, first.RSI[i], second.RSI[i], "index %d", i)
		} else {
			assert.False(t, market.Defined(second.RSI[i]), "index %d", i)
		}
	}
}

package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantfold/stratsim/market"
)

func barsFromCloses(closes []float64) []market.Bar {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Close: c}
	}
	return bars
}

func TestSMAColumn(t *testing.T) {
	closes := []float64{100, 102, 101, 95, 99}
	col := SMAColumn(closes, 3)

	assert.False(t, market.Defined(col[0]))
	assert.False(t, market.Defined(col[1]))
	// (100+102+101)/3
	assert.InDelta(t, 101.0, col[2], 1e-9)
	assert.InDelta(t, (102.0+101+95)/3, col[3], 1e-9)
	assert.InDelta(t, (101.0+95+99)/3, col[4], 1e-9)
}

func TestSMAColumnShortInput(t *testing.T) {
	col := SMAColumn([]float64{100, 102}, 5)
	for _, v := range col {
		assert.False(t, market.Defined(v))
	}
}

func TestSimpleMAStreamingMatchesColumn(t *testing.T) {
	closes := []float64{100, 102, 101, 95, 99, 103, 98}
	col := SMAColumn(closes, 3)

	sma := NewSMA(3)
	for i, b := range barsFromCloses(closes) {
		sma.Update(b)
		if i < sma.Warmup()-1 {
			assert.False(t, sma.Ready(), "index %d", i)
			assert.False(t, market.Defined(sma.Value()))
			continue
		}
		assert.True(t, sma.Ready(), "index %d", i)
		assert.InDelta(t, col[i], sma.Value(), 1e-9, "index %d", i)
	}
}

func TestWilderRSIExactValue(t *testing.T) {
	// period=2, closes 1,2,3,2: two up moves then one down.
	// Weighted sums at the last bar: gains 0.75, losses 1, weight 1.75,
	// so RS = 0.75 and RSI = 100 - 100/1.75.
	col := RSIColumn([]float64{1, 2, 3, 2}, 2)

	assert.False(t, market.Defined(col[0]))
	assert.False(t, market.Defined(col[1])) // only one price change observed
	assert.False(t, market.Defined(col[2])) // avg loss is zero: RS undefined
	assert.InDelta(t, 100-100/1.75, col[3], 1e-9)
}

func TestWilderRSIZeroLossUndefined(t *testing.T) {
	// Strictly increasing closes: the average loss stays exactly zero, so the
	// RS ratio never has a finite value and RSI stays undefined throughout.
	col := RSIColumn([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 3)
	for i, v := range col {
		assert.False(t, market.Defined(v), "index %d", i)
	}
}

func TestWilderRSITrendsLowOnDecline(t *testing.T) {
	closes := []float64{100, 99, 98, 97, 96, 95, 94, 93, 92, 91, 90}
	col := RSIColumn(closes, 3)

	last := col[len(col)-1]
	assert.True(t, market.Defined(last))
	assert.Less(t, last, 10.0)
}

func TestWilderRSITrendsHighOnRally(t *testing.T) {
	// Mostly rising with a single small dip so the average loss is nonzero
	// and RSI is defined.
	closes := []float64{100, 101, 102, 101.9, 103, 104, 105, 106, 107, 108}
	col := RSIColumn(closes, 3)

	last := col[len(col)-1]
	assert.True(t, market.Defined(last))
	assert.Greater(t, last, 90.0)
}

func TestWilderRSIResetRepeats(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 98, 103}
	bars := barsFromCloses(closes)

	rsi := NewRSI(2)
	first := make([]float64, 0, len(bars))
	for _, b := range bars {
		rsi.Update(b)
		first = append(first, rsi.Value())
	}

	rsi.Reset()
	for i, b := range bars {
		rsi.Update(b)
		if market.Defined(first[i]) {
			assert.InDelta(t, first[i], rsi.Value(), 1e-12, "index %d", i)
		} else {
			assert.False(t, market.Defined(rsi.Value()), "index %d", i)
		}
	}
}

func TestIndicatorNames(t *testing.T) {
	assert.Equal(t, "SMA(20)", NewSMA(20).Name())
	assert.Equal(t, "RSI(14)", NewRSI(14).Name())
	assert.Equal(t, 15, NewRSI(14).Warmup())
}

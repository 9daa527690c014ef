package indicators

import (
	"fmt"

	"github.com/quantfold/stratsim/market"
)

// WilderRSI is a streaming Relative Strength Index using Wilder's exponential
// smoothing of average gains and losses (center of mass = period-1, so the
// smoothing factor is 1/period). The weighted-mean form keeps early values
// identical to a full recompute over the observed history.
//
// The average gain/loss become meaningful only after `period` price changes;
// before that Value() is undefined. When the average loss is exactly zero the
// RS ratio has no finite value, so Value() is undefined for that bar rather
// than saturating at 100.
type WilderRSI struct {
	period int

	prevClose float64
	havePrev  bool

	gainSum float64 // decayed weighted sum of gains
	lossSum float64 // decayed weighted sum of losses
	weight  float64 // decayed weight total shared by both sums
	count   int     // observed price changes
}

// NewRSI creates a Wilder-smoothed RSI indicator with the given period.
func NewRSI(period int) *WilderRSI {
	return &WilderRSI{period: period}
}

func (r *WilderRSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

// Warmup is period+1 bars: one to seed the previous close, then period price
// changes.
func (r *WilderRSI) Warmup() int {
	return r.period + 1
}

func (r *WilderRSI) Reset() {
	r.prevClose = 0
	r.havePrev = false
	r.gainSum = 0
	r.lossSum = 0
	r.weight = 0
	r.count = 0
}

func (r *WilderRSI) Update(b market.Bar) {
	if !r.havePrev {
		r.prevClose = b.Close
		r.havePrev = true
		return
	}

	delta := b.Close - r.prevClose
	r.prevClose = b.Close

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	decay := 1 - 1/float64(r.period)
	r.gainSum = decay*r.gainSum + gain
	r.lossSum = decay*r.lossSum + loss
	r.weight = decay*r.weight + 1
	r.count++
}

func (r *WilderRSI) Ready() bool {
	return r.period > 0 && r.count >= r.period
}

func (r *WilderRSI) Value() float64 {
	if !r.Ready() {
		return market.Undefined()
	}

	avgGain := r.gainSum / r.weight
	avgLoss := r.lossSum / r.weight
	if avgLoss == 0 {
		// RS has no finite value; leave the slot undefined.
		return market.Undefined()
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// RSIColumn computes the Wilder RSI of closes for every index. Warm-up slots
// and zero-average-loss slots are undefined.
func RSIColumn(closes []float64, period int) []float64 {
	col := market.UndefinedColumn(len(closes))
	if period <= 0 {
		return col
	}

	rsi := NewRSI(period)
	for i, c := range closes {
		rsi.Update(market.Bar{Close: c})
		col[i] = rsi.Value()
	}
	return col
}

package indicators

import (
	"fmt"

	"github.com/quantfold/stratsim/market"
)

// SimpleMA is a streaming Simple Moving Average over closing prices.
type SimpleMA struct {
	period int
	closes []float64
}

// NewSMA creates a Simple Moving Average indicator with the given period.
func NewSMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.closes = m.closes[:0]
}

func (m *SimpleMA) Update(b market.Bar) {
	m.closes = append(m.closes, b.Close)
	// Keep only the last 'period' closes
	if len(m.closes) > m.period {
		m.closes = m.closes[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.closes) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return market.Undefined()
	}

	sum := 0.0
	for _, c := range m.closes {
		sum += c
	}
	return sum / float64(len(m.closes))
}

// SMAColumn computes the trailing simple mean of closes over the given
// window for every index. Slots with fewer than window observations are
// undefined, never zero.
func SMAColumn(closes []float64, window int) []float64 {
	col := market.UndefinedColumn(len(closes))
	if window <= 0 {
		return col
	}

	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			col[i] = sum / float64(window)
		}
	}
	return col
}

// Package indicators provides technical analysis indicators for daily bars.
package indicators

import "github.com/quantfold/stratsim/market"

// Indicator computes a single streaming value from bars.
// It is deterministic: feeding the same bars in the same order always yields
// the same values, so an indicator can be reused across runs after Reset.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. Before Ready(), and for
	// slots the indicator cannot define (e.g. a zero-division guard), it
	// returns market.Undefined(); callers should check market.Defined.
	Value() float64
}

package market

import "time"

// Bar is one daily OHLC price observation. Close is assumed positive; ratio
// math downstream divides by it.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

package model

import "time"

// IndicatorSnapshot holds the indicator values at one bar where every
// rolling window is fully populated.
type IndicatorSnapshot struct {
	Time       time.Time
	Close      float64
	MA50       float64
	RSI14      float64
	MACD       float64
	MACDSignal float64
}

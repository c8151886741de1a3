package calculator

import (
	"math"

	"SignalSentinel/internal/model"
)

const (
	MAPeriod         = 50
	RSIPeriod        = 14
	MACDShortPeriod  = 12
	MACDLongPeriod   = 26
	MACDSignalPeriod = 9
)

// ComputeSnapshots returns one snapshot per bar where MA50, RSI14, MACD and
// its signal line are all defined. Earlier bars are dropped, so a series
// shorter than MAPeriod yields nothing.
func ComputeSnapshots(series model.PriceSeries) []model.IndicatorSnapshot {
	closes := series.Closes()
	if len(closes) < MAPeriod {
		return nil
	}

	ma := CalculateSMASeries(closes, MAPeriod)
	rsi := CalculateRSISeries(closes, RSIPeriod)
	macd, signal := CalculateMACD(closes, MACDShortPeriod, MACDLongPeriod, MACDSignalPeriod)

	snaps := make([]model.IndicatorSnapshot, 0, len(closes)-MAPeriod+1)
	for i, p := range series.Points {
		if anyNaN(ma[i], rsi[i], macd[i], signal[i]) {
			continue
		}
		snaps = append(snaps, model.IndicatorSnapshot{
			Time:       p.Time,
			Close:      p.Close,
			MA50:       ma[i],
			RSI14:      rsi[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
		})
	}
	return snaps
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

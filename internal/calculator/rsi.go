package calculator

import "math"

// CalculateRSISeries computes RSI from simple rolling means of gains and
// losses (not Wilder smoothing). Index i is defined once `period` deltas
// ending at i exist, i.e. from i == period onward.
func CalculateRSISeries(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(closes); i++ {
		avgGain, _ := CalculateSMA(gains[i-period+1:i+1], period)
		avgLoss, _ := CalculateSMA(losses[i-period+1:i+1], period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

// rsiFromAverages maps mean gain/loss to RSI. A window that never moved has
// no defined RSI.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

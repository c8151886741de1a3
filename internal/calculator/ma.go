package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSMASeries returns the trailing SMA at every index.
// Indexes without a full window hold NaN.
func CalculateSMASeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range prices {
		sma, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = sma
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

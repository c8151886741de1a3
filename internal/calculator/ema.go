package calculator

// CalculateEMASeries computes an exponential moving average with
// alpha = 2/(span+1), seeded with the first value and without bias adjustment.
func CalculateEMASeries(values []float64, span int) []float64 {
	if span <= 0 || len(values) == 0 {
		return nanSeries(len(values))
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// CalculateMACD returns the MACD line (EMA short - EMA long) and its signal line.
// Both are defined from the first bar but need a warm-up before they mean anything.
func CalculateMACD(closes []float64, short, long, signal int) (macd, signalLine []float64) {
	fast := CalculateEMASeries(closes, short)
	slow := CalculateEMASeries(closes, long)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	return macd, CalculateEMASeries(macd, signal)
}

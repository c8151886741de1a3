package notifier

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"SignalSentinel/internal/model"
)

// FormatSignal renders one alert line, e.g. "🚀 BUY: AAPL (Robinhood) at $189.2500".
// NONE renders as an empty string.
func FormatSignal(sig model.Signal, venue string) string {
	price := decimal.NewFromFloat(sig.Price).StringFixed(4)
	switch sig.Kind {
	case model.SignalBuy:
		return fmt.Sprintf("🚀 BUY: %s (%s) at $%s", sig.Symbol, venue, price)
	case model.SignalSell:
		return fmt.Sprintf("⚠️ SELL: %s (%s) at $%s", sig.Symbol, venue, price)
	default:
		return ""
	}
}

// BuildBatch keeps the actionable signals in the order given and renders them.
func BuildBatch(signals []model.Signal, venue string, now time.Time) model.AlertBatch {
	batch := model.AlertBatch{CreatedAt: now}
	for _, sig := range signals {
		if !sig.Actionable() {
			continue
		}
		batch.Signals = append(batch.Signals, sig)
		batch.Lines = append(batch.Lines, FormatSignal(sig, venue))
	}
	return batch
}

package collector

import (
	"context"
	"fmt"
	"log"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Collector fetches a symbol's history and turns it into indicator snapshots.
type Collector struct {
	Fetcher  Fetcher
	Lookback string
	Interval string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookback, interval string) *Collector {
	return &Collector{Fetcher: fetcher, Lookback: lookback, Interval: interval}
}

// Snapshots fetches the series for symbol and computes its snapshots.
// Too little history is not an error: the result is simply empty.
func (c *Collector) Snapshots(ctx context.Context, symbol string) ([]model.IndicatorSnapshot, error) {
	series, err := c.Fetcher.Fetch(ctx, symbol, c.Lookback, c.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), err)
	}
	snaps := calculator.ComputeSnapshots(series)
	if len(snaps) == 0 {
		log.Printf("[WARN] %s: %d bars is not enough history for indicators", symbol, len(series.Points))
	}
	return snaps, nil
}

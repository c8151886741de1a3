package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"SignalSentinel/internal/model"
)

var (
	// ErrDataUnavailable means the source answered but had no usable bars.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNetwork means the source could not be reached.
	ErrNetwork = errors.New("network error")
)

// Fetcher defines the interface for fetching market data.
// Implementations must not retry; callers decide what a failure means.
type Fetcher interface {
	Fetch(ctx context.Context, symbol, lookback, interval string) (model.PriceSeries, error)
	Name() string
}

// newHTTPClient has no client-wide timeout; the caller's context bounds
// each request.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Transport: transport}
}

// statusError classifies a non-200 upstream response.
func statusError(source string, code int, body []byte) error {
	if len(body) > 256 {
		body = body[:256]
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("%w: %s: status %d, body: %s", ErrDataUnavailable, source, code, string(body))
	}
	return fmt.Errorf("%w: %s: status %d, body: %s", ErrNetwork, source, code, string(body))
}

// normalizePoints sorts bars ascending and keeps the last bar seen for a
// duplicated timestamp.
func normalizePoints(points []model.PricePoint) []model.PricePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// lookbackBars converts a Yahoo-style range ("5d", "2wk", "6mo", "1y") into
// an approximate bar count for the given interval.
func lookbackBars(lookback, interval string) (int, error) {
	i := 0
	for i < len(lookback) && lookback[i] >= '0' && lookback[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(lookback[:i])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid lookback %q", lookback)
	}

	var days int
	switch lookback[i:] {
	case "d":
		days = n
	case "wk":
		days = n * 7
	case "mo":
		days = n * 30
	case "y":
		days = n * 365
	default:
		return 0, fmt.Errorf("invalid lookback unit in %q", lookback)
	}

	var bars int
	switch interval {
	case "1d":
		bars = days * 5 / 7 // trading days
	case "1wk":
		bars = days / 7
	case "1mo":
		bars = days / 30
	default:
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
	if bars < 1 {
		bars = 1
	}
	return bars, nil
}

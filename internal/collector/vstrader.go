package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"SignalSentinel/internal/model"
)

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	return &VsTraderFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

var vsPeriods = map[string]string{
	"1d":  "daily",
	"1wk": "weekly",
	"1mo": "monthly",
}

func (f *VsTraderFetcher) Fetch(ctx context.Context, symbol, lookback, interval string) (model.PriceSeries, error) {
	period, ok := vsPeriods[interval]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("vstrader: unsupported interval %q", interval)
	}
	limit, err := lookbackBars(lookback, interval)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("vstrader: %w", err)
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars/%s?symbol=%s&limit=%d", f.BaseURL, period, url.QueryEscape(symbol), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("vstrader build request: %w", err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: fetch bars: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceSeries{}, statusError("vstrader", resp.StatusCode, body)
	}

	var vsBars []vsBar
	if err := json.NewDecoder(resp.Body).Decode(&vsBars); err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: decode bars: %w", ErrDataUnavailable, err)
	}
	if len(vsBars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: vstrader: no bars for %s", ErrDataUnavailable, symbol)
	}

	points := make([]model.PricePoint, len(vsBars))
	for i, vb := range vsBars {
		points[i] = model.PricePoint{
			Time:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	return model.PriceSeries{
		Symbol:    symbol,
		Points:    normalizePoints(points),
		FetchedAt: time.Now(),
	}, nil
}

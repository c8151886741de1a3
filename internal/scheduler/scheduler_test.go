package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
)

type stubFetcher struct {
	series map[string][]model.PricePoint
	errs   map[string]error
	calls  atomic.Int32
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(_ context.Context, symbol, _, _ string) (model.PriceSeries, error) {
	f.calls.Add(1)
	if err := f.errs[symbol]; err != nil {
		return model.PriceSeries{}, err
	}
	return model.PriceSeries{Symbol: symbol, Points: f.series[symbol]}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, _, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bodies = append(n.bodies, body)
	return n.err
}

type recordingRecorder struct {
	batches []model.AlertBatch
	err     error
}

func (r *recordingRecorder) Append(_ context.Context, b model.AlertBatch) error {
	r.batches = append(r.batches, b)
	return r.err
}
func (r *recordingRecorder) Close() error { return nil }

// fallingBars closes below its 50-bar average with RSI 0, which evaluates to SELL.
func fallingBars(start float64, n int) []model.PricePoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PricePoint, n)
	for i := range bars {
		c := start - float64(i)
		bars[i] = model.PricePoint{Time: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return bars
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func newTestScheduler(f *stubFetcher, n *recordingNotifier, r *recordingRecorder, symbols ...string) *Scheduler {
	col := collector.NewCollector(f, "6mo", "1d")
	s := NewScheduler(context.Background(), col, n, r, symbols)
	s.Venue = "Robinhood"
	s.Subject = "alert"
	s.Now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestRunCycle_FailedSymbolIsSkipped(t *testing.T) {
	logs := captureLog(t)
	f := &stubFetcher{
		series: map[string][]model.PricePoint{
			"A": fallingBars(200, 60),
			"C": fallingBars(300, 60),
		},
		errs: map[string]error{"B": fmt.Errorf("%w: no rows", collector.ErrDataUnavailable)},
	}
	n := &recordingNotifier{}
	r := &recordingRecorder{}
	s := newTestScheduler(f, n, r, "A", "B", "C")

	batch, err := s.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLines := []string{
		"⚠️ SELL: A (Robinhood) at $141.0000",
		"⚠️ SELL: C (Robinhood) at $241.0000",
	}
	if len(batch.Lines) != len(wantLines) {
		t.Fatalf("expected %d lines, got %v", len(wantLines), batch.Lines)
	}
	for i, want := range wantLines {
		if batch.Lines[i] != want {
			t.Errorf("line %d: got %q, want %q", i, batch.Lines[i], want)
		}
	}

	if len(n.bodies) != 1 || n.bodies[0] != strings.Join(wantLines, "\n") {
		t.Errorf("expected one dispatch of the batch, got %q", n.bodies)
	}
	if len(r.batches) != 1 {
		t.Errorf("expected one append, got %d", len(r.batches))
	}

	var errorLines []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "[ERROR]") {
			errorLines = append(errorLines, line)
		}
	}
	if len(errorLines) != 1 || !strings.Contains(errorLines[0], "B") {
		t.Errorf("expected exactly one error log naming B, got %q", errorLines)
	}
}

func TestRunCycle_NoSignalsNoDispatch(t *testing.T) {
	logs := captureLog(t)
	f := &stubFetcher{series: map[string][]model.PricePoint{
		"A": fallingBars(200, 10),
		"B": fallingBars(100, 30),
	}}
	n := &recordingNotifier{}
	r := &recordingRecorder{}
	s := newTestScheduler(f, n, r, "A", "B")

	batch, err := s.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !batch.Empty() {
		t.Errorf("expected empty batch, got %v", batch.Lines)
	}
	if len(n.bodies) != 0 || len(r.batches) != 0 {
		t.Errorf("expected no dispatch and no append, got %d/%d", len(n.bodies), len(r.batches))
	}
	if !strings.Contains(logs.String(), "no signals at this time") {
		t.Errorf("expected summary log, got %q", logs.String())
	}
}

func TestRunCycle_DispatchFailureStillRecords(t *testing.T) {
	captureLog(t)
	f := &stubFetcher{series: map[string][]model.PricePoint{"A": fallingBars(200, 60)}}
	n := &recordingNotifier{err: errors.New("smtp down")}
	r := &recordingRecorder{}
	s := newTestScheduler(f, n, r, "A")

	if _, err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("dispatch failure must not fail the cycle: %v", err)
	}
	if len(r.batches) != 1 {
		t.Errorf("expected the batch to be recorded, got %d", len(r.batches))
	}
	if s.State() != StateIdle {
		t.Errorf("expected Idle after cycle, got %s", s.State())
	}
}

type stalledNotifier struct{}

func (stalledNotifier) Name() string { return "stalled" }

func (stalledNotifier) Notify(ctx context.Context, _, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunCycle_StalledDispatchIsBounded(t *testing.T) {
	logs := captureLog(t)
	f := &stubFetcher{series: map[string][]model.PricePoint{"A": fallingBars(200, 60)}}
	r := &recordingRecorder{}
	s := NewScheduler(context.Background(), collector.NewCollector(f, "6mo", "1d"), stalledNotifier{}, r, []string{"A"})
	s.SendTimeout = 50 * time.Millisecond

	done := make(chan struct{})
	go func() {
		s.RunCycle(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cycle stuck behind a stalled notifier")
	}

	if s.State() != StateIdle {
		t.Errorf("expected Idle, got %s", s.State())
	}
	if len(r.batches) != 1 {
		t.Errorf("expected the batch to be recorded, got %d", len(r.batches))
	}
	if !strings.Contains(logs.String(), "context deadline exceeded") {
		t.Errorf("expected dispatch timeout to be logged, got %q", logs.String())
	}
}

func TestRunCycle_SkipsWhileEvaluating(t *testing.T) {
	f := &stubFetcher{series: map[string][]model.PricePoint{"A": fallingBars(200, 60)}}
	s := newTestScheduler(f, &recordingNotifier{}, &recordingRecorder{}, "A")

	s.state.Store(int32(StateEvaluating))
	if _, err := s.RunCycle(context.Background()); !errors.Is(err, ErrCycleInFlight) {
		t.Fatalf("expected ErrCycleInFlight, got %v", err)
	}
	if f.calls.Load() != 0 {
		t.Errorf("expected no fetches, got %d", f.calls.Load())
	}
}

func TestRunCycle_OrderWithManySymbols(t *testing.T) {
	captureLog(t)
	series := map[string][]model.PricePoint{}
	var symbols []string
	for i := 0; i < 12; i++ {
		sym := fmt.Sprintf("S%02d", i)
		symbols = append(symbols, sym)
		series[sym] = fallingBars(500-float64(i), 60)
	}
	s := newTestScheduler(&stubFetcher{series: series}, &recordingNotifier{}, &recordingRecorder{}, symbols...)
	s.Concurrency = 3

	batch, _ := s.RunCycle(context.Background())
	if len(batch.Signals) != len(symbols) {
		t.Fatalf("expected %d signals, got %d", len(symbols), len(batch.Signals))
	}
	for i, sig := range batch.Signals {
		if sig.Symbol != symbols[i] {
			t.Errorf("position %d: got %s, want %s", i, sig.Symbol, symbols[i])
		}
	}
}

func TestScheduleSpec(t *testing.T) {
	if got := ScheduleSpec(15*time.Minute, ""); got != "@every 15m0s" {
		t.Errorf("got %q", got)
	}
	if got := ScheduleSpec(15*time.Minute, "0 */15 9-16 * * 1-5"); got != "0 */15 9-16 * * 1-5" {
		t.Errorf("got %q", got)
	}
}

func TestRegister(t *testing.T) {
	s := newTestScheduler(&stubFetcher{}, &recordingNotifier{}, &recordingRecorder{})
	if err := s.Register("@every 1h"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register("not a spec"); err == nil {
		t.Error("expected error for invalid spec")
	}
}

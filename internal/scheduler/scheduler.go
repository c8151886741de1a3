package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// ErrCycleInFlight is returned when a cycle is requested while another one
// is still evaluating.
var ErrCycleInFlight = errors.New("cycle already in flight")

// State is the cycle runner state.
type State int32

const (
	StateIdle State = iota
	StateEvaluating
)

func (s State) String() string {
	if s == StateEvaluating {
		return "Evaluating"
	}
	return "Idle"
}

const (
	defaultConcurrency  = 4
	defaultFetchTimeout = 30 * time.Second
	defaultSendTimeout  = time.Minute
)

// symbolResult is the outcome of evaluating one symbol in a cycle.
type symbolResult struct {
	Symbol string
	Signal model.Signal
	Err    error
}

// Scheduler runs evaluation cycles on a cron tick.
type Scheduler struct {
	Cron         *cron.Cron
	Collector    *collector.Collector
	Notifier     notifier.Notifier
	Recorder     recorder.Recorder
	Symbols      []string
	Venue        string
	Subject      string
	Concurrency  int
	FetchTimeout time.Duration
	SendTimeout  time.Duration
	Ctx          context.Context
	Now          func() time.Time

	state atomic.Int32
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds(), cron.WithLogger(cron.PrintfLogger(log.Default()))),
		Collector:    col,
		Notifier:     n,
		Recorder:     rec,
		Symbols:      symbols,
		Concurrency:  defaultConcurrency,
		FetchTimeout: defaultFetchTimeout,
		SendTimeout:  defaultSendTimeout,
		Ctx:          ctx,
		Now:          time.Now,
	}
}

// ScheduleSpec returns the cron spec for a cycle: expr when set, otherwise
// "@every <interval>".
func ScheduleSpec(interval time.Duration, expr string) string {
	if expr != "" {
		return expr
	}
	return fmt.Sprintf("@every %s", interval)
}

// Register adds the cycle job under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register cycle %q: %w", spec, err)
	}
	log.Printf("[INFO] cycle registered: %s", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// State reports whether a cycle is currently evaluating.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// RunNow executes one cycle immediately (used at startup).
func (s *Scheduler) RunNow() {
	s.tick()
}

func (s *Scheduler) tick() {
	if _, err := s.RunCycle(s.Ctx); errors.Is(err, ErrCycleInFlight) {
		log.Println("[WARN] previous cycle still evaluating, skipping tick")
	}
}

// RunCycle evaluates every symbol, then dispatches and records the batch of
// actionable signals. Dispatch and persistence failures are logged only.
func (s *Scheduler) RunCycle(ctx context.Context) (model.AlertBatch, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateEvaluating)) {
		return model.AlertBatch{}, ErrCycleInFlight
	}
	defer s.state.Store(int32(StateIdle))

	log.Printf("[INFO] running cycle for %d symbols", len(s.Symbols))
	results := s.evaluateAll(ctx)

	signals := make([]model.Signal, 0, len(results))
	for _, r := range results {
		signals = append(signals, r.Signal)
	}
	batch := notifier.BuildBatch(signals, s.Venue, s.Now())
	if batch.Empty() {
		log.Println("[INFO] no signals at this time")
		return batch, nil
	}

	if err := s.dispatch(ctx, batch); err != nil {
		log.Printf("[ERROR] dispatch via %s: %v", s.Notifier.Name(), err)
	} else {
		log.Printf("[INFO] alerts sent:\n%s", batch.Text())
	}
	if err := s.Recorder.Append(ctx, batch); err != nil {
		log.Printf("[ERROR] record alerts: %v", err)
	}
	return batch, nil
}

// dispatch bounds the notifier call so a stalled transport cannot hold the
// cycle in Evaluating.
func (s *Scheduler) dispatch(ctx context.Context, batch model.AlertBatch) error {
	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Notifier.Notify(sctx, s.Subject, batch.Text())
}

// evaluateAll runs the symbols through a bounded pool. Results keep the
// configured symbol order.
func (s *Scheduler) evaluateAll(ctx context.Context) []symbolResult {
	results := make([]symbolResult, len(s.Symbols))

	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, sym := range s.Symbols {
		i, sym := i, sym
		g.Go(func() error {
			results[i] = s.evaluateSymbol(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Scheduler) evaluateSymbol(ctx context.Context, symbol string) symbolResult {
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snaps, err := s.Collector.Snapshots(fctx, symbol)
	if err != nil {
		log.Printf("[ERROR] %s: %v", symbol, err)
		return symbolResult{
			Symbol: symbol,
			Signal: model.Signal{Kind: model.SignalNone, Symbol: symbol},
			Err:    err,
		}
	}
	return symbolResult{Symbol: symbol, Signal: strategy.Evaluate(symbol, snaps)}
}

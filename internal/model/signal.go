package model

import (
	"strings"
	"time"
)

// SignalKind is the categorical outcome of evaluating a snapshot.
type SignalKind string

const (
	SignalNone SignalKind = "NONE"
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
)

// Signal is produced fresh for a symbol every cycle.
type Signal struct {
	Kind   SignalKind
	Symbol string
	Price  float64
	Time   time.Time
}

// Actionable reports whether the signal should be alerted on.
func (s Signal) Actionable() bool {
	return s.Kind == SignalBuy || s.Kind == SignalSell
}

// AlertBatch is the set of rendered alerts for one cycle.
type AlertBatch struct {
	CreatedAt time.Time
	Signals   []Signal
	Lines     []string
}

// Empty reports whether there is nothing to dispatch.
func (b AlertBatch) Empty() bool { return len(b.Lines) == 0 }

// Text joins the rendered lines into the message body.
func (b AlertBatch) Text() string { return strings.Join(b.Lines, "\n") }

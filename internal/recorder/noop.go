package recorder

import (
	"context"

	"SignalSentinel/internal/model"
)

// NoopRecorder discards everything.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Append(context.Context, model.AlertBatch) error { return nil }
func (n *NoopRecorder) Close() error                                  { return nil }

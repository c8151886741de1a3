package recorder

import (
	"context"
	"errors"

	"SignalSentinel/internal/model"
)

// ErrPersist marks a failed journal append.
var ErrPersist = errors.New("persist failed")

// Recorder appends dispatched alert batches to an append-only journal.
// Entries are never read back by the engine.
type Recorder interface {
	Append(ctx context.Context, batch model.AlertBatch) error
	Close() error
}

// Multi appends to every recorder, continuing past failures.
type Multi []Recorder

func (m Multi) Append(ctx context.Context, batch model.AlertBatch) error {
	var errs []error
	for _, r := range m {
		if err := r.Append(ctx, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

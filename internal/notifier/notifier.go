package notifier

import (
	"context"
	"errors"
	"strings"
)

// ErrDispatch marks a failed alert delivery.
var ErrDispatch = errors.New("dispatch failed")

// Notifier delivers one alert message.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
	Name() string
}

// Multi fans a message out to every notifier. Every notifier is tried even
// when an earlier one fails.
type Multi []Notifier

func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, n := range m {
		names[i] = n.Name()
	}
	return strings.Join(names, "+")
}

func (m Multi) Notify(ctx context.Context, subject, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

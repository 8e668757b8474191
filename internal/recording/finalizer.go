package recording

import (
	"context"
	"errors"

	slogctx "github.com/veqryn/slog-context"
)

// Finalizer is invoked once for every stopped session, after the session
// has left the registry. Capture backends hook in here to flush their output.
type Finalizer interface {
	Finalize(ctx context.Context, s Session) error
}

type FinalizerFunc func(ctx context.Context, s Session) error

func (f FinalizerFunc) Finalize(ctx context.Context, s Session) error {
	return f(ctx, s)
}

type NopFinalizer struct{}

func (NopFinalizer) Finalize(context.Context, Session) error { return nil }

// LogFinalizer writes a summary line for every finalized session.
type LogFinalizer struct{}

func (LogFinalizer) Finalize(ctx context.Context, s Session) error {
	slogctx.Info(ctx, "Finalized recording session",
		"session_id", s.ID,
		"recorded", s.Recorded.String(),
		"pauses", s.Pauses,
	)

	return nil
}

// FinalizerChain runs every finalizer in order, even when an earlier one fails.
type FinalizerChain []Finalizer

func (c FinalizerChain) Finalize(ctx context.Context, s Session) error {
	var errs []error
	for _, f := range c {
		if f == nil {
			continue
		}
		if err := f.Finalize(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

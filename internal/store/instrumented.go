package store

import (
	"context"
	"errors"
	"time"
)

// OpObserver receives one observation per store call. Outcome is "ok",
// "not_found" or "error".
type OpObserver interface {
	ObserveStoreOp(backend, op, outcome string, elapsed time.Duration)
}

// Instrumented decorates a Store with per-operation observations and an
// optional per-call timeout.
type Instrumented struct {
	next     Store
	observer OpObserver
	timeout  time.Duration
}

// Instrument wraps next. A nil observer and zero timeout make it a pass-through.
func Instrument(next Store, observer OpObserver, timeout time.Duration) *Instrumented {
	if next == nil {
		panic("store: wrapped store cannot be nil")
	}
	return &Instrumented{next: next, observer: observer, timeout: timeout}
}

// Get implements Store.
func (s *Instrumented) Get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	doc, err := s.next.Get(ctx, collection, id)
	s.observe("get", err, time.Since(start))
	return doc, err
}

// Put implements Store.
func (s *Instrumented) Put(ctx context.Context, collection, id string, doc Document) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := s.next.Put(ctx, collection, id, doc)
	s.observe("put", err, time.Since(start))
	return err
}

// Backend reports the wrapped backend.
func (s *Instrumented) Backend() string { return s.next.Backend() }

func (s *Instrumented) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Instrumented) observe(op string, err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.observer.ObserveStoreOp(s.next.Backend(), op, outcome, elapsed)
}

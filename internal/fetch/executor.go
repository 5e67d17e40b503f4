// Package fetch wraps asynchronous calls in an observable state container.
package fetch

import (
	"context"
	"sync"
)

// State is the lifecycle state of an Executor.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateFulfilled State = "fulfilled"
	StateRejected  State = "rejected"
)

// Op is the wrapped operation: one request in, one result out.
type Op[R, T any] func(ctx context.Context, req R) (T, error)

// Snapshot is a point-in-time view of an Executor for a presentation
// layer to bind to.
type Snapshot[T any] struct {
	State State
	Data  T
	// Err is a human-readable message, empty unless State is rejected.
	Err string
	// Generation increments on every Invoke. Consumers that must not
	// render stale results compare it against the generation they
	// observed when invoking.
	Generation uint64
}

// Loading reports whether a call is in flight.
func (s Snapshot[T]) Loading() bool {
	return s.State == StatePending
}

// Executor tracks the idle/pending/fulfilled/rejected lifecycle of a
// wrapped operation. It may be re-invoked from any terminal state.
//
// Overlapping invocations are allowed and are not cancelled: both
// complete and the later completion overwrites the earlier one. Callers
// that care about ordering discard stale completions by generation.
type Executor[R, T any] struct {
	mu  sync.Mutex
	op  Op[R, T]
	cur Snapshot[T]
}

// New creates an Executor around op.
func New[R, T any](op Op[R, T]) *Executor[R, T] {
	return &Executor[R, T]{
		op:  op,
		cur: Snapshot[T]{State: StateIdle},
	}
}

// NewImmediate creates an Executor and fires one Invoke with the zero
// request right away, off the caller's goroutine.
func NewImmediate[R, T any](ctx context.Context, op Op[R, T]) *Executor[R, T] {
	e := New(op)
	var zero R
	go e.Invoke(ctx, zero) //nolint:errcheck // surfaced via Snapshot
	return e
}

// Invoke transitions to pending, clears the prior error, runs the
// wrapped operation, and records the outcome. The error (if any) is
// also returned so the caller may await or ignore it.
func (e *Executor[R, T]) Invoke(ctx context.Context, req R) (T, error) {
	e.mu.Lock()
	e.cur.State = StatePending
	e.cur.Err = ""
	e.cur.Generation++
	e.mu.Unlock()

	result, err := e.op(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.cur.State = StateRejected
		e.cur.Err = err.Error()
		return result, err
	}
	e.cur.State = StateFulfilled
	e.cur.Data = result
	return result, nil
}

// Snapshot returns the current state, data, and error.
func (e *Executor[R, T]) Snapshot() Snapshot[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur
}

// Generation returns the current invocation generation.
func (e *Executor[R, T]) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur.Generation
}

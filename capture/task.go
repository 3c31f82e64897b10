// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import "context"

// Task is the pending result of work running on another goroutine.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on a new goroutine with ctx and returns its Task.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.val, t.err = fn(ctx)
	}()
	return t
}

// Done is closed once the result is available.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until the task resolves or ctx ends. Abandoning the wait does
// not stop the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

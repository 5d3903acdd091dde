package taskqueue

import "context"

// Future is the pending outcome of one pushed task. It settles exactly
// once, with the task's value, its error, or ErrAborted.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle records the outcome and releases waiters. Must be called at
// most once.
func (f *Future) settle(value any, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has an outcome without blocking.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future settles or ctx is cancelled, and
// returns the task's outcome. Cancellation of the wait does not cancel
// the task itself.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

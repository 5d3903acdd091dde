package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAborted settles the futures of tasks dropped by Abort before they
// ever started.
var ErrAborted = errors.New("taskqueue: aborted before start")

// DefaultInterval is the minimum gap between one task's settlement and
// the next task's start unless configured otherwise.
const DefaultInterval = 16 * time.Millisecond

// Task is one unit of queued work. The context is the one given to
// Push; a task should honor its cancellation.
type Task func(ctx context.Context) (any, error)

// Option configures a Queue.
type Option func(*Queue)

// WithInterval sets the minimum inter-task delay. Negative values are
// treated as zero.
func WithInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d < 0 {
			d = 0
		}
		q.interval = d
	}
}

// WithImmediate makes the first task of each drain start without
// waiting out the interval.
func WithImmediate() Option {
	return func(q *Queue) {
		q.immediate = true
	}
}

// pending is a queued task awaiting its turn.
type pending struct {
	ctx    context.Context
	task   Task
	future *Future
}

// Queue runs tasks strictly one at a time in Push order. A queue
// drains itself on a background goroutine and returns to idle when
// empty; the next Push restarts the drain.
type Queue struct {
	interval  time.Duration
	immediate bool

	mu      sync.Mutex
	tasks   []*pending
	running bool
}

// New creates an idle queue.
func New(opts ...Option) *Queue {
	q := &Queue{interval: DefaultInterval}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push enqueues task and returns its Future. Tasks execute in strict
// FIFO order with no overlap; ctx cancellation before the task starts
// settles the future with the context error.
func (q *Queue) Push(ctx context.Context, task Task) *Future {
	fut := newFuture()
	if task == nil {
		fut.settle(nil, errors.New("taskqueue: nil task"))
		return fut
	}
	if ctx == nil {
		ctx = context.Background()
	}

	q.mu.Lock()
	q.tasks = append(q.tasks, &pending{ctx: ctx, task: task, future: fut})
	start := !q.running
	if start {
		q.running = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return fut
}

// Abort drops every task that has not started and settles their
// futures with ErrAborted. A task already in flight runs to
// completion; the drain goroutine then sees the empty queue and goes
// idle, so serialization is never violated.
func (q *Queue) Abort() {
	q.mu.Lock()
	dropped := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, p := range dropped {
		p.future.settle(nil, ErrAborted)
	}
}

// Len returns the number of tasks waiting to start.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// IsRunning reports whether a drain is in progress.
func (q *Queue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// drain executes queued tasks until the queue is empty.
func (q *Queue) drain() {
	first := true
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		next := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		if q.interval > 0 && !(first && q.immediate) {
			time.Sleep(q.interval)
		}
		first = false

		q.run(next)
	}
}

// run executes one task, converting panics into settled errors so a
// broken task cannot kill the drain goroutine.
func (q *Queue) run(p *pending) {
	defer func() {
		if r := recover(); r != nil {
			p.future.settle(nil, fmt.Errorf("taskqueue: task panic: %v", r))
		}
	}()

	if err := p.ctx.Err(); err != nil {
		p.future.settle(nil, err)
		return
	}

	value, err := p.task(p.ctx)
	p.future.settle(value, err)
}

package taskqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestThreeTasksSettleInOrder(t *testing.T) {
	q := New(WithInterval(0))
	ctx := context.Background()

	var mu sync.Mutex
	var order []int
	var running atomic.Int32

	task := func(n int) Task {
		return func(ctx context.Context) (any, error) {
			if running.Add(1) != 1 {
				t.Error("overlapping task execution")
			}
			defer running.Add(-1)
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return n, nil
		}
	}

	f1 := q.Push(ctx, task(1))
	f2 := q.Push(ctx, task(2))
	f3 := q.Push(ctx, task(3))

	for i, f := range []*Future{f1, f2, f3} {
		v, err := f.Wait(ctx)
		if err != nil {
			t.Fatalf("task %d: %v", i+1, err)
		}
		if v != i+1 {
			t.Errorf("task %d resolved %v", i+1, v)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("execution order %v", order)
	}
}

func TestFailureDoesNotPoisonSiblings(t *testing.T) {
	q := New(WithInterval(0))
	ctx := context.Background()
	boom := errors.New("boom")

	f1 := q.Push(ctx, func(ctx context.Context) (any, error) { return nil, boom })
	f2 := q.Push(ctx, func(ctx context.Context) (any, error) { return "ok", nil })

	if _, err := f1.Wait(ctx); !errors.Is(err, boom) {
		t.Errorf("f1 err = %v, want boom", err)
	}
	v, err := f2.Wait(ctx)
	if err != nil || v != "ok" {
		t.Errorf("f2 = %v, %v", v, err)
	}
}

func TestPanicSettlesAsError(t *testing.T) {
	q := New(WithInterval(0))
	ctx := context.Background()

	f1 := q.Push(ctx, func(ctx context.Context) (any, error) { panic("bad task") })
	f2 := q.Push(ctx, func(ctx context.Context) (any, error) { return 7, nil })

	if _, err := f1.Wait(ctx); err == nil {
		t.Error("panic task settled without error")
	}
	if v, err := f2.Wait(ctx); err != nil || v != 7 {
		t.Errorf("queue did not survive panic: %v, %v", v, err)
	}
}

func TestIntervalSeparatesTasks(t *testing.T) {
	const interval = 30 * time.Millisecond
	q := New(WithInterval(interval), WithImmediate())
	ctx := context.Background()

	start := time.Now()
	q.Push(ctx, func(ctx context.Context) (any, error) { return nil, nil })
	f := q.Push(ctx, func(ctx context.Context) (any, error) { return nil, nil })
	if _, err := f.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	if elapsed := time.Since(start); elapsed < interval {
		t.Errorf("second task started after %v, want >= %v", elapsed, interval)
	}
}

func TestImmediateSkipsFirstDelay(t *testing.T) {
	q := New(WithInterval(200*time.Millisecond), WithImmediate())
	ctx := context.Background()

	start := time.Now()
	f := q.Push(ctx, func(ctx context.Context) (any, error) { return nil, nil })
	if _, err := f.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first task waited %v despite immediate", elapsed)
	}
}

func TestAbortSettlesPendingWithErrAborted(t *testing.T) {
	q := New(WithInterval(0))
	ctx := context.Background()

	release := make(chan struct{})
	blocked := q.Push(ctx, func(ctx context.Context) (any, error) {
		<-release
		return "done", nil
	})
	queued := q.Push(ctx, func(ctx context.Context) (any, error) { return nil, nil })

	// Let the first task start, then abort the rest.
	time.Sleep(10 * time.Millisecond)
	q.Abort()
	close(release)

	if _, err := queued.Wait(ctx); !errors.Is(err, ErrAborted) {
		t.Errorf("queued err = %v, want ErrAborted", err)
	}

	// The in-flight task runs to completion.
	v, err := blocked.Wait(ctx)
	if err != nil || v != "done" {
		t.Errorf("in-flight task = %v, %v", v, err)
	}
}

func TestQueueRestartsAfterDrain(t *testing.T) {
	q := New(WithInterval(0))
	ctx := context.Background()

	f1 := q.Push(ctx, func(ctx context.Context) (any, error) { return 1, nil })
	if _, err := f1.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	// Queue is idle again; a later push restarts the drain.
	waitIdle(t, q)
	f2 := q.Push(ctx, func(ctx context.Context) (any, error) { return 2, nil })
	if v, err := f2.Wait(ctx); err != nil || v != 2 {
		t.Errorf("restarted drain = %v, %v", v, err)
	}
}

func TestCancelledContextSkipsTask(t *testing.T) {
	q := New(WithInterval(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := q.Push(ctx, func(ctx context.Context) (any, error) {
		t.Error("task ran despite cancelled context")
		return nil, nil
	})
	if _, err := f.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNilTaskSettlesImmediately(t *testing.T) {
	q := New(WithInterval(0))
	f := q.Push(context.Background(), nil)
	if _, err := f.Wait(context.Background()); err == nil {
		t.Error("nil task settled without error")
	}
}

// waitIdle spins until the queue's drain goroutine has exited.
func waitIdle(t *testing.T, q *Queue) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for q.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("queue never went idle")
		}
		time.Sleep(time.Millisecond)
	}
}

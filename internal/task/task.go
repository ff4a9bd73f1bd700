// Package task runs named functions on a fixed interval until stopped.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRunning  = errors.New("task already running")
	ErrInvalidInterval = errors.New("task interval must be positive")
)

// Func is the unit of work run on each tick. It should return promptly once
// ctx is cancelled.
type Func func(ctx context.Context)

// Option configures a Task.
type Option func(*Task)

// WithImmediate runs fn once at Start before the first tick.
func WithImmediate() Option {
	return func(t *Task) { t.immediate = true }
}

// WithOverlap runs each invocation in its own goroutine so a slow run never
// delays the next tick. Concurrent runs may finish in any order.
func WithOverlap() Option {
	return func(t *Task) { t.overlap = true }
}

// WithLogger sets the task logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Task invokes fn every interval between Start and Stop.
type Task struct {
	name      string
	interval  time.Duration
	fn        Func
	immediate bool
	overlap   bool
	logger    *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup
}

func New(name string, interval time.Duration, fn Func, opts ...Option) *Task {
	t := &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Interval returns the tick interval.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Start launches the tick loop. The loop ends when ctx is cancelled or Stop
// is called. A stopped task may be started again.
func (t *Task) Start(ctx context.Context) error {
	if t.interval <= 0 {
		return errors.Wrapf(ErrInvalidInterval, "task %s", t.name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done != nil {
		select {
		case <-t.done:
		default:
			return errors.Wrapf(ErrAlreadyRunning, "task %s", t.name)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go t.loop(runCtx, done)

	t.logger.Debug("task started",
		zap.String("task", t.name),
		zap.Duration("interval", t.interval),
		zap.Bool("overlap", t.overlap),
	)
	return nil
}

func (t *Task) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	if t.immediate {
		t.run(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.run(ctx)
		}
	}
}

func (t *Task) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !t.overlap {
		t.invoke(ctx)
		return
	}
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		t.invoke(ctx)
	}()
}

func (t *Task) invoke(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("task panicked",
				zap.String("task", t.name),
				zap.Any("panic", r),
			)
		}
	}()
	t.fn(ctx)
}

// Stop cancels the loop and waits for it and any in-flight runs to return.
// It is safe to call more than once and before Start.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	t.inflight.Wait()

	t.logger.Debug("task stopped", zap.String("task", t.name))
}

// Running reports whether the tick loop is active.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

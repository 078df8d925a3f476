// Package daemon runs the managed window: the UI loop, the surface, and the
// session that keeps its decoration in sync.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("daemon: ui loop stopped")

// Pings are the channels returned by xevent.MainPing.
type Pings struct {
	Before <-chan struct{}
	After  <-chan struct{}
	Quit   <-chan struct{}
}

// Loop is the single UI thread. X callbacks run between a before and an
// after ping; posted tasks run in FIFO order whenever no batch is in
// progress, so the two never overlap.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
	logger  *slog.Logger
}

// NewLoop creates a loop. Run must be called to start it.
func NewLoop(logger *slog.Logger) *Loop {
	return &Loop{
		tasks:   make(chan func(), 16),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Run processes pings and tasks until the X loop quits or ctx is cancelled.
func (l *Loop) Run(ctx context.Context, pings Pings) error {
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pings.Quit:
			l.logger.Info("x event loop quit")
			return nil
		case <-pings.Before:
			<-pings.After
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("ui task panic recovered", "error", err)
		}
	}()
	fn()
}

func (l *Loop) isStopped() bool {
	select {
	case <-l.stopped:
		return true
	default:
		return false
	}
}

// post queues fn without waiting for it.
func (l *Loop) post(fn func()) error {
	if l.isStopped() {
		return ErrLoopStopped
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

const (
	taskQueued int32 = iota
	taskStarted
	taskAbandoned
)

// Do runs fn on the loop and waits for it to finish. If ctx ends before fn
// starts, fn never runs. Once fn has started, Do waits for it even past the
// deadline, so callers may read what fn wrote whenever Do returns.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	var state atomic.Int32
	done := make(chan struct{})
	task := func() {
		defer close(done)
		if !state.CompareAndSwap(taskQueued, taskStarted) {
			return
		}
		fn()
	}

	if l.isStopped() {
		return ErrLoopStopped
	}
	select {
	case l.tasks <- task:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		// Run may have exited after picking the task up.
		select {
		case <-done:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ctx.Err()
		}
		<-done
		return nil
	}
}

// Package loop provides the single-threaded event loop that owns session state.
//
// Every mutation of a prompt session runs as a task on one goroutine. Timers
// never touch state directly: when they fire they post a task back into the
// loop, and the task checks its Handle before running.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("event loop is closed")

// Scheduler arms cancellable one-shot and interval tasks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) *Handle
	Every(d time.Duration, fn func()) *Handle
}

// Loop runs posted tasks sequentially on a single goroutine.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New starts a loop with the given task buffer.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	l := &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post queues fn for execution on the loop goroutine.
// It must not be called from inside a task when the buffer may be full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc runs fn on the loop once d has elapsed, unless the handle is cancelled first.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	t := time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if !h.fire() {
				return
			}
			fn()
		})
	})
	h.stop = func() { t.Stop() }
	return h
}

// Every runs fn on the loop every d until the handle is cancelled or the loop closes.
func (l *Loop) Every(d time.Duration, fn func()) *Handle {
	h := &Handle{repeat: true}
	stop := make(chan struct{})
	var once sync.Once
	h.stop = func() { once.Do(func() { close(stop) }) }

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				err := l.Post(func() {
					if h.Cancelled() {
						return
					}
					fn()
				})
				if err != nil {
					return
				}
			case <-stop:
				return
			case <-l.done:
				return
			}
		}
	}()
	return h
}

// Close stops the loop. Pending tasks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

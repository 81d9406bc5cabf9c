// Package runner drives a blocking start function on a worker goroutine while
// the caller waits for it in bounded increments.
package runner

import (
	"errors"
	"time"

	"github.com/louisbranch/rpcnode/internal/platform/timeouts"
)

// Worker tracks one goroutine running a blocking function.
type Worker struct {
	done chan struct{}
	err  error
}

// Go runs fn on a new goroutine.
func Go(fn func() error) *Worker {
	w := &Worker{done: make(chan struct{})}
	go func() {
		defer close(w.done)
		if fn == nil {
			w.err = errors.New("worker function is required")
			return
		}
		w.err = fn()
	}()
	return w
}

// Alive reports whether the worker is still running.
func (w *Worker) Alive() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Join waits up to timeout for the worker to finish and reports whether it did.
func (w *Worker) Join(timeout time.Duration) bool {
	if timeout <= 0 {
		return !w.Alive()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed when the worker finishes.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the worker's result once it has finished, nil before.
func (w *Worker) Err() error {
	if w.Alive() {
		return nil
	}
	return w.err
}

// Run starts start on a worker goroutine and polls it with bounded waits of
// interval until it finishes, then returns its error.
func Run(start func() error, interval time.Duration) error {
	if interval <= 0 {
		interval = timeouts.RunnerPoll
	}
	w := Go(start)
	for w.Alive() {
		w.Join(interval)
	}
	return w.Err()
}

// Package shutdown translates process termination signals into a single
// shutdown request against a bound runtime.
package shutdown

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Shutdowner is the target a Bridge stops.
type Shutdowner interface {
	Shutdown()
}

var (
	// ErrNilTarget is returned when binding a nil target.
	ErrNilTarget = errors.New("shutdown target is required")
	// ErrAlreadyBound is returned by a second Bind.
	ErrAlreadyBound = errors.New("shutdown target already bound")
)

// Bridge forwards INT/TERM to a bound Shutdowner at most once. Any other
// delivery pattern, such as a signal before a target is bound, exits the
// process immediately.
type Bridge struct {
	target    atomic.Pointer[binding]
	requested atomic.Bool
	exit      func(int)
	logf      func(string, ...any)
}

type binding struct {
	target Shutdowner
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithExit replaces os.Exit for the unbound fast path.
func WithExit(exit func(int)) Option {
	return func(b *Bridge) {
		if exit != nil {
			b.exit = exit
		}
	}
}

// WithLogf sets the diagnostic logger.
func WithLogf(logf func(string, ...any)) Option {
	return func(b *Bridge) {
		if logf != nil {
			b.logf = logf
		}
	}
}

// NewBridge returns an unbound bridge.
func NewBridge(opts ...Option) *Bridge {
	b := &Bridge{
		exit: os.Exit,
		logf: log.Printf,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Recognized reports whether sig requests a graceful shutdown.
func Recognized(sig os.Signal) bool {
	return sig == os.Interrupt || sig == syscall.SIGTERM
}

// Bind sets the shutdown target. It succeeds once.
func (b *Bridge) Bind(target Shutdowner) error {
	if target == nil {
		return ErrNilTarget
	}
	if !b.target.CompareAndSwap(nil, &binding{target: target}) {
		return ErrAlreadyBound
	}
	return nil
}

// Bound reports whether a target has been bound.
func (b *Bridge) Bound() bool {
	return b.target.Load() != nil
}

// Requested reports whether a shutdown has been forwarded.
func (b *Bridge) Requested() bool {
	return b.requested.Load()
}

// Handle processes one signal delivery.
func (b *Bridge) Handle(sig os.Signal) {
	bound := b.target.Load()
	if bound != nil && Recognized(sig) {
		if !b.requested.CompareAndSwap(false, true) {
			b.logf("signal %v: shutdown already requested", sig)
			return
		}
		b.logf("signal %v: requesting shutdown", sig)
		bound.target.Shutdown()
		return
	}
	b.exit(0)
}

// Arm subscribes to INT and TERM and forwards each delivery to Handle on a
// dedicated goroutine. The returned function stops delivery.
func (b *Bridge) Arm() (disarm func()) {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-signals:
				b.Handle(sig)
			case <-done:
				return
			}
		}
	}()

	stopped := atomic.Bool{}
	return func() {
		if stopped.CompareAndSwap(false, true) {
			signal.Stop(signals)
			close(done)
		}
	}
}

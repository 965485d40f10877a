// Package async decouples request handling from audit persistence via a
// buffered channel. A slow sink must never add latency to predictions.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/tenure/internal/audit"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner sink's Write
// fails. Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write return immediately (dropping the record)
// when the buffer is full, instead of blocking. Audit is observational,
// so lossiness under pressure is the usual choice for serving paths.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async buffers audit records and drains them to the wrapped sink from
// a background goroutine. Errors from the inner sink go to errFunc,
// never back to the caller.
type Async struct {
	inner      audit.Sink
	ch         chan audit.Record
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool
	closeOnce  sync.Once
}

// New wraps a sink in an async channel-based writer. The background
// drain goroutine starts immediately.
func New(inner audit.Sink, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async audit write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan audit.Record, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write sends the record into the channel. By default blocks when the
// channel is full; with WithDropOnFull the record is silently lost.
func (a *Async) Write(_ context.Context, rec audit.Record) error {
	if a.dropOnFull {
		select {
		case a.ch <- rec:
		default:
			slog.Warn("async audit buffer full, dropping record",
				"employee_id", rec.EmployeeID, "outcome", rec.Outcome)
		}
		return nil
	}
	a.ch <- rec
	return nil
}

// Close closes the channel, waits for the drain goroutine (with a
// timeout), then closes the inner sink.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async audit drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for rec := range a.ch {
		if err := a.inner.Write(context.Background(), rec); err != nil {
			a.errFunc(err)
		}
	}
}

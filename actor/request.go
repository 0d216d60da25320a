package actor

import (
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/internal/mailbox"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// RequestFuture resolves to the response of one request. It must be driven to completion:
// Close on a pending future panics, because the target still holds the envelope and
// will answer into it.
type RequestFuture[R any] struct {
	owner  string
	signal *mailbox.Signal[R]
	pool   *mailbox.SignalPool[R]
	done   bool
	err    error
}

func newRequestFuture[R any](owner string, signal *mailbox.Signal[R], pool *mailbox.SignalPool[R]) *RequestFuture[R] {
	return &RequestFuture[R]{
		owner:  owner,
		signal: signal,
		pool:   pool,
	}
}

func (f *RequestFuture[R]) Poll(w future.Waker) (R, bool) {
	if f.done {
		log.Panic("request future polled after completion", zap.String("actor", f.owner))
	}
	v, err, ok := f.signal.PollErr(w)
	if !ok {
		return v, false
	}
	f.done = true
	f.err = err
	f.pool.Release(f.signal)
	f.signal = nil
	return v, true
}

// Done reports whether the response has been taken.
func (f *RequestFuture[R]) Done() bool {
	return f.done
}

// Err is set once the future completed without a response, which happens when the
// target closed its mailbox with the request still queued.
func (f *RequestFuture[R]) Err() error {
	return f.err
}

// Close asserts the future was driven to completion.
func (f *RequestFuture[R]) Close() {
	if !f.done {
		log.Panic("request future dropped before completion", zap.String("actor", f.owner))
	}
}

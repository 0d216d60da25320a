// Package future holds the suspension primitive the scheduler drives.
//
// A Future is resumed by calling Poll with a Waker. A pending future must arrange for the
// waker to be invoked once progress is possible; the scheduler then polls it again. Wakers
// are cheap handles that only re-raise the readiness of whatever owns the future.
package future

import (
	"github.com/pingcap/log"
)

// Waker re-schedules the owner of a suspended future.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to a Waker.
type WakerFunc func()

func (f WakerFunc) Wake() {
	f()
}

type noopWaker struct{}

func (noopWaker) Wake() {}

// Noop is a waker that does nothing. Useful for polling futures that are known to be ready.
var Noop Waker = noopWaker{}

// Future is a value that may not be available yet.
// Poll returns the value and true once complete, otherwise the zero value and false.
type Future[T any] interface {
	Poll(w Waker) (T, bool)
}

// Func adapts a poll function to a Future.
type Func[T any] func(w Waker) (T, bool)

func (f Func[T]) Poll(w Waker) (T, bool) {
	return f(w)
}

type ready[T any] struct {
	value T
	taken bool
}

// Ready returns a future that completes on its first poll with v.
func Ready[T any](v T) Future[T] {
	return &ready[T]{value: v}
}

func (r *ready[T]) Poll(Waker) (T, bool) {
	if r.taken {
		log.Panic("ready future polled after completion")
	}
	r.taken = true
	return r.value, true
}

// Done is a completed future with no value, the usual answer of a lifecycle hook.
func Done() Future[struct{}] {
	return Ready(struct{}{})
}

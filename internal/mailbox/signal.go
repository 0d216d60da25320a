package mailbox

import (
	"sync"

	"github.com/hedisam/tinyactor/future"
	"github.com/pingcap/log"
)

type signalState uint8

const (
	signalNone signalState = iota
	signalWaiting
	signalSignaled
	signalTaken
)

// Signal is a one-shot cell carrying a response from an actor back to its requester.
// The value is delivered exactly once; polling after delivery panics.
type Signal[T any] struct {
	mu    sync.Mutex
	state signalState
	value T
	err   error
	waker future.Waker
}

// Send stores v and wakes the last registered poller, if any.
func (s *Signal[T]) Send(v T) {
	s.complete(v, nil)
}

// Fail completes the signal without a value. The poller receives err from PollErr.
func (s *Signal[T]) Fail(err error) {
	var zero T
	s.complete(zero, err)
}

func (s *Signal[T]) complete(v T, err error) {
	s.mu.Lock()
	if s.state == signalSignaled || s.state == signalTaken {
		s.mu.Unlock()
		log.Panic("signal already holds a value")
	}
	s.value = v
	s.err = err
	s.state = signalSignaled
	w := s.waker
	s.waker = nil
	s.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// Poll takes the value if present, otherwise registers w, replacing any earlier waker.
func (s *Signal[T]) Poll(w future.Waker) (T, bool) {
	v, _, ok := s.PollErr(w)
	return v, ok
}

// PollErr is Poll that also reports the error of a failed signal.
func (s *Signal[T]) PollErr(w future.Waker) (v T, err error, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case signalSignaled:
		v, err = s.value, s.err
		var zero T
		s.value = zero
		s.err = nil
		s.state = signalTaken
		return v, err, true
	case signalTaken:
		log.Panic("signal polled after its value was delivered")
		return v, nil, false
	default:
		s.waker = w
		s.state = signalWaiting
		return v, nil, false
	}
}

// Signaled reports whether a value is waiting to be taken.
func (s *Signal[T]) Signaled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == signalSignaled
}

// Taken reports whether the value has been delivered to the poller.
func (s *Signal[T]) Taken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == signalTaken
}

func (s *Signal[T]) reset() {
	var zero T
	s.mu.Lock()
	s.state = signalNone
	s.value = zero
	s.err = nil
	s.waker = nil
	s.mu.Unlock()
}

package future

import (
	"github.com/pingcap/log"
)

type mapped[T, U any] struct {
	inner Future[T]
	fn    func(T) U
	done  bool
}

// Map transforms the output of f with fn once f completes.
func Map[T, U any](f Future[T], fn func(T) U) Future[U] {
	return &mapped[T, U]{inner: f, fn: fn}
}

func (m *mapped[T, U]) Poll(w Waker) (U, bool) {
	var zero U
	if m.done {
		log.Panic("mapped future polled after completion")
	}
	v, ok := m.inner.Poll(w)
	if !ok {
		return zero, false
	}
	m.done = true
	return m.fn(v), true
}

type thenState uint8

const (
	thenFirst thenState = iota
	thenSecond
	thenDone
)

type then[T, U any] struct {
	state  thenState
	first  Future[T]
	next   func(T) Future[U]
	second Future[U]
}

// Then runs f, hands its output to next and completes with the future next returns.
// The second future is polled in the same resume as the first completes.
func Then[T, U any](f Future[T], next func(T) Future[U]) Future[U] {
	return &then[T, U]{first: f, next: next}
}

func (t *then[T, U]) Poll(w Waker) (U, bool) {
	var zero U
	for {
		switch t.state {
		case thenFirst:
			v, ok := t.first.Poll(w)
			if !ok {
				return zero, false
			}
			t.second = t.next(v)
			t.first = nil
			t.state = thenSecond
		case thenSecond:
			v, ok := t.second.Poll(w)
			if !ok {
				return zero, false
			}
			t.second = nil
			t.state = thenDone
			return v, true
		default:
			log.Panic("then future polled after completion")
			return zero, false
		}
	}
}

// Pair is the output of Join.
type Pair[A, B any] struct {
	First  A
	Second B
}

type join[A, B any] struct {
	a     Future[A]
	b     Future[B]
	out   Pair[A, B]
	aDone bool
	bDone bool
	done  bool
}

// Join polls a and b together and completes once both have completed.
func Join[A, B any](a Future[A], b Future[B]) Future[Pair[A, B]] {
	return &join[A, B]{a: a, b: b}
}

func (j *join[A, B]) Poll(w Waker) (Pair[A, B], bool) {
	if j.done {
		log.Panic("joined future polled after completion")
	}
	if !j.aDone {
		j.out.First, j.aDone = j.a.Poll(w)
	}
	if !j.bDone {
		j.out.Second, j.bDone = j.b.Poll(w)
	}
	if !j.aDone || !j.bDone {
		return Pair[A, B]{}, false
	}
	j.done = true
	return j.out, true
}

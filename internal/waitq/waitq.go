// Package waitq is a bounded FIFO of parked futures, used by actors that hand out a
// resource to one waiter at a time.
package waitq

import (
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/hedisam/tinyactor/future"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type waiterState uint8

const (
	waiterParked waiterState = iota
	waiterGranted
	waiterTaken
)

// Waiter is a future that completes once the queue grants it a value.
// It is polled by the waiting side and granted by the owning actor.
type Waiter[T any] struct {
	mu    sync.Mutex
	state waiterState
	value T
	waker future.Waker
}

func NewWaiter[T any]() *Waiter[T] {
	return &Waiter[T]{}
}

// Granted returns a waiter that already holds v.
func Granted[T any](v T) *Waiter[T] {
	return &Waiter[T]{state: waiterGranted, value: v}
}

func (w *Waiter[T]) Poll(wk future.Waker) (T, bool) {
	var zero T
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case waiterGranted:
		v := w.value
		w.value = zero
		w.state = waiterTaken
		return v, true
	case waiterTaken:
		log.Panic("waiter polled after it was granted")
		return zero, false
	default:
		w.waker = wk
		return zero, false
	}
}

func (w *Waiter[T]) grant(v T) {
	w.mu.Lock()
	if w.state != waiterParked {
		w.mu.Unlock()
		log.Panic("waiter granted twice")
	}
	w.value = v
	w.state = waiterGranted
	wk := w.waker
	w.waker = nil
	w.mu.Unlock()

	if wk != nil {
		wk.Wake()
	}
}

// Queue parks waiters in arrival order. Its capacity is fixed at construction.
type Queue[T any] struct {
	owner    string
	ring     *queue.RingBuffer
	capacity uint64
}

func New[T any](owner string, capacity int) *Queue[T] {
	if capacity < 1 {
		log.Panic("wait queue capacity must be positive", zap.String("actor", owner), zap.Int("capacity", capacity))
	}
	return &Queue[T]{
		owner:    owner,
		ring:     queue.NewRingBuffer(uint64(capacity)),
		capacity: uint64(capacity),
	}
}

// Park appends w. It panics once the queue is full.
func (q *Queue[T]) Park(w *Waiter[T]) {
	if q.ring.Len() >= q.capacity {
		log.Panic("too many waiters", zap.String("actor", q.owner), zap.Uint64("max", q.capacity))
	}
	if err := q.ring.Put(w); err != nil {
		log.Panic("wait queue rejected a waiter", zap.String("actor", q.owner), zap.Error(err))
	}
}

// Grant hands v to the oldest parked waiter and wakes it. It reports false when no
// waiter is parked, in which case the caller keeps v.
func (q *Queue[T]) Grant(v T) bool {
	if q.ring.Len() == 0 {
		return false
	}
	item, err := q.ring.Get()
	if err != nil {
		log.Panic("wait queue failed to dequeue", zap.String("actor", q.owner), zap.Error(err))
	}
	item.(*Waiter[T]).grant(v)
	return true
}

func (q *Queue[T]) Len() int {
	return int(q.ring.Len())
}

func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}

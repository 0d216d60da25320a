// Package mutex provides an actor that guards a value and lends it to one holder at a
// time. Lock requests are granted in arrival order. A bus arbitrator is a Mutex over
// the bus actor's address: Lock begins a transaction and Unlock ends it.
package mutex

import (
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/internal/waitq"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// DefaultMaxWaiters bounds the waiter queue when Config.MaxWaiters is zero.
const DefaultMaxWaiters = 16

type Config[T any] struct {
	Value      T
	MaxWaiters int
}

// Command is the message type of the mutex actor. The zero Command is a lock request.
type Command[T any] struct {
	unlock bool
	value  T
}

// Mutex owns the guarded value while nobody holds the lock.
type Mutex[T any] struct {
	name    string
	value   T
	locked  bool
	waiters *waitq.Queue[T]
}

func New[T any]() *Mutex[T] {
	return &Mutex[T]{}
}

func (m *Mutex[T]) OnMount(self actor.Address[Command[T], future.Future[T]], config Config[T]) {
	if config.MaxWaiters == 0 {
		config.MaxWaiters = DefaultMaxWaiters
	}
	m.name = self.Name()
	m.value = config.Value
	m.waiters = waitq.New[T](m.name, config.MaxWaiters)
}

func (m *Mutex[T]) OnRequest(cmd Command[T]) future.Future[future.Future[T]] {
	if cmd.unlock {
		m.unlock(cmd.value)
		return future.Ready[future.Future[T]](nil)
	}
	if !m.locked {
		m.locked = true
		v := m.value
		var zero T
		m.value = zero
		return future.Ready[future.Future[T]](waitq.Granted(v))
	}
	w := waitq.NewWaiter[T]()
	m.waiters.Park(w)
	log.Debug("lock parked", zap.String("actor", m.name), zap.Int("waiters", m.waiters.Len()))
	return future.Ready[future.Future[T]](w)
}

func (m *Mutex[T]) unlock(v T) {
	if !m.locked {
		log.Panic("unlock of an unlocked mutex", zap.String("actor", m.name))
	}
	// the next holder gets the value without the mutex taking it back
	if m.waiters.Grant(v) {
		return
	}
	m.value = v
	m.locked = false
}

// Locked reports whether the value is currently lent out.
func (m *Mutex[T]) Locked() bool {
	return m.locked
}

// Exclusive is the lock guard. It gives access to the value until Unlock.
type Exclusive[T any] struct {
	addr     actor.Address[Command[T], future.Future[T]]
	value    T
	unlocked bool
}

// Lock asks the mutex at addr for its value. The returned future completes once the
// lock is held and must be driven to completion.
func Lock[T any](addr actor.Address[Command[T], future.Future[T]]) (future.Future[*Exclusive[T]], error) {
	f, err := addr.Request(Command[T]{})
	if err != nil {
		return nil, err
	}
	return future.Then[future.Future[T], *Exclusive[T]](f, func(granted future.Future[T]) future.Future[*Exclusive[T]] {
		if granted == nil {
			log.Panic("mutex closed with a lock queued", zap.Stringer("mutex", addr), zap.Error(f.Err()))
		}
		return future.Map[T, *Exclusive[T]](granted, func(v T) *Exclusive[T] {
			return &Exclusive[T]{addr: addr, value: v}
		})
	}), nil
}

// Value points at the guarded value. It panics after Unlock.
func (e *Exclusive[T]) Value() *T {
	if e.unlocked {
		log.Panic("mutex value used after unlock", zap.Stringer("mutex", e.addr))
	}
	return &e.value
}

// Unlock hands the value back. On a full mutex mailbox the guard stays valid and the
// caller may retry.
func (e *Exclusive[T]) Unlock() error {
	if e.unlocked {
		log.Panic("mutex unlocked twice", zap.Stringer("mutex", e.addr))
	}
	if err := e.addr.Notify(Command[T]{unlock: true, value: e.value}); err != nil {
		return err
	}
	e.unlocked = true
	var zero T
	e.value = zero
	return nil
}

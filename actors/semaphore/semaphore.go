// Package semaphore provides a permit-counting actor. Waiting acquirers are served in
// arrival order.
package semaphore

import (
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/internal/waitq"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// DefaultMaxWaiters bounds the waiter queue when Config.MaxWaiters is zero.
const DefaultMaxWaiters = 16

type Config struct {
	Permits    int
	MaxWaiters int
}

// Command is the message type of the semaphore actor.
type Command uint8

const (
	acquire Command = iota
	release
)

// Address is the address of a mounted semaphore. The response of an acquire is a future
// the requester awaits for its permit, so the actor itself never suspends.
type Address = actor.Address[Command, future.Future[struct{}]]

// Semaphore keeps the permit count and the queue of waiting acquirers.
type Semaphore struct {
	name    string
	permits int
	waiters *waitq.Queue[struct{}]
}

func New() *Semaphore {
	return &Semaphore{}
}

func (s *Semaphore) OnMount(self Address, config Config) {
	if config.Permits < 0 {
		log.Panic("semaphore permits must not be negative", zap.Int("permits", config.Permits))
	}
	if config.MaxWaiters == 0 {
		config.MaxWaiters = DefaultMaxWaiters
	}
	s.name = self.Name()
	s.permits = config.Permits
	s.waiters = waitq.New[struct{}](s.name, config.MaxWaiters)
}

func (s *Semaphore) OnRequest(cmd Command) future.Future[future.Future[struct{}]] {
	switch cmd {
	case acquire:
		if s.permits > 0 {
			s.permits--
			return future.Ready[future.Future[struct{}]](waitq.Granted(struct{}{}))
		}
		w := waitq.NewWaiter[struct{}]()
		s.waiters.Park(w)
		log.Debug("acquire parked", zap.String("actor", s.name), zap.Int("waiters", s.waiters.Len()))
		return future.Ready[future.Future[struct{}]](w)
	case release:
		// a parked waiter takes the permit over directly
		if !s.waiters.Grant(struct{}{}) {
			s.permits++
		}
	}
	return future.Ready[future.Future[struct{}]](future.Done())
}

// Permit is one acquired unit of the semaphore.
type Permit struct {
	addr     Address
	released bool
}

// Acquire asks the semaphore at addr for a permit. The returned future completes once
// the permit is held and, like every request future, must be driven to completion.
func Acquire(addr Address) (future.Future[*Permit], error) {
	f, err := addr.Request(acquire)
	if err != nil {
		return nil, err
	}
	return future.Then[future.Future[struct{}], *Permit](f, func(granted future.Future[struct{}]) future.Future[*Permit] {
		if granted == nil {
			log.Panic("semaphore closed with an acquire queued", zap.Stringer("semaphore", addr), zap.Error(f.Err()))
		}
		return future.Map[struct{}, *Permit](granted, func(struct{}) *Permit {
			return &Permit{addr: addr}
		})
	}), nil
}

// Release gives the permit back. A full semaphore mailbox is returned to the caller,
// who keeps the permit and may retry.
func (p *Permit) Release() error {
	if p.released {
		log.Panic("permit released twice", zap.Stringer("semaphore", p.addr))
	}
	if err := p.addr.Notify(release); err != nil {
		return err
	}
	p.released = true
	return nil
}

package mailbox

import (
	aerrors "github.com/hedisam/tinyactor/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
)

type signalSlot[T any] struct {
	inUse  atomic.Bool
	signal Signal[T]
}

// SignalPool is a fixed set of signals owned by one actor, one per concurrent request.
type SignalPool[T any] struct {
	owner string
	slots []signalSlot[T]
}

func NewSignalPool[T any](owner string, size int) *SignalPool[T] {
	if size < 1 {
		log.Panic("signal pool needs at least one slot")
	}
	return &SignalPool[T]{
		owner: owner,
		slots: make([]signalSlot[T], size),
	}
}

// Acquire hands out a free signal or fails with ErrNoAvailableSignal.
func (p *SignalPool[T]) Acquire() (*Signal[T], error) {
	for i := range p.slots {
		if p.slots[i].inUse.CompareAndSwap(false, true) {
			return &p.slots[i].signal, nil
		}
	}
	return nil, aerrors.ErrNoAvailableSignal.GenWithStackByArgs(p.owner, len(p.slots))
}

// Release returns s to the pool. s must have been acquired from p.
func (p *SignalPool[T]) Release(s *Signal[T]) {
	for i := range p.slots {
		if &p.slots[i].signal == s {
			s.reset()
			p.slots[i].inUse.Store(false)
			return
		}
	}
	log.Panic("signal released to a pool it does not belong to")
}

// InUse returns the number of acquired signals.
func (p *SignalPool[T]) InUse() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].inUse.Load() {
			n++
		}
	}
	return n
}

func (p *SignalPool[T]) Size() int {
	return len(p.slots)
}

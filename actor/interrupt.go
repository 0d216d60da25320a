package actor

import (
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// InterruptContext is an ActorContext bound to an interrupt vector.
type InterruptContext[C, M, R any] struct {
	*ActorContext[C, M, R]
	irq     sysmsg.IRQ
	handler Interruptible
}

// NewInterruptContext wraps actor, which must implement Interruptible.
func NewInterruptContext[C, M, R any](actor Actor[C, M, R], irq sysmsg.IRQ, opts ...Option) *InterruptContext[C, M, R] {
	h, ok := actor.(Interruptible)
	if !ok {
		log.Panic("actor bound to an interrupt does not implement OnInterrupt", zap.Uint16("irq", uint16(irq)))
	}
	return &InterruptContext[C, M, R]{
		ActorContext: NewContext[C, M, R](actor, opts...),
		irq:          irq,
		handler:      h,
	}
}

// Mount mounts the actor and binds its interrupt vector, unmasked.
func (ic *InterruptContext[C, M, R]) Mount(config C, sup *supervisor.Supervisor) Address[M, R] {
	addr := ic.ActorContext.Mount(config, sup)
	sup.Bind(ic.irq, ic.name, ic)
	return addr
}

func (ic *InterruptContext[C, M, R]) IRQ() sysmsg.IRQ {
	return ic.irq
}

// ServeInterrupt is called by the supervisor in interrupt context.
func (ic *InterruptContext[C, M, R]) ServeInterrupt(irq sysmsg.IRQ) bool {
	return ic.serveInterrupt(ic.handler)
}

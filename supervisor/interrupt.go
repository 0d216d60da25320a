package supervisor

import (
	"strconv"
	"sync"

	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	mpsc "github.com/t3rm1n4l/go-mpscqueue"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// InterruptHandler is bound to an interrupt vector and runs in interrupt context.
type InterruptHandler interface {
	// ServeInterrupt runs the bound actor's interrupt hook unless the actor has a task
	// in flight. It reports whether the hook ran.
	ServeInterrupt(irq sysmsg.IRQ) bool
}

type binding struct {
	irq     sysmsg.IRQ
	name    string
	handler InterruptHandler
	masked  atomic.Bool
}

type interrupts struct {
	mu       sync.RWMutex
	bindings []*binding
	// pending holds vectors raised with Pend, drained by the scan loop
	pending *mpsc.MPSCQueue
}

func newInterrupts(capacity int) *interrupts {
	return &interrupts{
		bindings: make([]*binding, 0, capacity),
		pending:  mpsc.New(),
	}
}

// Bind routes irq to handler. The binding starts unmasked.
// It panics once the interrupt table is full.
func (s *Supervisor) Bind(irq sysmsg.IRQ, name string, handler InterruptHandler) {
	s.irqs.mu.Lock()
	defer s.irqs.mu.Unlock()

	if len(s.irqs.bindings) == cap(s.irqs.bindings) {
		log.Panic("too many interrupts",
			zap.Int("max", cap(s.irqs.bindings)),
			zap.Uint16("irq", uint16(irq)),
			zap.String("actor", name))
	}
	s.irqs.bindings = append(s.irqs.bindings, &binding{irq: irq, name: name, handler: handler})
	log.Debug("interrupt bound",
		zap.String("supervisor", s.options.Name),
		zap.Uint16("irq", uint16(irq)),
		zap.String("actor", name))
}

// Interrupt delivers irq synchronously on the calling goroutine, which plays the role of
// the interrupt service routine. Actors with a task in flight do not see the interrupt.
// It returns the number of handlers that ran.
func (s *Supervisor) Interrupt(irq sysmsg.IRQ) int {
	s.irqs.mu.RLock()
	defer s.irqs.mu.RUnlock()

	delivered := 0
	label := strconv.Itoa(int(irq))
	for _, b := range s.irqs.bindings {
		if b.irq != irq {
			continue
		}
		if b.masked.Load() {
			interruptCounter.WithLabelValues(s.options.Name, label, "masked").Inc()
			continue
		}
		if !b.handler.ServeInterrupt(irq) {
			interruptCounter.WithLabelValues(s.options.Name, label, "skipped").Inc()
			log.Debug("interrupt skipped, actor busy",
				zap.String("supervisor", s.options.Name),
				zap.Uint16("irq", uint16(irq)),
				zap.String("actor", b.name))
			continue
		}
		interruptCounter.WithLabelValues(s.options.Name, label, "delivered").Inc()
		delivered++
	}
	return delivered
}

// Pend marks irq pending. It is served by the scan loop before its next pass.
// Safe to call from any goroutine.
func (s *Supervisor) Pend(irq sysmsg.IRQ) {
	s.irqs.pending.Push(irq)
	poke(s.idle)
}

// Mask stops delivery of irq until Unmask.
func (s *Supervisor) Mask(irq sysmsg.IRQ) {
	s.setMasked(irq, true)
}

func (s *Supervisor) Unmask(irq sysmsg.IRQ) {
	s.setMasked(irq, false)
}

func (s *Supervisor) setMasked(irq sysmsg.IRQ, masked bool) {
	s.irqs.mu.RLock()
	defer s.irqs.mu.RUnlock()
	for _, b := range s.irqs.bindings {
		if b.irq == irq {
			b.masked.Store(masked)
		}
	}
}

// servePending drains pended vectors. Only the scan loop calls it.
func (s *Supervisor) servePending() {
	for s.irqs.pending.Size() != 0 {
		irq := s.irqs.pending.Pop().(sysmsg.IRQ)
		s.Interrupt(irq)
	}
}

// Package supervisor implements the cooperative scheduler.
//
// A Supervisor owns a fixed arena of actor contexts and polls them from a single goroutine.
// Other goroutines only ever enqueue messages, raise readiness or deliver interrupts.
//
//	producer                    supervisor                     actor context
//	   |   Notify / Request          |                                 |
//	   |---------------------------------------------------------> enqueue + Wake
//	   |                             |  readiness > 0                  |
//	   |                             |---------- Poll(readiness) ----->|
//	   |                             |<--------- done / suspended -----|
//	   |                             |  no progress in a full pass     |
//	   |                             |  wait for wakeup (idle)         |
package supervisor

import (
	"context"

	"github.com/hedisam/tinyactor/internal/pid"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type Supervisor struct {
	options  Options
	registry *registry
	irqs     *interrupts
	// idle holds at most one wakeup token
	idle   chan struct{}
	booted atomic.Bool
	// scanning is held by the one goroutine allowed to poll actors
	scanning atomic.Bool
}

func New(options Options) (*Supervisor, error) {
	if err := options.checkOptions(); err != nil {
		return nil, err
	}
	return &Supervisor{
		options:  options,
		registry: newRegistry(options.MaxActors),
		irqs:     newInterrupts(options.MaxInterrupts),
		idle:     make(chan struct{}, 1),
	}, nil
}

func (s *Supervisor) Name() string {
	return s.options.Name
}

// Register adds an actor context to the arena and returns its pid together with the
// readiness counter the context raises on enqueue.
func (s *Supervisor) Register(name string, actor Schedulable) (pid.PID, *Readiness) {
	p, ready := s.registry.put(name, actor, s.idle)
	log.Info("actor registered",
		zap.String("supervisor", s.options.Name),
		zap.String("actor", name),
		zap.Stringer("pid", p))
	return p, ready
}

// Lookup returns the context registered under p.
func (s *Supervisor) Lookup(p pid.PID) (Schedulable, bool) {
	sl, ok := s.registry.get(p)
	if !ok {
		return nil, false
	}
	return sl.actor, true
}

// WhereIs returns the pid of the actor registered under name.
func (s *Supervisor) WhereIs(name string) (pid.PID, bool) {
	return s.registry.whereIs(name)
}

// Actors returns the number of registered actors.
func (s *Supervisor) Actors() int {
	return s.registry.len()
}

// Dispatch raises a lifecycle event on every registered actor.
func (s *Supervisor) Dispatch(event sysmsg.Lifecycle) {
	log.Debug("dispatch lifecycle event",
		zap.String("supervisor", s.options.Name),
		zap.Stringer("event", event))
	for _, sl := range s.registry.snapshot() {
		sl.actor.Dispatch(event)
		sl.ready.Wake()
	}
}

// Boot delivers Initialize, runs to quiescence, then delivers Start and runs to quiescence
// again. A supervisor boots once.
func (s *Supervisor) Boot() {
	if !s.booted.CompareAndSwap(false, true) {
		log.Panic("supervisor already booted", zap.String("supervisor", s.options.Name))
	}
	log.Info("supervisor booting",
		zap.String("supervisor", s.options.Name),
		zap.Int("actors", s.registry.len()))
	s.Dispatch(sysmsg.Initialize)
	s.RunUntilQuiescence()
	s.Dispatch(sysmsg.Start)
	s.RunUntilQuiescence()
}

// RunForever boots the supervisor and services actors until ctx is done.
// Between bursts of work it blocks until a producer, waker or interrupt rouses it.
func (s *Supervisor) RunForever(ctx context.Context) error {
	s.Boot()
	for {
		s.RunUntilQuiescence()
		select {
		case <-ctx.Done():
			log.Info("supervisor exited", zap.String("supervisor", s.options.Name), zap.Error(ctx.Err()))
			return ctx.Err()
		case <-s.idle:
		}
	}
}

// Shutdown delivers Stop to every actor and runs to quiescence. Actors still waiting on
// their own work are left as they are.
func (s *Supervisor) Shutdown() {
	log.Info("supervisor shutting down", zap.String("supervisor", s.options.Name))
	s.Dispatch(sysmsg.Stop)
	s.RunUntilQuiescence()
}

// RunUntilQuiescence scans the arena in registration order, polling every ready actor,
// until a full pass makes no progress.
// It panics when another goroutine is already scanning, for example BlockOn running
// next to RunForever.
func (s *Supervisor) RunUntilQuiescence() {
	if !s.scanning.CompareAndSwap(false, true) {
		log.Panic("supervisor is already scanning on another goroutine", zap.String("supervisor", s.options.Name))
	}
	defer s.scanning.Store(false)
	for {
		s.servePending()
		if !s.pass() {
			return
		}
	}
}

func (s *Supervisor) pass() (progressed bool) {
	ready := 0
	for _, sl := range s.registry.snapshot() {
		n := sl.ready.Pending()
		if n <= 0 {
			continue
		}
		ready++
		more := sl.actor.Poll(&sl.ready)
		// wakeups raised while polling stay counted
		sl.ready.consume(n)
		if more {
			sl.ready.retain()
		}
		pollCounter.WithLabelValues(s.options.Name, sl.name).Inc()
		progressed = true
	}
	passCounter.WithLabelValues(s.options.Name).Inc()
	readyActors.WithLabelValues(s.options.Name).Set(float64(ready))
	return progressed
}

// Ready reports whether any registered actor has a pending wakeup.
func (s *Supervisor) Ready() bool {
	for _, sl := range s.registry.snapshot() {
		if sl.ready.Pending() > 0 {
			return true
		}
	}
	return false
}

package supervisor

import (
	"go.uber.org/atomic"
)

// Readiness counts pending wakeups of one actor. It is the waker handed to the actor's
// in-flight task and is raised by every successful enqueue.
type Readiness struct {
	n    atomic.Int32
	idle chan<- struct{}
}

// Wake marks the actor ready and rouses an idle supervisor.
func (r *Readiness) Wake() {
	r.n.Inc()
	poke(r.idle)
}

func (r *Readiness) Pending() int32 {
	return r.n.Load()
}

func (r *Readiness) consume(n int32) {
	r.n.Sub(n)
}

func (r *Readiness) retain() {
	r.n.Inc()
}

// poke deposits a wakeup token without blocking. One token is enough to end an idle wait.
func poke(idle chan<- struct{}) {
	select {
	case idle <- struct{}{}:
	default:
	}
}

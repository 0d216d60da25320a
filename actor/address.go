package actor

import (
	"github.com/hedisam/tinyactor/internal/pid"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type endpoint[M, R any] interface {
	Name() string
	Notify(message M) error
	Request(message M) (*RequestFuture[R], error)
}

// Address is a copyable handle to a mounted actor: the supervisor it lives in and its
// index in that supervisor's arena. The zero Address is unbound.
type Address[M, R any] struct {
	sup *supervisor.Supervisor
	pid pid.PID
}

// Lookup finds the actor registered under name. ok is false if no actor has that name
// or its message and response types differ from M and R.
func Lookup[M, R any](sup *supervisor.Supervisor, name string) (addr Address[M, R], ok bool) {
	p, found := sup.WhereIs(name)
	if !found {
		return addr, false
	}
	s, found := sup.Lookup(p)
	if !found {
		return addr, false
	}
	if _, ok = s.(endpoint[M, R]); !ok {
		return addr, false
	}
	return Address[M, R]{sup: sup, pid: p}, true
}

func (a Address[M, R]) Bound() bool {
	return a.sup != nil && a.pid.Valid()
}

func (a Address[M, R]) Name() string {
	return a.resolve().Name()
}

// Notify enqueues a fire-and-forget message.
func (a Address[M, R]) Notify(message M) error {
	return a.resolve().Notify(message)
}

// Request enqueues message and returns a future for the response.
func (a Address[M, R]) Request(message M) (*RequestFuture[R], error) {
	return a.resolve().Request(message)
}

func (a Address[M, R]) String() string {
	if !a.Bound() {
		return "address<unbound>"
	}
	return "address<" + a.resolve().Name() + ">"
}

func (a Address[M, R]) resolve() endpoint[M, R] {
	if !a.Bound() {
		log.Panic("address is not bound to an actor")
	}
	s, ok := a.sup.Lookup(a.pid)
	if !ok {
		log.Panic("address points outside the actor arena", zap.Stringer("pid", a.pid))
	}
	e, ok := s.(endpoint[M, R])
	if !ok {
		log.Panic("address type does not match the mounted actor", zap.Stringer("pid", a.pid))
	}
	return e
}

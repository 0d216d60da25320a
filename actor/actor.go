// Package actor defines the behaviour contract of an actor and the context that hosts it.
//
// An actor is mounted once into a supervisor and from then on is only reachable through
// its Address. Every message, notify or request, goes through the same bounded FIFO
// mailbox and is processed one at a time: a new envelope is dequeued only after the
// previous task completed.
package actor

import (
	"github.com/hedisam/tinyactor/future"
)

// Actor is implemented by every driver or protocol component.
// C is the mount configuration, M the message type and R the response type.
type Actor[C, M, R any] interface {
	// OnMount is called exactly once, synchronously, before any scheduling.
	OnMount(self Address[M, R], config C)
	// OnRequest handles both notifications and requests. For a notification the
	// response is discarded.
	OnRequest(message M) future.Future[R]
}

// Lifecycle hooks. An actor implements the ones it cares about; a nil future means there
// is nothing to await.
type (
	Initializer interface {
		OnInitialize() future.Future[struct{}]
	}
	Starter interface {
		OnStart() future.Future[struct{}]
	}
	Sleeper interface {
		OnSleep() future.Future[struct{}]
	}
	Hibernator interface {
		OnHibernate() future.Future[struct{}]
	}
	Stopper interface {
		OnStop() future.Future[struct{}]
	}
)

// Interruptible actors can be bound to an interrupt vector with an InterruptContext.
// OnInterrupt runs in interrupt context and must not block. It is never called while
// the actor has a task in flight, so it should recompute state rather than rely on
// seeing every edge.
type Interruptible interface {
	OnInterrupt()
}

// Notifier is anything that accepts fire-and-forget messages of type M.
// Every Address is a Notifier.
type Notifier[M any] interface {
	Notify(message M) error
}

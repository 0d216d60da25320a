package actor

import (
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/internal/mailbox"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type taskKind uint8

const (
	taskNone taskKind = iota
	taskLifecycle
	taskNotify
	taskRequest
)

func (k taskKind) String() string {
	switch k {
	case taskLifecycle:
		return "lifecycle"
	case taskNotify:
		return "notify"
	case taskRequest:
		return "request"
	default:
		return "none"
	}
}

type taskState uint8

const (
	stateIdle taskState = iota
	stateDispatching
	stateAwaitingInner
	stateDelivering
)

type requestHandler[M, R any] interface {
	OnRequest(message M) future.Future[R]
}

// task is the in-flight slot of a context. It lives inside the context and is reused
// for every envelope.
type task[M, R any] struct {
	kind     taskKind
	state    taskState
	event    sysmsg.Lifecycle
	envelope mailbox.Envelope[M, R]
	hook     future.Future[struct{}]
	inner    future.Future[R]
	response R
}

func (t *task[M, R]) empty() bool {
	return t.kind == taskNone
}

func (t *task[M, R]) startLifecycle(event sysmsg.Lifecycle) {
	t.kind = taskLifecycle
	t.state = stateIdle
	t.event = event
}

func (t *task[M, R]) startEnvelope(env mailbox.Envelope[M, R]) {
	t.kind = taskNotify
	if env.Kind == mailbox.Request {
		t.kind = taskRequest
	}
	t.state = stateIdle
	t.envelope = env
}

func (t *task[M, R]) clear() {
	*t = task[M, R]{}
}

// resume advances the task as far as it can go. It returns true once the task is done
// and its response, if any, was delivered.
func (t *task[M, R]) resume(name string, a requestHandler[M, R], w future.Waker) bool {
	for {
		switch t.state {
		case stateIdle:
			t.state = stateDispatching
		case stateDispatching:
			if t.kind == taskLifecycle {
				t.hook = lifecycleHook(a, t.event)
			} else {
				t.inner = a.OnRequest(t.envelope.Message)
				if t.inner == nil {
					log.Panic("actor returned a nil future", zap.String("actor", name))
				}
			}
			t.state = stateAwaitingInner
		case stateAwaitingInner:
			if t.kind == taskLifecycle {
				if t.hook != nil {
					if _, ok := t.hook.Poll(w); !ok {
						return false
					}
				}
			} else {
				v, ok := t.inner.Poll(w)
				if !ok {
					return false
				}
				t.response = v
			}
			t.state = stateDelivering
		case stateDelivering:
			if t.kind == taskRequest {
				t.envelope.Reply.Send(t.response)
			}
			return true
		}
	}
}

func lifecycleHook(a any, event sysmsg.Lifecycle) future.Future[struct{}] {
	switch event {
	case sysmsg.Initialize:
		if h, ok := a.(Initializer); ok {
			return h.OnInitialize()
		}
	case sysmsg.Start:
		if h, ok := a.(Starter); ok {
			return h.OnStart()
		}
	case sysmsg.Sleep:
		if h, ok := a.(Sleeper); ok {
			return h.OnSleep()
		}
	case sysmsg.Hibernate:
		if h, ok := a.(Hibernator); ok {
			return h.OnHibernate()
		}
	case sysmsg.Stop:
		if h, ok := a.(Stopper); ok {
			return h.OnStop()
		}
	}
	return nil
}

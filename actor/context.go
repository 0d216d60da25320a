package actor

import (
	"sync"

	aerrors "github.com/hedisam/tinyactor/errors"
	"github.com/hedisam/tinyactor/internal/mailbox"
	"github.com/hedisam/tinyactor/internal/pid"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// ActorContext owns one actor, its mailbox and its scheduling state.
type ActorContext[C, M, R any] struct {
	actor   Actor[C, M, R]
	name    string
	mailbox *mailbox.Mailbox[mailbox.Envelope[M, R]]
	signals *mailbox.SignalPool[R]

	claimed atomic.Bool
	mounted atomic.Bool
	sup     *supervisor.Supervisor
	pid     pid.PID
	ready   *supervisor.Readiness

	// gate serializes access to the actor between the scheduler and interrupt handlers.
	// It guards lifecycle and every in-flight transition.
	gate      sync.Mutex
	inFlight  atomic.Bool
	lifecycle sysmsg.Set

	// task is touched by the scheduler goroutine only
	task task[M, R]
}

// NewContext wraps actor in an unmounted context.
func NewContext[C, M, R any](actor Actor[C, M, R], opts ...Option) *ActorContext[C, M, R] {
	o := newContextOptions(opts)
	return &ActorContext[C, M, R]{
		actor:   actor,
		name:    o.name,
		mailbox: mailbox.New[mailbox.Envelope[M, R]](o.name, o.mailboxCapacity),
		signals: mailbox.NewSignalPool[R](o.name, o.signalPoolSize),
	}
}

func (c *ActorContext[C, M, R]) Name() string {
	return c.name
}

// Mount registers the context with sup, calls OnMount and returns the actor's address.
// Mounting twice panics.
func (c *ActorContext[C, M, R]) Mount(config C, sup *supervisor.Supervisor) Address[M, R] {
	if !c.claimed.CompareAndSwap(false, true) {
		log.Panic("actor already mounted", zap.String("actor", c.name))
	}
	c.sup = sup
	c.pid, c.ready = sup.Register(c.name, c)
	c.mounted.Store(true)
	addr := Address[M, R]{sup: sup, pid: c.pid}
	c.actor.OnMount(addr, config)
	return addr
}

func (c *ActorContext[C, M, R]) Mounted() bool {
	return c.mounted.Load()
}

// InFlight reports whether a task is being processed.
func (c *ActorContext[C, M, R]) InFlight() bool {
	return c.inFlight.Load()
}

// Notify enqueues a fire-and-forget message. Safe to call from interrupt context.
func (c *ActorContext[C, M, R]) Notify(message M) error {
	c.checkMounted()
	err := c.mailbox.Enqueue(mailbox.Envelope[M, R]{Kind: mailbox.Notify, Message: message}, c.ready.Wake)
	if err != nil {
		c.rejected(err)
	}
	return err
}

// Request enqueues message and returns a future for the response. It fails without
// enqueueing when every signal of the actor is in use or the mailbox is full.
func (c *ActorContext[C, M, R]) Request(message M) (*RequestFuture[R], error) {
	c.checkMounted()
	sig, err := c.signals.Acquire()
	if err != nil {
		signalExhausted.WithLabelValues(c.name).Inc()
		return nil, err
	}
	env := mailbox.Envelope[M, R]{Kind: mailbox.Request, Message: message, Reply: sig}
	if err := c.mailbox.Enqueue(env, c.ready.Wake); err != nil {
		c.signals.Release(sig)
		c.rejected(err)
		return nil, err
	}
	return newRequestFuture(c.name, sig, c.signals), nil
}

// Dispatch marks a lifecycle event pending. The supervisor raises readiness afterwards.
func (c *ActorContext[C, M, R]) Dispatch(event sysmsg.Lifecycle) {
	c.gate.Lock()
	c.lifecycle = c.lifecycle.Add(event)
	c.gate.Unlock()
}

// Poll resumes the in-flight task or starts the next one. Pending lifecycle events go
// before mailbox envelopes.
func (c *ActorContext[C, M, R]) Poll(w *supervisor.Readiness) (more bool) {
	if !c.mounted.Load() {
		log.Panic("poll of an unmounted actor", zap.String("actor", c.name))
	}
	if c.task.empty() && !c.next() {
		return false
	}
	if !c.task.resume(c.name, c.actor, w) {
		return false
	}

	c.gate.Lock()
	kind := c.task.kind
	c.task.clear()
	c.inFlight.Store(false)
	more = !c.lifecycle.Empty() || c.mailbox.Len() > 0
	c.gate.Unlock()

	mailboxLength.WithLabelValues(c.name).Set(float64(c.mailbox.Len()))
	log.Debug("task completed", zap.String("actor", c.name), zap.Stringer("kind", kind))
	return more
}

// next fills the task slot. It returns false when there is nothing to do.
func (c *ActorContext[C, M, R]) next() bool {
	c.gate.Lock()
	defer c.gate.Unlock()

	if event, rest, ok := c.lifecycle.Next(); ok {
		c.lifecycle = rest
		c.task.startLifecycle(event)
		log.Debug("lifecycle event", zap.String("actor", c.name), zap.Stringer("event", event))
	} else if env, ok := c.mailbox.Dequeue(); ok {
		c.task.startEnvelope(env)
	} else {
		return false
	}
	c.inFlight.Store(true)
	return true
}

// serveInterrupt runs the interrupt hook under the gate unless a task is in flight.
func (c *ActorContext[C, M, R]) serveInterrupt(h Interruptible) bool {
	c.gate.Lock()
	defer c.gate.Unlock()
	if c.inFlight.Load() {
		return false
	}
	h.OnInterrupt()
	return true
}

func (c *ActorContext[C, M, R]) checkMounted() {
	if !c.mounted.Load() {
		log.Panic("actor is not mounted", zap.String("actor", c.name))
	}
}

func (c *ActorContext[C, M, R]) rejected(err error) {
	reason := "full"
	if aerrors.ErrMailboxClosed.Equal(err) {
		reason = "closed"
	}
	mailboxRejected.WithLabelValues(c.name, reason).Inc()
	log.Debug("envelope rejected",
		zap.String("actor", c.name),
		zap.String("reason", reason),
		zap.Int("capacity", c.mailbox.Cap()))
}

// Close tears the mailbox down. Further sends fail with ErrMailboxClosed, and requests
// still queued complete with ErrMailboxClosed so their futures can be released.
// A task already in flight finishes normally.
func (c *ActorContext[C, M, R]) Close() {
	c.gate.Lock()
	pending := c.mailbox.Close()
	c.gate.Unlock()

	failed := 0
	for _, env := range pending {
		if env.Kind != mailbox.Request {
			continue
		}
		env.Reply.Fail(aerrors.ErrMailboxClosed.GenWithStackByArgs(c.name))
		failed++
	}
	mailboxLength.WithLabelValues(c.name).Set(0)
	log.Info("actor mailbox closed",
		zap.String("actor", c.name),
		zap.Int("dropped", len(pending)-failed),
		zap.Int("failedRequests", failed))
}

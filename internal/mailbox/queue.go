package mailbox

import (
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	aerrors "github.com/hedisam/tinyactor/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Mailbox is a bounded FIFO of envelopes. Producers may be any goroutine, including
// interrupt handlers; there is a single consumer, the scheduler.
type Mailbox[E any] struct {
	// mu is the critical section around "enqueue, then raise readiness".
	mu       sync.Mutex
	owner    string
	ring     *queue.RingBuffer
	capacity uint64
}

func New[E any](owner string, capacity int) *Mailbox[E] {
	if capacity < 1 {
		log.Panic("mailbox capacity must be positive", zap.String("actor", owner), zap.Int("capacity", capacity))
	}
	return &Mailbox[E]{
		owner: owner,
		// the ring rounds its size up to a power of two, capacity is enforced here
		ring:     queue.NewRingBuffer(uint64(capacity)),
		capacity: uint64(capacity),
	}
}

// Enqueue appends e and, inside the same critical section, calls raise.
// A full mailbox rejects e with ErrMailboxFull, a closed one with ErrMailboxClosed.
func (m *Mailbox[E]) Enqueue(e E, raise func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ring.IsDisposed() {
		return aerrors.ErrMailboxClosed.GenWithStackByArgs(m.owner)
	}
	if m.ring.Len() >= m.capacity {
		return aerrors.ErrMailboxFull.GenWithStackByArgs(m.owner)
	}
	// there is room, so Put does not block
	if err := m.ring.Put(e); err != nil {
		if err == queue.ErrDisposed {
			return aerrors.ErrMailboxClosed.GenWithStackByArgs(m.owner)
		}
		return err
	}
	if raise != nil {
		raise()
	}
	return nil
}

// Dequeue pops the oldest envelope. ok is false if the mailbox is empty or closed.
func (m *Mailbox[E]) Dequeue() (e E, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ring.IsDisposed() || m.ring.Len() == 0 {
		return e, false
	}
	item, err := m.ring.Get()
	if err != nil {
		return e, false
	}
	return item.(E), true
}

func (m *Mailbox[E]) Len() int {
	return int(m.ring.Len())
}

func (m *Mailbox[E]) Cap() int {
	return int(m.capacity)
}

// Close rejects further envelopes and returns the ones still queued, oldest first.
// Closing twice returns nothing.
func (m *Mailbox[E]) Close() []E {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ring.IsDisposed() {
		return nil
	}
	pending := make([]E, 0, m.ring.Len())
	for m.ring.Len() > 0 {
		item, err := m.ring.Get()
		if err != nil {
			break
		}
		pending = append(pending, item.(E))
	}
	m.ring.Dispose()
	return pending
}

func (m *Mailbox[E]) Closed() bool {
	return m.ring.IsDisposed()
}

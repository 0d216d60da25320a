package supervisor

import (
	"sync"

	"github.com/hedisam/tinyactor/internal/pid"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Schedulable is the type-erased view the supervisor has of a mounted actor context.
type Schedulable interface {
	// Poll resumes the in-flight task, or starts the next one when the slot is empty.
	// It reports whether more work is queued behind a task that just completed.
	Poll(w *Readiness) (more bool)
	// Dispatch marks a lifecycle event as pending.
	Dispatch(event sysmsg.Lifecycle)
}

type slot struct {
	name  string
	actor Schedulable
	ready Readiness
}

// registry is the fixed-capacity actor arena. Slots never move once allocated,
// so a slot's Readiness keeps a stable address for wakers.
type registry struct {
	mu    sync.RWMutex
	slots []*slot
	names map[string]pid.PID
}

func newRegistry(capacity int) *registry {
	return &registry{
		slots: make([]*slot, 0, capacity),
		names: make(map[string]pid.PID, capacity),
	}
}

// put appends an actor to the arena. It panics once the arena is full or the name is taken.
func (r *registry) put(name string, actor Schedulable, idle chan<- struct{}) (pid.PID, *Readiness) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.slots) == cap(r.slots) {
		log.Panic("too many actors", zap.Int("max", cap(r.slots)), zap.String("actor", name))
	}
	if _, dup := r.names[name]; dup {
		log.Panic("actor name already registered", zap.String("actor", name))
	}
	s := &slot{name: name, actor: actor}
	s.ready.idle = idle
	p := pid.New(len(r.slots))
	r.slots = append(r.slots, s)
	r.names[name] = p
	return p, &s.ready
}

func (r *registry) get(p pid.PID) (*slot, bool) {
	if !p.Valid() {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p.Index() >= len(r.slots) {
		return nil, false
	}
	return r.slots[p.Index()], true
}

// whereIs returns the pid associated with a name
func (r *registry) whereIs(name string) (pid.PID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.names[name]
	return p, ok
}

// snapshot returns the slots in registration order.
func (r *registry) snapshot() []*slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slots[:len(r.slots):len(r.slots)]
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

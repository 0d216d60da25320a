package mutex

import (
	"testing"

	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/stretchr/testify/require"
)

type countingWaker struct {
	wakes int
}

func (w *countingWaker) Wake() {
	w.wakes++
}

func newSupervisor(t *testing.T) *supervisor.Supervisor {
	sup, err := supervisor.New(supervisor.NewOptions().SetName(t.Name()))
	require.NoError(t, err)
	return sup
}

func mountMutex[T any](sup *supervisor.Supervisor, name string, value T) actor.Address[Command[T], future.Future[T]] {
	return actor.NewContext[Config[T], Command[T], future.Future[T]](New[T](),
		actor.WithName(name), actor.WithMailboxCapacity(8), actor.WithSignalPoolSize(8)).
		Mount(Config[T]{Value: value}, sup)
}

func TestMutexWakeOrder(t *testing.T) {
	t.Parallel()

	sup := newSupervisor(t)
	addr := mountMutex(sup, "counter", 0)
	var locks []future.Future[*Exclusive[int]]
	for i := 0; i < 3; i++ {
		f, err := Lock(addr)
		require.NoError(t, err)
		locks = append(locks, f)
	}
	sup.RunUntilQuiescence()

	wakers := []*countingWaker{{}, {}, {}}
	held, ok := locks[0].Poll(wakers[0])
	require.True(t, ok)
	for i := 1; i < 3; i++ {
		_, ok := locks[i].Poll(wakers[i])
		require.False(t, ok)
	}

	for i := 1; i < 3; i++ {
		*held.Value() += 10
		require.NoError(t, held.Unlock())
		require.Panics(t, func() { held.Value() })
		sup.RunUntilQuiescence()
		require.Equal(t, 1, wakers[i].wakes, "waiter %d", i)
		for j := i + 1; j < 3; j++ {
			require.Equal(t, 0, wakers[j].wakes, "waiter %d", j)
		}
		held, ok = locks[i].Poll(future.Noop)
		require.True(t, ok)
		require.Equal(t, i*10, *held.Value())
	}

	*held.Value()++
	require.NoError(t, held.Unlock())
	require.Panics(t, func() { _ = held.Unlock() })
	sup.RunUntilQuiescence()

	// with no waiters the value goes back to the mutex
	f, err := Lock(addr)
	require.NoError(t, err)
	sup.RunUntilQuiescence()
	held, ok = f.Poll(future.Noop)
	require.True(t, ok)
	require.Equal(t, 21, *held.Value())
}

// incrementer takes the lock, reads the value, yields once, then writes it back plus one.
type incrementer struct {
	id    int
	mu    actor.Address[Command[int], future.Future[int]]
	yield *[]func()
	order *[]int
}

func (c *incrementer) OnMount(actor.Address[struct{}, struct{}], struct{}) {}

func (c *incrementer) OnRequest(struct{}) future.Future[struct{}] {
	f, err := Lock(c.mu)
	if err != nil {
		panic(err)
	}
	return future.Then[*Exclusive[int], struct{}](f, func(ex *Exclusive[int]) future.Future[struct{}] {
		*c.order = append(*c.order, c.id)
		read := *ex.Value()
		var yielded bool
		return future.Func[struct{}](func(w future.Waker) (struct{}, bool) {
			if !yielded {
				yielded = true
				*c.yield = append(*c.yield, w.Wake)
				return struct{}{}, false
			}
			*ex.Value() = read + 1
			if err := ex.Unlock(); err != nil {
				panic(err)
			}
			return struct{}{}, true
		})
	})
}

func TestMutexContention(t *testing.T) {
	t.Parallel()

	sup := newSupervisor(t)
	addr := mountMutex(sup, "counter", 0)
	var (
		yield []func()
		order []int
	)
	for i := 0; i < 4; i++ {
		c := &incrementer{id: i, mu: addr, yield: &yield, order: &order}
		caddr := actor.NewContext[struct{}, struct{}, struct{}](c).Mount(struct{}{}, sup)
		require.NoError(t, caddr.Notify(struct{}{}))
	}

	for held := 0; held < 4; held++ {
		sup.RunUntilQuiescence()
		// one holder at a time
		require.Len(t, yield, 1)
		require.Equal(t, held+1, len(order))
		wake := yield[0]
		yield = yield[:0]
		wake()
	}
	sup.RunUntilQuiescence()
	require.Empty(t, yield)
	require.Equal(t, []int{0, 1, 2, 3}, order)

	f, err := Lock(addr)
	require.NoError(t, err)
	sup.RunUntilQuiescence()
	ex, ok := f.Poll(future.Noop)
	require.True(t, ok)
	require.Equal(t, 4, *ex.Value())
}

type busWrite struct {
	master int
	word   int
}

// bus records every write it serves.
type bus struct {
	log []busWrite
}

func (b *bus) OnMount(actor.Address[busWrite, struct{}], struct{}) {}

func (b *bus) OnRequest(w busWrite) future.Future[struct{}] {
	b.log = append(b.log, w)
	return future.Done()
}

type busAddress = actor.Address[busWrite, struct{}]

// master writes a burst of words inside one bus transaction.
type master struct {
	id      int
	arbiter actor.Address[Command[busAddress], future.Future[busAddress]]
	words   int
}

func (m *master) OnMount(actor.Address[struct{}, struct{}], struct{}) {}

func (m *master) OnRequest(struct{}) future.Future[struct{}] {
	f, err := Lock(m.arbiter)
	if err != nil {
		panic(err)
	}
	return future.Then[*Exclusive[busAddress], struct{}](f, func(tx *Exclusive[busAddress]) future.Future[struct{}] {
		return m.write(tx, 0)
	})
}

func (m *master) write(tx *Exclusive[busAddress], word int) future.Future[struct{}] {
	if word == m.words {
		if err := tx.Unlock(); err != nil {
			panic(err)
		}
		return future.Done()
	}
	f, err := tx.Value().Request(busWrite{master: m.id, word: word})
	if err != nil {
		panic(err)
	}
	return future.Then[struct{}, struct{}](f, func(struct{}) future.Future[struct{}] {
		return m.write(tx, word+1)
	})
}

func TestMutexArbitratesBus(t *testing.T) {
	t.Parallel()

	sup := newSupervisor(t)
	b := &bus{}
	busAddr := actor.NewContext[struct{}, busWrite, struct{}](b,
		actor.WithName("bus"), actor.WithMailboxCapacity(4)).Mount(struct{}{}, sup)
	arbiter := mountMutex(sup, "arbiter", busAddr)

	const masters, words = 3, 3
	for i := 0; i < masters; i++ {
		m := &master{id: i, arbiter: arbiter, words: words}
		maddr := actor.NewContext[struct{}, struct{}, struct{}](m).Mount(struct{}{}, sup)
		require.NoError(t, maddr.Notify(struct{}{}))
	}
	sup.RunUntilQuiescence()

	require.Len(t, b.log, masters*words)
	for i, w := range b.log {
		// transactions never interleave
		require.Equal(t, busWrite{master: i / words, word: i % words}, w)
	}
}

func TestMutexUnlockUnlocked(t *testing.T) {
	t.Parallel()

	sup := newSupervisor(t)
	m := New[int]()
	actor.NewContext[Config[int], Command[int], future.Future[int]](m).Mount(Config[int]{}, sup)
	require.False(t, m.Locked())
	require.Panics(t, func() { m.OnRequest(Command[int]{unlock: true}) })
}

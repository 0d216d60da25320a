package button

import (
	"context"
	"testing"

	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

const irq sysmsg.IRQ = 6

type fakePin struct {
	low     atomic.Bool
	cleared atomic.Int32
}

func (p *fakePin) IsLow() bool {
	return p.low.Load()
}

func (p *fakePin) ClearInterrupt() {
	p.cleared.Inc()
}

type led struct {
	events []Event
}

func (l *led) OnMount(actor.Address[Event, struct{}], struct{}) {}

func (l *led) OnRequest(ev Event) future.Future[struct{}] {
	l.events = append(l.events, ev)
	return future.Done()
}

func TestButton(t *testing.T) {
	t.Parallel()

	sup, err := supervisor.New(supervisor.NewOptions().SetName(t.Name()))
	require.NoError(t, err)
	l := &led{}
	observer := actor.NewContext[struct{}, Event, struct{}](l, actor.WithMailboxCapacity(4)).Mount(struct{}{}, sup)
	pin := &fakePin{}
	addr := actor.NewInterruptContext[Config, Query, Event](New(), irq, actor.WithName("button")).
		Mount(Config{Pin: pin, Observer: observer}, sup)

	query := func() Event {
		f, err := addr.Request(Query{})
		require.NoError(t, err)
		ev, err := supervisor.BlockOn[Event](context.Background(), sup, f)
		require.NoError(t, err)
		return ev
	}
	require.Equal(t, Released, query())

	pin.low.Store(true)
	require.Equal(t, 1, sup.Interrupt(irq))
	// a bounce with the same level reports nothing
	require.Equal(t, 1, sup.Interrupt(irq))
	pin.low.Store(false)
	sup.Pend(irq)
	sup.RunUntilQuiescence()

	require.Equal(t, []Event{Pressed, Released}, l.events)
	require.Equal(t, int32(3), pin.cleared.Load())
	require.Equal(t, Released, query())
}

func TestButtonActiveHigh(t *testing.T) {
	t.Parallel()

	sup, err := supervisor.New(supervisor.NewOptions())
	require.NoError(t, err)
	pin := &fakePin{}
	b := New()
	actor.NewInterruptContext[Config, Query, Event](b, irq).Mount(Config{Pin: pin, ActiveHigh: true}, sup)
	require.Equal(t, Pressed, b.state)

	pin.low.Store(true)
	sup.Interrupt(irq)
	require.Equal(t, Released, b.state)
	require.Equal(t, "released", b.state.String())
}

func TestButtonNeedsPin(t *testing.T) {
	t.Parallel()

	sup, err := supervisor.New(supervisor.NewOptions())
	require.NoError(t, err)
	require.Panics(t, func() {
		actor.NewInterruptContext[Config, Query, Event](New(), irq).Mount(Config{}, sup)
	})
}

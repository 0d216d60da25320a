package actor

import (
	"strings"
	"testing"

	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func newSupervisor(t *testing.T) *supervisor.Supervisor {
	sup, err := supervisor.New(supervisor.NewOptions().SetName(t.Name()))
	require.NoError(t, err)
	return sup
}

// recorder keeps every notified value and lifecycle event in arrival order.
type recorder struct {
	self   Address[int, struct{}]
	got    []int
	events []string
}

func (r *recorder) OnMount(self Address[int, struct{}], _ struct{}) {
	r.self = self
}

func (r *recorder) OnRequest(m int) future.Future[struct{}] {
	r.got = append(r.got, m)
	r.events = append(r.events, "message")
	return future.Done()
}

func (r *recorder) OnInitialize() future.Future[struct{}] {
	r.events = append(r.events, sysmsg.Initialize.String())
	return future.Done()
}

func (r *recorder) OnStart() future.Future[struct{}] {
	r.events = append(r.events, sysmsg.Start.String())
	return nil
}

func (r *recorder) OnStop() future.Future[struct{}] {
	r.events = append(r.events, sysmsg.Stop.String())
	return future.Done()
}

// upper answers every request with its upper-cased message.
type upper struct {
	handled int
}

func (u *upper) OnMount(Address[string, string], struct{}) {}

func (u *upper) OnRequest(m string) future.Future[string] {
	u.handled++
	return future.Ready(strings.ToUpper(m))
}

// gate is a future that completes once opened.
type gate struct {
	open  bool
	waker future.Waker
}

func (g *gate) Poll(w future.Waker) (struct{}, bool) {
	if g.open {
		return struct{}{}, true
	}
	g.waker = w
	return struct{}{}, false
}

func (g *gate) Open() {
	g.open = true
	if g.waker != nil {
		g.waker.Wake()
	}
}

// slow answers a request only after the test opens its gate.
type slow struct {
	gate    *gate
	handled []string
}

func (s *slow) OnMount(Address[string, string], struct{}) {}

func (s *slow) OnRequest(m string) future.Future[string] {
	s.handled = append(s.handled, m)
	s.gate = &gate{}
	return future.Map[struct{}, string](s.gate, func(struct{}) string {
		return strings.ToUpper(m)
	})
}

// proxy forwards each request to a backend it is given at mount time.
type proxy struct {
	backend Address[string, string]
}

func (p *proxy) OnMount(_ Address[string, string], backend Address[string, string]) {
	p.backend = backend
}

func (p *proxy) OnRequest(m string) future.Future[string] {
	f, err := p.backend.Request(m)
	if err != nil {
		return future.Ready("error: " + err.Error())
	}
	return future.Map[string, string](f, func(v string) string {
		return "proxy:" + v
	})
}

// counter counts notifications with an atomic so tests may read it from another goroutine.
type counter struct {
	n atomic.Int64
}

func (c *counter) OnMount(Address[int, struct{}], struct{}) {}

func (c *counter) OnRequest(int) future.Future[struct{}] {
	c.n.Inc()
	return future.Done()
}

// button counts interrupts and reports each one to itself.
type button struct {
	self       Address[string, string]
	interrupts int
	slow       slow
}

func (b *button) OnMount(self Address[string, string], _ struct{}) {
	b.self = self
}

func (b *button) OnRequest(m string) future.Future[string] {
	return b.slow.OnRequest(m)
}

func (b *button) OnInterrupt() {
	b.interrupts++
	_ = b.self.Notify("irq")
}

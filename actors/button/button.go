// Package button provides an interrupt-driven push button actor.
package button

import (
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type Event uint8

const (
	Released Event = iota
	Pressed
)

func (e Event) String() string {
	if e == Pressed {
		return "pressed"
	}
	return "released"
}

// Pin is the GPIO line the button is wired to.
type Pin interface {
	IsLow() bool
	ClearInterrupt()
}

type Config struct {
	Pin Pin
	// ActiveHigh buttons read high while pressed. The default is active low.
	ActiveHigh bool
	Observer   actor.Notifier[Event]
}

// Query asks for the last sampled state.
type Query struct{}

// Button samples its pin on every interrupt and reports state changes to its observer.
type Button struct {
	config Config
	state  Event
}

func New() *Button {
	return &Button{}
}

func (b *Button) OnMount(_ actor.Address[Query, Event], config Config) {
	if config.Pin == nil {
		log.Panic("button needs a pin")
	}
	b.config = config
	b.state = b.sample()
}

func (b *Button) OnRequest(Query) future.Future[Event] {
	return future.Ready(b.state)
}

// OnInterrupt compares the pin level with the last state, so a missed edge is
// corrected by the next one.
func (b *Button) OnInterrupt() {
	b.config.Pin.ClearInterrupt()
	ev := b.sample()
	if ev == b.state {
		return
	}
	b.state = ev
	if b.config.Observer == nil {
		return
	}
	if err := b.config.Observer.Notify(ev); err != nil {
		log.Warn("button event dropped", zap.Stringer("event", ev), zap.Error(err))
	}
}

func (b *Button) sample() Event {
	if b.config.Pin.IsLow() != b.config.ActiveHigh {
		return Pressed
	}
	return Released
}

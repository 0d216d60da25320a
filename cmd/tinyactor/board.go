package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/actors/button"
	"github.com/hedisam/tinyactor/actors/ticker"
	"github.com/hedisam/tinyactor/actors/timer"
	"github.com/hedisam/tinyactor/config"
	"github.com/hedisam/tinyactor/device"
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/hedisam/tinyactor/sysmsg"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const irqButton sysmsg.IRQ = 6

// simPin is a GPIO line driven by a goroutine instead of a finger.
type simPin struct {
	low     atomic.Bool
	cleared atomic.Int64
}

func (p *simPin) IsLow() bool {
	return p.low.Load()
}

func (p *simPin) ClearInterrupt() {
	p.cleared.Inc()
}

// led lights up on every press and switches off after a timer delay.
type led struct {
	timer   actor.Address[timer.Command, struct{}]
	blink   time.Duration
	lit     atomic.Bool
	presses atomic.Int64
}

func (l *led) OnMount(_ actor.Address[button.Event, struct{}], t actor.Address[timer.Command, struct{}]) {
	l.timer = t
}

func (l *led) OnRequest(ev button.Event) future.Future[struct{}] {
	if ev != button.Pressed {
		return future.Done()
	}
	l.presses.Inc()
	l.lit.Store(true)
	f, err := l.timer.Request(timer.Delay(l.blink))
	if err != nil {
		log.Debug("led stays lit, timer busy", zap.Error(err))
		return future.Done()
	}
	return future.Map[struct{}, struct{}](f, func(struct{}) struct{} {
		l.lit.Store(false)
		return struct{}{}
	})
}

// monitor logs the board state on every heartbeat.
type monitor struct {
	led   *led
	pin   *simPin
	beats atomic.Int64
}

func (m *monitor) OnMount(actor.Address[string, struct{}], struct{}) {}

func (m *monitor) OnRequest(string) future.Future[struct{}] {
	m.beats.Inc()
	log.Info("heartbeat",
		zap.Int64("beats", m.beats.Load()),
		zap.Int64("presses", m.led.presses.Load()),
		zap.Bool("lit", m.led.lit.Load()),
		zap.Int64("interrupts", m.pin.cleared.Load()))
	return future.Done()
}

type board struct {
	pin     *simPin
	led     *led
	monitor *monitor

	timer     *actor.ActorContext[timer.Config, timer.Command, struct{}]
	ledCtx    *actor.ActorContext[actor.Address[timer.Command, struct{}], button.Event, struct{}]
	button    *actor.InterruptContext[button.Config, button.Query, button.Event]
	ticker    *actor.ActorContext[ticker.Config[string], ticker.Command, struct{}]
	monitorCx *actor.ActorContext[struct{}, string, struct{}]
}

type boardOptions struct {
	clock     clock.Clock
	blink     time.Duration
	heartbeat time.Duration
}

func newBoard(cfg *config.Config, o boardOptions) (*device.Context[board], *board, error) {
	dev, err := device.New[board](cfg.SupervisorOptions())
	if err != nil {
		return nil, nil, err
	}
	pin := &simPin{}
	l := &led{blink: o.blink}
	m := &monitor{led: l, pin: pin}
	dev.Configure(board{
		pin:       pin,
		led:       l,
		monitor:   m,
		timer:     actor.NewContext[timer.Config, timer.Command, struct{}](timer.New(), cfg.ActorOptions(actor.WithName("timer"))...),
		ledCtx:    actor.NewContext[actor.Address[timer.Command, struct{}], button.Event, struct{}](l, cfg.ActorOptions(actor.WithName("led"))...),
		button:    actor.NewInterruptContext[button.Config, button.Query, button.Event](button.New(), irqButton, cfg.ActorOptions(actor.WithName("button"))...),
		ticker:    actor.NewContext[ticker.Config[string], ticker.Command, struct{}](ticker.New[string](), cfg.ActorOptions(actor.WithName("ticker"))...),
		monitorCx: actor.NewContext[struct{}, string, struct{}](m, cfg.ActorOptions(actor.WithName("monitor"))...),
	})
	b := dev.Mount(func(b *board, sup *supervisor.Supervisor) {
		timerAddr := b.timer.Mount(timer.Config{Clock: o.clock}, sup)
		ledAddr := b.ledCtx.Mount(timerAddr, sup)
		b.button.Mount(button.Config{Pin: b.pin, Observer: ledAddr}, sup)
		monitorAddr := b.monitorCx.Mount(struct{}{}, sup)
		b.ticker.Mount(ticker.Config[string]{
			Clock:    o.clock,
			Interval: o.heartbeat,
			Target:   monitorAddr,
			Message:  "tick",
		}, sup)
	})
	return dev, b, nil
}

// pressButton toggles the simulated pin every interval and raises the button interrupt,
// either directly from this goroutine or as a pending interrupt for the scan loop.
func pressButton(ctx context.Context, sup *supervisor.Supervisor, pin *simPin, interval time.Duration, pend bool) error {
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
			pin.low.Toggle()
			if pend {
				sup.Pend(irqButton)
				continue
			}
			sup.Interrupt(irqButton)
		}
	}
}

// Package timer provides a timer actor and a delay future driven by a clock.
package timer

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type Config struct {
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// Command is the message type of the timer actor.
type Command struct {
	delay time.Duration
	fire  func()
}

// Delay is a request that completes after d.
func Delay(d time.Duration) Command {
	return Command{delay: d}
}

// Schedule is a command that notifies target with message after d. The request itself
// completes as soon as the timer is armed.
func Schedule[M any](d time.Duration, target actor.Notifier[M], message M) Command {
	return Command{
		delay: d,
		fire: func() {
			if err := target.Notify(message); err != nil {
				log.Warn("scheduled notification dropped", zap.Duration("delay", d), zap.Error(err))
			}
		},
	}
}

// Timer serves Delay and Schedule commands. Delays are served one at a time in arrival order.
type Timer struct {
	clock clock.Clock
}

func New() *Timer {
	return &Timer{}
}

func (t *Timer) OnMount(_ actor.Address[Command, struct{}], config Config) {
	t.clock = config.Clock
	if t.clock == nil {
		t.clock = clock.New()
	}
}

func (t *Timer) OnRequest(cmd Command) future.Future[struct{}] {
	if cmd.fire != nil {
		t.clock.AfterFunc(cmd.delay, cmd.fire)
		return future.Done()
	}
	return After(t.clock, cmd.delay)
}

type delay struct {
	mu    sync.Mutex
	clock clock.Clock
	d     time.Duration
	timer *clock.Timer
	fired bool
	waker future.Waker
}

// After returns a future that completes d after its first poll.
func After(clk clock.Clock, d time.Duration) future.Future[struct{}] {
	return &delay{clock: clk, d: d}
}

func (d *delay) Poll(w future.Waker) (struct{}, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fired {
		return struct{}{}, true
	}
	d.waker = w
	if d.timer == nil {
		d.timer = d.clock.AfterFunc(d.d, d.fire)
	}
	return struct{}{}, false
}

// fire runs on the clock's goroutine, the software stand-in for a timer interrupt.
func (d *delay) fire() {
	d.mu.Lock()
	d.fired = true
	w := d.waker
	d.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

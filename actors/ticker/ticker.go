// Package ticker provides an actor that notifies a target at a fixed interval.
package ticker

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type Config[M any] struct {
	// Clock defaults to the wall clock.
	Clock    clock.Clock
	Interval time.Duration
	Target   actor.Notifier[M]
	Message  M
}

// Command is the message type of the ticker actor.
type Command uint8

const (
	Enable Command = iota
	Disable
	tick
)

// Ticker notifies Config.Target with Config.Message every Config.Interval while enabled.
// It is enabled on Start and disabled on Stop.
type Ticker[M any] struct {
	config  Config[M]
	self    actor.Address[Command, struct{}]
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func New[M any]() *Ticker[M] {
	return &Ticker[M]{}
}

func (t *Ticker[M]) OnMount(self actor.Address[Command, struct{}], config Config[M]) {
	if config.Interval <= 0 {
		log.Panic("ticker interval must be positive", zap.Duration("interval", config.Interval))
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}
	t.config = config
	t.self = self
}

func (t *Ticker[M]) OnStart() future.Future[struct{}] {
	t.enable()
	return nil
}

func (t *Ticker[M]) OnStop() future.Future[struct{}] {
	t.disable()
	return nil
}

func (t *Ticker[M]) OnRequest(cmd Command) future.Future[struct{}] {
	switch cmd {
	case Enable:
		t.enable()
	case Disable:
		t.disable()
	case tick:
		if !t.running {
			break
		}
		if err := t.config.Target.Notify(t.config.Message); err != nil {
			log.Debug("tick dropped", zap.Stringer("ticker", t.self), zap.Error(err))
		}
	}
	return future.Done()
}

func (t *Ticker[M]) enable() {
	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	tk := t.config.Clock.Ticker(t.config.Interval)
	t.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer t.wg.Done()
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				// a full mailbox means the previous tick is still queued
				_ = t.self.Notify(tick)
			}
		}
	}(t.stop)
}

func (t *Ticker[M]) disable() {
	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
	t.wg.Wait()
}

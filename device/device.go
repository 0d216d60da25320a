// Package device ties a board's actors to the supervisor that runs them.
package device

import (
	"context"

	"github.com/hedisam/tinyactor/supervisor"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type state uint8

const (
	stateNew state = iota
	stateConfigured
	stateMounted
)

// Context holds the device value D, usually a struct of actor contexts, for the whole
// program. It moves through configure, mount and run exactly once.
type Context[D any] struct {
	state  state
	device D
	sup    *supervisor.Supervisor
}

func New[D any](options supervisor.Options) (*Context[D], error) {
	sup, err := supervisor.New(options)
	if err != nil {
		return nil, err
	}
	return &Context[D]{sup: sup}, nil
}

// Configure stores the device. It panics if called twice.
func (c *Context[D]) Configure(device D) {
	if c.state != stateNew {
		log.Panic("device already configured", zap.String("supervisor", c.sup.Name()))
	}
	c.device = device
	c.state = stateConfigured
}

// Mount hands the configured device to fn, which mounts its actors into the supervisor.
func (c *Context[D]) Mount(fn func(device *D, sup *supervisor.Supervisor)) *D {
	switch c.state {
	case stateNew:
		log.Panic("device must be configured before mount", zap.String("supervisor", c.sup.Name()))
	case stateMounted:
		log.Panic("device already mounted", zap.String("supervisor", c.sup.Name()))
	}
	fn(&c.device, c.sup)
	c.state = stateMounted
	log.Info("device mounted",
		zap.String("supervisor", c.sup.Name()),
		zap.Int("actors", c.sup.Actors()))
	return &c.device
}

func (c *Context[D]) Supervisor() *supervisor.Supervisor {
	return c.sup
}

// Run boots the supervisor and runs it until ctx is done, then shuts it down.
func (c *Context[D]) Run(ctx context.Context) error {
	if c.state != stateMounted {
		log.Panic("device must be mounted before run", zap.String("supervisor", c.sup.Name()))
	}
	err := c.sup.RunForever(ctx)
	c.sup.Shutdown()
	return err
}

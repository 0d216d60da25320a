package supervisor

import (
	"math"

	aerrors "github.com/hedisam/tinyactor/errors"
	"github.com/rs/xid"
)

const (
	defaultMaxActors     int = 16
	defaultMaxInterrupts int = 16
)

type Options struct {
	// Name labels logs and metrics of this supervisor.
	Name string
	// MaxActors caps the actor arena. Mounting more actors panics.
	MaxActors int
	// MaxInterrupts caps interrupt bindings. Binding more panics.
	MaxInterrupts int
}

func NewOptions() Options {
	return Options{
		Name:          xid.New().String(),
		MaxActors:     defaultMaxActors,
		MaxInterrupts: defaultMaxInterrupts,
	}
}

func (opt Options) SetName(name string) Options {
	opt.Name = name
	return opt
}

func (opt Options) SetMaxActors(n int) Options {
	opt.MaxActors = n
	return opt
}

func (opt Options) SetMaxInterrupts(n int) Options {
	opt.MaxInterrupts = n
	return opt
}

func (opt *Options) checkOptions() error {
	if opt.Name == "" {
		return aerrors.ErrInvalidConfig.GenWithStackByArgs("supervisor name is empty")
	} else if opt.MaxActors < 1 || opt.MaxActors > math.MaxUint16-1 {
		return aerrors.ErrInvalidConfig.GenWithStackByArgs("max actors out of range")
	} else if opt.MaxInterrupts < 0 {
		return aerrors.ErrInvalidConfig.GenWithStackByArgs("max interrupts is negative")
	}

	return nil
}

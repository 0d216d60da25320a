package actor

import (
	"github.com/hedisam/tinyactor/internal/mailbox"
	"github.com/rs/xid"
)

const unnamed = "<unnamed>"

type contextOptions struct {
	name            string
	mailboxCapacity int
	signalPoolSize  int
}

// Option configures an ActorContext.
type Option func(*contextOptions)

// WithName names the actor in logs, metrics and the supervisor's name registry.
func WithName(name string) Option {
	return func(o *contextOptions) {
		o.name = name
	}
}

// WithMailboxCapacity sets how many envelopes may wait in the mailbox.
func WithMailboxCapacity(n int) Option {
	return func(o *contextOptions) {
		o.mailboxCapacity = n
	}
}

// WithSignalPoolSize sets how many requests to the actor may be in flight at once.
func WithSignalPoolSize(n int) Option {
	return func(o *contextOptions) {
		o.signalPoolSize = n
	}
}

func newContextOptions(opts []Option) contextOptions {
	o := contextOptions{
		mailboxCapacity: mailbox.DefaultCapacity,
		signalPoolSize:  mailbox.DefaultSignalPoolSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = unnamed + "-" + xid.New().String()
	}
	return o
}

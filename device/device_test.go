package device

import (
	"context"
	"testing"
	"time"

	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/future"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type starter struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (s *starter) OnMount(actor.Address[int, int], struct{}) {}

func (s *starter) OnRequest(m int) future.Future[int] {
	return future.Ready(m * 2)
}

func (s *starter) OnStart() future.Future[struct{}] {
	s.started.Store(true)
	return future.Done()
}

func (s *starter) OnStop() future.Future[struct{}] {
	s.stopped.Store(true)
	return nil
}

type board struct {
	doubler *actor.ActorContext[struct{}, int, int]
	addr    actor.Address[int, int]
}

func TestDeviceLifecycle(t *testing.T) {
	t.Parallel()

	dev, err := New[board](supervisor.NewOptions().SetName("board"))
	require.NoError(t, err)
	require.Panics(t, func() { dev.Mount(func(*board, *supervisor.Supervisor) {}) })
	require.Panics(t, func() { dev.Run(context.Background()) })

	s := &starter{}
	dev.Configure(board{doubler: actor.NewContext[struct{}, int, int](s)})
	require.Panics(t, func() { dev.Configure(board{}) })

	b := dev.Mount(func(b *board, sup *supervisor.Supervisor) {
		b.addr = b.doubler.Mount(struct{}{}, sup)
	})
	require.True(t, b.addr.Bound())
	require.Panics(t, func() { dev.Mount(func(*board, *supervisor.Supervisor) {}) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- dev.Run(ctx)
	}()
	require.Eventually(t, s.started.Load, 5*time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.True(t, s.stopped.Load())
}

func TestDeviceInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New[board](supervisor.NewOptions().SetMaxActors(0))
	require.Error(t, err)
}

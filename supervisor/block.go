package supervisor

import (
	"context"

	"github.com/hedisam/tinyactor/future"
	"go.uber.org/atomic"
)

// BlockOn drives the supervisor until f completes or ctx is done. It lets code outside
// any actor, such as main or a test, await a request.
func BlockOn[T any](ctx context.Context, s *Supervisor, f future.Future[T]) (T, error) {
	var (
		zero  T
		woken atomic.Bool
	)
	w := future.WakerFunc(func() {
		woken.Store(true)
		poke(s.idle)
	})
	for {
		woken.Store(false)
		if v, ok := f.Poll(w); ok {
			return v, nil
		}
		s.RunUntilQuiescence()
		if woken.Load() {
			continue
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-s.idle:
		}
	}
}

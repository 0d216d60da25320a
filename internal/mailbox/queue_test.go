package mailbox

import (
	"sync"
	"testing"

	aerrors "github.com/hedisam/tinyactor/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxFIFO(t *testing.T) {
	t.Parallel()

	m := New[int]("fifo", 8)
	for i := 0; i < 8; i++ {
		require.NoError(t, m.Enqueue(i, nil))
	}
	require.Equal(t, 8, m.Len())
	for i := 0; i < 8; i++ {
		v, ok := m.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := m.Dequeue()
	require.False(t, ok)
}

func TestMailboxBackPressure(t *testing.T) {
	t.Parallel()

	// 3 rounds up to a ring of 4, the mailbox must still hold exactly 3
	m := New[string]("bp", 3)
	require.Equal(t, 3, m.Cap())
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, m.Enqueue(s, nil))
	}
	err := m.Enqueue("d", nil)
	require.True(t, aerrors.ErrMailboxFull.Equal(err), err)

	v, ok := m.Dequeue()
	require.True(t, ok)
	require.Equal(t, "a", v)
	require.NoError(t, m.Enqueue("d", nil))
	require.Equal(t, 3, m.Len())
}

func TestMailboxRaiseOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	raised := 0
	raise := func() { raised++ }
	m := New[int]("raise", 1)
	require.NoError(t, m.Enqueue(1, raise))
	require.Error(t, m.Enqueue(2, raise))
	require.Equal(t, 1, raised)
}

func TestMailboxClosed(t *testing.T) {
	t.Parallel()

	m := New[int]("closed", 2)
	require.Equal(t, 2, m.Cap())
	require.NoError(t, m.Enqueue(1, nil))
	require.NoError(t, m.Enqueue(2, nil))
	require.Equal(t, []int{1, 2}, m.Close())
	require.True(t, m.Closed())
	require.Empty(t, m.Close())
	err := m.Enqueue(2, nil)
	require.True(t, aerrors.ErrMailboxClosed.Equal(err), err)
	_, ok := m.Dequeue()
	require.False(t, ok)
}

func TestMailboxConcurrentProducers(t *testing.T) {
	t.Parallel()

	const producers, perProducer = 4, 25
	m := New[int]("mpsc", producers*perProducer)
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, m.Enqueue(p*perProducer+i, nil))
			}
		}(p)
	}
	wg.Wait()

	// per producer order is preserved
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for i := 0; i < producers*perProducer; i++ {
		v, ok := m.Dequeue()
		require.True(t, ok)
		p := v / perProducer
		require.Greater(t, v, last[p])
		last[p] = v
	}
}

package pid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPID(t *testing.T) {
	t.Parallel()

	var zero PID
	require.False(t, zero.Valid())
	require.Equal(t, "pid<nil>", zero.String())

	p := New(0)
	require.True(t, p.Valid())
	require.Equal(t, 0, p.Index())
	require.Equal(t, "pid<0>", p.String())
	require.Equal(t, New(3), New(3))
	require.NotEqual(t, New(3), New(4))
}

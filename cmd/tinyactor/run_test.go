package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hedisam/tinyactor/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBoard(t *testing.T) {
	mock := clock.NewMock()
	dev, b, err := newBoard(config.Default(), boardOptions{
		clock:     mock,
		blink:     100 * time.Millisecond,
		heartbeat: time.Second,
	})
	require.NoError(t, err)
	sup := dev.Supervisor()
	require.Equal(t, 5, sup.Actors())
	sup.Boot()

	b.pin.low.Store(true)
	require.Equal(t, 1, sup.Interrupt(irqButton))
	sup.RunUntilQuiescence()
	require.Equal(t, int64(1), b.led.presses.Load())
	require.True(t, b.led.lit.Load())
	require.Equal(t, int64(1), b.pin.cleared.Load())

	mock.Add(100 * time.Millisecond)
	require.Eventually(t, func() bool {
		sup.RunUntilQuiescence()
		return !b.led.lit.Load()
	}, 5*time.Second, time.Millisecond)

	// releasing is reported but does not count as a press
	b.pin.low.Store(false)
	sup.Pend(irqButton)
	sup.RunUntilQuiescence()
	require.Equal(t, int64(2), b.pin.cleared.Load())
	require.Equal(t, int64(1), b.led.presses.Load())

	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		sup.RunUntilQuiescence()
		return b.monitor.beats.Load() == 1
	}, 5*time.Second, time.Millisecond)

	sup.Shutdown()
}

func TestRunCommand(t *testing.T) {
	cmd := newCmdRoot()
	cmd.SetArgs([]string{"run",
		"--duration", "300ms",
		"--irq-interval", "10ms",
		"--heartbeat", "50ms",
		"--blink", "5ms",
		"--log-level", "warn",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCommandPend(t *testing.T) {
	cmd := newCmdRoot()
	cmd.SetArgs([]string{"run", "--duration", "100ms", "--irq-interval", "5ms", "--pend", "--log-level", "warn"})
	require.NoError(t, cmd.Execute())
}

func TestRunCommandInvalidFlags(t *testing.T) {
	cmd := newCmdRoot()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--duration", "-1s"})
	require.Error(t, cmd.Execute())

	cmd = newCmdRoot()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--irq-interval", "0s"})
	require.Error(t, cmd.Execute())
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("supervisor:\n  name: bench\n  max-actors: 8\n"), 0o600))

	var out bytes.Buffer
	cmd := newCmdRoot()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--config", path})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "[supervisor]")
	require.Contains(t, out.String(), `name = "bench"`)
	require.Contains(t, out.String(), "max-actors = 8")
}

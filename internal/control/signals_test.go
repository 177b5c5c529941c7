package control

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSignals_QuitOnSIGTERM(t *testing.T) {
	quit := &QuitFlag{}
	limit := NewLimit(50)
	stop := WatchSignals(quit, limit, 1, 100, nil)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	require.Eventually(t, quit.Get, time.Second, 5*time.Millisecond)
}

func TestWatchSignals_AdjustsLimit(t *testing.T) {
	quit := &QuitFlag{}
	limit := NewLimit(50)
	stop := WatchSignals(quit, limit, 1, 100, nil)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))
	require.Eventually(t, func() bool { return limit.Get() == 51 }, time.Second, 5*time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR2))
	require.Eventually(t, func() bool { return limit.Get() == 50 }, time.Second, 5*time.Millisecond)
}

func TestWatchSignals_StopWithoutSignalLeavesQuitUnset(t *testing.T) {
	quit := &QuitFlag{}
	limit := NewLimit(50)
	stop := WatchSignals(quit, limit, 1, 100, nil)
	stop()
	assert.False(t, quit.Get())
}

//go:build linux

package process

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTicks(t *testing.T) {
	t.Setenv("CLK_TCK", "")
	assert.Greater(t, ClockTicks(), 0)

	t.Setenv("CLK_TCK", "250")
	assert.Equal(t, 250, ClockTicks())
}

func TestReadStat_Self(t *testing.T) {
	me := os.Getpid()
	state, ppid, cputimeMS, ok := readStat(me)
	require.True(t, ok)
	assert.NotEmpty(t, state)
	assert.Equal(t, os.Getppid(), ppid)
	assert.GreaterOrEqual(t, cputimeMS, int64(0))

	time.Sleep(5 * time.Millisecond)
	_, _, cputimeMS2, ok2 := readStat(me)
	require.True(t, ok2)
	assert.GreaterOrEqual(t, cputimeMS2, cputimeMS)
}

func TestReadStat_NoSuchPID(t *testing.T) {
	_, _, _, ok := readStat(999999999)
	assert.False(t, ok)
}

func TestReadCmdline_Self(t *testing.T) {
	cmd := readCmdline(os.Getpid())
	assert.NotEmpty(t, cmd)
}

func TestIsKernelThread_Self(t *testing.T) {
	assert.False(t, isKernelThread(os.Getpid()))
}

func TestNewIterator_AllProcesses_ContainsSelf(t *testing.T) {
	it, err := NewIterator(Filter{PID: 0})
	require.NoError(t, err)
	defer it.Close()

	me := os.Getpid()
	found := false
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		if s.PID == me {
			found = true
			assert.Equal(t, os.Getppid(), s.PPID)
		}
	}
	assert.True(t, found, "current process should appear in an all-process iteration")
}

func TestNewIterator_SinglePID(t *testing.T) {
	me := os.Getpid()
	it, err := NewIterator(Filter{PID: me})
	require.NoError(t, err)
	defer it.Close()

	s, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, me, s.PID)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestNewIterator_SinglePID_NotFound(t *testing.T) {
	it, err := NewIterator(Filter{PID: 999999999})
	require.NoError(t, err)
	defer it.Close()

	_, ok := it.Next()
	assert.False(t, ok)
}

func TestPPIDOf_Self(t *testing.T) {
	assert.Equal(t, os.Getppid(), PPIDOf(os.Getpid()))
}

func TestFindByPID_Self(t *testing.T) {
	assert.Equal(t, os.Getpid(), FindByPID(os.Getpid()))
}

func TestFindByPID_NotFound(t *testing.T) {
	assert.Equal(t, 0, FindByPID(999999999))
}

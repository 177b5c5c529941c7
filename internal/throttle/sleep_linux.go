//go:build linux

package throttle

import (
	"time"

	"golang.org/x/sys/unix"
)

// clockSleeper sleeps by computing an absolute deadline on a monotonic
// clock and asking clock_nanosleep to wait until it, rather than calling a
// plain relative nanosleep. This keeps consecutive periods aligned to wall
// clock drift and signal interruptions: if clock_nanosleep returns early
// because of EINTR, the syscall itself resumes from the remaining time
// against the same absolute deadline.
type clockSleeper struct {
	clockID int32
}

func newSleeper() Sleeper {
	id := int32(unix.CLOCK_TAI)
	var ts unix.Timespec
	if err := unix.ClockGettime(id, &ts); err != nil {
		id = unix.CLOCK_MONOTONIC
	}
	return clockSleeper{clockID: id}
}

func (s clockSleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	var now unix.Timespec
	if err := unix.ClockGettime(s.clockID, &now); err != nil {
		time.Sleep(d)
		return
	}
	deadline := now
	deadline.Sec += int64(d / time.Second)
	deadline.Nsec += int64(d % time.Second)
	if deadline.Nsec >= int64(time.Second) {
		deadline.Nsec -= int64(time.Second)
		deadline.Sec++
	}
	for {
		err := unix.ClockNanosleep(s.clockID, unix.TIMER_ABSTIME, &deadline, nil)
		if err == nil {
			return
		}
		if err == unix.EINTR {
			continue
		}
		// Unsupported clock or other failure: fall back to a portable
		// relative sleep rather than busy-looping on a clock that will
		// never work.
		time.Sleep(d)
		return
	}
}

//go:build !linux

package throttle

import "time"

// timeSleeper falls back to the portable relative nanosleep every other
// platform's runtime.nanosleep already provides through time.Sleep; neither
// FreeBSD's nor Darwin's clock_nanosleep wrapper is exposed consistently
// enough in golang.org/x/sys/unix to justify the absolute-deadline dance
// sleep_linux.go does.
type timeSleeper struct{}

func newSleeper() Sleeper {
	return timeSleeper{}
}

func (timeSleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

package throttle

import (
	"log/slog"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ja7ad/cpulimit/internal/control"
	"github.com/ja7ad/cpulimit/internal/group"
)

const (
	// TSlot is the fixed control period the duty cycle is computed over.
	TSlot = 100 * time.Millisecond

	// epsilon keeps the working rate and the observed usage away from 0,
	// where the multiplicative update would otherwise divide by zero or
	// latch the duty cycle at a boundary it can never leave.
	epsilon = 1e-12
)

// family is the subset of *group.Group the controller depends on. Defined
// as an interface so the control loop can be exercised against a fake in
// tests without touching real OS process state.
type family interface {
	Refresh() error
	Live() []*group.TrackedProcess
	Remove(pid int)
}

// signaler delivers a signal to a pid. The default implementation wraps
// unix.Kill; tests substitute a fake to count/inspect delivered signals
// without touching real processes.
type signaler interface {
	Signal(pid int, sig syscall.Signal) error
}

type killSignaler struct{}

func (killSignaler) Signal(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}

// Sleeper performs the work/sleep waits between signal deliveries. Platform
// backends (sleep_linux.go, sleep_other.go) pick the most precise clock
// primitive available; tests substitute a fake that records durations
// instead of blocking.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Controller runs the closed-loop throttling control period against a
// single tracked family, computing the duty cycle each iteration and
// driving the family's members with SIGCONT/SIGSTOP.
type Controller struct {
	fam    family
	quit   *control.QuitFlag
	limit  *control.Limit
	sig    signaler
	sleep  Sleeper
	logger *slog.Logger

	workingRate float64
}

// New builds a Controller over g, observing quit and limit each period. L
// (from limit) is a fraction of a single CPU core in (0, N], N the number
// of cores the family is allowed to spread across.
func New(g *group.Group, quit *control.QuitFlag, limit *control.Limit, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		fam:    g,
		quit:   quit,
		limit:  limit,
		sig:    killSignaler{},
		sleep:  newSleeper(),
		logger: logger,
	}
}

// Run drives the control loop until the quit flag is set or the tracked
// family has no live members left (the lazy-exit path). quitRequested
// reports which of the two it was: true means the quit flag ended the
// loop (a real shutdown request), false means the family emptied out from
// under it (the target exited) and the caller may choose to re-resolve the
// target and call Run again instead of terminating. Errors are reserved
// for failures to refresh the family's process snapshot.
func (c *Controller) Run() (quitRequested bool, err error) {
	for {
		if c.quit.Get() {
			quitRequested = true
			break
		}

		limit := c.limit.Get()

		if err := c.fam.Refresh(); err != nil {
			return false, err
		}

		live := c.fam.Live()
		if len(live) == 0 {
			c.log().Debug("throttle: tracked family empty, exiting")
			break
		}

		pcpu := aggregateUsage(live)
		c.workingRate = nextWorkingRate(c.workingRate, limit, pcpu)

		tWork := time.Duration(float64(TSlot) * c.workingRate)
		tSleep := TSlot - tWork

		c.resume(live)
		c.sleep.Sleep(tWork)

		if tSleep > 0 {
			c.stop(live)
			c.sleep.Sleep(tSleep)
		}
	}

	c.resume(c.fam.Live())
	return quitRequested, nil
}

// resume sends SIGCONT to every member of live, dropping from the family
// any pid that no longer accepts signals (it has exited).
func (c *Controller) resume(live []*group.TrackedProcess) {
	c.deliver(live, unix.SIGCONT)
}

// stop sends SIGSTOP to every member of live, dropping from the family any
// pid that no longer accepts signals.
func (c *Controller) stop(live []*group.TrackedProcess) {
	c.deliver(live, unix.SIGSTOP)
}

func (c *Controller) deliver(live []*group.TrackedProcess, sig syscall.Signal) {
	for _, tp := range live {
		if err := c.sig.Signal(tp.PID, sig); err != nil {
			c.log().Debug("throttle: signal delivery failed, dropping pid", "pid", tp.PID, "signal", sig, "error", err)
			c.fam.Remove(tp.PID)
		}
	}
}

// log returns c.logger, falling back to slog.Default() for Controllers
// built as bare struct literals (tests) rather than through New.
func (c *Controller) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// aggregateUsage sums cpu_usage across live, treating the -1 "no sample
// yet" sentinel as absent rather than zero. Returns -1 if every member is
// still unsampled, signalling the caller to seed rather than adjust the
// working rate.
func aggregateUsage(live []*group.TrackedProcess) float64 {
	sum := 0.0
	sampled := false
	for _, tp := range live {
		if tp.CPUUsage < 0 {
			continue
		}
		sum += tp.CPUUsage
		sampled = true
	}
	if !sampled {
		return -1
	}
	return sum
}

// nextWorkingRate applies the multiplicative duty-cycle update. When pcpu
// is the "no sample" sentinel (-1), the rate is seeded directly from the
// limit instead of being adjusted, since there is nothing yet to correct
// against.
func nextWorkingRate(rate, limit, pcpu float64) float64 {
	if pcpu < 0 {
		rate = limit
	} else {
		rate = rate * limit / max(pcpu, epsilon)
	}
	if rate < epsilon {
		return epsilon
	}
	if rate > 1-epsilon {
		return 1 - epsilon
	}
	return rate
}

package control

import "sync/atomic"

// QuitFlag is a one-shot, signal-handler-safe flag: Set is called from
// SIGINT/SIGTERM handlers, Get is polled at the top of each control period.
type QuitFlag struct {
	v atomic.Bool
}

// Set marks the flag. Safe to call from a signal handler.
func (f *QuitFlag) Set() { f.v.Store(true) }

// Get reports whether Set has been called.
func (f *QuitFlag) Get() bool { return f.v.Load() }

// Limit holds the live CPU limit (a fraction of total available CPU, so 1.0
// means one full core), guarded by a spinlock built from atomic
// compare-and-swap rather than a blocking mutex. The critical section is a
// single float64 store/load, so the spin is always bounded — safe to take
// from a signal handler, where a priority-inverted blocking lock is not.
type Limit struct {
	locked atomic.Bool
	value  float64
}

// NewLimit returns a Limit initialized to v.
func NewLimit(v float64) *Limit {
	l := &Limit{}
	l.value = v
	return l
}

func (l *Limit) acquire() {
	for !l.locked.CompareAndSwap(false, true) {
		// Bounded spin: the critical section below is a single field
		// read/write, never blocking I/O, so this never spins long.
	}
}

func (l *Limit) release() {
	l.locked.Store(false)
}

// Get returns the current limit. Never observes a torn read: the spinlock
// brackets the single float64 access both here and in Set/Add.
func (l *Limit) Get() float64 {
	l.acquire()
	v := l.value
	l.release()
	return v
}

// Set overwrites the current limit.
func (l *Limit) Set(v float64) {
	l.acquire()
	l.value = v
	l.release()
}

// Add adds delta to the current limit, clamping the result to [lo, hi].
// Used by the SIGUSR1/SIGUSR2 handlers to adjust the limit by +/- one step
// (see WatchSignals).
func (l *Limit) Add(delta, lo, hi float64) {
	l.acquire()
	v := l.value + delta
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	l.value = v
	l.release()
}

// Package throttle implements the closed-loop controller that converts an
// observed CPU usage into the work/sleep duty cycle of the next 100ms
// control period, and drives a process family with SIGCONT/SIGSTOP.
//
// Each period: poll the quit flag, snapshot the live limit, refresh the
// family's membership and per-process usage, compute the aggregate usage
// across all live members, update the duty cycle
// (working_rate = working_rate * limit / max(pcpu, epsilon), clamped away
// from 0 and 1), then CONT every member, sleep the work slice, STOP every
// member, sleep the remaining slice. On exit it sends one final CONT sweep
// so no process is left frozen by the limiter's own action.
package throttle

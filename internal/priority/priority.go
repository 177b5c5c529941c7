// Package priority elevates the limiter's own scheduling priority at
// startup, and reNices the target process on request. Both are best-effort:
// failure is logged and ignored, never fatal, since a limiter running at
// default priority still functions correctly -- it just competes for CPU
// like any other process while deciding when to STOP/CONT its target.
package priority

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// Elevate raises the calling process's own scheduling priority by trying
// setpriority(PRIO_PROCESS, 0, ·) with increasing (less negative) values
// from -20 up to 0 until one succeeds. Logs and returns without error if none
// do (e.g. running unprivileged and the OS refuses any negative nice value).
func Elevate(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for nice := -20; nice <= 0; nice++ {
		if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err == nil {
			logger.Debug("priority: elevated", "nice", nice)
			return
		}
	}
	logger.Debug("priority: could not elevate priority, continuing at default")
}

// Renice sets pid's nice value to value. Best-effort: errors are returned to
// the caller (typically logged, not treated as fatal) since renicing a
// target the user doesn't own is expected to fail under normal permissions.
func Renice(pid, value int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, value)
}

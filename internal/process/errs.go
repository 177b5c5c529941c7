package process

import "errors"

var (
	// ErrProcFSUnavailable means /proc is not mounted or not a procfs
	// instance. Fatal: iteration cannot proceed at all on Linux.
	ErrProcFSUnavailable = errors.New("process: /proc is not available")

	// ErrSysctlUnavailable means the FreeBSD kern.proc sysctl could not be
	// read. Fatal: iteration cannot proceed at all on FreeBSD.
	ErrSysctlUnavailable = errors.New("process: kern.proc sysctl unavailable")

	// ErrListPIDsUnavailable means macOS proc_listallpids failed. Fatal:
	// iteration cannot proceed at all on macOS.
	ErrListPIDsUnavailable = errors.New("process: proc_listallpids failed")

	// ErrNotFound means a single-PID lookup found no such process.
	ErrNotFound = errors.New("process: no such process")

	// ErrSelfTarget means the caller asked to limit the limiter's own PID.
	ErrSelfTarget = errors.New("process: target is cpulimit itself")
)

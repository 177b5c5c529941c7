// Package process provides a platform-abstracted snapshot of running
// processes: per-PID CPU time, parent PID, and command path, plus the
// ancestry and name/PID lookup helpers built on top of it.
//
// Three backends implement the same Iterator contract:
//
//   - Linux:   /proc/<pid>/stat and /proc/<pid>/cmdline.
//   - FreeBSD: the kern.proc.proc sysctl, decoded from the
//     kinfo_proc layout without cgo.
//   - macOS:   proc_listallpids + proc_pidinfo(PROC_PIDTASKALLINFO) via cgo.
//
// Snapshot fields are populated best-effort: a failure to read one PID's
// details drops that PID from the stream, it never aborts iteration. An
// Iterator holds exactly one OS resource (a procfs directory handle, a
// pre-fetched sysctl buffer, or a pre-fetched PID array) and releases it on
// Close, even after a partial iteration.
package process

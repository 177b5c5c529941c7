//go:build linux

package process

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ClockTicks returns the number of jiffies (clock ticks) per second used to
// convert /proc/<pid>/stat's utime/stime fields into milliseconds.
//
// It first checks the env var CLK_TCK (useful for testing), otherwise falls
// back to 100, the near-universal Linux default when sysconf(_SC_CLK_TCK)
// is unavailable without cgo. Implementers porting this elsewhere should not
// silently assume 100 Hz holds; document the fallback instead, as done here.
func ClockTicks() int {
	if v, err := strconv.Atoi(os.Getenv("CLK_TCK")); err == nil && v > 0 {
		return v
	}
	return 100
}

// newIterator is the Linux entry point used by NewIterator (called from
// iterator.go's platform-neutral constructor name via build-tag dispatch).
func newIterator(f Filter) (Iterator, error) {
	if err := checkProcFS(); err != nil {
		return nil, err
	}

	dir, err := os.Open("/proc")
	if err != nil {
		return nil, ErrProcFSUnavailable
	}
	// We only need the directory listing, not a long-lived handle; reading
	// it fully up front and closing immediately still satisfies "one OS
	// handle released on close, even mid-iteration" since no further I/O
	// happens against `dir` afterward.
	names, err := dir.Readdirnames(-1)
	closeErr := dir.Close()
	if err != nil {
		return nil, ErrProcFSUnavailable
	}

	all := make([]Snapshot, 0, len(names))
	for _, name := range names {
		pid, convErr := strconv.Atoi(name)
		if convErr != nil || pid <= 0 {
			continue // not a PID directory
		}
		snap, ok := readSnapshot(pid)
		if !ok {
			continue // transient: process gone, permission denied, etc.
		}
		all = append(all, snap)
	}

	return newSliceIterator(applyFilter(all, f), func() error { return closeErr }), nil
}

// checkProcFS verifies /proc is actually a procfs mount, per spec: a missing
// or non-procfs /proc is a fatal iteration-setup failure, not a per-PID one.
func checkProcFS() error {
	var st unix.Statfs_t
	if err := unix.Statfs("/proc", &st); err != nil {
		return ErrProcFSUnavailable
	}
	const procSuperMagic = 0x9fa0
	if int64(st.Type) != procSuperMagic {
		return ErrProcFSUnavailable
	}
	return nil
}

// readSnapshot reads /proc/<pid>/stat and /proc/<pid>/cmdline for one PID.
// ok is false if the PID no longer exists, is a kernel thread, or is a
// zombie/dead process -- all per-PID, non-fatal conditions.
func readSnapshot(pid int) (Snapshot, bool) {
	state, ppid, cputimeMS, ok := readStat(pid)
	if !ok {
		return Snapshot{}, false
	}
	if state == "Z" || state == "X" {
		return Snapshot{}, false
	}
	if isKernelThread(pid) {
		return Snapshot{}, false
	}
	return Snapshot{
		PID:       pid,
		PPID:      ppid,
		CPUTimeMS: cputimeMS,
		Command:   readCmdline(pid),
	}, true
}

// readStat parses /proc/<pid>/stat, returning the process state letter, the
// parent PID, and cputime in milliseconds ((utime+stime)*1000/HZ).
//
// The comm field (2nd column) is parenthesised and may itself contain
// spaces or parentheses, so everything up to the last ") " is skipped
// rather than split on whitespace.
func readStat(pid int) (state string, ppid int, cputimeMS int64, ok bool) {
	f, err := os.Open("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return "", 0, 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return "", 0, 0, false
	}
	line := sc.Text()

	i := strings.LastIndex(line, ") ")
	if i < 0 {
		return "", 0, 0, false
	}
	fields := strings.Fields(line[i+2:])
	if len(fields) < 13 {
		return "", 0, 0, false
	}

	state = fields[0]
	ppid, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, 0, false
	}
	utime, err1 := strconv.ParseInt(fields[11], 10, 64)
	stime, err2 := strconv.ParseInt(fields[12], 10, 64)
	if err1 != nil || err2 != nil {
		return "", 0, 0, false
	}

	hz := int64(ClockTicks())
	cputimeMS = (utime + stime) * 1000 / hz
	return state, ppid, cputimeMS, true
}

// readCmdline reads the first NUL-delimited argument from
// /proc/<pid>/cmdline. Returns "" if unreadable or empty (e.g. kernel
// threads, zombies that raced the check above).
func readCmdline(pid int) string {
	b, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/cmdline")
	if err != nil {
		return ""
	}
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return strings.TrimRight(string(b), "\x00")
}

// isKernelThread reports whether pid is a kernel thread by checking that
// /proc/<pid>/statm begins "0 0 0" (kernel threads have no address space).
func isKernelThread(pid int) bool {
	b, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/statm")
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(string(b)), "0 0 0")
}

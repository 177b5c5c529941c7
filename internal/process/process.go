package process

// Snapshot is an immutable, best-effort view of one process at the moment it
// was read.
type Snapshot struct {
	PID  int
	PPID int

	// CPUTimeMS is accumulated user+kernel CPU time in milliseconds since
	// process start. Monotonic non-decreasing across successive reads of
	// the same live PID.
	CPUTimeMS int64

	// Command is the absolute executable path where the platform can
	// provide one, otherwise the best available equivalent (comm/bsd
	// name). May be empty.
	Command string
}

// Filter selects which processes an Iterator yields.
//
//   - PID == 0: every userspace process (kernel threads excluded). The
//     FreeBSD backend does not exclude system processes; it yields every
//     non-zombie entry of the kernel's process table.
//   - PID == P, IncludeChildren == false: exactly P, if it exists.
//   - PID == P, IncludeChildren == true: P plus every process whose
//     ancestor chain (via PPIDOf) reaches P before reaching init (PID 1).
type Filter struct {
	PID             int
	IncludeChildren bool
}

// Iterator yields a finite stream of Snapshots under a Filter.
type Iterator interface {
	// Next returns the next Snapshot. ok is false once the stream is
	// exhausted; callers must stop calling Next at that point.
	Next() (Snapshot, bool)
	// Close releases the iterator's OS resource. Safe to call after a
	// partial iteration.
	Close() error
}

// sliceIterator is the common Iterator implementation shared by every
// backend: each platform gathers its snapshots eagerly (one syscall/procfs
// pass) and this type streams them out, so Filter's three modes are applied
// uniformly regardless of backend.
type sliceIterator struct {
	snaps []Snapshot
	pos   int
	close func() error
}

func newSliceIterator(snaps []Snapshot, closeFn func() error) *sliceIterator {
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return &sliceIterator{snaps: snaps, close: closeFn}
}

func (it *sliceIterator) Next() (Snapshot, bool) {
	if it.pos >= len(it.snaps) {
		return Snapshot{}, false
	}
	s := it.snaps[it.pos]
	it.pos++
	return s, true
}

func (it *sliceIterator) Close() error {
	return it.close()
}

// applyFilter narrows an eagerly-collected "all processes" snapshot set down
// to what Filter asks for. It is shared by every backend so the mode-2/mode-3
// semantics (exactly one PID; PID plus descendants) are implemented once.
func applyFilter(all []Snapshot, f Filter) []Snapshot {
	if f.PID == 0 {
		return all
	}

	ppid := make(map[int]int, len(all))
	for _, s := range all {
		ppid[s.PID] = s.PPID
	}

	if !f.IncludeChildren {
		for _, s := range all {
			if s.PID == f.PID {
				return []Snapshot{s}
			}
		}
		return nil
	}

	out := make([]Snapshot, 0, len(all))
	for _, s := range all {
		if s.PID == f.PID || isDescendantOf(ppid, s.PID, f.PID) {
			out = append(out, s)
		}
	}
	return out
}

// isDescendantOf walks the ppid map (built from one iteration pass) instead
// of re-querying the OS per candidate.
func isDescendantOf(ppid map[int]int, child, ancestor int) bool {
	const safetyBound = 100000
	pid := child
	for i := 0; i < safetyBound; i++ {
		p, ok := ppid[pid]
		if !ok {
			return false
		}
		if p == ancestor {
			return true
		}
		if p <= 1 {
			return false
		}
		pid = p
	}
	return false
}

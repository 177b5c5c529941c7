package process

// PPIDSentinel is returned by PPIDOf when the parent PID cannot be
// determined (process gone, permission denied).
const PPIDSentinel = -1

// PPIDOf returns the parent PID of pid, or PPIDSentinel on failure. It does
// a single-PID iteration rather than scanning every process.
func PPIDOf(pid int) int {
	it, err := NewIterator(Filter{PID: pid})
	if err != nil {
		return PPIDSentinel
	}
	defer it.Close()

	s, ok := it.Next()
	if !ok {
		return PPIDSentinel
	}
	return s.PPID
}

// IsDescendant reports whether child's ancestor chain (via PPIDOf) reaches
// parent before reaching init (PID 1) or failing. It walks iteratively,
// bounded by a fixed safety depth, and never recurses.
func IsDescendant(child, parent int) bool {
	const safetyBound = 100000
	pid := child
	for i := 0; i < safetyBound; i++ {
		ppid := PPIDOf(pid)
		if ppid <= 1 || ppid == PPIDSentinel {
			return false
		}
		if ppid == parent {
			return true
		}
		pid = ppid
	}
	return false
}

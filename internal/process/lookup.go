package process

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// FindByPID returns pid if it currently exists and is signalable, -pid if it
// exists but signalling it fails with permission denied, or 0 if it does not
// exist. It performs no iteration: kill(pid, 0) semantics only.
func FindByPID(pid int) int {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return pid
	case err == unix.EPERM:
		return -pid
	default:
		return 0
	}
}

// FindByName searches every userspace process for one whose command
// basename matches name's basename, and returns its PID via FindByPID, or 0
// if nothing matches.
//
// When multiple processes share the basename, the candidate that is an
// ancestor of every other candidate wins (the common case: a wrapper script
// re-execing a same-named binary); otherwise the lowest PID wins. That
// lowest-PID fallback is an arbitrary but deliberately preserved heuristic
// inherited from the original implementation -- do not "fix" it without
// checking release notes for a reason it was chosen.
func FindByName(name string) int {
	needle := filepath.Base(name)

	it, err := NewIterator(Filter{PID: 0})
	if err != nil {
		return 0
	}
	defer it.Close()

	var candidates []int
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		if s.Command == "" {
			continue
		}
		if filepath.Base(s.Command) == needle || strings.HasSuffix(s.Command, "/"+needle) {
			candidates = append(candidates, s.PID)
		}
	}

	switch len(candidates) {
	case 0:
		return 0
	case 1:
		return FindByPID(candidates[0])
	}

	if root, ok := ancestorOfAll(candidates); ok {
		return FindByPID(root)
	}

	lowest := candidates[0]
	for _, c := range candidates[1:] {
		if c < lowest {
			lowest = c
		}
	}
	return FindByPID(lowest)
}

// ancestorOfAll returns the single candidate that is an ancestor of every
// other candidate, if one exists.
func ancestorOfAll(candidates []int) (int, bool) {
	for _, root := range candidates {
		isAncestor := true
		for _, other := range candidates {
			if other == root {
				continue
			}
			if !IsDescendant(other, root) {
				isAncestor = false
				break
			}
		}
		if isAncestor {
			return root, true
		}
	}
	return 0, false
}

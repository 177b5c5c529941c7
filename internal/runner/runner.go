// Package runner spawns a command as the limiter's child, the "command
// mode" target described in spec.md section 6. The limiter becomes the
// target's parent, matching the single-threaded, non-shared-memory
// relationship the controller assumes between itself and the family it
// throttles.
package runner

import (
	"context"
	"os"
	"os/exec"
)

// Spawn starts argv[0] with argv[1:] as arguments, inheriting the limiter's
// stdio, and returns once the child process has been created (not once it
// exits). The returned *exec.Cmd's Wait must be called by the caller to
// reap the child and obtain its exit status.
func Spawn(ctx context.Context, argv []string) (*exec.Cmd, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// CommandContext would kill the child on ctx cancellation; the
	// controller instead drives the child via STOP/CONT and expects it to
	// exit on its own, so detach the context's default Cancel behavior by
	// never cancelling ctx ourselves -- callers pass context.Background().
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ExitCode extracts a spawned command's exit status following Wait, mapping
// the conventional WEXITSTATUS semantics: 0 on success, the child's own exit
// code otherwise, or 1 if the process was killed by a signal.
func ExitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if ok := asExitError(waitErr, &exitErr); ok {
		if exitErr.ExitCode() >= 0 {
			return exitErr.ExitCode()
		}
		return 1 // terminated by signal
	}
	return 1
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	*target = ee
	return true
}

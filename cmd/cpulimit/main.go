// Command cpulimit limits the CPU usage of a process (by PID, by
// executable name, or a freshly spawned command) by periodically sending
// it SIGSTOP/SIGCONT, without needing any kernel cgroup support.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/cpulimit/internal/config"
	"github.com/ja7ad/cpulimit/internal/control"
	"github.com/ja7ad/cpulimit/internal/group"
	"github.com/ja7ad/cpulimit/internal/priority"
	"github.com/ja7ad/cpulimit/internal/process"
	"github.com/ja7ad/cpulimit/internal/runner"
	"github.com/ja7ad/cpulimit/internal/throttle"
)

type opts struct {
	limit           float64
	verbose         bool
	lazy            bool
	includeChildren bool
	pid             int
	exe             string
	nice            int
	niceSet         bool
	configPath      string
}

const _console = `cpulimit - limit the CPU usage of a process

Examples:
  cpulimit -l 50 -p 1234
  cpulimit -l 200 -e /usr/bin/ffmpeg -z -i
  cpulimit -l 50 -- gzip -9 largefile.tar`

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "cpulimit [OPTIONS...] [COMMAND [ARGS...]]",
		Short: "Limit the CPU usage of a process",
		Long:  _console,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), &o, args)
		},
	}

	flags := root.Flags()
	flags.Float64VarP(&o.limit, "limit", "l", 0, "CPU limit, percent of one core (0..100*NCPU); required")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose logging (slog level Debug)")
	flags.BoolVarP(&o.lazy, "lazy", "z", false, "exit when the target process is gone, instead of waiting for it to reappear")
	flags.BoolVarP(&o.includeChildren, "include-children", "i", false, "track and limit descendants of the target too")
	flags.IntVarP(&o.pid, "pid", "p", 0, "target an existing PID (implies --lazy)")
	flags.StringVarP(&o.exe, "exe", "e", "", "target by executable name or path")
	flags.IntVarP(&o.nice, "nice", "n", 0, "renice the target after attaching (best effort)")
	flags.StringVar(&o.configPath, "config", "", "optional YAML defaults file")

	root.PreRun = func(cmd *cobra.Command, args []string) {
		o.niceSet = cmd.Flags().Changed("nice")
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		var exitErr *cliError
		if errors.As(err, &exitErr) {
			if exitErr.message != "" {
				slog.Error(exitErr.message)
			}
			os.Exit(exitErr.code)
		}
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// cliError carries the process exit code alongside the error so main can
// distinguish "argument error" (1) from "fork/exec failure" or an unreadable
// process table (2) from a spawned command's own propagated exit status.
type cliError struct {
	code    int
	message string
}

func (e *cliError) Error() string { return e.message }

func newCLIError(code int, format string, a ...any) *cliError {
	return &cliError{code: code, message: fmt.Sprintf(format, a...)}
}

func run(ctx context.Context, o *opts, args []string) error {
	if o.configPath != "" {
		defaults, err := config.Load(o.configPath)
		if err != nil {
			return newCLIError(1, "%s", err)
		}
		applyDefaults(o, defaults)
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	maxLimit := 100 * float64(runtime.NumCPU())
	if o.limit <= 0 || o.limit > maxLimit {
		return newCLIError(1, fmt.Sprintf("limit must be in (0, %.0f] (0 < 100*NCPU), got %.2f", maxLimit, o.limit))
	}

	targetCount := 0
	if o.pid != 0 {
		targetCount++
	}
	if o.exe != "" {
		targetCount++
	}
	if len(args) > 0 {
		targetCount++
	}
	if targetCount != 1 {
		return newCLIError(1, "exactly one of --pid, --exe or COMMAND is required")
	}

	priority.Elevate(logger)

	quit := &control.QuitFlag{}
	limit := control.NewLimit(o.limit / 100)
	stopSignals := control.WatchSignals(quit, limit, 0.01, maxLimit/100, logger)
	defer stopSignals()

	var cmd *exec.Cmd
	switch {
	case o.pid != 0:
		o.lazy = true
		targetPID := process.FindByPID(o.pid)
		if targetPID == 0 {
			fmt.Println("No process found")
			return nil
		}
		if err := attachAndRun(logger, o, targetPID, quit, limit); err != nil {
			return err
		}
	case o.exe != "":
		if err := watchByName(logger, o, quit, limit); err != nil {
			return err
		}
	default:
		spawned, err := runner.Spawn(ctx, args)
		if err != nil {
			return newCLIError(2, "exec %s: %s", args[0], err)
		}
		cmd = spawned
		o.lazy = true
		if err := attachAndRun(logger, o, spawned.Process.Pid, quit, limit); err != nil {
			return err
		}
	}

	if cmd != nil {
		waitErr := cmd.Wait()
		os.Exit(runner.ExitCode(waitErr))
	}

	return nil
}

// pollInterval is how often watchByName re-checks for a reappearing target
// while waiting in non-lazy mode.
const pollInterval = 200 * time.Millisecond

// watchByName resolves --exe to a PID and runs the controller against it.
// In non-lazy mode (the default for --exe), if the target disappears the
// control loop returns rather than terminating: watchByName re-resolves the
// name and starts a fresh controller, so a respawned process of the same
// name picks up the limit again. --lazy turns that into a one-shot: no
// match, or the target disappearing, both end the command.
func watchByName(logger *slog.Logger, o *opts, quit *control.QuitFlag, limit *control.Limit) error {
	for {
		targetPID := process.FindByName(o.exe)
		if targetPID == 0 {
			if o.lazy {
				fmt.Println("No process found")
				return nil
			}
			if quit.Get() {
				return nil
			}
			time.Sleep(pollInterval)
			continue
		}

		quitRequested, err := attachAndRunReturning(logger, o, targetPID, quit, limit)
		if err != nil {
			return err
		}
		if quitRequested || o.lazy {
			return nil
		}
	}
}

// attachAndRun runs the controller against targetPID once, for the modes
// (--pid, COMMAND) where the target is never re-resolved after it exits.
func attachAndRun(logger *slog.Logger, o *opts, targetPID int, quit *control.QuitFlag, limit *control.Limit) error {
	_, err := attachAndRunReturning(logger, o, targetPID, quit, limit)
	return err
}

func attachAndRunReturning(logger *slog.Logger, o *opts, targetPID int, quit *control.QuitFlag, limit *control.Limit) (quitRequested bool, err error) {
	if err := checkNotSelf(targetPID); err != nil {
		if errors.Is(err, process.ErrSelfTarget) {
			return false, newCLIError(1, "target process %d is cpulimit itself (or its ancestor); limiting it would deadlock", targetPID)
		}
		return false, newCLIError(1, "%s", err)
	}

	if o.niceSet {
		if err := priority.Renice(targetPID, o.nice); err != nil {
			logger.Debug("renice failed", "pid", targetPID, "nice", o.nice, "error", err)
		}
	}

	g, err := group.New(targetPID, o.includeChildren)
	if err != nil {
		return false, newCLIError(2, "%s", err)
	}

	controller := throttle.New(g, quit, limit, logger)
	quitRequested, err = controller.Run()
	if err != nil {
		return false, newCLIError(2, "%s", err)
	}
	return quitRequested, nil
}

// checkNotSelf refuses targets that would freeze the limiter along with its
// target: either the target literally is this process, or this process is
// one of the target's descendants and would be suspended right along with
// it, deadlocking the control loop that is supposed to wake it back up.
func checkNotSelf(targetPID int) error {
	self := os.Getpid()
	if targetPID == self {
		return process.ErrSelfTarget
	}
	if process.IsDescendant(self, targetPID) {
		return process.ErrSelfTarget
	}
	return nil
}

func applyDefaults(o *opts, d config.Defaults) {
	if d.Limit != nil && o.limit == 0 {
		o.limit = *d.Limit
	}
	if d.Lazy != nil && !o.lazy {
		o.lazy = *d.Lazy
	}
	if d.IncludeChildren != nil && !o.includeChildren {
		o.includeChildren = *d.IncludeChildren
	}
	if d.Nice != nil && !o.niceSet {
		o.nice = *d.Nice
		o.niceSet = true
	}
	if d.Verbose != nil && !o.verbose {
		o.verbose = *d.Verbose
	}
}

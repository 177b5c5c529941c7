package control

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// WatchSignals wires the process's real signal disposition to quit and
// limit: SIGINT/SIGTERM request a graceful shutdown, SIGUSR1/SIGUSR2 nudge
// the limit up/down by step (clamped to [0, maxLimit]), mirroring the
// original cpulimit's runtime controls. step and maxLimit are in whatever
// units the caller's Limit is expressed in (the CLI uses a fraction of one
// core, so step = 0.01 is "one percentage point"). It returns a stop
// function that restores the default disposition and must be called once
// the controller has exited.
func WatchSignals(quit *QuitFlag, limit *Limit, step, maxLimit float64, logger *slog.Logger) (stop func()) {
	if logger == nil {
		logger = slog.Default()
	}
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig, ok := <-ch:
				if !ok {
					return
				}
				switch sig {
				case syscall.SIGINT, syscall.SIGTERM:
					logger.Debug("control: shutdown signal received", "signal", sig)
					quit.Set()
				case syscall.SIGUSR1:
					limit.Add(step, 0, maxLimit)
					logger.Debug("control: limit increased", "signal", sig, "limit", limit.Get())
				case syscall.SIGUSR2:
					limit.Add(-step, 0, maxLimit)
					logger.Debug("control: limit decreased", "signal", sig, "limit", limit.Get())
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// Package control holds the async-signal-safe state shared between the
// throttle controller's main loop and the process's signal handlers:
// a one-shot quit flag and the live CPU limit. Both are lock-free — a
// traditional mutex is unsafe to acquire inside a signal handler, so the
// quit flag is a single atomic store/load and the limit is guarded by a
// bounded test-and-set spinlock instead of a blocking lock.
package control

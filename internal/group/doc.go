// Package group tracks the live set of processes belonging to a "family" —
// a target PID plus, optionally, all of its descendants — across repeated
// refreshes driven by the throttle controller.
//
// Membership lives in a fixed-size hashed bucket table (1024 buckets,
// (pid>>8)^pid masked) that owns each TrackedProcess record; the live list
// produced by Refresh only references into that table and is rebuilt every
// call. Each TrackedProcess carries an EWMA (alpha = 0.08) of its CPU usage,
// seeded with a -1 sentinel meaning "no sample taken yet" and reset only the
// first time a PID is observed, never across subsequent refreshes.
package group

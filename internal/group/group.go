package group

import (
	"time"

	"github.com/ja7ad/cpulimit/internal/process"
)

const (
	// bucketCount is PIDHASH_SZ: a fixed-size hashed bucket table.
	bucketCount = 1024
	bucketMask  = bucketCount - 1

	// minDT guards against divide-by-tiny when refresh is called faster
	// than the OS's CPU-time accounting resolution.
	minDT = 20 * time.Millisecond

	// ewmaAlpha is the EWMA smoothing coefficient for per-process CPU usage.
	ewmaAlpha = 0.08

	// noSample is the CPUUsage sentinel meaning "uninitialized".
	noSample = -1
)

// TrackedProcess is a mutable, group-owned record for one family member.
// Identity key is PID alone.
type TrackedProcess struct {
	PID     int
	PPID    int
	Command string

	cputimeMS int64
	avg       *ewma

	// CPUUsage is the EWMA of delta-cputime/delta-wall, in [0, NCPU].
	// noSample (-1) means no sample has been taken yet.
	CPUUsage float64
}

// Group is the membership set for a target PID plus, optionally, its
// descendants, rebuilt from the process iterator every control period.
type Group struct {
	targetPID       int
	includeChildren bool

	buckets [bucketCount][]*TrackedProcess

	// liveList holds the members observed during the most recent Refresh.
	// It only references records owned by buckets; it never allocates new
	// TrackedProcess values itself.
	liveList []*TrackedProcess

	lastUpdate time.Time
}

// New creates a Group and performs its initial refresh.
func New(targetPID int, includeChildren bool) (*Group, error) {
	g := &Group{targetPID: targetPID, includeChildren: includeChildren}
	if err := g.Refresh(); err != nil {
		return nil, err
	}
	return g, nil
}

// TargetPID returns the family's root PID.
func (g *Group) TargetPID() int { return g.targetPID }

// Live returns the members observed during the most recent Refresh. The
// slice is only valid until the next Refresh call.
func (g *Group) Live() []*TrackedProcess { return g.liveList }

func bucketIndex(pid int) int {
	return ((pid >> 8) ^ pid) & bucketMask
}

func (g *Group) lookup(pid int) *TrackedProcess {
	for _, tp := range g.buckets[bucketIndex(pid)] {
		if tp.PID == pid {
			return tp
		}
	}
	return nil
}

func (g *Group) insert(tp *TrackedProcess) {
	idx := bucketIndex(tp.PID)
	g.buckets[idx] = append(g.buckets[idx], tp)
}

// Remove deletes pid's bucket entry. The throttle controller calls this when
// a STOP or CONT signal delivery fails with ESRCH (process gone).
func (g *Group) Remove(pid int) {
	idx := bucketIndex(pid)
	b := g.buckets[idx]
	for i, tp := range b {
		if tp.PID == pid {
			g.buckets[idx] = append(b[:i:i], b[i+1:]...)
			break
		}
	}
	for i, tp := range g.liveList {
		if tp.PID == pid {
			g.liveList = append(g.liveList[:i:i], g.liveList[i+1:]...)
			break
		}
	}
}

// Refresh rebuilds liveList from the current process iteration, updating
// each tracked process's EWMA CPU usage estimate. See package doc for the
// bucket-table/live-list ownership split.
func (g *Group) Refresh() error {
	now := time.Now()

	firstRefresh := g.lastUpdate.IsZero()
	var dt time.Duration
	if !firstRefresh {
		dt = now.Sub(g.lastUpdate)
	}
	takeSample := !firstRefresh && dt >= minDT

	g.liveList = g.liveList[:0]

	it, err := process.NewIterator(process.Filter{
		PID:             g.targetPID,
		IncludeChildren: g.includeChildren,
	})
	if err != nil {
		return err
	}
	defer it.Close()

	var snaps []process.Snapshot
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		snaps = append(snaps, s)
	}

	g.ingest(snaps, dt, takeSample)

	if firstRefresh || takeSample {
		g.lastUpdate = now
	}
	return nil
}

// ingest applies one refresh's worth of snapshots to the bucket table and
// live list. Split out from Refresh so the bucketing/EWMA logic can be
// exercised directly from tests, without depending on the live process
// iterator.
func (g *Group) ingest(snaps []process.Snapshot, dt time.Duration, takeSample bool) {
	for _, s := range snaps {
		tp := g.lookup(s.PID)
		if tp == nil {
			tp = &TrackedProcess{
				PID:       s.PID,
				PPID:      s.PPID,
				Command:   s.Command,
				cputimeMS: s.CPUTimeMS,
				CPUUsage:  noSample,
			}
			g.insert(tp)
			g.liveList = append(g.liveList, tp)
			continue
		}

		g.liveList = append(g.liveList, tp)
		tp.PPID = s.PPID
		tp.Command = s.Command

		if takeSample {
			sample := float64(s.CPUTimeMS-tp.cputimeMS) / float64(dt.Milliseconds())
			if tp.avg == nil {
				tp.avg = newEWMA(ewmaAlpha)
			}
			tp.CPUUsage = tp.avg.Next(sample)
			tp.cputimeMS = s.CPUTimeMS
		}
	}
}

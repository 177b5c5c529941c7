//go:build darwin

package process

/*
#include <libproc.h>
#include <sys/proc_info.h>
#include <sys/sysctl.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"
)

const procStateZombie = 5 // SZOMB, sys/proc.h

func newIterator(f Filter) (Iterator, error) {
	n := C.proc_listallpids(nil, 0)
	if n <= 0 {
		return nil, ErrListPIDsUnavailable
	}

	bufSize := int(n) + 64
	buf := make([]C.int, bufSize)
	n = C.proc_listallpids(unsafe.Pointer(&buf[0]), C.int(bufSize)*C.int(C.sizeof_int))
	if n <= 0 {
		return nil, ErrListPIDsUnavailable
	}

	all := make([]Snapshot, 0, int(n))
	for i := 0; i < int(n); i++ {
		pid := int(buf[i])
		if pid <= 0 {
			continue
		}
		snap, ok := pidTaskAllInfo(pid)
		if !ok {
			continue // gone, or permission denied -- per-PID, non-fatal
		}
		all = append(all, snap)
	}

	return newSliceIterator(applyFilter(all, f), func() error { return nil }), nil
}

// pidTaskAllInfo reads PROC_PIDTASKALLINFO for pid: ppid, command, and
// cpu time ((pti_total_user + pti_total_system) nanoseconds -> ms).
func pidTaskAllInfo(pid int) (Snapshot, bool) {
	var info C.struct_proc_taskallinfo
	ret := C.proc_pidinfo(C.int(pid), C.PROC_PIDTASKALLINFO, 0,
		unsafe.Pointer(&info), C.int(C.sizeof_struct_proc_taskallinfo))
	if ret <= 0 {
		return Snapshot{}, false
	}
	if int(info.pbsd.pbi_status) == procStateZombie {
		return Snapshot{}, false
	}
	if uint32(info.pbsd.pbi_flags)&C.PROC_FLAG_SYSTEM != 0 {
		return Snapshot{}, false // system process, not userspace
	}

	cputimeMS := (int64(info.ptinfo.pti_total_user) + int64(info.ptinfo.pti_total_system)) / 1e6

	name := cString(info.pbsd.pbi_name[:])
	if name == "" {
		name = cString(info.pbsd.pbi_comm[:])
	}

	return Snapshot{
		PID:       pid,
		PPID:      int(info.pbsd.pbi_ppid),
		CPUTimeMS: cputimeMS,
		Command:   name,
	}, true
}

func cString(b []C.char) string {
	buf := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	return string(buf)
}

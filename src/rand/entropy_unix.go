//go:build linux || darwin || freebsd || netbsd || openbsd

package rand

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func (systemSource) Now() (int64, int64) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return monotonicSince()
	}
	return int64(ts.Sec), int64(ts.Nsec)
}

func (systemSource) Usage() ([]byte, bool) {
	ru := new(unix.Rusage)
	if err := unix.Getrusage(unix.RUSAGE_SELF, ru); err != nil {
		return nil, false
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ru)), unsafe.Sizeof(*ru)), true
}

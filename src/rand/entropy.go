package rand

import (
	"time"
)

// EntropySource supplies the system state folded in on reseed.
type EntropySource interface {
	// Now reads a monotonic clock.
	Now() (sec, nsec int64)
	// Usage returns a snapshot of process resource usage, or false when the
	// platform has none.
	Usage() ([]byte, bool)
}

// SystemSource returns the entropy source of the running platform.
func SystemSource() EntropySource {
	return systemSource{}
}

type systemSource struct{}

var processStart = time.Now()

// monotonicSince is the fallback clock: time.Since reads the monotonic
// reading carried by processStart.
func monotonicSince() (int64, int64) {
	d := time.Since(processStart)
	return int64(d / time.Second), int64(d % time.Second)
}

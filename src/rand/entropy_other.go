//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package rand

func (systemSource) Now() (int64, int64) {
	return monotonicSince()
}

func (systemSource) Usage() ([]byte, bool) {
	return nil, false
}

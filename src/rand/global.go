package rand

import "sync"

var global = sync.OnceValue(func() *Generator { return New() })

// Default returns the process-wide generator used by the package level
// functions. It is seeded from the system on first use.
func Default() *Generator {
	return global()
}

// Uint64 returns 64 pseudo-random bits from the process-wide generator.
func Uint64() uint64 {
	return Default().Uint64()
}

// Fill overwrites p with pseudo-random bytes from the process-wide generator.
func Fill(p []byte) {
	Default().Fill(p)
}

// Read implements the io.Reader contract over the process-wide generator.
func Read(p []byte) (int, error) {
	return Default().Read(p)
}

// Feed mixes up to MaxFeed bytes into the process-wide generator.
func Feed(buf []byte) {
	Default().Feed(buf)
}

// Reseed reseeds the process-wide generator.
func Reseed() {
	Default().Reseed()
}

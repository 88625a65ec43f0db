package hash

import (
	"encoding/binary"
	stdhash "hash"
)

// Algo names a hash construction.
type Algo string

const (
	AlgoRisky     Algo = "risky"
	AlgoStable    Algo = "stable"
	AlgoStable128 Algo = "stable128"
)

// DefaultSeed is used where a fixed, process independent seed is desired.
// Arbitrary odd constant (golden ratio).
const DefaultSeed uint64 = 0x9e3779b97f4a7c15

// Seeded64 adapts a one-shot hash to hash.Hash64. Neither construction is
// incremental (the length seeds the state), so written bytes are buffered
// until Sum is called.
type Seeded64 struct {
	seed uint64
	buf  []byte
	fn   func([]byte, uint64) uint64
}

var _ stdhash.Hash64 = &Seeded64{}

// NewStable64 returns a hash.Hash64 computing Stable with seed.
func NewStable64(seed uint64) *Seeded64 {
	return &Seeded64{seed: seed, fn: Stable}
}

// NewRisky64 returns a hash.Hash64 computing h.Risky with seed.
func (h Hasher) NewRisky64(seed uint64) *Seeded64 {
	return &Seeded64{seed: seed, fn: h.Risky}
}

// SetSeed updates the seed and resets the buffered input.
func (s *Seeded64) SetSeed(seed uint64) {
	s.seed = seed
	s.Reset()
}

// Write buffers p. It never fails.
func (s *Seeded64) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Reset drops the buffered input.
func (s *Seeded64) Reset() {
	s.buf = s.buf[:0]
}

// Sum64 hashes everything written since the last Reset.
func (s *Seeded64) Sum64() uint64 {
	return s.fn(s.buf, s.seed)
}

// Sum appends the big-endian digest to b, as hash/fnv does.
func (s *Seeded64) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, s.Sum64())
}

// Size is the digest length in bytes.
func (s *Seeded64) Size() int { return 8 }

// BlockSize is the block length of both hash constructions.
func (s *Seeded64) BlockSize() int { return 32 }

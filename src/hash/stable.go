package hash

import (
	"encoding/binary"
	"unsafe"

	"github.com/Blackdeer1524/hashkit/src/pkg/bitmix"
)

// Stable Hash is frozen. Its constants and structure never change, even to
// repair a discovered weakness: a fix ships as a new, differently named
// hash. The golden vectors in stable_test.go enforce this.

var stablePrimes = [4]uint64{
	uint64(bitmix.U32Prime0),
	uint64(bitmix.U32Prime1),
	uint64(bitmix.U32Prime2),
	uint64(bitmix.U32Prime3),
}

// Digest128 is a 128 bit Stable Hash digest.
type Digest128 struct {
	Lo uint64
	Hi uint64
}

// Bytes returns the digest as Lo followed by Hi, both little-endian. This
// form is identical on every platform and is the one to persist.
func (d Digest128) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:], d.Lo)
	binary.LittleEndian.PutUint64(b[8:], d.Hi)
	return b
}

// AppendNative appends the raw in-memory representation of the digest,
// Lo then Hi in native word order. The bytes differ between platforms of
// different endianness; use Bytes for anything leaving the process.
func (d Digest128) AppendNative(dst []byte) []byte {
	words := [2]uint64{d.Lo, d.Hi}
	raw := (*[16]byte)(unsafe.Pointer(&words))
	return append(dst, raw[:]...)
}

// Digest128FromBytes is the inverse of Digest128.Bytes.
func Digest128FromBytes(b [16]byte) Digest128 {
	return Digest128{
		Lo: binary.LittleEndian.Uint64(b[0:]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}
}

type stableState struct {
	v    [4]uint64
	seed uint64
}

func (s *stableState) round(w [4]uint64) {
	for i := range s.v {
		s.v[i] += w[i]
		s.v[i] += stablePrimes[i]
		s.v[i] *= stablePrimes[i]
		w[i] = bitmix.RotL(w[i], 19)
		s.v[i] += w[i] + s.seed
	}
}

func stableInner(data []byte, seed uint64) [4]uint64 {
	length := uint64(len(data))

	// constant time in the seed value
	seed += length
	seed ^= bitmix.RotL(seed, 47)
	seed = (seed << 1) + 1

	s := stableState{
		v:    [4]uint64{seed, seed, seed, seed},
		seed: seed,
	}

	for len(data) >= 32 {
		s.round(bitmix.Load32(data))
		data = data[32:]
	}

	// zero padded even when len%32 == 0
	tail := bitmix.Load31x(data)
	tail[3] += length
	s.round(tail)

	return s.v
}

func stableAvalanche(r uint64, v [4]uint64, prime uint64) uint64 {
	r ^= bitmix.RotL(r, 5)
	r += v[0] ^ v[1]
	r ^= bitmix.RotL(r, 27)
	r += v[1] ^ v[2]
	r ^= bitmix.RotL(r, 49)
	r += v[2] ^ v[3]
	r ^= (r >> 29) * prime
	r ^= bitmix.RotL(r, 29)
	return r
}

func swapped(v [4]uint64) [4]uint64 {
	for i := range v {
		v[i] = bitmix.Bswap(v[i])
	}
	return v
}

// Stable computes the 64 bit Stable Hash of data.
func Stable(data []byte, seed uint64) uint64 {
	v := stableInner(data, seed)
	r := v[0] + v[1] + v[2] + v[3]
	return stableAvalanche(r, swapped(v), bitmix.U64Prime0)
}

// Stable128 computes the 128 bit Stable Hash of data.
func Stable128(data []byte, seed uint64) Digest128 {
	v := stableInner(data, seed)
	sum := v[0] + v[1] + v[2] + v[3]
	xor := v[0] ^ v[1] ^ v[2] ^ v[3]
	sv := swapped(v)

	return Digest128{
		Lo: stableAvalanche(sum, sv, bitmix.U64Prime0),
		Hi: stableAvalanche(xor, sv, bitmix.U64Prime1),
	}
}

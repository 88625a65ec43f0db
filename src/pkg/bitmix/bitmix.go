// Package bitmix holds the bit level building blocks shared by the hash
// engines and the random generator: rotations, byte swaps, little-endian
// loads and stores, and the numeral entropy mixer.
//
// Nothing here is cryptographically safe.
package bitmix

import (
	"encoding/binary"
	"math/bits"
)

// Primes with 16 bits, half of them set.
const (
	U16Prime0 uint16 = 0xDA23
	U16Prime1 uint16 = 0xB48B
	U16Prime2 uint16 = 0xC917
	U16Prime3 uint16 = 0xD855
	U16Prime4 uint16 = 0xE0B9
	U16Prime5 uint16 = 0xE471
	U16Prime6 uint16 = 0x85CD
	U16Prime7 uint16 = 0xD433
	U16Prime8 uint16 = 0xE951
	U16Prime9 uint16 = 0xA8E5
)

// Primes with 32 bits, half of them set.
const (
	U32Prime0 uint32 = 0xC19F5985
	U32Prime1 uint32 = 0x8D567931
	U32Prime2 uint32 = 0x9C178B17
	U32Prime3 uint32 = 0xA4B842DF
	U32Prime4 uint32 = 0xB0B94EC9
	U32Prime5 uint32 = 0xFA9E7084
	U32Prime6 uint32 = 0xCA63037B
	U32Prime7 uint32 = 0xD728C15D
	U32Prime8 uint32 = 0xA872A277
	U32Prime9 uint32 = 0xF5781551
)

// Primes with 64 bits, half of them set.
const (
	U64Prime0 uint64 = 0x39664DEECA23D825
	U64Prime1 uint64 = 0x48644F7B3959621F
	U64Prime2 uint64 = 0x613A19F5CB0D98D5
	U64Prime3 uint64 = 0x84B56B93C869EA0F
	U64Prime4 uint64 = 0x8EE38D13E0D95A8D
	U64Prime5 uint64 = 0x92E99EC981F0E279
	U64Prime6 uint64 = 0xDDC3100BEF158BB1
	U64Prime7 uint64 = 0x918F4D38049F78BD
	U64Prime8 uint64 = 0xB6C9F8032A35E2D9
	U64Prime9 uint64 = 0xFA2A5F16D2A128D5
)

var endianness = binary.LittleEndian

// RotL rotates w left by n bits. Negative n rotates right.
func RotL(w uint64, n int) uint64 {
	return bits.RotateLeft64(w, n)
}

// Bswap reverses the byte order of w.
func Bswap(w uint64) uint64 {
	return bits.ReverseBytes64(w)
}

// Load64 reads a little-endian word from the first 8 bytes of b.
func Load64(b []byte) uint64 {
	return endianness.Uint64(b)
}

// Load32 reads a full 32 byte block as four little-endian words.
func Load32(b []byte) [4]uint64 {
	_ = b[31]
	return [4]uint64{
		endianness.Uint64(b[0:]),
		endianness.Uint64(b[8:]),
		endianness.Uint64(b[16:]),
		endianness.Uint64(b[24:]),
	}
}

// Load31x reads the first len(b)&31 bytes of b into a zero padded block.
func Load31x(b []byte) [4]uint64 {
	var (
		w   [4]uint64
		n   = len(b) & 31
		buf [32]byte
	)
	copy(buf[:], b[:n])
	for i := range w {
		w[i] = endianness.Uint64(buf[i*8:])
	}
	return w
}

// Load7x packs up to 7 bytes into a word, byte 0 in the low bits.
func Load7x(b []byte) uint64 {
	var w uint64
	for i := len(b) - 1; i >= 0; i-- {
		w = w<<8 | uint64(b[i])
	}
	return w
}

// Store32 writes four words little-endian into dst, which must hold 32 bytes.
func Store32(dst []byte, w [4]uint64) {
	_ = dst[31]
	endianness.PutUint64(dst[0:], w[0])
	endianness.PutUint64(dst[8:], w[1])
	endianness.PutUint64(dst[16:], w[2])
	endianness.PutUint64(dst[24:], w[3])
}

// Store31x writes the leading len(dst)&31 bytes of the little-endian
// encoding of w into dst.
func Store31x(dst []byte, w [4]uint64) {
	var buf [32]byte
	Store32(buf[:], w)
	copy(dst, buf[:len(dst)&31])
}

// MixNumeral adds a bit of entropy to a numeral value. Designed to be unsafe:
// it decorrelates, it does not protect.
func MixNumeral(n, seed uint64) uint64 {
	seed ^= RotL(seed, 47)
	seed += U64Prime0
	seed |= 1

	h := n + seed
	h += RotL(seed, 5)
	h += Bswap(seed)
	h += RotL(h, 27)
	h += RotL(h, 49)

	return h
}

// MixAddress feeds the bit pattern of an address sized value through
// MixNumeral. The value is never dereferenced. No collision guarantees.
func MixAddress(addr uintptr) uint64 {
	return MixNumeral(uint64(addr), U64Prime9)
}

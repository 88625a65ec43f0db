package hash

import (
	"github.com/Blackdeer1524/hashkit/src/pkg/bitmix"
)

// Risky Hash initialization vectors.
const (
	riskyIV0 uint64 = 0x0000001000000001
	riskyIV1 uint64 = 0x0000010000000010
	riskyIV2 uint64 = 0x0000100000000100
	riskyIV3 uint64 = 0x0001000000001000
)

var riskyPrimes = [4]uint64{
	bitmix.U64Prime0,
	bitmix.U64Prime1,
	bitmix.U64Prime2,
	bitmix.U64Prime3,
}

type riskyState [4]uint64

func (v *riskyState) round(i int, w uint64) {
	v[i] += w
	v[i] = bitmix.RotL(v[i], 29)
	v[i] += w
	v[i] *= riskyPrimes[i]
}

// Risky computes a Risky Hash (v3) of data. The result is ephemeral: it
// may change between releases and must not be persisted. Use Stable for
// digests that outlive the process.
func Risky(data []byte, seed uint64) uint64 {
	v := riskyState{riskyIV0, riskyIV1, riskyIV2, riskyIV3}
	length := uint64(len(data))

	if seed != 0 {
		// the seed acts as a prepended 8 byte word
		v[0] *= seed
		v[1] *= seed
		v[2] *= seed
		v[3] *= seed
		v[1] ^= seed
		v[2] ^= seed
		v[3] ^= seed
	}

	for len(data) >= 32 {
		w := bitmix.Load32(data)
		v.round(0, w[0])
		v.round(1, w[1])
		v.round(2, w[2])
		v.round(3, w[3])
		data = data[32:]
	}

	words := len(data) >> 3
	if words > 2 {
		v.round(2, bitmix.Load64(data[16:]))
	}
	if words > 1 {
		v.round(1, bitmix.Load64(data[8:]))
	}
	if words > 0 {
		v.round(0, bitmix.Load64(data))
	}
	data = data[words<<3:]

	if len(data) > 0 {
		// pad with the total length so equal tails of unequal inputs differ
		tail := length<<56 | bitmix.Load7x(data)
		v.round(words, tail)
	}

	r := length ^ (length << 36)
	r += bitmix.RotL(v[0], 17) + bitmix.RotL(v[1], 13) +
		bitmix.RotL(v[2], 47) + bitmix.RotL(v[3], 57)
	r += v[0] ^ v[1]
	r ^= bitmix.RotL(r, 13)
	r += v[1] ^ v[2]
	r ^= bitmix.RotL(r, 29)
	r += v[2] ^ v[3]
	r += bitmix.RotL(r, 33)
	r += v[3] ^ v[0]
	r ^= (r >> 29) * bitmix.U64Prime4
	r ^= bitmix.RotL(r, 29)

	return r
}

// Package hash implements two keyed, non-cryptographic hashes of byte slices:
//
//   - Risky Hash, fast and ephemeral: outputs may change between releases.
//   - Stable Hash, 64 and 128 bit, frozen forever for persisted fingerprints
//     and protocol level compatibility.
//
// Neither resists adversarial collision search. Never use them for
// authentication, signing or password hashing.
package hash

// Config selects the mixing core behind Hasher.Risky.
type Config struct {
	// UseStableHashForRiskyHash routes Risky through Stable, trading speed
	// for a single reviewed mixing core.
	UseStableHashForRiskyHash bool `split_words:"true" default:"false"`
}

// Hasher binds the hash entry points to a Config.
type Hasher struct {
	cfg Config
}

// New returns a Hasher for cfg.
func New(cfg Config) Hasher {
	return Hasher{cfg: cfg}
}

// Config returns the configuration the hasher was built with.
func (h Hasher) Config() Config {
	return h.cfg
}

// Risky hashes data with Risky Hash, or with Stable Hash when the hasher
// was configured to do so.
func (h Hasher) Risky(data []byte, seed uint64) uint64 {
	if h.cfg.UseStableHashForRiskyHash {
		return Stable(data, seed)
	}
	return Risky(data, seed)
}

// Stable is Stable.
func (h Hasher) Stable(data []byte, seed uint64) uint64 {
	return Stable(data, seed)
}

// Stable128 is Stable128.
func (h Hasher) Stable128(data []byte, seed uint64) Digest128 {
	return Stable128(data, seed)
}

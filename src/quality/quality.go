// Package quality measures statistical properties of 64 bit hash functions:
// avalanche (single input bit flips) and bucket distribution.
package quality

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Blackdeer1524/hashkit/src/hash"
	"github.com/Blackdeer1524/hashkit/src/rand"
)

var ErrOutOfTolerance = errors.New("out of tolerance")

// Func64 is a seeded 64 bit hash.
type Func64 func(data []byte, seed uint64) uint64

// Check names a hash under test.
type Check struct {
	Name string
	Fn   Func64
}

// Tolerance bounds the accepted mean number of flipped output bits and the
// normalized chi-square of the bucket test.
type Tolerance struct {
	MinMean float64
	MaxMean float64
	MaxChi2 float64
}

// DefaultTolerance accepts means within 28..36 of 64 bits.
var DefaultTolerance = Tolerance{MinMean: 28, MaxMean: 36, MaxChi2: 1.5}

type Result struct {
	Name     string
	InputLen int
	Trials   int

	// MeanFlipped is the average Hamming distance between outputs.
	MeanFlipped float64
	// WorstBias is the largest deviation of a single output bit's flip
	// probability from one half.
	WorstBias float64
	// Chi2 is the bucket chi-square divided by its degrees of freedom.
	Chi2 float64
}

// Avalanche flips one random input bit per trial and records how many
// output bits change. Inputs and seeds are drawn from g.
func Avalanche(fn Func64, inputLen, trials int, g *rand.Generator) Result {
	res := Result{InputLen: inputLen, Trials: trials}
	if inputLen <= 0 || trials <= 0 {
		return res
	}

	var (
		data     = make([]byte, inputLen)
		perBit   [64]int
		totalOne int
	)

	for range trials {
		g.Fill(data)
		seed := g.Uint64()
		before := fn(data, seed)

		bit := g.Uint64() % uint64(inputLen*8)
		data[bit/8] ^= 1 << (bit % 8)

		diff := before ^ fn(data, seed)
		totalOne += bits.OnesCount64(diff)
		for diff != 0 {
			perBit[bits.TrailingZeros64(diff)]++
			diff &= diff - 1
		}
	}

	res.MeanFlipped = float64(totalOne) / float64(trials)
	for _, n := range perBit {
		p := float64(n) / float64(trials)
		if d := abs(p - 0.5); d > res.WorstBias {
			res.WorstBias = d
		}
	}

	return res
}

// Buckets hashes keys sequential integers into buckets slots and returns the
// chi-square statistic divided by buckets-1. Values near 1 are uniform.
func Buckets(fn Func64, keys, buckets int, seed uint64) float64 {
	if keys <= 0 || buckets <= 1 {
		return 0
	}

	counts := make([]int, buckets)
	var key [8]byte
	for i := range keys {
		binary.LittleEndian.PutUint64(key[:], uint64(i))
		counts[fn(key[:], seed)%uint64(buckets)]++
	}

	expected := float64(keys) / float64(buckets)
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}

	return chi2 / float64(buckets-1)
}

// DefaultChecks covers both engines and both halves of the 128 bit digest.
func DefaultChecks() []Check {
	return []Check{
		{Name: string(hash.AlgoRisky), Fn: hash.Risky},
		{Name: string(hash.AlgoStable), Fn: hash.Stable},
		{Name: string(hash.AlgoStable128) + ".lo", Fn: func(b []byte, s uint64) uint64 {
			return hash.Stable128(b, s).Lo
		}},
		{Name: string(hash.AlgoStable128) + ".hi", Fn: func(b []byte, s uint64) uint64 {
			return hash.Stable128(b, s).Hi
		}},
	}
}

// Suite runs every check at every input length concurrently. Each run gets
// its own generator, seeded deterministically from the check name and
// length. All results are returned; the error joins every run that fell
// outside tol.
func Suite(
	ctx context.Context,
	checks []Check,
	lengths []int,
	trials int,
	tol Tolerance,
	log *zap.Logger,
) ([]Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]Result, len(checks)*len(lengths))
	failures := make([]error, len(results))

	eg, ctx := errgroup.WithContext(ctx)
	for ci, c := range checks {
		for li, l := range lengths {
			idx := ci*len(lengths) + li
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				seed := hash.Stable([]byte(c.Name), uint64(l))
				g := rand.New(rand.WithState(rand.State{
					Lanes: [4]uint64{seed, ^seed, seed * 3, seed ^ hash.DefaultSeed},
				}))

				res := Avalanche(c.Fn, l, trials, g)
				res.Name = c.Name
				res.Chi2 = Buckets(c.Fn, 256*64, 256, seed)
				results[idx] = res

				log.Debug("quality check done",
					zap.String("hash", c.Name),
					zap.Int("len", l),
					zap.Float64("mean", res.MeanFlipped),
					zap.Float64("chi2", res.Chi2),
				)

				if res.MeanFlipped < tol.MinMean || res.MeanFlipped > tol.MaxMean {
					failures[idx] = fmt.Errorf(
						"%s len=%d: mean flipped bits %.2f: %w",
						c.Name, l, res.MeanFlipped, ErrOutOfTolerance,
					)
				} else if tol.MaxChi2 > 0 && res.Chi2 > tol.MaxChi2 {
					failures[idx] = fmt.Errorf(
						"%s len=%d: bucket chi2 %.3f: %w",
						c.Name, l, res.Chi2, ErrOutOfTolerance,
					)
				}
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to run quality suite: %w", err)
	}

	return results, errors.Join(failures...)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

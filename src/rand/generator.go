// Package rand is a fast, self reseeding pseudo-random generator modeled on
// xoroshiro style scrambled linear generators. It periodically reseeds from
// clock jitter and process resource usage and accepts external entropy.
//
// It is not cryptographically safe and must not be used for key material.
package rand

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Blackdeer1524/hashkit/src/hash"
	"github.com/Blackdeer1524/hashkit/src/pkg/bitmix"
)

const (
	// ReseedInterval is the draw cadence of automatic reseeding.
	ReseedInterval = 1 << 12

	// MaxFeed is the largest entropy feed consumed per call; longer input is
	// truncated to len & MaxFeed bytes.
	MaxFeed = 1023

	minJitterSamples = 16
)

var (
	drawMul = [4]uint64{
		0x37701261ED6C16C7,
		0x764DBBB75F3B3E0D,
		^uint64(0x37701261ED6C16C7),
		^uint64(0x764DBBB75F3B3E0D),
	}
	outRot = [4]int{31, 29, 27, 30}

	initialFeed = [4]uint64{
		0x9c65875be1fce7b9,
		0x7cc568e838f6a40d,
		0x4bb8d885a0fe47d5,
		0x95561f0927ad7ecd,
	}
)

// State is the complete mutable state of a Generator.
type State struct {
	Lanes   [4]uint64
	Counter uint64
	Feed    [4]uint64
}

// Stats counts generator activity since construction.
type Stats struct {
	Draws   uint64
	Reseeds uint64
}

// Generator is a self reseeding PRNG. It is safe for concurrent use: draws
// are serialized by a mutex, so goroutines sharing a Generator share its
// entropy but never observe torn state. Give each goroutine its own
// Generator when contention matters more than shared entropy.
type Generator struct {
	mu sync.Mutex

	st     State
	stats  Stats
	source EntropySource
	log    *zap.Logger
}

// Option configures a Generator.
type Option func(*options)

type options struct {
	source EntropySource
	log    *zap.Logger
	state  *State
}

// WithEntropySource replaces the system clock and resource usage source.
func WithEntropySource(src EntropySource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithLogger sets the logger used to report reseeds.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithState starts the generator from st instead of reseeding at
// construction. Two generators built from the same state and an identical
// entropy source produce identical streams.
func WithState(st State) Option {
	return func(o *options) {
		o.state = &st
	}
}

// New returns a generator. Unless WithState is given, it is seeded once from
// its entropy source before New returns.
func New(opts ...Option) *Generator {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.source == nil {
		o.source = SystemSource()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	g := &Generator{
		source: o.source,
		log:    o.log,
	}

	if o.state != nil {
		g.st = *o.state
		return g
	}

	g.st.Feed = initialFeed
	g.reseedAssumeLocked()

	return g
}

// Snapshot returns a copy of the generator state.
func (g *Generator) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.st
}

// Stats returns activity counters.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stats
}

// Uint64 returns 64 pseudo-random bits.
func (g *Generator) Uint64() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.nextAssumeLocked()
}

func (g *Generator) nextAssumeLocked() uint64 {
	g.st.Counter++
	if g.st.Counter&(ReseedInterval-1) == 0 {
		g.reseedAssumeLocked()
	}
	g.stats.Draws++

	s0 := g.st.Lanes
	add := [4]uint64{g.st.Counter, 0, g.st.Counter, 0}

	var s1 [4]uint64
	for i := range s1 {
		s1[i] = bitmix.RotL(s0[i], 33)
		s1[i] += add[i]
		s1[i] *= drawMul[i]
		s1[i] += s0[i]
	}
	g.st.Lanes = s1

	// output rotations differ from the update rotation
	var r uint64
	for i := range s1 {
		r += bitmix.RotL(s1[i], outRot[i])
	}

	return r
}

func (g *Generator) next4AssumeLocked() [4]uint64 {
	return [4]uint64{
		g.nextAssumeLocked(),
		g.nextAssumeLocked(),
		g.nextAssumeLocked(),
		g.nextAssumeLocked(),
	}
}

// Fill overwrites p with pseudo-random bytes, 32 bytes per four draws. The
// trailing partial block consumes a full batch of four draws. An empty p
// draws nothing.
func (g *Generator) Fill(p []byte) {
	if len(p) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for len(p) >= 32 {
		bitmix.Store32(p, g.next4AssumeLocked())
		p = p[32:]
	}
	if len(p) > 0 {
		bitmix.Store31x(p, g.next4AssumeLocked())
	}
}

// Read implements io.Reader. It always fills p and never fails.
func (g *Generator) Read(p []byte) (int, error) {
	g.Fill(p)
	return len(p), nil
}

// Feed mixes up to MaxFeed bytes of external entropy into the feed pool,
// consumed by the next reseed. Each 8 byte word goes to the next of the four
// feed lanes, starting from a lane picked by the draw counter.
func (g *Generator) Feed(buf []byte) {
	buf = buf[:len(buf)&MaxFeed]
	if len(buf) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	offset := g.st.Counter & 3
	for len(buf) >= 8 {
		g.st.Feed[offset&3] ^= bitmix.Load64(buf)
		offset++
		buf = buf[8:]
	}
	if len(buf) > 0 {
		g.st.Feed[offset&3] ^= bitmix.Load7x(buf)
	}
}

// Reseed refreshes the state from clock jitter, resource usage and the feed
// pool. It is also run automatically every ReseedInterval draws.
func (g *Generator) Reseed() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reseedAssumeLocked()
}

func (g *Generator) reseedAssumeLocked() {
	st := &g.st
	samples := minJitterSamples | (st.Lanes[0] & 15)

	usage, ok := g.source.Usage()
	if ok {
		st.Lanes[0] ^= hash.Risky(usage, st.Lanes[0])
	}

	for i := uint64(0); i < samples; i++ {
		sec, nsec := g.source.Now()
		clk := uint64(sec)<<30 + uint64(nsec) + st.Counter
		st.Lanes[0] ^= bitmix.MixNumeral(clk, st.Lanes[0]+i)
		st.Lanes[1] ^= bitmix.MixNumeral(clk, st.Lanes[1]+i)
	}

	st.Lanes[2] ^= bitmix.MixNumeral(st.Feed[0], st.Lanes[0]) +
		bitmix.MixNumeral(st.Feed[1], st.Lanes[1])
	st.Lanes[3] ^= bitmix.MixNumeral(st.Feed[2], st.Lanes[0]) +
		bitmix.MixNumeral(st.Feed[3], st.Lanes[1])

	// never reuse identical feed material
	st.Feed[0] = bitmix.RotL(st.Feed[0], 31)
	st.Feed[1] = bitmix.RotL(st.Feed[1], 29)
	st.Feed[2] ^= st.Feed[0]
	st.Feed[3] ^= st.Feed[1]

	st.Counter += samples
	g.stats.Reseeds++

	g.log.Debug("generator reseeded",
		zap.Uint64("jitter_samples", samples),
		zap.Bool("resource_usage", ok),
		zap.Uint64("counter", st.Counter),
	)
}

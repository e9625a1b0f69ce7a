// Package rng provides the single seeded random stream shared by every
// stage of a netweave run.
//
// A run creates one [Stream] from its seed and hands it, in order, to
// parameter derivation, graph generation and layout. Each stage consumes
// draws in a fixed order, so the same seed and inputs always produce the
// same graph and the same positions.
//
// The stream state can be snapshotted with [Stream.MarshalBinary] and
// restored with [Stream.UnmarshalBinary]. The pipeline cache uses this to
// resume a run after a cached stage without changing later draws.
//
// A Stream is not safe for concurrent use.
package rng

import (
	"fmt"
	"math/rand/v2"
)

// Stream is a deterministic source of uniform draws.
type Stream struct {
	seed uint64
	src  *rand.PCG
	r    *rand.Rand
}

// New returns a stream seeded with seed.
func New(seed uint64) *Stream {
	src := rand.NewPCG(seed, seed^0xdeadbeef)
	return &Stream{seed: seed, src: src, r: rand.New(src)}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() uint64 { return s.seed }

// Source returns the underlying generator. Draws made through it advance
// the stream, so libraries taking a rand.Source stay on the same sequence.
func (s *Stream) Source() rand.Source { return s.src }

// Uniform returns a draw in [0, 1).
func (s *Stream) Uniform() float64 { return s.r.Float64() }

// Range returns a draw in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// Int returns a draw in [lo, hi). It panics if hi <= lo.
func (s *Stream) Int(lo, hi int) int {
	if hi <= lo {
		panic(fmt.Sprintf("rng: empty integer range [%d, %d)", lo, hi))
	}
	return lo + s.r.IntN(hi-lo)
}

// Bernoulli reports true with probability p.
func (s *Stream) Bernoulli(p float64) bool {
	return s.r.Float64() < p
}

// MarshalBinary snapshots the stream position together with its seed.
func (s *Stream) MarshalBinary() ([]byte, error) {
	state, err := s.src.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(state))
	for i := range 8 {
		out[i] = byte(s.seed >> (8 * i))
	}
	return append(out, state...), nil
}

// UnmarshalBinary restores a snapshot produced by MarshalBinary.
func (s *Stream) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("rng: snapshot too short (%d bytes)", len(data))
	}
	var seed uint64
	for i := range 8 {
		seed |= uint64(data[i]) << (8 * i)
	}
	src := &rand.PCG{}
	if err := src.UnmarshalBinary(data[8:]); err != nil {
		return fmt.Errorf("rng: restore state: %w", err)
	}
	s.seed, s.src, s.r = seed, src, rand.New(src)
	return nil
}

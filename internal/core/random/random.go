// Package random provides the deterministic value source threaded through
// expression evaluation. Replaying a tick sequence from the same seed yields
// the same draws in the same order.
package random

import (
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Source is the capability consumed by expressions that need randomness.
type Source interface {
	// NextInt returns a value in [0, maxExclusive). maxExclusive must be positive.
	NextInt(maxExclusive int64) int64
	// NextBool returns a uniformly distributed boolean.
	NextBool() bool
}

var _ Source = (*Deterministic)(nil)

const streamSalt = 0x9e3779b97f4a7c15

// Deterministic is a seeded PCG stream. It is not safe for concurrent use;
// each simulation owns its own instance.
type Deterministic struct {
	seed  uint64
	pcg   *rand.PCG
	draws uint64
}

// New creates a stream from seed.
func New(seed uint64) *Deterministic {
	return &Deterministic{
		seed: seed,
		pcg:  rand.NewPCG(seed, seed^streamSalt),
	}
}

// Labeled derives an independent stream for a named subsystem so that adding
// draws in one subsystem does not shift the sequence seen by another.
func Labeled(seed uint64, label string) *Deterministic {
	return New(seed ^ xxhash.Sum64String(label))
}

// Seed returns the seed the stream was created from.
func (d *Deterministic) Seed() uint64 { return d.seed }

// Draws returns how many values have been handed out.
func (d *Deterministic) Draws() uint64 { return d.draws }

// NextInt returns a uniformly distributed value in [0, maxExclusive).
func (d *Deterministic) NextInt(maxExclusive int64) int64 {
	if maxExclusive <= 0 {
		panic(fmt.Sprintf("random: NextInt bound must be positive, got %d", maxExclusive))
	}
	n := uint64(maxExclusive)
	// reject the low 2^64 mod n values so every residue is equally likely
	threshold := -n % n
	for {
		v := d.pcg.Uint64()
		if v >= threshold {
			d.draws++
			return int64(v % n)
		}
	}
}

// NextBool returns true or false with equal probability.
func (d *Deterministic) NextBool() bool {
	return d.NextInt(2) == 1
}

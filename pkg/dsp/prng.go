package dsp

// Rand is a small, deterministic, non-cryptographic PRNG (splitmix64-style).
// Every stochastic element in the repository — LFO sample-and-hold, the
// noise source, the drum machine's groove micro-timing drift — is built on
// this generator rather than math/rand's global source so that identical
// seeds reproduce identical output.
type Rand struct {
	state uint64
}

// NewRand creates a generator seeded with the given value. Seed 0 is
// remapped to a non-zero constant so the stream is never degenerate.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Rand{state: seed}
}

// Uint64 returns the next 64-bit value in the stream.
func (r *Rand) Uint64() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 returns a uniform value in [0,1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Signed returns a uniform value in [-1,1).
func (r *Rand) Signed() float64 {
	return r.Float64()*2.0 - 1.0
}

// HashSeed derives a deterministic sub-stream seed from a set of integer
// coordinates — used by the drum machine to key groove drift off
// (bar, step, track) without sharing mutable PRNG state across tracks.
func HashSeed(base uint64, coords ...int) uint64 {
	h := base ^ 0xD6E8FEB86659FD93
	for _, c := range coords {
		h ^= uint64(int64(c)) + 0x9E3779B97F4A7C15 + (h << 6) + (h >> 2)
		h = (h ^ (h >> 33)) * 0xFF51AFD7ED558CCD
		h = (h ^ (h >> 33)) * 0xC4CEB9FE1A85EC53
		h ^= h >> 33
	}
	return h
}

// NoiseSample draws one white-noise sample in [-1,1] from r, used by the VA
// noise source, PM pluck/scrape excitation, and DM snare/hat voices.
func NoiseSample(r *Rand) float64 {
	return r.Signed()
}

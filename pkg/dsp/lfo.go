package dsp

// LFOShape enumerates the five LFO shapes.
type LFOShape int

const (
	LFOSine LFOShape = iota
	LFOTriangle
	LFOSaw
	LFOSquare
	LFOSampleHold
)

// LFO is a low-frequency oscillator with rate, depth, and bipolar/unipolar
// output, including sample-and-hold driven by a per-instance PRNG so output
// is reproducible across runs with the same seed.
type LFO struct {
	Shape    LFOShape
	Rate     float64 // Hz, [0.01, 20]
	Depth    float64 // [0,1]
	Bipolar  bool

	phase      float64
	sampleRate float64
	rng        *Rand
	heldValue  float64
}

// NewLFO creates an LFO at the given sample rate, seeded for deterministic
// sample-and-hold behaviour.
func NewLFO(sampleRate float64, seed uint64) *LFO {
	return &LFO{
		Shape: LFOSine, Rate: 2, Depth: 1,
		sampleRate: sampleRate,
		rng:        NewRand(seed),
	}
}

// Reset restarts the LFO's phase (used on voice retrigger when the LFO is
// per-voice; global LFOs are not reset on note events).
func (l *LFO) Reset() {
	l.phase = 0
}

// Next advances the LFO by one sample and returns its output, scaled by
// Depth and shaped by Bipolar.
func (l *LFO) Next() float64 {
	rate := Clamp(l.Rate, 0.01, 20)
	prevPhase := l.phase
	l.phase = AdvancePhase(l.phase, rate, l.sampleRate)

	var raw float64
	switch l.Shape {
	case LFOSine:
		raw = Sine(l.phase)
	case LFOTriangle:
		raw = Triangle(l.phase)
	case LFOSaw:
		raw = 2.0*l.phase - 1.0
	case LFOSquare:
		raw = PolyBLEPSquare(l.phase, PhaseIncrement(rate, l.sampleRate), 0.5)
	case LFOSampleHold:
		if l.phase < prevPhase {
			l.heldValue = l.rng.Float64()*2.0 - 1.0
		}
		raw = l.heldValue
	}

	if !l.Bipolar {
		raw = (raw + 1.0) * 0.5
	}
	return raw * Clamp(l.Depth, 0, 1)
}

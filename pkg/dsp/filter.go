package dsp

import "math"

// FilterType selects which tap of the state-variable filter Process returns.
type FilterType int

const (
	FilterLowpass FilterType = iota
	FilterHighpass
	FilterBandpass
	FilterNotch
)

// String implements fmt.Stringer.
func (t FilterType) String() string {
	switch t {
	case FilterLowpass:
		return "lowpass"
	case FilterHighpass:
		return "highpass"
	case FilterBandpass:
		return "bandpass"
	case FilterNotch:
		return "notch"
	default:
		return "unknown"
	}
}

// SVF is a topology-preserving state-variable filter exposing all four taps
// from shared state. Resonance is mapped internally so that q == 0.99
// approaches self-oscillation without diverging; the feedback path is
// soft-clipped to bound it.
type SVF struct {
	sampleRate float64
	cutoff     float64
	resonance  float64

	low, band float64
}

// NewSVF creates a filter for the given sample rate with a neutral default
// cutoff and resonance.
func NewSVF(sampleRate float64) *SVF {
	return &SVF{sampleRate: sampleRate, cutoff: 1000, resonance: 0.2}
}

// SetSampleRate updates the sample rate used by coefficient calculation.
func (f *SVF) SetSampleRate(sr float64) { f.sampleRate = sr }

// SetCutoff sets the cutoff frequency in Hz, clamped to [20, 0.49*Nyquist].
func (f *SVF) SetCutoff(hz float64) {
	f.cutoff = Clamp(hz, 20.0, f.sampleRate*0.49)
}

// SetResonance sets resonance in [0, 0.99].
func (f *SVF) SetResonance(q float64) {
	f.resonance = Clamp(q, 0, 0.99)
}

// Reset clears filter state (called from reset() and on voice steal).
func (f *SVF) Reset() {
	f.low = 0
	f.band = 0
}

// Process runs one sample through the filter and returns the requested tap.
// The feedback path (band) is soft-clipped so extreme resonance cannot
// diverge into NaN/Inf, satisfying the "self-oscillation is bounded" clause.
func (f *SVF) Process(input float64, tap FilterType) float64 {
	w := 2.0 * math.Sin(math.Pi*Clamp(f.cutoff/f.sampleRate, 0, 0.49))
	damp := 2.0 * (1.0 - f.resonance)
	if damp < 0.02 {
		damp = 0.02
	}

	high := input - f.low - damp*f.band
	band := w*high + f.band
	band = SoftClip(band * 0.2 * 5.0) // soft-clip the feedback path, keep unit gain in the linear region
	low := w*band + f.low
	notch := high + low

	f.band = band
	f.low = low

	switch tap {
	case FilterLowpass:
		return low
	case FilterHighpass:
		return high
	case FilterBandpass:
		return band
	case FilterNotch:
		return notch
	default:
		return low
	}
}

// Biquad is a transposed direct-form-II biquad used for a modal resonator bank
// modeling an instrument body.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

// SetModeCoefficients configures the biquad as a resonant bandpass tuned to
// frequency with the given Q, at sampleRate. amplitude scales the output so
// multiple modes can be summed at the body's declared relative levels.
func (bq *Biquad) SetModeCoefficients(frequency, q, amplitude, sampleRate float64) {
	if frequency <= 0 {
		frequency = 1
	}
	w0 := 2.0 * math.Pi * Clamp(frequency, 1, sampleRate*0.49) / sampleRate
	alpha := math.Sin(w0) / (2.0 * math.Max(q, 0.01))
	cosw0 := math.Cos(w0)

	b0 := alpha * amplitude
	b1 := 0.0
	b2 := -alpha * amplitude
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	bq.b0 = b0 / a0
	bq.b1 = b1 / a0
	bq.b2 = b2 / a0
	bq.a1 = a1 / a0
	bq.a2 = a2 / a0
}

// Process runs one sample through the biquad (transposed direct form II).
func (bq *Biquad) Process(input float64) float64 {
	out := bq.b0*input + bq.z1
	bq.z1 = bq.b1*input - bq.a1*out + bq.z2
	bq.z2 = bq.b2*input - bq.a2*out
	return out
}

// Reset clears biquad state.
func (bq *Biquad) Reset() {
	bq.z1, bq.z2 = 0, 0
}

// OnePoleLowpass is a minimal damping filter used in the waveguide loop and
// for cheap brightness shaping.
type OnePoleLowpass struct {
	a0, b1, state float64
}

// SetCutoff configures the one-pole cutoff in Hz for the given sample rate.
func (f *OnePoleLowpass) SetCutoff(hz, sampleRate float64) {
	omega := 2.0 * math.Pi * hz / sampleRate
	f.a0 = omega / (omega + 1.0)
	f.b1 = (omega - 1.0) / (omega + 1.0)
}

// Process filters one sample.
func (f *OnePoleLowpass) Process(input float64) float64 {
	out := f.a0*input - f.b1*f.state
	f.state = out
	return out
}

// Reset clears filter state.
func (f *OnePoleLowpass) Reset() { f.state = 0 }

// Allpass is a first-order allpass section, the building block of a
// waveguide's dispersion filter cascade.
type Allpass struct {
	coeff, state float64
}

// SetCoefficient sets the allpass coefficient in (-1,1).
func (a *Allpass) SetCoefficient(c float64) { a.coeff = Clamp(c, -0.999, 0.999) }

// Process filters one sample.
func (a *Allpass) Process(input float64) float64 {
	out := -a.coeff*input + a.state
	a.state = input + a.coeff*out
	return out
}

// Reset clears allpass state.
func (a *Allpass) Reset() { a.state = 0 }

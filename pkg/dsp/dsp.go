// Package dsp collects the signal-processing primitives shared by every
// synthesis core: oscillators, filters, envelopes, delay lines, and the
// small numeric helpers (dB conversion, panning, clamping) that the voice
// code in engines/* builds on.
package dsp

import "math"

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp32 is the float32 counterpart of Clamp, used on the parameter store's
// storage type.
func Clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LinearToDb converts a linear gain to decibels, floored at -120dB to avoid
// -Inf for digital silence.
func LinearToDb(linear float64) float64 {
	if linear <= 1e-6 {
		return -120.0
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts decibels to linear gain.
func DbToLinear(db float64) float64 {
	return math.Pow(10.0, db/20.0)
}

// SilenceThresholdLinear is the -60dB amplitude floor the voice manager uses
// to decide a releasing voice has gone silent (spec: stealing policy prefers
// slots below this threshold).
const SilenceThresholdLinear = 0.001 // ~-60dB

// NoteToFrequency converts a MIDI note number (with fractional cents via the
// semitone offset parameter) to frequency in Hz, A4 = note 69 = 440Hz.
func NoteToFrequency(note int, semitoneOffset float64) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0+semitoneOffset)/12.0)
}

// SemitonesToRatio converts a semitone offset to a frequency multiplier.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2.0, semitones/12.0)
}

// Pan computes constant-power left/right gains for pan in [-1,1].
func Pan(pan float64) (left, right float64) {
	angle := pan * math.Pi / 4.0
	return math.Cos(angle + math.Pi/4.0), math.Sin(angle + math.Pi/4.0)
}

// SoftClip applies a tanh waveshaper, used at every engine's output stage and
// inside feedback paths that could otherwise diverge (filter resonance,
// waveguide loops, FM feedback).
func SoftClip(x float64) float64 {
	return math.Tanh(x)
}

// SoftClip32 is the float32 buffer-boundary counterpart of SoftClip.
func SoftClip32(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

// FiniteOr returns x if it is finite, or fallback otherwise. process() uses
// this at every voice's output to satisfy the no-NaN/Inf invariant without
// a per-sample branch on the caller's side.
func FiniteOr(x, fallback float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fallback
	}
	return x
}

// Lerp linearly interpolates between a and b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// OnePoleSmoother is a first-order low-pass smoother used for glide
// (portamento) and for de-zippering control-rate parameter changes inside a
// block.
type OnePoleSmoother struct {
	value  float64
	target float64
	coeff  float64
}

// NewOnePoleSmoother creates a smoother with the given time constant in
// seconds at the given sample rate.
func NewOnePoleSmoother(timeSeconds, sampleRate float64) *OnePoleSmoother {
	s := &OnePoleSmoother{}
	s.SetTime(timeSeconds, sampleRate)
	return s
}

// SetTime reconfigures the smoothing time constant.
func (s *OnePoleSmoother) SetTime(timeSeconds, sampleRate float64) {
	if timeSeconds <= 0 {
		s.coeff = 0
		return
	}
	s.coeff = math.Exp(-1.0 / (timeSeconds * sampleRate))
}

// SetImmediate snaps value and target to v, bypassing smoothing.
func (s *OnePoleSmoother) SetImmediate(v float64) {
	s.value = v
	s.target = v
}

// SetTarget sets the value the smoother will glide towards.
func (s *OnePoleSmoother) SetTarget(v float64) {
	s.target = v
}

// Next advances the smoother by one sample and returns the new value.
func (s *OnePoleSmoother) Next() float64 {
	s.value = s.target + (s.value-s.target)*s.coeff
	return s.value
}

// Value returns the current value without advancing.
func (s *OnePoleSmoother) Value() float64 {
	return s.value
}

// Done reports whether the smoother has effectively reached its target.
func (s *OnePoleSmoother) Done() bool {
	return math.Abs(s.value-s.target) < 1e-6
}

package dsp

import "math"

// Waveform enumerates the continuously-blendable shapes the virtual-analog
// oscillator exposes. FM and physical-model cores generate their own
// waveforms directly (sine phase modulation, excitation bursts) and do not
// use this type.
type Waveform int

const (
	WaveformSaw Waveform = iota
	WaveformSquare
	WaveformTriangle
	WaveformSine
	WaveformPulse
)

// PolyBLEPSaw generates one sample of an anti-aliased sawtooth at the given
// phase (in [0,1)) and normalized phase increment.
func PolyBLEPSaw(phase, phaseInc float64) float64 {
	value := 2.0*phase - 1.0
	return value - polyBLEP(phase, phaseInc)
}

// PolyBLEPSquare generates one sample of an anti-aliased square wave with
// the given pulse width in (0,1).
func PolyBLEPSquare(phase, phaseInc, pulseWidth float64) float64 {
	value := 1.0
	if phase >= pulseWidth {
		value = -1.0
	}
	value += polyBLEP(phase, phaseInc)
	shifted := math.Mod(phase+(1.0-pulseWidth), 1.0)
	value -= polyBLEP(shifted, phaseInc)
	return value
}

// polyBLEP returns the polynomial correction term for a discontinuity at
// phase 0 (wrapping), used to de-alias saw/square/pulse edges.
func polyBLEP(phase, phaseInc float64) float64 {
	if phaseInc <= 0 {
		return 0
	}
	if phase < phaseInc {
		t := phase / phaseInc
		return t + t - t*t - 1.0
	}
	if phase > 1.0-phaseInc {
		t := (phase - 1.0) / phaseInc
		return t*t + t + t + 1.0
	}
	return 0
}

// Triangle generates a naive (non-BLEP) triangle wave sample; its slope
// discontinuities are at the corners and are far less audible as aliasing
// than saw/square edges, so no anti-aliasing correction is applied.
func Triangle(phase float64) float64 {
	if phase < 0.5 {
		return 4.0*phase - 1.0
	}
	return -4.0*phase + 3.0
}

// Sine generates a sine wave sample.
func Sine(phase float64) float64 {
	return math.Sin(2.0 * math.Pi * phase)
}

// Warp reshapes a raw phase in [0,1) before waveform evaluation. Negative
// amount compresses the first half of the cycle (classic phase distortion);
// positive expands it. amount == 0 passes the phase through unchanged.
func Warp(phase, amount float64) float64 {
	if amount == 0 {
		return phase
	}
	amount = Clamp(amount, -1, 1)
	if amount < 0 {
		// Compress [0, 0.5) into a smaller span, expand the remainder.
		k := 1.0 + amount // in (0,1]
		split := 0.5 * k
		if phase < split {
			return 0.5 * phase / split
		}
		return 0.5 + 0.5*(phase-split)/(1.0-split)
	}
	// amount > 0: expand the first half, compress the remainder.
	split := 0.5 * (1.0 - amount)
	if split <= 0 {
		split = 1e-6
	}
	if phase < 0.5 {
		return split * (phase / 0.5)
	}
	return split + (1.0-split)*((phase-0.5)/0.5)
}

// BlendWaveform evaluates a continuous blend across the five waveform
// shapes driven by a scalar shape parameter in [0,4], with anti-aliasing
// applied at the saw/square/pulse discontinuities. pulseWidth only affects
// the region of the blend nearest WaveformPulse.
func BlendWaveform(phase, phaseInc, shape, pulseWidth float64) float64 {
	shape = Clamp(shape, 0, 4)
	lo := int(math.Floor(shape))
	hi := lo + 1
	if hi > 4 {
		hi = 4
	}
	frac := shape - float64(lo)

	eval := func(w int) float64 {
		switch Waveform(w) {
		case WaveformSaw:
			return PolyBLEPSaw(phase, phaseInc)
		case WaveformSquare:
			return PolyBLEPSquare(phase, phaseInc, 0.5)
		case WaveformTriangle:
			return Triangle(phase)
		case WaveformSine:
			return Sine(phase)
		case WaveformPulse:
			return PolyBLEPSquare(phase, phaseInc, pulseWidth)
		default:
			return 0
		}
	}

	if lo == hi {
		return eval(lo)
	}
	return Lerp(eval(lo), eval(hi), frac)
}

// AdvancePhase advances a [0,1) phase accumulator by frequency/sampleRate,
// wrapping into range. Used by the VA carriers/sub, the DM voices, the PM
// exciters and LFO; FM keeps its own phase accumulator.
func AdvancePhase(phase, frequency, sampleRate float64) float64 {
	phase += frequency / sampleRate
	if phase >= 1.0 {
		phase -= math.Floor(phase)
	} else if phase < 0 {
		phase += math.Ceil(-phase)
	}
	return phase
}

// PhaseIncrement returns the normalized phase increment for a frequency at
// a sample rate, the quantity PolyBLEP needs to size its correction window.
func PhaseIncrement(frequency, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return frequency / sampleRate
}

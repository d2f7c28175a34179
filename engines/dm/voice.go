package dm

import "github.com/driftwave/synthcore/pkg/dsp"

// decayCoeff returns the per-sample multiplier that takes an envelope from
// 1.0 down to about -40dB over seconds, at sampleRate.
func decayCoeff(seconds, sampleRate float64) float64 {
	if seconds < 0.001 {
		seconds = 0.001
	}
	samples := seconds * sampleRate
	return dsp.Clamp(1.0-1.0/samples*4.6, 0, 0.999999) // ~ exp(-4.6/samples), -40dB
}

// dmVoice is one drum voice, indexed 1:1 with a voice.Pool slot. It carries
// the union of state every synthesis category needs; only the fields for
// the currently-assigned kind's category are live at any moment.
type dmVoice struct {
	kind     VoiceKind
	velocity float64
	pan      float64
	noise    *dsp.Rand

	phase1, phase2 float64

	filter dsp.SVF

	ampLevel float64
	ampCoeff float64

	pitchCurrent, pitchTarget, pitchCoeff float64

	clickSamplesRemaining int
	clapBurstsRemaining   int
	clapGapSamples        int

	active bool

	stealFade     float64
	stealFadeStep float64
}

func newVoice(seed uint64) *dmVoice {
	return &dmVoice{noise: dsp.NewRand(seed), stealFade: 1}
}

func (v *dmVoice) isActive() bool { return v.active }
func (v *dmVoice) isSilent() bool { return !v.active }

func (v *dmVoice) reset() {
	v.ampLevel = 0
	v.active = false
	v.filter.Reset()
	v.stealFade = 1
	v.stealFadeStep = 0
	v.clickSamplesRemaining = 0
	v.clapBurstsRemaining = 0
}

// trigger configures the voice for kind using the block's voice-specific
// tuning parameters, at velocity in [0,1].
func (v *dmVoice) trigger(kind VoiceKind, velocity, pan float64, vp voiceParams, sampleRate float64, stolen bool) {
	v.kind = kind
	v.velocity = dsp.Clamp(velocity, 0, 1)
	v.pan = pan
	v.phase1 = 0
	v.phase2 = 0
	v.filter.Reset()
	v.filter.SetSampleRate(sampleRate)
	v.ampLevel = 1.0
	v.active = true
	v.clickSamplesRemaining = 0
	v.clapBurstsRemaining = 0

	switch kind {
	case Kick, AltKick:
		v.pitchCurrent = dsp.Lerp(40, 120, vp.kickPitch)
		v.pitchTarget = v.pitchCurrent * 0.4
		v.pitchCoeff = decayCoeff(0.08, sampleRate)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.1, 1.2, vp.kickDecay), sampleRate)
		v.clickSamplesRemaining = int(vp.kickClick * 0.003 * sampleRate)

	case Tom1, Tom2, Tom3, Conga:
		base := dsp.Lerp(90, 260, vp.tomPitch)
		if kind == Conga {
			base = dsp.Lerp(150, 400, vp.congaPitch)
		}
		switch kind {
		case Tom2:
			base *= 0.8
		case Tom3:
			base *= 0.6
		}
		v.pitchCurrent = base * 1.5
		v.pitchTarget = base
		v.pitchCoeff = decayCoeff(0.05, sampleRate)
		decaySeconds := vp.tomDecay
		if kind == Conga {
			decaySeconds = vp.congaDecay
		}
		v.ampCoeff = decayCoeff(dsp.Lerp(0.1, 1.0, decaySeconds), sampleRate)

	case Snare, AltSnare:
		v.filter.SetCutoff(dsp.Lerp(800, 4000, vp.snareSnap))
		v.filter.SetResonance(0.3)
		v.pitchCurrent = dsp.Lerp(150, 260, vp.snareTone)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.05, 0.6, vp.snareDecay), sampleRate)

	case Clap:
		v.filter.SetCutoff(1800)
		v.filter.SetResonance(0.4)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.1, 0.6, vp.clapDecay), sampleRate)
		v.clapBurstsRemaining = 3
		v.clapGapSamples = int(0.01 * sampleRate)

	case Rim:
		v.filter.SetCutoff(2800)
		v.filter.SetResonance(0.6)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.02, 0.2, vp.rimDecay), sampleRate)

	case Shaker:
		v.filter.SetCutoff(6000)
		v.filter.SetResonance(0.2)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.02, 0.3, vp.shakerDecay), sampleRate)

	case Tambourine:
		v.filter.SetCutoff(5000)
		v.filter.SetResonance(0.5)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.05, 0.5, vp.tambourineDecay), sampleRate)

	case ClosedHat:
		v.filter.SetCutoff(8000)
		v.filter.SetResonance(0.15)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.02, 0.3, vp.hatDecay), sampleRate)

	case OpenHat:
		v.filter.SetCutoff(7500)
		v.filter.SetResonance(0.15)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.1, 1.5, vp.openHatDecay), sampleRate)

	case Crash, Ride:
		v.phase1 = 0
		v.phase2 = 0
		v.filter.SetCutoff(6500)
		v.filter.SetResonance(0.25)
		v.ampCoeff = decayCoeff(dsp.Lerp(0.3, 3.0, vp.cymbalDecay), sampleRate)

	case Cowbell:
		v.filter.SetCutoff(dsp.Lerp(500, 1200, vp.cowbellTone))
		v.filter.SetResonance(0.5)
		v.ampCoeff = decayCoeff(0.3, sampleRate)
	}

	if stolen {
		v.stealFade = 0
		v.stealFadeStep = 1.0 / (0.008 * sampleRate)
	} else {
		v.stealFade = 1
		v.stealFadeStep = 0
	}
}

// release is a no-op: every drum voice free-runs its own decay envelope
// independent of note-off, matching a physical percussion instrument.
func (v *dmVoice) release() {}

// renderSample advances the voice by one sample and returns its output.
func (v *dmVoice) renderSample(sampleRate float64) float64 {
	if !v.active {
		return 0
	}
	if v.stealFadeStep > 0 {
		v.stealFade += v.stealFadeStep
		if v.stealFade >= 1 {
			v.stealFade = 1
			v.stealFadeStep = 0
		}
	}

	var out float64

	switch kindCategory[v.kind] {
	case categoryMembrane:
		v.pitchCurrent = v.pitchTarget + (v.pitchCurrent-v.pitchTarget)*v.pitchCoeff
		v.phase1 = dsp.AdvancePhase(v.phase1, v.pitchCurrent, sampleRate)
		out = dsp.Sine(v.phase1)
		if v.clickSamplesRemaining > 0 {
			out += dsp.NoiseSample(v.noise) * 0.6
			v.clickSamplesRemaining--
		}

	case categoryNoiseBurst:
		n := dsp.NoiseSample(v.noise)
		filtered := v.filter.Process(n, dsp.FilterBandpass)
		tonal := 0.0
		if v.kind == Snare || v.kind == AltSnare {
			v.phase1 = dsp.AdvancePhase(v.phase1, v.pitchCurrent, sampleRate)
			tonal = dsp.Sine(v.phase1) * 0.4
		}
		burstGain := 1.0
		if v.kind == Clap {
			burstGain = v.clapEnvelope(sampleRate)
		}
		out = (filtered*0.8 + tonal) * burstGain

	case categoryMetallic:
		inc1 := dsp.PhaseIncrement(3200, sampleRate)
		inc2 := dsp.PhaseIncrement(4700, sampleRate)
		v.phase1 = dsp.AdvancePhase(v.phase1, 3200, sampleRate)
		v.phase2 = dsp.AdvancePhase(v.phase2, 4700, sampleRate)
		o1 := dsp.PolyBLEPSquare(v.phase1, inc1, 0.5)
		o2 := dsp.PolyBLEPSquare(v.phase2, inc2, 0.5)
		metallic := (o1 + o2) * 0.5
		out = v.filter.Process(metallic, dsp.FilterHighpass)
	}

	out = dsp.FiniteOr(out, 0) * v.ampLevel
	v.ampLevel *= v.ampCoeff
	if v.ampLevel < dsp.SilenceThresholdLinear {
		v.active = false
	}

	return out * v.velocity * v.stealFade
}

// clapEnvelope produces three short staggered bursts rather than a single
// smooth decay, approximating a hand clap's multiple impacts.
func (v *dmVoice) clapEnvelope(sampleRate float64) float64 {
	if v.clapBurstsRemaining <= 0 {
		return 1.0
	}
	if v.clapGapSamples > 0 {
		v.clapGapSamples--
		return 0.3
	}
	v.clapBurstsRemaining--
	v.clapGapSamples = int(0.008 * sampleRate)
	return 1.0
}

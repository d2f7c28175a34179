package pm

import "github.com/driftwave/synthcore/pkg/dsp"

// filterDelayCompensation accounts for the group delay the loop filter and
// dispersion cascade add, so the waveguide's total loop length still tracks
// the requested pitch.
const filterDelayCompensation = 4.0

const minSustainSeconds = 0.01

// pmVoice is one plucked/bowed string, indexed 1:1 with a voice.Pool slot.
type pmVoice struct {
	delay      *dsp.DelayLine
	loopFilter dsp.OnePoleLowpass
	stiffLowpass dsp.OnePoleLowpass
	stiffAllpass dsp.Allpass
	dispersionStages [3]dsp.Allpass
	noise      *dsp.Rand

	key      int8
	velocity float64
	frequency float64
	delaySamples float64

	articulation Articulation
	held         bool
	exciteSamplesRemaining int
	bowPhase     float64
	harmonicPhase float64

	peak              float64
	samplesSinceTrigger int64
	minSustainSamples int64
	active            bool

	stealFade     float64
	stealFadeStep float64
}

func newVoice(sampleRate float64, seed uint64) *pmVoice {
	capacity := int(sampleRate/20.0) + 8
	v := &pmVoice{
		delay: dsp.NewDelayLine(capacity),
		noise: dsp.NewRand(seed),
		stealFade: 1,
	}
	return v
}

// trigger fully re-excites the string: the delay line and filters are
// cleared, matching a fresh pluck rather than a legato re-trigger.
func (v *pmVoice) trigger(key int8, velocity, frequency float64, articulation Articulation, sampleRate float64, stolen bool) {
	v.delay.Reset()
	v.loopFilter.Reset()
	v.stiffLowpass.Reset()
	v.stiffAllpass.Reset()
	for i := range v.dispersionStages {
		v.dispersionStages[i].Reset()
	}

	v.key = key
	v.velocity = velocity
	v.frequency = frequency
	v.articulation = articulation
	v.held = true
	v.bowPhase = 0
	v.harmonicPhase = 0
	v.peak = 1.0
	v.samplesSinceTrigger = 0
	v.minSustainSamples = int64(minSustainSeconds * sampleRate)
	v.active = true

	delay := sampleRate/frequency - filterDelayCompensation
	maxDelay := float64(v.delay.Capacity() - 5)
	if delay < 2 {
		delay = 2
	}
	if delay > maxDelay {
		delay = maxDelay
	}
	v.delaySamples = delay

	switch articulation {
	case ArticulationPluck, ArticulationDamp:
		v.exciteSamplesRemaining = int(0.004 * sampleRate)
	case ArticulationHarmonic:
		v.exciteSamplesRemaining = int(0.006 * sampleRate)
	case ArticulationScrape:
		v.exciteSamplesRemaining = int(0.02 * sampleRate)
	default:
		v.exciteSamplesRemaining = 0
	}

	if stolen {
		v.stealFade = 0
		v.stealFadeStep = 1.0 / (0.008 * sampleRate)
	} else {
		v.stealFade = 1
		v.stealFadeStep = 0
	}
}

func (v *pmVoice) release() {
	v.held = false
}

func (v *pmVoice) reset() {
	v.delay.Reset()
	v.loopFilter.Reset()
	v.stiffLowpass.Reset()
	v.stiffAllpass.Reset()
	for i := range v.dispersionStages {
		v.dispersionStages[i].Reset()
	}
	v.held = false
	v.active = false
	v.peak = 0
	v.stealFade = 1
	v.stealFadeStep = 0
}

func (v *pmVoice) isActive() bool { return v.active }

func (v *pmVoice) isSilent() bool { return !v.active }

// computeExcitation returns this sample's injected energy for the voice's
// current articulation and stage.
func (v *pmVoice) computeExcitation(p blockParams, sampleRate float64) float64 {
	switch v.articulation {
	case ArticulationPluck:
		if v.exciteSamplesRemaining > 0 {
			v.exciteSamplesRemaining--
			return dsp.NoiseSample(v.noise) * v.velocity * p.attackVelocity * 0.5
		}
		return 0

	case ArticulationBow:
		if !v.held {
			return 0
		}
		v.bowPhase = dsp.AdvancePhase(v.bowPhase, v.frequency, sampleRate)
		saw := 2.0*v.bowPhase - 1.0
		noiseComponent := dsp.NoiseSample(v.noise) * (1.0 - p.bowPressure)
		driven := dsp.SoftClip((saw + noiseComponent) * (0.5 + p.bowPressure*2.0))
		return driven * v.velocity * 0.3

	case ArticulationScrape:
		burst := 0.0
		if v.exciteSamplesRemaining > 0 {
			v.exciteSamplesRemaining--
			burst = dsp.NoiseSample(v.noise) * v.velocity * 0.5
		}
		sustain := 0.0
		if v.held {
			sustain = dsp.NoiseSample(v.noise) * v.velocity * 0.04
		}
		return burst + sustain

	case ArticulationHarmonic:
		if v.exciteSamplesRemaining <= 0 {
			return 0
		}
		v.exciteSamplesRemaining--
		v.harmonicPhase = dsp.AdvancePhase(v.harmonicPhase, v.frequency*2.0, sampleRate)
		tone := dsp.Sine(v.harmonicPhase) * 0.6
		burst := dsp.NoiseSample(v.noise) * 0.4
		return (tone + burst) * v.velocity * p.attackVelocity

	case ArticulationDamp:
		if v.exciteSamplesRemaining <= 0 {
			return 0
		}
		v.exciteSamplesRemaining--
		return dsp.NoiseSample(v.noise) * v.velocity * 0.3

	default:
		return 0
	}
}

// renderSample advances the waveguide by one sample and returns the direct
// string output plus the bridge contribution it feeds into the engine's
// shared body resonator and sympathetic-string buses.
func (v *pmVoice) renderSample(p blockParams, sympatheticFeed, sampleRate float64) (out, bridge float64) {
	if v.stealFadeStep > 0 {
		v.stealFade += v.stealFadeStep
		if v.stealFade >= 1 {
			v.stealFade = 1
			v.stealFadeStep = 0
		}
	}

	excitation := v.computeExcitation(p, sampleRate)

	delayOut := v.delay.ReadFractional(v.delaySamples)

	cutoff := dsp.Lerp(250.0, sampleRate*0.45, p.brightness) * (1.0 - 0.3*p.stringGauge)
	v.loopFilter.SetCutoff(cutoff, sampleRate)
	loopGain := dsp.Clamp(p.damping, 0, 0.9999) * (1.0 - 0.01*p.stringGauge)
	if v.articulation == ArticulationDamp {
		loopGain *= 0.6
	}
	damped := v.loopFilter.Process(delayOut) * loopGain

	// Stiffness models the allpass/lowpass blend of a real string's
	// bending resistance: stiffer (thicker, shorter) strings lose their
	// upper partials unevenly rather than through simple loop damping.
	v.stiffAllpass.SetCoefficient(dsp.Lerp(-0.3, 0.3, p.stiffness))
	stiffLPCutoff := dsp.Lerp(12000.0, 2000.0, p.stiffness) / dsp.Clamp(p.stringLengthMeters, 0.1, 2.0)
	v.stiffLowpass.SetCutoff(dsp.Clamp(stiffLPCutoff, 200, sampleRate*0.49), sampleRate)
	stiffened := dsp.Lerp(v.stiffAllpass.Process(damped), v.stiffLowpass.Process(damped), p.stiffness)

	dispersed := stiffened
	coeff := dsp.Lerp(0, 0.7, p.dispersion)
	for i := range v.dispersionStages {
		v.dispersionStages[i].SetCoefficient(coeff)
		dispersed = v.dispersionStages[i].Process(dispersed)
	}
	stiff := dsp.Lerp(stiffened, dispersed, p.dispersion)

	nonlinear := dsp.Lerp(stiff, dsp.SoftClip(stiff*3.0), p.nonlinearity)

	loopSignal := nonlinear + sympatheticFeed*p.sympatheticCoupling*0.15
	v.delay.Push(dsp.FiniteOr(excitation+loopSignal, 0))

	pickDelay := int(v.delaySamples * dsp.Clamp(p.pickPosition, 0, 1))
	combed := delayOut - 0.5*v.delay.ReadTap(pickDelay)

	mag := combed
	if mag < 0 {
		mag = -mag
	}
	if mag > v.peak {
		v.peak = mag
	} else {
		v.peak *= 0.9997
	}
	v.samplesSinceTrigger++
	if !v.held && v.peak < dsp.SilenceThresholdLinear && v.samplesSinceTrigger > v.minSustainSamples {
		v.active = false
	}

	gain := v.velocity * v.stealFade
	return dsp.FiniteOr(combed*gain, 0), dsp.FiniteOr(combed*p.bridgeCoupling*gain, 0)
}

package fm

import (
	"math"

	"github.com/driftwave/synthcore/pkg/dsp"
)

// baseModulationIndex sets the nominal FM modulation depth: an operator at
// full level and modulation index contributes roughly 2π times this many
// radians of peak phase deviation, further scaled 0.6x..1.6x by structure, to whatever it modulates (spec §4.4: "modulation
// depth is scaled by 2π × operatorLevel × modulationIndex").
const baseModulationIndex = 6.0
const twoPi = 2.0 * math.Pi

// operator is one FM operator's oscillator and envelope state.
type operator struct {
	phase      float64
	prevOutput float64
	env        *dsp.MultiSegmentEnvelope
}

func newOperator(sampleRate float64) *operator {
	return &operator{env: dsp.NewMultiSegmentEnvelope(sampleRate)}
}

func (o *operator) configure(p operatorParams) {
	o.env.Rates = p.egRate
	o.env.Levels = p.egLevel
}

func (o *operator) trigger(velocityScale float64) {
	o.phase = 0
	o.prevOutput = 0
	o.env.Trigger(velocityScale)
}

func (o *operator) release(velocityScale float64) {
	o.env.Release(velocityScale)
}

func (o *operator) reset() {
	o.phase = 0
	o.prevOutput = 0
	o.env.Reset()
}

// process advances the operator by one sample. incomingModPhase is the
// sum of every upstream operator's contribution, already scaled by
// modIndexScale; feedback applies the operator's own previous sample the
// same way (spec §4.4 point 2).
func (o *operator) process(freqHz, incomingModPhase, feedback, level, modIndexScale, sampleRate, velocityScale float64) float64 {
	fb := feedback * modIndexScale * o.prevOutput
	raw := math.Sin(o.phase + incomingModPhase + fb)
	envVal := o.env.Process(velocityScale)
	out := raw * envVal * level

	o.prevOutput = raw
	o.phase += twoPi * freqHz / sampleRate
	o.phase = math.Mod(o.phase, twoPi)

	return dsp.FiniteOr(out, 0)
}

// fmVoice is one FM voice's six operators, indexed 1:1 with a voice.Pool
// slot.
type fmVoice struct {
	operators [NumOperators]*operator

	key           int8
	velocity      float64
	baseFrequency float64

	stealFade     float64
	stealFadeStep float64
}

func newVoice(sampleRate float64) *fmVoice {
	v := &fmVoice{stealFade: 1}
	for i := range v.operators {
		v.operators[i] = newOperator(sampleRate)
	}
	return v
}

func velocityScale(velocity float64) float64 {
	return 0.3 + 0.7*dsp.Clamp(velocity, 0, 1)
}

func (v *fmVoice) trigger(key int8, velocity, frequency float64, stolen bool, sampleRate float64) {
	v.key = key
	v.velocity = velocity
	v.baseFrequency = frequency

	if stolen {
		v.stealFade = 0
		v.stealFadeStep = 1.0 / (0.008 * sampleRate)
	} else {
		v.stealFade = 1
		v.stealFadeStep = 0
	}

	vs := velocityScale(velocity)
	for _, op := range v.operators {
		op.trigger(vs)
	}
}

func (v *fmVoice) release() {
	vs := velocityScale(v.velocity)
	for _, op := range v.operators {
		op.release(vs)
	}
}

func (v *fmVoice) reset() {
	for _, op := range v.operators {
		op.reset()
	}
	v.stealFade = 1
	v.stealFadeStep = 0
}

func (v *fmVoice) isActive() bool {
	for _, op := range v.operators {
		if op.env.IsActive() {
			return true
		}
	}
	return false
}

func (v *fmVoice) isSilent() bool {
	for _, op := range v.operators {
		if !op.env.IsSilent() {
			return false
		}
	}
	return true
}

// renderSample produces one sample of this voice's stereo output. p's
// operator array has already been read for this block; algo fixes this
// block's routing topology, pitchBendRatio applies the engine-wide pitch
// wheel.
func (v *fmVoice) renderSample(p blockParams, algo Algorithm, pitchBendRatio, sampleRate float64, stereo bool) (left, right float64) {
	if v.stealFadeStep > 0 {
		v.stealFade += v.stealFadeStep
		if v.stealFade >= 1 {
			v.stealFade = 1
			v.stealFadeStep = 0
		}
	}

	fundamental := v.baseFrequency * pitchBendRatio
	vs := velocityScale(v.velocity)
	modIndexScale := twoPi * baseModulationIndex * dsp.Lerp(0.6, 1.6, p.structure)

	var outputs [NumOperators]float64
	var mixL, mixR float64

	for _, i := range algo.Order {
		op := p.operators[i]

		ratio := op.ratio
		if !op.fixedHz {
			ratio = dsp.Lerp(math.Round(ratio), ratio, p.structure)
		}

		var freqHz float64
		if op.fixedHz {
			freqHz = ratio
		} else {
			freqHz = fundamental * ratio
		}
		freqHz *= dsp.SemitonesToRatio(op.detune / 100.0)

		parity := -1.0
		if i%2 == 1 {
			parity = 1.0
		}
		freqHz *= dsp.SemitonesToRatio(parity * p.stereoOperatorDetune / 2.0 / 100.0)

		var modPhase float64
		for j := 0; j < NumOperators; j++ {
			if w := algo.Matrix[i][j]; w != 0 {
				modPhase += w * outputs[j] * modIndexScale
			}
		}

		out := v.operators[i].process(freqHz, modPhase, op.feedback, op.level, modIndexScale, sampleRate, vs)
		outputs[i] = out

		if !algo.Carriers[i] {
			continue
		}
		if stereo {
			pan := dsp.Clamp(parity*p.stereoOddEvenSeparation*p.stereoWidth, -1, 1)
			lg, rg := dsp.Pan(pan)
			mixL += out * lg
			mixR += out * rg
		} else {
			mixL += out
		}
	}

	gain := v.velocity * v.stealFade
	return dsp.FiniteOr(mixL*gain, 0), dsp.FiniteOr(mixR*gain, 0)
}

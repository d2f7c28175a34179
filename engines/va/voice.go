package va

import (
	"github.com/driftwave/synthcore/pkg/dsp"
)

// vaVoice is one VA voice's complete DSP state: two oscillators, sub,
// noise, SVF, two ADSR envelopes, two LFOs, indexed 1:1 with a slot in the
// shared voice.Pool.
type vaVoice struct {
	osc1Phase, osc2Phase, subPhase float64
	noise                          *dsp.Rand

	filter *dsp.SVF

	ampEnv    *dsp.ADSREnvelope
	filterEnv *dsp.ADSREnvelope

	lfo1, lfo2 *dsp.LFO

	glide *dsp.OnePoleSmoother

	baseFrequency float64
	velocity      float64
	aftertouch    float64
	key           int8

	stealFade     float64 // 0 -> 1 fade-in applied to a note that took over a stolen slot
	stealFadeStep float64
}

func newVoice(sampleRate float64, seed uint64) *vaVoice {
	return &vaVoice{
		noise:     dsp.NewRand(seed),
		filter:    dsp.NewSVF(sampleRate),
		ampEnv:    dsp.NewADSREnvelope(sampleRate),
		filterEnv: dsp.NewADSREnvelope(sampleRate),
		lfo1:      dsp.NewLFO(sampleRate, seed^0x1),
		lfo2:      dsp.NewLFO(sampleRate, seed^0x2),
		glide:     dsp.NewOnePoleSmoother(0.05, sampleRate),
		stealFade: 1,
	}
}

// trigger starts a new note. legato preserves envelope/phase state; a
// full retrigger restarts envelopes and phase. When stolen is true the
// slot held another sounding voice a moment ago; the new note fades in
// over voice.StealFadeSeconds to mask the phase/filter state discontinuity
// left behind.
func (v *vaVoice) trigger(key int8, velocity, frequency float64, legato, glideEnabled, stolen bool, sampleRate float64) {
	v.key = key
	v.velocity = velocity

	if stolen {
		v.stealFade = 0
		v.stealFadeStep = 1.0 / voiceStealFadeSamples(sampleRate)
	} else {
		v.stealFade = 1
		v.stealFadeStep = 0
	}

	if glideEnabled && (legato || v.baseFrequency != 0) {
		v.glide.SetTarget(frequency)
	} else {
		v.glide.SetImmediate(frequency)
	}
	v.baseFrequency = frequency

	if !legato {
		v.osc1Phase, v.osc2Phase, v.subPhase = 0, 0, 0
		v.ampEnv.Trigger()
		v.filterEnv.Trigger()
	}
}

func (v *vaVoice) release() {
	v.ampEnv.Release()
	v.filterEnv.Release()
}

// reset silences the voice immediately (engine reset or hard steal).
func (v *vaVoice) reset() {
	v.osc1Phase, v.osc2Phase, v.subPhase = 0, 0, 0
	v.filter.Reset()
	v.ampEnv.Reset()
	v.filterEnv.Reset()
	v.stealFade = 1
	v.stealFadeStep = 0
}

func voiceStealFadeSamples(sampleRate float64) float64 {
	const stealFadeSeconds = 0.008
	return stealFadeSeconds * sampleRate
}

// lfoShape maps a namespace waveform choice index to the dsp.LFO shape it
// selects, defaulting to sine for an out-of-range index.
func lfoShape(i int) dsp.LFOShape {
	if i < 0 || i > int(dsp.LFOSampleHold) {
		return dsp.LFOSine
	}
	return dsp.LFOShape(i)
}

// configureLFOs applies this block's LFO namespace parameters to the
// voice's two LFOs. Called once per block, before modulation offsets are
// layered on top per sample by applyLFOModulation.
func (v *vaVoice) configureLFOs(p blockParams) {
	v.lfo1.Shape = lfoShape(p.lfo1Waveform)
	v.lfo1.Bipolar = p.lfo1Bipolar
	v.lfo1.Rate = float64(p.lfo1Rate)
	v.lfo1.Depth = float64(p.lfo1Depth)

	v.lfo2.Shape = lfoShape(p.lfo2Waveform)
	v.lfo2.Bipolar = p.lfo2Bipolar
	v.lfo2.Rate = float64(p.lfo2Rate)
	v.lfo2.Depth = float64(p.lfo2Depth)
}

// applyLFOModulation layers this sample's ModDestLFO*Rate/Depth offsets on
// top of the block's base LFO rate/depth, for the following call to
// lfo1/lfo2.Next(). Since dest is only known after this sample's LFO
// outputs have already fed the modulation graph, the offset lags the
// modulation source by one sample; LFO rate/depth move slowly enough that
// this is inaudible.
func (v *vaVoice) applyLFOModulation(p blockParams, dest Destinations) {
	v.lfo1.Rate = dsp.Clamp(float64(p.lfo1Rate)+dest[ModDestLFO1Rate]*10.0, 0.01, 20)
	v.lfo1.Depth = dsp.Clamp(float64(p.lfo1Depth)+dest[ModDestLFO1Depth], 0, 1)
	v.lfo2.Rate = dsp.Clamp(float64(p.lfo2Rate)+dest[ModDestLFO2Rate]*10.0, 0.01, 20)
	v.lfo2.Depth = dsp.Clamp(float64(p.lfo2Depth)+dest[ModDestLFO2Depth], 0, 1)
}

func (v *vaVoice) isSilent() bool {
	return v.ampEnv.IsSilent()
}

func (v *vaVoice) isActive() bool {
	return v.ampEnv.IsActive()
}

// renderSample produces one sample of this voice's output, pre-pan,
// pre-master-volume. p is the block's parameter snapshot, with macro
// offsets already applied; dest holds this sample's modulation-graph
// destination offsets.
func (v *vaVoice) renderSample(p blockParams, dest Destinations, sampleRate float64) float64 {
	if v.stealFadeStep > 0 {
		v.stealFade += v.stealFadeStep
		if v.stealFade >= 1 {
			v.stealFade = 1
			v.stealFadeStep = 0
		}
	}

	freq := v.glide.Next() * dsp.SemitonesToRatio(float64(p.masterTune))

	osc1Pitch := dest[ModDestOsc1Pitch]
	osc2Pitch := dest[ModDestOsc2Pitch]

	f1 := freq * dsp.SemitonesToRatio(float64(p.osc1Detune)+osc1Pitch*24.0)
	f2 := freq * dsp.SemitonesToRatio(float64(p.osc2Detune)+osc2Pitch*24.0)

	inc1 := dsp.PhaseIncrement(f1, sampleRate)
	inc2 := dsp.PhaseIncrement(f2, sampleRate)

	warp1 := dsp.Clamp(float64(p.osc1Warp)+dest[ModDestOsc1Warp], -1, 1)
	warp2 := dsp.Clamp(float64(p.osc2Warp)+dest[ModDestOsc2Warp], -1, 1)
	pw1 := dsp.Clamp(float64(p.osc1PulseWidth)+dest[ModDestOsc1PulseWidth]*0.49, 0.01, 0.99)
	pw2 := dsp.Clamp(float64(p.osc2PulseWidth)+dest[ModDestOsc2PulseWidth]*0.49, 0.01, 0.99)

	phase1 := dsp.Warp(v.osc1Phase, warp1)
	phase2 := dsp.Warp(v.osc2Phase, warp2)

	osc2Sample := dsp.BlendWaveform(phase2, inc2, float64(p.osc2Shape)*4.0, pw2)

	if p.fmEnabled {
		modSample := osc2Sample
		if p.fmCarrierOsc == 1 {
			modSample = dsp.BlendWaveform(phase1, inc1, float64(p.osc1Shape)*4.0, pw1)
		}
		fmOffset := float64(p.fmDepth) * modSample
		phase1 = dsp.Warp(v.osc1Phase+fmOffset*0.25, warp1)
	}

	osc1Sample := dsp.BlendWaveform(phase1, inc1, float64(p.osc1Shape)*4.0, pw1)

	v.osc1Phase = dsp.AdvancePhase(v.osc1Phase, f1, sampleRate)
	v.osc2Phase = dsp.AdvancePhase(v.osc2Phase, f2, sampleRate)

	mix := osc1Sample*float64(p.osc1Level+float32(dest[ModDestOsc1Level])) +
		osc2Sample*float64(p.osc2Level+float32(dest[ModDestOsc2Level]))

	if p.subEnabled {
		subFreq := freq * 0.5
		subSample := dsp.PolyBLEPSquare(v.subPhase, dsp.PhaseIncrement(subFreq, sampleRate), 0.5)
		v.subPhase = dsp.AdvancePhase(v.subPhase, subFreq, sampleRate)
		mix += subSample * float64(p.subLevel+float32(dest[ModDestSubLevel]))
	}

	if p.noiseLevel > 0 || dest[ModDestNoiseLevel] != 0 {
		mix += dsp.NoiseSample(v.noise) * float64(p.noiseLevel+float32(dest[ModDestNoiseLevel]))
	}

	filterEnvValue := v.filterEnv.Process()
	ampEnvValue := v.ampEnv.Process()

	keyOffset := float64(v.key) - 60.0
	cutoffSemis := float64(p.filterKeyTrack) * keyOffset
	envAmount := float64(p.filterEnvAmount) + dest[ModDestFilterEnvAmount]
	cutoffMod := dest[ModDestFilterCutoff]*4800.0 + envAmount*filterEnvValue*6000.0
	cutoffHz := float64(p.filterCutoff) * dsp.SemitonesToRatio(cutoffSemis+cutoffMod/100.0)

	v.filter.SetCutoff(cutoffHz)
	v.filter.SetResonance(dsp.Clamp(float64(p.filterResonance)+dest[ModDestFilterResonance], 0, 0.99))

	filtered := v.filter.Process(mix, filterType(p.filterType))

	out := filtered * (ampEnvValue + dest[ModDestAmpLevel]) * v.velocity * v.stealFade

	return dsp.FiniteOr(out, 0)
}

func filterType(i int) dsp.FilterType {
	if i < 0 || i > 3 {
		return dsp.FilterLowpass
	}
	return dsp.FilterType(i)
}

package va

import (
	"github.com/driftwave/synthcore/pkg/param"
)

// blockParams is a block-rate snapshot of every VA parameter the voice
// render loop consults, read once per block (control-rate, not per
// sample) plus the current macro additive offsets. Reading the
// ParameterStore once per block instead of per sample keeps process()
// allocation- and atomic-load-light on the inner sample loop.
type blockParams struct {
	osc1Shape, osc1Warp, osc1PulseWidth, osc1Detune, osc1Level, osc1Pan float32
	osc2Shape, osc2Warp, osc2PulseWidth, osc2Detune, osc2Level, osc2Pan float32
	subEnabled                                                         bool
	subLevel, noiseLevel                                               float32

	filterType                                         int
	filterCutoff, filterResonance                      float32
	filterEnvAmount, filterKeyTrack, filterVelTrack     float32
	filterEnvAttack, filterEnvDecay, filterEnvSustain, filterEnvRelease float32

	ampEnvAttack, ampEnvDecay, ampEnvSustain, ampEnvRelease float32

	lfo1Waveform int
	lfo1Rate, lfo1Depth float32
	lfo1Bipolar         bool
	lfo2Waveform        int
	lfo2Rate, lfo2Depth float32
	lfo2Bipolar         bool

	fmEnabled        bool
	fmCarrierOsc     int
	fmDepth          float32
	fmModulatorRatio float32

	polyMode    int
	glideEnabled bool
	glideTime   float32

	masterTune, masterVolume float32
}

// readBlockParams pulls every base value from store and overlays the
// current macro offsets, clamping back to each parameter's declared
// domain: modulation sums are clamped to the destination's declared range
// after accumulation, and macro offsets follow the same rule.
func readBlockParams(store *param.Store, macroOffsets map[string]float64) blockParams {
	get := func(id string) float32 {
		v := float64(store.Get(id))
		if off, ok := macroOffsets[id]; ok {
			v += off
		}
		if desc, ok := store.Descriptor(id); ok {
			return desc.Clamp(float32(v))
		}
		return float32(v)
	}
	getBool := func(id string) bool { return store.Get(id) >= 0.5 }
	getInt := func(id string) int { return int(store.Get(id) + 0.5) }

	return blockParams{
		osc1Shape: get("osc1Shape"), osc1Warp: get("osc1Warp"), osc1PulseWidth: get("osc1PulseWidth"),
		osc1Detune: get("osc1Detune"), osc1Level: get("osc1Level"), osc1Pan: get("osc1Pan"),
		osc2Shape: get("osc2Shape"), osc2Warp: get("osc2Warp"), osc2PulseWidth: get("osc2PulseWidth"),
		osc2Detune: get("osc2Detune"), osc2Level: get("osc2Level"), osc2Pan: get("osc2Pan"),
		subEnabled: getBool("subEnabled"), subLevel: get("subLevel"), noiseLevel: get("noiseLevel"),

		filterType: getInt("filterType"), filterCutoff: get("filterCutoff"), filterResonance: get("filterResonance"),
		filterEnvAmount: get("filterEnvAmount"), filterKeyTrack: get("filterKeyTrack"), filterVelTrack: get("filterVelTrack"),
		filterEnvAttack: get("filterEnvAttack"), filterEnvDecay: get("filterEnvDecay"),
		filterEnvSustain: get("filterEnvSustain"), filterEnvRelease: get("filterEnvRelease"),

		ampEnvAttack: get("ampEnvAttack"), ampEnvDecay: get("ampEnvDecay"),
		ampEnvSustain: get("ampEnvSustain"), ampEnvRelease: get("ampEnvRelease"),

		lfo1Waveform: getInt("lfo1Waveform"), lfo1Rate: get("lfo1Rate"), lfo1Depth: get("lfo1Depth"), lfo1Bipolar: getBool("lfo1Bipolar"),
		lfo2Waveform: getInt("lfo2Waveform"), lfo2Rate: get("lfo2Rate"), lfo2Depth: get("lfo2Depth"), lfo2Bipolar: getBool("lfo2Bipolar"),

		fmEnabled: getBool("fmEnabled"), fmCarrierOsc: getInt("fmCarrierOsc"), fmDepth: get("fmDepth"), fmModulatorRatio: get("fmModulatorRatio"),

		polyMode: getInt("polyMode"), glideEnabled: getBool("glideEnabled"), glideTime: get("glideTime"),

		masterTune: get("masterTune"), masterVolume: get("masterVolume"),
	}
}

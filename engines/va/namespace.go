package va

import "github.com/driftwave/synthcore/pkg/param"

// Namespace returns the VA engine's full parameter descriptor set as one
// static slice, registered once at construction.
func Namespace() []param.Descriptor {
	descs := []param.Descriptor{
		param.Unit("osc1Shape", "Osc 1 Shape", 0),
		param.Bipolar("osc1Warp", "Osc 1 Warp", 0),
		param.NewBuilder("osc1PulseWidth", "Osc 1 Pulse Width").Range(0.01, 0.99, 0.5).Modulatable().MustBuild(),
		param.Semitones("osc1Detune", "Osc 1 Detune", -24, 24, 0),
		param.Unit("osc1Level", "Osc 1 Level", 0.8),
		param.Bipolar("osc1Pan", "Osc 1 Pan", 0),

		param.Unit("osc2Shape", "Osc 2 Shape", 0),
		param.Bipolar("osc2Warp", "Osc 2 Warp", 0),
		param.NewBuilder("osc2PulseWidth", "Osc 2 Pulse Width").Range(0.01, 0.99, 0.5).Modulatable().MustBuild(),
		param.Semitones("osc2Detune", "Osc 2 Detune", -24, 24, 7),
		param.Unit("osc2Level", "Osc 2 Level", 0.0),
		param.Bipolar("osc2Pan", "Osc 2 Pan", 0),

		param.Toggle("subEnabled", "Sub Enabled", false),
		param.Unit("subLevel", "Sub Level", 0.5),
		param.Unit("noiseLevel", "Noise Level", 0.0),

		param.Choice("filterType", "Filter Type", 4, 0),
		param.Frequency("filterCutoff", "Filter Cutoff", 20, 20000, 2000),
		param.NewBuilder("filterResonance", "Filter Resonance").Range(0, 0.99, 0.1).Modulatable().MustBuild(),
		param.Bipolar("filterEnvAmount", "Filter Env Amount", 0),
		param.Bipolar("filterKeyTrack", "Filter Key Track", 0),
		param.Unit("filterVelTrack", "Filter Vel Track", 0),

		param.Seconds("filterEnvAttack", "Filter Env Attack", 0.01),
		param.Seconds("filterEnvDecay", "Filter Env Decay", 0.2),
		param.Unit("filterEnvSustain", "Filter Env Sustain", 0.5),
		param.Seconds("filterEnvRelease", "Filter Env Release", 0.3),

		param.Seconds("ampEnvAttack", "Amp Env Attack", 0.005),
		param.Seconds("ampEnvDecay", "Amp Env Decay", 0.15),
		param.Unit("ampEnvSustain", "Amp Env Sustain", 0.8),
		param.Seconds("ampEnvRelease", "Amp Env Release", 0.25),

		param.Choice("lfo1Waveform", "LFO 1 Waveform", 5, 0),
		param.NewBuilder("lfo1Rate", "LFO 1 Rate").Range(0.01, 20, 2).Format(param.FormatHertz).Modulatable().MustBuild(),
		param.Unit("lfo1Depth", "LFO 1 Depth", 0.5),
		param.Toggle("lfo1Bipolar", "LFO 1 Bipolar", true),

		param.Choice("lfo2Waveform", "LFO 2 Waveform", 5, 0),
		param.NewBuilder("lfo2Rate", "LFO 2 Rate").Range(0.01, 20, 4).Format(param.FormatHertz).Modulatable().MustBuild(),
		param.Unit("lfo2Depth", "LFO 2 Depth", 0.5),
		param.Toggle("lfo2Bipolar", "LFO 2 Bipolar", true),

		param.Toggle("fmEnabled", "FM Enabled", false),
		param.Choice("fmCarrierOsc", "FM Carrier Osc", 2, 0),
		param.Unit("fmDepth", "FM Depth", 0.3),
		param.NewBuilder("fmModulatorRatio", "FM Modulator Ratio").Range(0.25, 8, 1).MustBuild(),

		param.Choice("polyMode", "Polyphony Mode", 3, 0),
		param.Toggle("glideEnabled", "Glide Enabled", false),
		param.Seconds("glideTime", "Glide Time", 0.05),

		param.Semitones("masterTune", "Master Tune", -2, 2, 0),
		param.Unit("masterVolume", "Master Volume", 0.8),

		param.Unit("structure", "Structure", 0.5),
	}

	for slot := 0; slot < 16; slot++ {
		descs = append(descs,
			param.Choice(modParamID(slot, "Source"), "Mod Source", numModSources, 0),
			param.Choice(modParamID(slot, "Destination"), "Mod Destination", numModDestinations, 0),
			param.Bipolar(modParamID(slot, "Amount"), "Mod Amount", 0),
			param.Toggle(modParamID(slot, "Bipolar"), "Mod Bipolar", false),
			param.Choice(modParamID(slot, "Curve"), "Mod Curve", numModCurves, 0),
		)
	}

	for i := 0; i < 8; i++ {
		descs = append(descs, param.Unit(macroParamID(i), "Macro", 0))
	}

	return descs
}

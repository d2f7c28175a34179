package pm

import "github.com/driftwave/synthcore/pkg/param"

// Namespace returns the PM engine's full parameter descriptor set.
func Namespace() []param.Descriptor {
	return []param.Descriptor{
		param.Unit("masterVolume", "Master Volume", 0.8),
		param.Semitones("pitchBendRange", "Pitch Bend Range", 0, 24, 2),

		param.NewBuilder("stringLengthMeters", "String Length").Range(0.1, 2.0, 0.65).Format(param.FormatSeconds).MustBuild(),
		param.Unit("stringGauge", "String Gauge", 0.5),
		param.NewBuilder("damping", "Damping").Range(0.9, 0.9999, 0.995).Modulatable().MustBuild(),
		param.Unit("stiffness", "Stiffness", 0.2),
		param.Unit("brightness", "Brightness", 0.6),
		param.Unit("dispersion", "Dispersion", 0.3),
		param.Unit("nonlinearity", "Nonlinearity", 0.1),
		param.Unit("pickPosition", "Pick Position", 0.2),
		param.Unit("bridgeCoupling", "Bridge Coupling", 0.5),

		param.Choice("articulation", "Articulation", int(numArticulations), int(ArticulationPluck)),
		param.Unit("bowPressure", "Bow Pressure", 0.5),
		param.Unit("attackVelocity", "Attack Velocity", 1.0),

		param.Choice("bodyPreset", "Body Preset", int(numBodyPresets), int(BodyGuitar)),
		param.Choice("material", "Material", int(numMaterials), int(MaterialStandardwood)),
		param.Unit("bodyResonance", "Body Resonance", 0.5),

		param.Unit("sympatheticCoupling", "Sympathetic Coupling", 0.0),

		param.Choice("polyphony", "Polyphony", maxPolyphony, maxPolyphony-1),
	}
}

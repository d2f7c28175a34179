package fm

import (
	"fmt"

	"github.com/driftwave/synthcore/pkg/param"
)

func opParamID(op int, field string) string {
	return fmt.Sprintf("op%d%s", op+1, field)
}

func opEgParamID(op, segment int, field string) string {
	return fmt.Sprintf("op%d%s[%d]", op+1, field, segment)
}

// Namespace returns the FM engine's full parameter descriptor set,
// registered once at construction.
func Namespace() []param.Descriptor {
	descs := []param.Descriptor{
		param.Choice("algorithm", "Algorithm", 32, 0),
		param.Unit("masterVolume", "Master Volume", 0.8),
		param.NewBuilder("pitchBendRange", "Pitch Bend Range").Range(0, 24, 2).MustBuild(),
		param.Choice("polyphony", "Polyphony", maxPolyphony, maxPolyphony-1),
		param.Unit("structure", "Structure", 0.3),
		param.Unit("stereoWidth", "Stereo Width", 0.5),
		param.NewBuilder("stereoOperatorDetune", "Stereo Operator Detune").Range(0, 25, 4).MustBuild(),
		param.Unit("stereoOddEvenSeparation", "Stereo Odd/Even Separation", 0.5),
	}

	for op := 0; op < NumOperators; op++ {
		defaultLevel := float32(0)
		if op == 0 {
			defaultLevel = 1
		}
		defaultRatio := float32(op + 1)
		descs = append(descs,
			param.NewBuilder(opParamID(op, "Ratio"), "Operator Ratio").Range(0.5, 32, defaultRatio).MustBuild(),
			param.NewBuilder(opParamID(op, "Detune"), "Operator Detune").Range(-50, 50, 0).MustBuild(),
			param.Unit(opParamID(op, "Level"), "Operator Level", defaultLevel),
			param.Unit(opParamID(op, "Feedback"), "Operator Feedback", 0),
			param.Choice(opParamID(op, "Mode"), "Operator Mode", 2, 0),
		)
		// Four rate/level pairs (segments 0-3: attack, decay, sustain hold,
		// release), matching dsp.MultiSegmentEnvelope. op*EgRate[4..7] and
		// op*EgLevel[4..7] are not registered; a host addressing them sees
		// an unknown-id no-op rather than an error.
		for seg := 0; seg < 4; seg++ {
			descs = append(descs,
				param.NewBuilder(opEgParamID(op, seg, "EgRate"), "Operator EG Rate").Range(0, 99, defaultEgRate(seg)).MustBuild(),
				param.Unit(opEgParamID(op, seg, "EgLevel"), "Operator EG Level", defaultEgLevel(seg)),
			)
		}
	}

	return descs
}

func defaultEgRate(segment int) float32 {
	switch segment {
	case 0:
		return 99
	case 1:
		return 60
	case 2:
		return 40
	default:
		return 50
	}
}

func defaultEgLevel(segment int) float32 {
	switch segment {
	case 0:
		return 1
	case 1:
		return 0.8
	case 2:
		return 0.6
	default:
		return 0
	}
}

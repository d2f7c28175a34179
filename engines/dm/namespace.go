package dm

import (
	"fmt"

	"github.com/driftwave/synthcore/pkg/param"
)

// Namespace returns the DM engine's full parameter descriptor set.
func Namespace() []param.Descriptor {
	descs := []param.Descriptor{
		param.NewBuilder("tempo", "Tempo").Range(20, 300, 120).MustBuild(),
		param.Bipolar("swing", "Swing", 0),
		param.Unit("masterVolume", "Master Volume", 0.8),
		param.Choice("patternLength", "Pattern Length", MaxSteps, 15), // 0-indexed, default 16 steps

		param.NewBuilder("pocketOffset", "Pocket Offset").Range(-0.25, 0.25, 0).MustBuild(),
		param.NewBuilder("pushOffset", "Push Offset").Range(-0.25, 0.25, -0.08).MustBuild(),
		param.NewBuilder("pullOffset", "Pull Offset").Range(-0.25, 0.25, 0.08).MustBuild(),

		param.Unit("dillaAmount", "Dilla Amount", 0),
		param.Bipolar("dillaHatBias", "Dilla Hat Bias", 0),
		param.Unit("dillaSnareLate", "Dilla Snare Late", 0),
		param.Unit("dillaKickTight", "Dilla Kick Tight", 0.5),
		param.Unit("dillaMaxDrift", "Dilla Max Drift", 0.3),

		param.Unit("stereoWidth", "Stereo Width", 0.6),

		param.Unit("kickPitch", "Kick Pitch", 0.5),
		param.Unit("kickDecay", "Kick Decay", 0.4),
		param.Unit("kickClick", "Kick Click", 0.5),

		param.Unit("snareTone", "Snare Tone", 0.4),
		param.Unit("snareSnap", "Snare Snap", 0.5),
		param.Unit("snareDecay", "Snare Decay", 0.3),

		param.Unit("hatDecay", "Closed Hat Decay", 0.08),
		param.Unit("openHatDecay", "Open Hat Decay", 0.5),
		param.Unit("clapDecay", "Clap Decay", 0.3),

		param.Unit("tomPitch", "Tom Pitch", 0.5),
		param.Unit("tomDecay", "Tom Decay", 0.35),

		param.Unit("cymbalDecay", "Cymbal Decay", 0.5),
		param.Unit("cowbellTone", "Cowbell Tone", 0.5),

		param.Unit("rimDecay", "Rim Decay", 0.08),
		param.Unit("shakerDecay", "Shaker Decay", 0.12),
		param.Unit("tambourineDecay", "Tambourine Decay", 0.2),

		param.Unit("congaPitch", "Conga Pitch", 0.5),
		param.Unit("congaDecay", "Conga Decay", 0.25),
	}

	for t := 0; t < NumTracks; t++ {
		descs = append(descs,
			param.Unit(trackVolumeID(t), "Track Volume", 0.8),
			param.Bipolar(trackPanID(t), "Track Pan", 0),
		)
	}

	return descs
}

func trackVolumeID(t int) string { return fmt.Sprintf("trackVolume[%d]", t) }
func trackPanID(t int) string    { return fmt.Sprintf("trackPan[%d]", t) }

package pm

import "github.com/driftwave/synthcore/pkg/dsp"

// Material biases the body resonator bank's Q: softer materials damp faster,
// and their damping rises more steeply with mode frequency; metal rings
// longest and brightest.
type Material int

const (
	MaterialSoftwood Material = iota
	MaterialStandardwood
	MaterialHardwood
	MaterialMetal
	numMaterials
)

func clampMaterial(m int) Material {
	if m < 0 || m >= int(numMaterials) {
		return MaterialStandardwood
	}
	return Material(m)
}

// BodyPreset selects the body's modal frequency/amplitude table.
type BodyPreset int

const (
	BodyGuitar BodyPreset = iota
	BodyPiano
	BodyOrchestral
	numBodyPresets
)

func clampBodyPreset(b int) BodyPreset {
	if b < 0 || b >= int(numBodyPresets) {
		return BodyGuitar
	}
	return BodyPreset(b)
}

type bodyMode struct {
	frequency, amplitude float64
}

var bodyModeTables = map[BodyPreset][]bodyMode{
	BodyGuitar: {
		{100, 1.0}, {204, 0.7}, {325, 0.5}, {530, 0.35}, {850, 0.2},
	},
	BodyPiano: {
		{60, 1.0}, {150, 0.6}, {280, 0.55}, {440, 0.4}, {720, 0.3}, {1100, 0.2},
	},
	BodyOrchestral: {
		{90, 0.9}, {175, 0.8}, {310, 0.6}, {480, 0.45}, {690, 0.3},
	},
}

// bandwidthFor estimates a mode's -3dB bandwidth in Hz from its frequency and
// the body material, which sets the resulting Q of the modal resonator.
func bandwidthFor(frequency float64, material Material) float64 {
	var materialFactor, freqScale float64
	switch material {
	case MaterialSoftwood:
		materialFactor = 1.6
		freqScale = 1.0 + frequency/2000.0
	case MaterialHardwood:
		materialFactor = 0.6
		freqScale = 1.0 + frequency/4000.0
	case MaterialMetal:
		materialFactor = 0.25
		freqScale = 1.0 + frequency/9000.0
	default: // MaterialStandardwood
		materialFactor = 1.0
		freqScale = 1.0 + frequency/3000.0
	}
	return frequency * 0.05 * materialFactor * freqScale
}

// BodyBank is an engine-owned bank of resonant biquads driven by the summed
// bridge signal from every active voice, modeling the instrument's acoustic
// body as a small set of ringing modes.
type BodyBank struct {
	filters []dsp.Biquad
}

// Configure (re)builds the bank for the given preset/material at sampleRate.
func (b *BodyBank) Configure(preset BodyPreset, material Material, sampleRate float64) {
	modes := bodyModeTables[preset]
	b.filters = make([]dsp.Biquad, len(modes))
	for i, m := range modes {
		bw := bandwidthFor(m.frequency, material)
		q := m.frequency / bw
		b.filters[i].SetModeCoefficients(m.frequency, q, m.amplitude, sampleRate)
	}
}

// Process runs the bridge input through every mode and sums the result.
func (b *BodyBank) Process(input float64) float64 {
	sum := 0.0
	for i := range b.filters {
		sum += b.filters[i].Process(input)
	}
	return sum
}

// Reset clears every mode's filter state.
func (b *BodyBank) Reset() {
	for i := range b.filters {
		b.filters[i].Reset()
	}
}

package fm

import "github.com/driftwave/synthcore/pkg/param"

// operatorParams is one operator's block-rate parameter snapshot.
type operatorParams struct {
	ratio, detune, level, feedback float64
	fixedHz                        bool
	egRate                         [4]float64
	egLevel                        [4]float64
}

// blockParams is the FM engine's block-rate parameter snapshot, read once
// per block rather than per sample.
type blockParams struct {
	algorithm               int
	masterVolume            float64
	pitchBendRange          float64
	polyphony               int
	structure               float64
	stereoWidth             float64
	stereoOperatorDetune    float64
	stereoOddEvenSeparation float64
	operators               [NumOperators]operatorParams
}

func readBlockParams(store *param.Store) blockParams {
	get := func(id string) float64 { return float64(store.Get(id)) }
	getInt := func(id string) int { return int(store.Get(id) + 0.5) }

	b := blockParams{
		algorithm:               getInt("algorithm"),
		masterVolume:            get("masterVolume"),
		pitchBendRange:          get("pitchBendRange"),
		polyphony:               getInt("polyphony") + 1,
		structure:               get("structure"),
		stereoWidth:             get("stereoWidth"),
		stereoOperatorDetune:    get("stereoOperatorDetune"),
		stereoOddEvenSeparation: get("stereoOddEvenSeparation"),
	}
	if b.algorithm < 0 || b.algorithm > 31 {
		b.algorithm = 0
	}
	if b.polyphony < 1 {
		b.polyphony = 1
	}
	if b.polyphony > maxPolyphony {
		b.polyphony = maxPolyphony
	}

	for op := 0; op < NumOperators; op++ {
		o := &b.operators[op]
		o.ratio = get(opParamID(op, "Ratio"))
		o.detune = get(opParamID(op, "Detune"))
		o.level = get(opParamID(op, "Level"))
		o.feedback = get(opParamID(op, "Feedback"))
		o.fixedHz = getInt(opParamID(op, "Mode")) == 1
		for seg := 0; seg < 4; seg++ {
			o.egRate[seg] = get(opEgParamID(op, seg, "EgRate"))
			o.egLevel[seg] = get(opEgParamID(op, seg, "EgLevel"))
		}
	}
	return b
}

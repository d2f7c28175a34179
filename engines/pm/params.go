package pm

import "github.com/driftwave/synthcore/pkg/param"

// blockParams is the PM engine's block-rate parameter snapshot.
type blockParams struct {
	masterVolume   float64
	pitchBendRange float64

	stringLengthMeters float64
	stringGauge        float64
	damping            float64
	stiffness          float64
	brightness         float64
	dispersion         float64
	nonlinearity       float64
	pickPosition       float64
	bridgeCoupling     float64

	articulation   Articulation
	bowPressure    float64
	attackVelocity float64

	bodyPreset    BodyPreset
	material      Material
	bodyResonance float64

	sympatheticCoupling float64

	polyphony int
}

func readBlockParams(store *param.Store) blockParams {
	get := func(id string) float64 { return float64(store.Get(id)) }
	getInt := func(id string) int { return int(store.Get(id) + 0.5) }

	return blockParams{
		masterVolume:        get("masterVolume"),
		pitchBendRange:      get("pitchBendRange"),
		stringLengthMeters:  get("stringLengthMeters"),
		stringGauge:         get("stringGauge"),
		damping:             get("damping"),
		stiffness:           get("stiffness"),
		brightness:          get("brightness"),
		dispersion:          get("dispersion"),
		nonlinearity:        get("nonlinearity"),
		pickPosition:        get("pickPosition"),
		bridgeCoupling:      get("bridgeCoupling"),
		articulation:        clampArticulation(getInt("articulation")),
		bowPressure:         get("bowPressure"),
		attackVelocity:      get("attackVelocity"),
		bodyPreset:          clampBodyPreset(getInt("bodyPreset")),
		material:            clampMaterial(getInt("material")),
		bodyResonance:       get("bodyResonance"),
		sympatheticCoupling: get("sympatheticCoupling"),
		polyphony:           getInt("polyphony") + 1,
	}
}

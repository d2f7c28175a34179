package dm

import "github.com/driftwave/synthcore/pkg/param"

// voiceParams holds every voice-kind-specific tuning knob, read once per
// block and indexed by VoiceKind at trigger time.
type voiceParams struct {
	kickPitch, kickDecay, kickClick float64
	snareTone, snareSnap, snareDecay float64
	hatDecay, openHatDecay, clapDecay float64
	tomPitch, tomDecay float64
	cymbalDecay, cowbellTone float64
	rimDecay, shakerDecay, tambourineDecay float64
	congaPitch, congaDecay float64
}

// blockParams is the DM engine's block-rate parameter snapshot.
type blockParams struct {
	tempo         float64
	swing         float64
	masterVolume  float64
	patternLength int

	pocketOffset float64
	pushOffset   float64
	pullOffset   float64

	dillaAmount    float64
	dillaHatBias   float64
	dillaSnareLate float64
	dillaKickTight float64
	dillaMaxDrift  float64

	stereoWidth float64

	voice voiceParams

	trackVolume [NumTracks]float64
	trackPan    [NumTracks]float64
}

func readBlockParams(store *param.Store) blockParams {
	get := func(id string) float64 { return float64(store.Get(id)) }
	getInt := func(id string) int { return int(store.Get(id) + 0.5) }

	b := blockParams{
		tempo:          get("tempo"),
		swing:          get("swing"),
		masterVolume:   get("masterVolume"),
		patternLength:  getInt("patternLength") + 1,
		pocketOffset:   get("pocketOffset"),
		pushOffset:     get("pushOffset"),
		pullOffset:     get("pullOffset"),
		dillaAmount:    get("dillaAmount"),
		dillaHatBias:   get("dillaHatBias"),
		dillaSnareLate: get("dillaSnareLate"),
		dillaKickTight: get("dillaKickTight"),
		dillaMaxDrift:  get("dillaMaxDrift"),
		stereoWidth:    get("stereoWidth"),
	}
	if b.tempo <= 0 {
		b.tempo = 120
	}
	if b.patternLength < 1 {
		b.patternLength = 1
	}
	if b.patternLength > MaxSteps {
		b.patternLength = MaxSteps
	}

	b.voice = voiceParams{
		kickPitch: get("kickPitch"), kickDecay: get("kickDecay"), kickClick: get("kickClick"),
		snareTone: get("snareTone"), snareSnap: get("snareSnap"), snareDecay: get("snareDecay"),
		hatDecay: get("hatDecay"), openHatDecay: get("openHatDecay"), clapDecay: get("clapDecay"),
		tomPitch: get("tomPitch"), tomDecay: get("tomDecay"),
		cymbalDecay: get("cymbalDecay"), cowbellTone: get("cowbellTone"),
		rimDecay: get("rimDecay"), shakerDecay: get("shakerDecay"), tambourineDecay: get("tambourineDecay"),
		congaPitch: get("congaPitch"), congaDecay: get("congaDecay"),
	}

	for t := 0; t < NumTracks; t++ {
		b.trackVolume[t] = get(trackVolumeID(t))
		b.trackPan[t] = get(trackPanID(t))
	}
	return b
}

// stepDurSamples returns one sixteenth note's duration in samples at the
// block's tempo.
func (b blockParams) stepDurSamples(sampleRate float64) float64 {
	stepDurSeconds := 60.0 / b.tempo / 4.0
	return stepDurSeconds * sampleRate
}

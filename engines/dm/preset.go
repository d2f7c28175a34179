package dm

import "encoding/json"

type stepJSON struct {
	Trigger  bool    `json:"trigger"`
	Velocity float64 `json:"velocity"`
	Micro    float64 `json:"micro"`
}

type patternJSON struct {
	Tracks [][]stepJSON `json:"tracks"`
	Kinds  []int        `json:"kinds"`
	Roles  []int        `json:"roles"`
}

// encodePattern serializes the pattern into the DM-specific "pattern" field
// of a preset document.
func encodePattern(p *Pattern) (json.RawMessage, error) {
	doc := patternJSON{
		Tracks: make([][]stepJSON, NumTracks),
		Kinds:  make([]int, NumTracks),
		Roles:  make([]int, NumTracks),
	}
	for t := 0; t < NumTracks; t++ {
		track := p.Tracks[t]
		doc.Kinds[t] = int(track.Kind)
		doc.Roles[t] = int(track.Role)
		steps := make([]stepJSON, MaxSteps)
		for s := 0; s < MaxSteps; s++ {
			steps[s] = stepJSON{
				Trigger:  track.Steps[s].Trigger,
				Velocity: track.Steps[s].Velocity,
				Micro:    track.Steps[s].Micro,
			}
		}
		doc.Tracks[t] = steps
	}
	return json.Marshal(doc)
}

// decodePattern rebuilds a Pattern from a preset document's "pattern" field.
// A missing/empty field decodes to a fresh default pattern rather than an
// error, so presets saved before a pattern existed still load.
func decodePattern(raw json.RawMessage) (*Pattern, error) {
	if len(raw) == 0 {
		return NewPattern(), nil
	}
	var doc patternJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	p := NewPattern()
	for t := 0; t < NumTracks && t < len(doc.Tracks); t++ {
		kind := Kick
		if t < len(doc.Kinds) {
			kind = clampVoiceKind(doc.Kinds[t])
		}
		p.Tracks[t].Kind = kind
		p.Tracks[t].Role = defaultRole(kind)
		if t < len(doc.Roles) {
			p.Tracks[t].Role = TimingRole(doc.Roles[t])
		}
		for s := 0; s < MaxSteps && s < len(doc.Tracks[t]); s++ {
			st := doc.Tracks[t][s]
			p.Tracks[t].Steps[s] = StepEvent{
				Trigger:  st.Trigger,
				Velocity: clamp01(st.Velocity),
				Micro:    clampSigned(st.Micro),
			}
		}
	}
	return p, nil
}

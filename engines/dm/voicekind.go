package dm

// VoiceKind selects which dedicated synthesiser a drum voice uses.
type VoiceKind int

const (
	Kick VoiceKind = iota
	AltKick
	Snare
	AltSnare
	ClosedHat
	OpenHat
	Clap
	Tom1
	Tom2
	Tom3
	Crash
	Ride
	Cowbell
	Rim
	Shaker
	Tambourine
	Conga
	numVoiceKinds
)

func clampVoiceKind(k int) VoiceKind {
	if k < 0 || k >= int(numVoiceKinds) {
		return Kick
	}
	return VoiceKind(k)
}

// category groups voice kinds by the synthesis method they share.
type category int

const (
	categoryMembrane category = iota
	categoryNoiseBurst
	categoryMetallic
)

var kindCategory = [numVoiceKinds]category{
	Kick: categoryMembrane, AltKick: categoryMembrane,
	Tom1: categoryMembrane, Tom2: categoryMembrane, Tom3: categoryMembrane,
	Conga: categoryMembrane,

	Snare: categoryNoiseBurst, AltSnare: categoryNoiseBurst,
	Clap: categoryNoiseBurst, Rim: categoryNoiseBurst,
	Shaker: categoryNoiseBurst, Tambourine: categoryNoiseBurst,

	ClosedHat: categoryMetallic, OpenHat: categoryMetallic,
	Crash: categoryMetallic, Ride: categoryMetallic, Cowbell: categoryMetallic,
}

// TimingRole is a track's default groove treatment.
type TimingRole int

const (
	RolePocket TimingRole = iota
	RolePush
	RolePull
)

// defaultRole returns the conventional timing role for a voice kind (spec:
// kick/toms→Pocket, snare/clap→Pull, hi-hat/shaker→Push).
func defaultRole(kind VoiceKind) TimingRole {
	switch kind {
	case Snare, AltSnare, Clap, Rim, Tambourine:
		return RolePull
	case ClosedHat, OpenHat, Shaker, Crash, Ride, Cowbell:
		return RolePush
	default:
		return RolePocket
	}
}

func isHatLike(kind VoiceKind) bool {
	return kind == ClosedHat || kind == OpenHat || kind == Shaker
}

func isSnareLike(kind VoiceKind) bool {
	return kind == Snare || kind == AltSnare || kind == Clap
}

func isKickLike(kind VoiceKind) bool {
	return kind == Kick || kind == AltKick
}

// kindToNote maps a voice kind to a General-MIDI-style note starting at 36,
// the convention external NoteOn events use to select a drum voice.
func kindToNote(kind VoiceKind) int8 { return int8(36 + int(kind)) }

func noteToKind(note int8) VoiceKind {
	idx := int(note) - 36
	if idx < 0 {
		idx = 0
	}
	idx %= int(numVoiceKinds)
	return VoiceKind(idx)
}

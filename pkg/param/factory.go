package param

// Common descriptor factories for the repeated parameter shapes every
// engine namespace needs.

// Unit builds a 0..1 continuous parameter (levels, mix amounts, macros).
func Unit(id, name string, def float32) Descriptor {
	return NewBuilder(id, name).Range(0, 1, def).Modulatable().MustBuild()
}

// Bipolar builds a -1..1 continuous parameter (pan, mod-matrix amount,
// WARP).
func Bipolar(id, name string, def float32) Descriptor {
	return NewBuilder(id, name).Range(-1, 1, def).Modulatable().MustBuild()
}

// Frequency builds a Hz-ranged continuous parameter.
func Frequency(id, name string, min, max, def float32) Descriptor {
	return NewBuilder(id, name).Range(min, max, def).Format(FormatHertz).Modulatable().MustBuild()
}

// Seconds builds a time parameter in the ADSR stage domain [0.0001, 10].
func Seconds(id, name string, def float32) Descriptor {
	return NewBuilder(id, name).Range(0.0001, 10, def).Format(FormatSeconds).Modulatable().MustBuild()
}

// Choice builds an integer-stepped selector parameter with numChoices
// values indexed from 0.
func Choice(id, name string, numChoices int, def int) Descriptor {
	return NewBuilder(id, name).Range(0, float32(numChoices-1), float32(def)).Stepped().MustBuild()
}

// Toggle builds a 0/1 stepped boolean parameter.
func Toggle(id, name string, def bool) Descriptor {
	defVal := float32(0)
	if def {
		defVal = 1
	}
	return NewBuilder(id, name).Range(0, 1, defVal).Stepped().MustBuild()
}

// Semitones builds a detune-style parameter in semitones.
func Semitones(id, name string, min, max, def float32) Descriptor {
	return NewBuilder(id, name).Range(min, max, def).Format(FormatSemitones).Modulatable().MustBuild()
}

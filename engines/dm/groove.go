package dm

import "github.com/driftwave/synthcore/pkg/dsp"

// grooveSeed is the fixed base seed for the Dilla drift PRNG; the pattern
// itself has no user-settable seed, so every pattern's drift stream is
// reproducible from (bar, step, track) alone.
const grooveSeed uint64 = 0x44494c4c41 // "DILLA" in hex digits

// fireSample computes the sample-accurate fire time (in absolute transport
// samples) for track t's global step index g, applying the groove pipeline
// in strict order: base grid, swing, timing role, Dilla drift, and the
// step's own manual micro-timing nudge.
func fireSample(t int, g int64, step StepEvent, track Track, p blockParams, stepDurSamples float64) float64 {
	base := float64(g) * stepDurSamples

	patternLength := p.patternLength
	if patternLength <= 0 {
		patternLength = 16
	}
	stepInBar := int(g % int64(patternLength))
	bar := g / int64(patternLength)

	swung := base
	if stepInBar%2 == 1 {
		swung += p.swing * stepDurSamples * 0.5
	}

	var roleFraction float64
	switch track.Role {
	case RolePush:
		roleFraction = p.pushOffset
	case RolePull:
		roleFraction = p.pullOffset
	default:
		roleFraction = p.pocketOffset
	}
	roled := swung + roleFraction*stepDurSamples

	seed := dsp.HashSeed(grooveSeed, int(bar), stepInBar, t)
	r := dsp.NewRand(seed)
	driftFraction := r.Signed() * p.dillaAmount

	switch {
	case isHatLike(track.Kind):
		driftFraction -= p.dillaHatBias * p.dillaAmount
	case isSnareLike(track.Kind):
		driftFraction += p.dillaSnareLate * p.dillaAmount
	}
	if isKickLike(track.Kind) {
		driftFraction *= 1.0 - p.dillaKickTight
	}
	driftFraction = dsp.Clamp(driftFraction, -p.dillaMaxDrift, p.dillaMaxDrift)

	drifted := roled + driftFraction*stepDurSamples

	return drifted + step.Micro*stepDurSamples
}

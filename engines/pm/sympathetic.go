package pm

import "github.com/driftwave/synthcore/pkg/dsp"

// sympatheticRatios are the frequency ratios (relative to the most recently
// triggered note) the sympathetic string bank retunes itself to, chosen to
// approximate a handful of unison/octave resonances rather than a full
// instrument's open strings.
var sympatheticRatios = [4]float64{0.995, 1.0, 1.005, 2.0}

type sympatheticString struct {
	delay      *dsp.DelayLine
	loopFilter dsp.OnePoleLowpass
	delaySamples float64
}

// SympatheticBank is a small set of always-resonating strings excited only
// by the shared bridge signal, never directly plucked; it adds the faint
// ringing-along coloration real stringed instruments exhibit.
type SympatheticBank struct {
	strings [4]sympatheticString
}

// NewSympatheticBank allocates delay lines sized for the lowest representable
// frequency at sampleRate.
func NewSympatheticBank(sampleRate float64) *SympatheticBank {
	cap := int(sampleRate/20.0) + 8
	b := &SympatheticBank{}
	for i := range b.strings {
		b.strings[i].delay = dsp.NewDelayLine(cap)
		b.strings[i].loopFilter.SetCutoff(4000, sampleRate)
	}
	return b
}

// Retune re-centers every sympathetic string around frequency, called on
// every note-on so the bank tracks whatever was most recently played.
func (b *SympatheticBank) Retune(frequency, sampleRate float64) {
	for i := range b.strings {
		f := frequency * sympatheticRatios[i]
		if f < 20 {
			f = 20
		}
		delay := sampleRate / f
		maxDelay := float64(b.strings[i].delay.Capacity() - 4)
		if delay > maxDelay {
			delay = maxDelay
		}
		b.strings[i].delaySamples = delay
	}
}

// Process advances every string by one sample, driven by bridgeInput scaled
// by coupling, and returns their summed output.
func (b *SympatheticBank) Process(bridgeInput, coupling float64) float64 {
	sum := 0.0
	for i := range b.strings {
		s := &b.strings[i]
		out := s.delay.ReadFractional(s.delaySamples)
		damped := s.loopFilter.Process(out) * 0.999
		s.delay.Push(dsp.FiniteOr(damped+bridgeInput*coupling*0.3, 0))
		sum += out
	}
	return sum * coupling
}

// Reset silences every sympathetic string.
func (b *SympatheticBank) Reset() {
	for i := range b.strings {
		b.strings[i].delay.Reset()
		b.strings[i].loopFilter.Reset()
	}
}

package va

import (
	"fmt"

	"github.com/driftwave/synthcore/pkg/dsp"
	"github.com/driftwave/synthcore/pkg/preset"
)

func macroParamID(index int) string {
	return fmt.Sprintf("macroValue[%d]", index)
}

// MacroBank is the VA engine's eight macro controls. Each macro
// additively offsets up to four destination parameters, on top of
// whatever value the control path wrote there directly.
//
// Offsets returns a separate map owned by the bank rather than writing into the ParameterStore
// directly: a parameter changed both by the control path and by
// modulation uses the control value as the base and modulation as an
// additive offset, which only holds if the base value in the store is
// never itself mutated by the offset — otherwise a second block would add
// the offset again on top of the first block's already-offset value and
// drift without bound.
type MacroBank struct {
	Macros [8]preset.Macro

	offsets map[string]float64
}

// NewMacroBank creates eight empty, unnamed macros.
func NewMacroBank() *MacroBank {
	b := &MacroBank{offsets: make(map[string]float64, 32)}
	for i := range b.Macros {
		b.Macros[i] = preset.Macro{Name: fmt.Sprintf("Macro %d", i+1)}
	}
	return b
}

// Offsets recomputes each destination parameter's additive macro offset for
// the current macro values into the bank's own preallocated map, keyed by
// parameter id, and returns it. The returned map is owned by the bank and
// reused on the next call; callers must not retain it across blocks.
// Destinations routed by more than one macro accumulate.
func (b *MacroBank) Offsets() map[string]float64 {
	for k := range b.offsets {
		delete(b.offsets, k)
	}
	for i := range b.Macros {
		m := &b.Macros[i]
		for _, d := range m.Destinations {
			if d.ParamID == "" {
				continue
			}
			b.offsets[d.ParamID] += dsp.Lerp(float64(d.Min), float64(d.Max), float64(m.Value)) * float64(d.Amount)
		}
	}
	return b.offsets
}

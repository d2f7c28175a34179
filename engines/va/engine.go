// Package va implements the Virtual-Analog synthesis core: dual PolyBLEP
// oscillators, a sub-oscillator, noise, a state-variable filter, two ADSR
// envelopes, two LFOs, a 16-slot modulation matrix, and eight macros,
// behind the shared InstrumentEngine contract.
package va

import (
	"encoding/json"
	"fmt"

	"github.com/driftwave/synthcore/pkg/dsp"
	"github.com/driftwave/synthcore/pkg/engine"
	"github.com/driftwave/synthcore/pkg/eventqueue"
	"github.com/driftwave/synthcore/pkg/param"
	"github.com/driftwave/synthcore/pkg/preset"
	"github.com/driftwave/synthcore/pkg/voice"
)

const (
	engineName    = "Virtual Analog"
	engineVersion = "v1.0"
	maxPolyphony  = 16
)

// Engine is the VA InstrumentEngine implementation.
type Engine struct {
	store *param.Store
	pool  *voice.Pool
	voices []*vaVoice

	graph *Graph
	macro *MacroBank

	queue *eventqueue.Queue

	sampleRate float64
	blockSize  int32
	prepared   bool

	modWheel   float64
	pitchWheel float64
	aftertouch float64

	macroOffsets map[string]float64
	block        blockParams

	diagnostics engine.Diagnostics

	stealScratch []int
}

// New constructs an unprepared VA engine with its parameter namespace
// registered and default routing (empty mod matrix, empty macros).
func New() *Engine {
	e := &Engine{
		store: param.NewStore(),
		graph: &Graph{},
		macro: NewMacroBank(),
		queue: eventqueue.New(),
	}
	if err := e.store.RegisterAll(Namespace()...); err != nil {
		panic(fmt.Sprintf("va: namespace registration: %v", err))
	}
	return e
}

var _ engine.InstrumentEngine = (*Engine)(nil)

func (e *Engine) Prepare(desc engine.BlockDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	e.sampleRate = desc.SampleRate
	e.blockSize = desc.BlockSize
	e.queue.SetBlockSize(desc.BlockSize)

	if e.pool == nil {
		e.pool = voice.NewPool(maxPolyphony)
		e.voices = make([]*vaVoice, maxPolyphony)
		for i := range e.voices {
			e.voices[i] = newVoice(e.sampleRate, uint64(i+1)*0x2545F4914F6CDD1D)
		}
		e.stealScratch = make([]int, 0, maxPolyphony)
	} else {
		for _, v := range e.voices {
			v.filter.SetSampleRate(e.sampleRate)
			v.ampEnv.SampleRate = e.sampleRate
			v.filterEnv.SampleRate = e.sampleRate
		}
	}
	e.prepared = true
	return nil
}

func (e *Engine) Reset() {
	if e.pool == nil {
		return
	}
	e.pool.Reset()
	for _, v := range e.voices {
		v.reset()
	}
	e.queue.Reset()
}

func (e *Engine) HandleEvent(evt eventqueue.Event) {
	e.queue.Push(evt.ClampOffset(e.blockSize))
}

func (e *Engine) Process(outputs [][]float32, numSamples int32) {
	if !e.prepared || e.pool == nil {
		for _, ch := range outputs {
			for i := range ch {
				ch[i] = 0
			}
		}
		e.diagnostics.ProcessBeforePrepare++
		return
	}

	e.queue.BeginBlock()
	e.macroOffsets = e.macro.Offsets()
	e.block = readBlockParams(e.store, e.macroOffsets)
	for _, v := range e.voices {
		v.configureLFOs(e.block)
	}
	e.pool.Advance(uint64(numSamples))

	left := outputs[0]
	var right []float32
	stereo := len(outputs) > 1
	if stereo {
		right = outputs[1]
	}

	e.queue.EachRun(numSamples, func(run eventqueue.Run) {
		e.renderRun(left, right, stereo, run)
	}, func(evts []eventqueue.Event) {
		for _, evt := range evts {
			e.applyEvent(evt)
		}
	})

	e.queue.Clear()
}

func (e *Engine) renderRun(left, right []float32, stereo bool, run eventqueue.Run) {
	var src Sources
	var dest Destinations

	for i := run.Start; i < run.End; i++ {
		mixL, mixR := 0.0, 0.0
		for slot := range e.voices {
			v := e.voices[slot]
			if !v.isActive() && v.stealFadeStep == 0 {
				continue
			}
			src.LFO1 = v.lfo1.Next()
			src.LFO2 = v.lfo2.Next()
			src.FilterEnv = v.filterEnv.Value()
			src.AmpEnv = v.ampEnv.Value()
			src.Velocity = v.velocity
			src.Aftertouch = e.aftertouch
			src.PitchWheel = e.pitchWheel
			src.ModWheel = e.modWheel
			for m := 0; m < 8; m++ {
				src.Macros[m] = float64(e.macro.Macros[m].Value)
			}
			e.graph.Evaluate(src, &dest)
			v.applyLFOModulation(e.block, dest)

			sample := v.renderSample(e.block, dest, e.sampleRate)

			if !v.isActive() && v.isSilent() {
				e.pool.Free(slot)
			}

			if stereo {
				lg, rg := dsp.Pan(float64(e.block.osc1Pan))
				mixL += sample * lg
				mixR += sample * rg
			} else {
				mixL += sample
			}
		}

		vol := float64(e.block.masterVolume)
		left[i] = float32(dsp.SoftClip(mixL * vol))
		if stereo {
			right[i] = float32(dsp.SoftClip(mixR * vol))
		}
	}
}

func (e *Engine) applyEvent(evt eventqueue.Event) {
	switch evt.Type {
	case eventqueue.TypeNoteOn:
		e.noteOn(evt.NoteOn.MIDINote, evt.NoteOn.Velocity, evt.NoteOn.Channel)
	case eventqueue.TypeNoteOff:
		e.noteOff(evt.NoteOff.MIDINote, evt.NoteOff.Channel)
	case eventqueue.TypeCC:
		if evt.CC.Controller == 1 {
			e.modWheel = float64(evt.CC.Value)
		}
	case eventqueue.TypePitchBend:
		e.pitchWheel = float64(evt.PitchBend.Semitones) / maxFloat(float64(evt.PitchBend.Range), 1)
	case eventqueue.TypeAftertouch:
		e.aftertouch = float64(evt.Aftertouch.Value)
	case eventqueue.TypeAllNotesOff:
		e.allNotesOff()
	default:
		// Unknown event types are dropped silently.
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// polyMode values per the namespace's "polyMode" choice parameter.
const (
	polyModePoly = iota
	polyModeMono
	polyModeLegato
)

func (e *Engine) noteOn(midiNote int8, velocity float32, channel int8) {
	freq := dsp.NoteToFrequency(int(midiNote), 0)

	if e.block.polyMode != polyModePoly {
		const monoSlot = 0
		wasSounding := e.voices[monoSlot].isActive()
		legato := e.block.polyMode == polyModeLegato && wasSounding
		e.pool.Assign(monoSlot, int32(midiNote), channel, midiNote)
		e.voices[monoSlot].trigger(midiNote, float64(velocity), freq, legato, e.block.glideEnabled, false, e.sampleRate)
		return
	}

	idx, stolen := e.pool.Allocate(int32(midiNote), channel, midiNote, func(i int) bool { return e.voices[i].isSilent() })
	e.voices[idx].trigger(midiNote, float64(velocity), freq, false, e.block.glideEnabled, stolen, e.sampleRate)
}

func (e *Engine) noteOff(midiNote int8, channel int8) {
	e.stealScratch = e.pool.Release(int32(midiNote), channel, e.stealScratch)
	for _, idx := range e.stealScratch {
		e.voices[idx].release()
	}
}

func (e *Engine) allNotesOff() {
	e.stealScratch = e.pool.ReleaseAll(e.stealScratch)
	for _, idx := range e.stealScratch {
		e.voices[idx].release()
	}
}

func (e *Engine) SetParameter(id string, value float32) { e.store.Set(id, value) }
func (e *Engine) GetParameter(id string) float32         { return e.store.Get(id) }

func (e *Engine) ActiveVoiceCount() int {
	if e.pool == nil {
		return 0
	}
	return e.pool.ActiveCount()
}

func (e *Engine) MaxPolyphony() int { return maxPolyphony }
func (e *Engine) Name() string      { return engineName }
func (e *Engine) Version() string   { return engineVersion }

func (e *Engine) SavePreset() ([]byte, error) {
	doc := preset.Document{
		Engine:     "va",
		Version:    engineVersion,
		Parameters: e.store.Snapshot(),
		Macros:     e.macro.Macros[:],
	}
	for _, slot := range e.graph.Slots {
		doc.ModMatrix = append(doc.ModMatrix, preset.ModSlot{
			Source: int(slot.Source), Destination: int(slot.Destination),
			Amount: slot.Amount, Bipolar: slot.Bipolar, Curve: int(slot.Curve),
		})
	}
	return preset.Encode(doc)
}

func (e *Engine) LoadPreset(data []byte) error {
	doc, err := preset.Decode(data, "va", engineVersion)
	if err != nil {
		e.diagnostics.PresetLoadFailures++
		return err
	}

	var newGraph Graph
	for i, ms := range doc.ModMatrix {
		if i >= 16 {
			break
		}
		src, dst := ModSource(ms.Source), ModDestination(ms.Destination)
		if src < 0 || src >= numModSources || dst < 0 || dst >= numModDestinations {
			continue // unknown source/destination loads as None
		}
		newGraph.Slots[i] = ModSlot{Source: src, Destination: dst, Amount: ms.Amount, Bipolar: ms.Bipolar, Curve: ModCurve(ms.Curve), Active: true}
	}

	var newMacros [8]preset.Macro
	for i, m := range doc.Macros {
		if i >= 8 {
			break
		}
		newMacros[i] = m
	}

	e.store.ApplySnapshot(doc.Parameters)
	e.graph = &newGraph
	e.macro.Macros = newMacros

	if e.pool != nil {
		e.pool.Reset()
		for _, v := range e.voices {
			v.reset()
		}
	}
	return nil
}

// MarshalModSlot is exposed for tests constructing preset documents
// without depending on encoding/json field ordering.
func MarshalModSlot(s ModSlot) ([]byte, error) {
	return json.Marshal(preset.ModSlot{
		Source: int(s.Source), Destination: int(s.Destination),
		Amount: s.Amount, Bipolar: s.Bipolar, Curve: int(s.Curve),
	})
}

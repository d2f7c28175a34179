// Package pm implements the physical-model string synthesis core: a
// fractional-delay waveguide with loop damping and dispersion, driven by a
// selectable exciter (pluck, bow, scrape, harmonic, damp), coupled through a
// shared bridge bus into a modal body resonator and an optional sympathetic
// string bank, behind the shared InstrumentEngine contract.
package pm

import (
	"github.com/driftwave/synthcore/pkg/dsp"
	"github.com/driftwave/synthcore/pkg/engine"
	"github.com/driftwave/synthcore/pkg/eventqueue"
	"github.com/driftwave/synthcore/pkg/param"
	"github.com/driftwave/synthcore/pkg/preset"
	"github.com/driftwave/synthcore/pkg/voice"
)

const (
	engineName    = "Physical Model"
	engineVersion = "v1.0"
	maxPolyphony  = 6
)

// Engine is the PM InstrumentEngine implementation.
type Engine struct {
	store *param.Store
	pool  *voice.Pool
	voices []*pmVoice

	body        BodyBank
	sympathetic *SympatheticBank

	configuredBody     BodyPreset
	configuredMaterial Material
	prevBridge         float64

	queue *eventqueue.Queue

	sampleRate float64
	blockSize  int32
	prepared   bool

	pitchWheel float64

	block blockParams

	diagnostics engine.Diagnostics

	stealScratch []int
}

// New constructs an unprepared PM engine with its parameter namespace
// registered.
func New() *Engine {
	e := &Engine{
		store: param.NewStore(),
		queue: eventqueue.New(),
	}
	if err := e.store.RegisterAll(Namespace()...); err != nil {
		panic("pm: namespace registration: " + err.Error())
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
		e.voices = make([]*pmVoice, maxPolyphony)
		for i := range e.voices {
			e.voices[i] = newVoice(e.sampleRate, uint64(i+1)*0x2545F4914F6CDD1D)
		}
		e.sympathetic = NewSympatheticBank(e.sampleRate)
		e.stealScratch = make([]int, 0, maxPolyphony)
	} else {
		for _, v := range e.voices {
			v.delay = dsp.NewDelayLine(int(e.sampleRate/20.0) + 8)
		}
		e.sympathetic = NewSympatheticBank(e.sampleRate)
	}
	e.configuredBody = BodyPreset(-1)
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
	e.sympathetic.Reset()
	e.body.Reset()
	e.prevBridge = 0
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
	e.block = readBlockParams(e.store)
	if e.block.bodyPreset != e.configuredBody || e.block.material != e.configuredMaterial {
		e.body.Configure(e.block.bodyPreset, e.block.material, e.sampleRate)
		e.configuredBody = e.block.bodyPreset
		e.configuredMaterial = e.block.material
	}
	e.pool.Advance(uint64(numSamples))

	left := outputs[0]
	var right []float32
	stereo := len(outputs) > 1
	if stereo {
		right = outputs[1]
	}

	e.queue.EachRun(numSamples, func(run eventqueue.Run) {
		for i := run.Start; i < run.End; i++ {
			mix := 0.0
			bridgeSum := 0.0
			for slot := range e.voices {
				v := e.voices[slot]
				if !v.isActive() && v.stealFadeStep == 0 {
					continue
				}
				sample, bridge := v.renderSample(e.block, e.prevBridge, e.sampleRate)
				if !v.isActive() && v.isSilent() {
					e.pool.Free(slot)
				}
				mix += sample
				bridgeSum += bridge
			}

			bodyOut := e.body.Process(bridgeSum) * e.block.bodyResonance
			sympOut := e.sympathetic.Process(e.prevBridge, e.block.sympatheticCoupling)
			e.prevBridge = dsp.SoftClip(bridgeSum)

			total := (mix + bodyOut + sympOut) * e.block.masterVolume
			left[i] = float32(dsp.SoftClip(total))
			if stereo {
				right[i] = float32(dsp.SoftClip(total))
			}
		}
	}, func(evts []eventqueue.Event) {
		for _, evt := range evts {
			e.applyEvent(evt)
		}
	})

	e.queue.Clear()
}

func (e *Engine) applyEvent(evt eventqueue.Event) {
	switch evt.Type {
	case eventqueue.TypeNoteOn:
		e.noteOn(evt.NoteOn.MIDINote, evt.NoteOn.Velocity, evt.NoteOn.Channel)
	case eventqueue.TypeNoteOff:
		e.noteOff(evt.NoteOff.MIDINote, evt.NoteOff.Channel)
	case eventqueue.TypePitchBend:
		e.pitchWheel = float64(evt.PitchBend.Semitones) / maxFloat(float64(evt.PitchBend.Range), 1)
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

func (e *Engine) noteOn(midiNote int8, velocity float32, channel int8) {
	bendRatio := dsp.SemitonesToRatio(e.pitchWheel * e.block.pitchBendRange)
	freq := dsp.NoteToFrequency(int(midiNote), 0) * bendRatio

	idx, stolen := e.pool.Allocate(int32(midiNote), channel, midiNote, func(i int) bool { return e.voices[i].isSilent() })
	e.voices[idx].trigger(midiNote, float64(velocity), freq, e.block.articulation, e.sampleRate, stolen)
	e.sympathetic.Retune(freq, e.sampleRate)
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
		Engine:     "pm",
		Version:    engineVersion,
		Parameters: e.store.Snapshot(),
	}
	return preset.Encode(doc)
}

func (e *Engine) LoadPreset(data []byte) error {
	doc, err := preset.Decode(data, "pm", engineVersion)
	if err != nil {
		e.diagnostics.PresetLoadFailures++
		return err
	}
	e.store.ApplySnapshot(doc.Parameters)
	if e.pool != nil {
		e.pool.Reset()
		for _, v := range e.voices {
			v.reset()
		}
		e.sympathetic.Reset()
		e.body.Reset()
		e.prevBridge = 0
	}
	return nil
}

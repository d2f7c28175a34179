// Package fm implements the FM synthesis core: six sinusoidal operators
// routed through one of 32 fixed modulation-matrix algorithms, each with
// its own 8-segment DX7-style envelope, behind the shared InstrumentEngine
// contract.
package fm

import (
	"github.com/driftwave/synthcore/pkg/dsp"
	"github.com/driftwave/synthcore/pkg/engine"
	"github.com/driftwave/synthcore/pkg/eventqueue"
	"github.com/driftwave/synthcore/pkg/param"
	"github.com/driftwave/synthcore/pkg/preset"
	"github.com/driftwave/synthcore/pkg/voice"
)

const (
	engineName    = "FM"
	engineVersion = "v1.0"
	maxPolyphony  = 16
)

// Engine is the FM InstrumentEngine implementation.
type Engine struct {
	store *param.Store
	pool  *voice.Pool
	voices []*fmVoice

	queue *eventqueue.Queue

	sampleRate float64
	blockSize  int32
	prepared   bool

	pitchWheel float64 // normalized -1..1, scaled by pitchBendRange at render time

	block blockParams

	diagnostics engine.Diagnostics

	stealScratch []int
}

// New constructs an unprepared FM engine with its parameter namespace
// registered.
func New() *Engine {
	e := &Engine{
		store: param.NewStore(),
		queue: eventqueue.New(),
	}
	if err := e.store.RegisterAll(Namespace()...); err != nil {
		panic("fm: namespace registration: " + err.Error())
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
		e.voices = make([]*fmVoice, maxPolyphony)
		for i := range e.voices {
			e.voices[i] = newVoice(e.sampleRate)
		}
		e.stealScratch = make([]int, 0, maxPolyphony)
	} else {
		for _, v := range e.voices {
			for _, op := range v.operators {
				op.env.SampleRate = e.sampleRate
			}
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
	e.block = readBlockParams(e.store)
	for _, v := range e.voices {
		for i, op := range v.operators {
			op.configure(e.block.operators[i])
		}
	}
	e.pool.Advance(uint64(numSamples))

	left := outputs[0]
	var right []float32
	stereo := len(outputs) > 1
	if stereo {
		right = outputs[1]
	}

	algo := Algorithms[e.block.algorithm]
	pitchBendRatio := dsp.SemitonesToRatio(e.pitchWheel * e.block.pitchBendRange)

	e.queue.EachRun(numSamples, func(run eventqueue.Run) {
		for i := run.Start; i < run.End; i++ {
			mixL, mixR := 0.0, 0.0
			for slot := range e.voices {
				v := e.voices[slot]
				if !v.isActive() && v.stealFadeStep == 0 {
					continue
				}
				l, r := v.renderSample(e.block, algo, pitchBendRatio, e.sampleRate, stereo)
				if !v.isActive() && v.isSilent() {
					e.pool.Free(slot)
				}
				mixL += l
				mixR += r
			}
			vol := e.block.masterVolume
			left[i] = float32(dsp.SoftClip(mixL * vol))
			if stereo {
				right[i] = float32(dsp.SoftClip(mixR * vol))
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
	freq := dsp.NoteToFrequency(int(midiNote), 0)
	idx, stolen := e.pool.Allocate(int32(midiNote), channel, midiNote, func(i int) bool { return e.voices[i].isSilent() })
	e.voices[idx].trigger(midiNote, float64(velocity), freq, stolen, e.sampleRate)
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
		Engine:     "fm",
		Version:    engineVersion,
		Parameters: e.store.Snapshot(),
	}
	return preset.Encode(doc)
}

func (e *Engine) LoadPreset(data []byte) error {
	doc, err := preset.Decode(data, "fm", engineVersion)
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
	}
	return nil
}

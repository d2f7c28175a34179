// Package dm implements the drum machine synthesis core: a 16-track step
// sequencer with a deterministic Pocket/Push/Pull/Dilla groove pipeline
// driving a bank of 17 dedicated percussion voice synthesisers, behind the
// shared InstrumentEngine contract.
package dm

import (
	"github.com/driftwave/synthcore/pkg/dsp"
	"github.com/driftwave/synthcore/pkg/engine"
	"github.com/driftwave/synthcore/pkg/eventqueue"
	"github.com/driftwave/synthcore/pkg/param"
	"github.com/driftwave/synthcore/pkg/preset"
	"github.com/driftwave/synthcore/pkg/voice"
)

const (
	engineName    = "Drum Machine"
	engineVersion = "v1.0"
	maxPolyphony  = 16
)

// Engine is the DM InstrumentEngine implementation.
type Engine struct {
	store *param.Store
	pool  *voice.Pool
	voices []*dmVoice

	pattern *Pattern

	queue *eventqueue.Queue

	sampleRate float64
	blockSize  int32
	prepared   bool

	block blockParams

	samplePosition int64
	nextStep       [NumTracks]int64

	diagnostics engine.Diagnostics

	stealScratch []int
	noteSeq      int32
}

// New constructs an unprepared DM engine with its parameter namespace
// registered and an empty default pattern.
func New() *Engine {
	e := &Engine{
		store:   param.NewStore(),
		queue:   eventqueue.New(),
		pattern: NewPattern(),
	}
	if err := e.store.RegisterAll(Namespace()...); err != nil {
		panic("dm: namespace registration: " + err.Error())
	}
	return e
}

var _ engine.InstrumentEngine = (*Engine)(nil)

// Pattern exposes the engine's step lattice for track/step configuration.
func (e *Engine) Pattern() *Pattern { return e.pattern }

func (e *Engine) Prepare(desc engine.BlockDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	e.sampleRate = desc.SampleRate
	e.blockSize = desc.BlockSize
	e.queue.SetBlockSize(desc.BlockSize)

	if e.pool == nil {
		e.pool = voice.NewPool(maxPolyphony)
		e.voices = make([]*dmVoice, maxPolyphony)
		for i := range e.voices {
			e.voices[i] = newVoice(uint64(i+1) * 0x2545F4914F6CDD1D)
		}
		e.stealScratch = make([]int, 0, maxPolyphony)
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
	e.samplePosition = 0
	for i := range e.nextStep {
		e.nextStep[i] = 0
	}
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
	e.scheduleSteps(numSamples)
	e.queue.Sort()
	e.pool.Advance(uint64(numSamples))

	left := outputs[0]
	var right []float32
	stereo := len(outputs) > 1
	if stereo {
		right = outputs[1]
	}

	e.queue.EachRun(numSamples, func(run eventqueue.Run) {
		for i := run.Start; i < run.End; i++ {
			mixL, mixR := 0.0, 0.0
			for slot := range e.voices {
				v := e.voices[slot]
				if !v.isActive() && v.stealFadeStep == 0 {
					continue
				}
				sample := v.renderSample(e.sampleRate)
				if !v.isActive() {
					e.pool.Free(slot)
				}
				if stereo {
					pan := dsp.Clamp(v.pan*e.block.stereoWidth, -1, 1)
					lg, rg := dsp.Pan(pan)
					mixL += sample * lg
					mixR += sample * rg
				} else {
					mixL += sample
				}
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
	e.samplePosition += int64(numSamples)
}

// scheduleSteps walks every track's cursor forward, pushing any step whose
// drifted fire time now falls inside [samplePosition, samplePosition+numSamples)
// as a synthetic NoteOn event, and deferring anything landing later.
func (e *Engine) scheduleSteps(numSamples int32) {
	stepDur := e.block.stepDurSamples(e.sampleRate)
	if stepDur <= 0 {
		return
	}
	blockStart := float64(e.samplePosition)
	blockEnd := float64(e.samplePosition + int64(numSamples))
	margin := stepDur * 2.5

	for t := 0; t < NumTracks; t++ {
		track := e.pattern.Tracks[t]
		for {
			g := e.nextStep[t]
			nominal := float64(g) * stepDur
			if nominal-margin >= blockEnd {
				break
			}

			stepInBar := int(g % int64(e.block.patternLength))
			step := track.Steps[stepInBar]

			if !step.Trigger {
				e.nextStep[t]++
				continue
			}

			fire := fireSample(t, g, step, track, e.block, stepDur)
			if fire >= blockEnd {
				break
			}

			offset := fire - blockStart
			if offset < 0 {
				offset = 0
			}
			if offset >= float64(numSamples) {
				offset = float64(numSamples) - 1
			}

			evt := eventqueue.Event{
				Type:         eventqueue.TypeNoteOn,
				SampleOffset: int32(offset),
			}
			evt.NoteOn.MIDINote = kindToNote(track.Kind)
			evt.NoteOn.Velocity = float32(step.Velocity)
			evt.NoteOn.Channel = int8(t)
			e.queue.Push(evt)

			e.nextStep[t]++
		}
	}
}

func (e *Engine) applyEvent(evt eventqueue.Event) {
	switch evt.Type {
	case eventqueue.TypeNoteOn:
		e.noteOn(evt.NoteOn.MIDINote, evt.NoteOn.Velocity, evt.NoteOn.Channel)
	case eventqueue.TypeNoteOff:
		// Drum voices free-run their own decay; note-off is a no-op.
	case eventqueue.TypeAllNotesOff:
		e.allNotesOff()
	default:
		// Unknown event types are dropped silently.
	}
}

func (e *Engine) noteOn(midiNote int8, velocity float32, channel int8) {
	kind := noteToKind(midiNote)
	track := 0
	if channel >= 0 && int(channel) < NumTracks {
		track = int(channel)
	}

	vel := float64(velocity) * e.block.trackVolume[track]
	pan := e.block.trackPan[track]

	e.noteSeq++
	idx, stolen := e.pool.Allocate(e.noteSeq, channel, midiNote, func(i int) bool { return e.voices[i].isSilent() })
	e.voices[idx].trigger(kind, vel, pan, e.block.voice, e.sampleRate, stolen)
}

func (e *Engine) allNotesOff() {
	for _, v := range e.voices {
		v.reset()
	}
	e.pool.Reset()
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
		Engine:     "dm",
		Version:    engineVersion,
		Parameters: e.store.Snapshot(),
	}
	patternJSON, err := encodePattern(e.pattern)
	if err != nil {
		return nil, err
	}
	doc.Pattern = patternJSON
	return preset.Encode(doc)
}

func (e *Engine) LoadPreset(data []byte) error {
	doc, err := preset.Decode(data, "dm", engineVersion)
	if err != nil {
		e.diagnostics.PresetLoadFailures++
		return err
	}

	newPattern, err := decodePattern(doc.Pattern)
	if err != nil {
		e.diagnostics.PresetLoadFailures++
		return err
	}

	e.store.ApplySnapshot(doc.Parameters)
	e.pattern = newPattern

	if e.pool != nil {
		e.pool.Reset()
		for _, v := range e.voices {
			v.reset()
		}
	}
	for i := range e.nextStep {
		e.nextStep[i] = 0
	}
	e.samplePosition = 0
	return nil
}

// Package voice implements the voice-pool allocation and stealing policy
// shared by all four synthesis engines. Each engine's audio-thread state is
// confined to a single thread, so this pool owns only allocation
// bookkeeping (index, note identity, age, lifecycle state) and needs no
// lock; each engine keeps its own parallel slice of per-voice DSP state
// (oscillators, filters, envelopes) indexed by the same slot index as the
// pool.
package voice

// StealFadeSeconds is the fade duration used when a sounding slot is
// reassigned to a new note (~5-10ms). The new note's output fades in
// linearly from zero over this many seconds; the previous note's output is
// not ramped down, it stops when the slot is reassigned.
const StealFadeSeconds = 0.008

// State is a voice slot's lifecycle stage.
type State int

const (
	StateFree State = iota
	StateActive
	StateReleasing
)

// Slot is one entry in the pool: note identity plus the bookkeeping the
// stealing policy needs. It carries no DSP state; the owning engine
// indexes its own per-voice arrays with Slot.Index.
type Slot struct {
	State      State
	NoteID     int32
	Channel    int8
	Key        int8
	AgeSamples uint64
}

// Pool is a fixed-size array of voice slots with first-fit allocation and a
// three-phase stealing policy: prefer a slot already in release whose
// envelope has decayed below the silence floor, then the oldest releasing
// slot by AgeSamples, then the oldest active slot.
type Pool struct {
	slots []Slot
}

// NewPool allocates a pool of the given fixed polyphony. Called only from
// Prepare.
func NewPool(maxVoices int) *Pool {
	return &Pool{slots: make([]Slot, maxVoices)}
}

// Len returns the pool's fixed capacity.
func (p *Pool) Len() int {
	return len(p.slots)
}

// Slot returns a pointer to slot i for the engine to inspect or mutate
// lifecycle fields directly (e.g. after deciding its envelope went
// silent).
func (p *Pool) Slot(i int) *Slot {
	return &p.slots[i]
}

// Advance increments every occupied slot's age by numSamples. Call once
// per Process block before evaluating new note-on events, so age reflects
// "samples since triggered" for the oldest-wins tiebreak.
func (p *Pool) Advance(numSamples uint64) {
	for i := range p.slots {
		if p.slots[i].State != StateFree {
			p.slots[i].AgeSamples += numSamples
		}
	}
}

// SilenceFn reports whether the DSP state at slot index i has decayed
// below the engine's silence threshold. Engines supply this as a closure
// over their own per-voice envelope/level state.
type SilenceFn func(index int) bool

// Allocate finds a slot for a new note: a free slot first, then a
// releasing slot already silent, then a releasing slot regardless of
// level, then the oldest active slot. It never returns an invalid index:
// every engine has at least one voice. stolen reports whether the returned
// slot held a sounding voice; the caller then fades the new note in over
// StealFadeSeconds.
func (p *Pool) Allocate(noteID int32, channel, key int8, isSilent SilenceFn) (index int, stolen bool) {
	for i := range p.slots {
		if p.slots[i].State == StateFree {
			p.initialize(i, noteID, channel, key)
			return i, false
		}
	}

	if idx, ok := p.findSilentReleasing(isSilent); ok {
		p.initialize(idx, noteID, channel, key)
		return idx, false
	}

	if idx, ok := p.oldestByState(StateReleasing); ok {
		p.initialize(idx, noteID, channel, key)
		return idx, true
	}

	idx, _ := p.oldestByState(StateActive)
	p.initialize(idx, noteID, channel, key)
	return idx, true
}

func (p *Pool) findSilentReleasing(isSilent SilenceFn) (int, bool) {
	for i := range p.slots {
		if p.slots[i].State == StateReleasing && isSilent(i) {
			return i, true
		}
	}
	return 0, false
}

func (p *Pool) oldestByState(state State) (int, bool) {
	best, bestAge := -1, uint64(0)
	for i := range p.slots {
		if p.slots[i].State != state {
			continue
		}
		if best == -1 || p.slots[i].AgeSamples >= bestAge {
			best, bestAge = i, p.slots[i].AgeSamples
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// Assign forces slot i to hold a new note, bypassing the normal
// free/steal search. Used by mono/legato voice modes, which always
// address slot 0 regardless of what it currently holds.
func (p *Pool) Assign(i int, noteID int32, channel, key int8) {
	p.initialize(i, noteID, channel, key)
}

func (p *Pool) initialize(i int, noteID int32, channel, key int8) {
	p.slots[i] = Slot{
		State:      StateActive,
		NoteID:     noteID,
		Channel:    channel,
		Key:        key,
		AgeSamples: 0,
	}
}

// Release transitions every active slot matching noteID/channel into
// StateReleasing. Returns the matched indices so the caller can release
// its own envelope state; more than one voice can match in unison-layered
// engines, so this does not stop at the first hit.
func (p *Pool) Release(noteID int32, channel int8, out []int) []int {
	out = out[:0]
	for i := range p.slots {
		if p.slots[i].State == StateActive && p.slots[i].NoteID == noteID && p.slots[i].Channel == channel {
			p.slots[i].State = StateReleasing
			out = append(out, i)
		}
	}
	return out
}

// ReleaseAll transitions every active slot to releasing, for sustain
// pedal lift, MIDI All Notes Off, or a mono/legato mode change.
func (p *Pool) ReleaseAll(out []int) []int {
	out = out[:0]
	for i := range p.slots {
		if p.slots[i].State == StateActive {
			p.slots[i].State = StateReleasing
			out = append(out, i)
		}
	}
	return out
}

// Free marks slot i free. The engine calls this once its envelope/level at
// i has fully decayed past the silence threshold.
func (p *Pool) Free(i int) {
	p.slots[i] = Slot{}
}

// Reset frees every slot, for a full engine Reset call.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = Slot{}
	}
}

// ActiveCount returns how many slots are not free (active or releasing),
// the value an engine reports as its ActiveVoiceCount.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].State != StateFree {
			n++
		}
	}
	return n
}

// FindByNote returns the index of an active (non-releasing) slot matching
// noteID/channel, for legato/glide retrigger decisions, or -1.
func (p *Pool) FindByNote(noteID int32, channel int8) int {
	for i := range p.slots {
		if p.slots[i].State == StateActive && p.slots[i].NoteID == noteID && p.slots[i].Channel == channel {
			return i
		}
	}
	return -1
}

package eventqueue

import "sort"

// DefaultCapacity is the number of events a Queue preallocates for in
// Prepare. It comfortably covers a dense block of MIDI + automation traffic
// without ever growing the backing slice inside process().
const DefaultCapacity = 256

// Queue is a per-block ordered sequence of Events. It is filled by
// handleEvent() calls between process() invocations and drained by the next
// process() call; it is the audio thread's exclusive structure
// (single-writer/single-reader by construction: only the thread calling
// handleEvent/process touches it).
type Queue struct {
	events   []Event
	pending  []Event // events deferred past blockSize from the prior block
	blockSize int32
}

// New creates an empty, preallocated Queue.
func New() *Queue {
	return &Queue{events: make([]Event, 0, DefaultCapacity)}
}

// SetBlockSize records the current block size so Push can defer offsets
// that fall at or past it to the following block.
func (q *Queue) SetBlockSize(blockSize int32) {
	q.blockSize = blockSize
}

// Push enqueues an event for the current or a following block. Events with
// SampleOffset < 0 are clamped to 0; events with SampleOffset >= blockSize
// are deferred to the block that will contain them. Push never
// allocates on the steady-state path unless the preallocated capacity is
// exceeded, which only happens under pathological event storms.
func (q *Queue) Push(e Event) {
	if e.SampleOffset < 0 {
		e.SampleOffset = 0
	}
	if q.blockSize > 0 && e.SampleOffset >= q.blockSize {
		e.SampleOffset -= q.blockSize
		q.pending = append(q.pending, e)
		return
	}
	q.events = append(q.events, e)
}

// BeginBlock folds in any events deferred from the previous block (their
// offsets were already rebased against the prior blockSize in Push) and
// must be called once per process() before reading events. It is the only
// point where pending events migrate into the live queue.
func (q *Queue) BeginBlock() {
	if len(q.pending) > 0 {
		q.events = append(q.events, q.pending...)
		q.pending = q.pending[:0]
	}
	q.sortStable()
}

// sortStable orders events non-decreasingly by SampleOffset, ties resolved
// in submission order. sort.SliceStable
// preserves submission order among equal offsets.
func (q *Queue) sortStable() {
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].SampleOffset < q.events[j].SampleOffset
	})
}

// Sort re-establishes non-decreasing SampleOffset order. Callers that push
// events into the queue after BeginBlock (e.g. a sequencer scheduling its
// own steps for the block) must call this before EachRun, or the cursor it
// walks will see an out-of-order offset and misbehave.
func (q *Queue) Sort() {
	q.sortStable()
}

// Events returns the current block's sorted events. The returned slice is
// only valid until the next Clear or Push call.
func (q *Queue) Events() []Event {
	return q.events
}

// Len returns the number of events scheduled for the current block.
func (q *Queue) Len() int { return len(q.events) }

// Clear empties the queue after process() has consumed it, without
// releasing the backing array.
func (q *Queue) Clear() {
	q.events = q.events[:0]
}

// Reset empties both the live and pending queues (used by reset()).
func (q *Queue) Reset() {
	q.events = q.events[:0]
	q.pending = q.pending[:0]
}

// Run is one contiguous sub-range [Start, End) of a block with no events
// inside it; EachRun partitions a block at every distinct event offset so
// the caller can render audio for each run, then apply the events at its
// boundary, and so on, giving sample-accurate event handling.
type Run struct {
	Start, End int32
}

// EachRun invokes visit once per contiguous run covering [0, numSamples),
// and invokes applyEvents with the events sharing each run-ending offset
// before the following run is visited. The first run always starts at 0;
// the last run always ends at numSamples, even if no events fall inside
// the block.
func (q *Queue) EachRun(numSamples int32, visitRun func(Run), applyEvents func(events []Event)) {
	events := q.events
	cursor := int32(0)
	i := 0
	for cursor < numSamples {
		next := numSamples
		if i < len(events) && events[i].SampleOffset < next {
			next = events[i].SampleOffset
		}
		if next > cursor {
			visitRun(Run{Start: cursor, End: next})
		}
		cursor = next

		if i >= len(events) {
			continue
		}
		j := i
		for j < len(events) && events[j].SampleOffset == cursor {
			j++
		}
		if j > i {
			applyEvents(events[i:j])
			i = j
		}
		if cursor == numSamples {
			break
		}
	}
	// Any events exactly at numSamples (shouldn't happen after clamping,
	// but defensive) are silently dropped; Push() already defers offsets
	// >= blockSize to the following block.
}

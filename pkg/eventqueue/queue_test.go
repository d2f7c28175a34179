package eventqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushSortsBySampleOffsetStable(t *testing.T) {
	q := New()
	q.SetBlockSize(512)
	q.Push(Event{Type: TypeNoteOn, SampleOffset: 100, NoteOn: NoteOnPayload{MIDINote: 1}})
	q.Push(Event{Type: TypeNoteOn, SampleOffset: 10, NoteOn: NoteOnPayload{MIDINote: 2}})
	q.Push(Event{Type: TypeNoteOn, SampleOffset: 10, NoteOn: NoteOnPayload{MIDINote: 3}})
	q.BeginBlock()

	events := q.Events()
	require.Len(t, events, 3)
	require.Equal(t, int32(10), events[0].SampleOffset)
	require.Equal(t, int8(2), events[0].NoteOn.MIDINote, "ties resolve in submission order")
	require.Equal(t, int8(3), events[1].NoteOn.MIDINote)
	require.Equal(t, int32(100), events[2].SampleOffset)
}

func TestPushClampsNegativeOffsetToZero(t *testing.T) {
	q := New()
	q.SetBlockSize(512)
	q.Push(Event{Type: TypeNoteOn, SampleOffset: -5})
	q.BeginBlock()
	require.Equal(t, int32(0), q.Events()[0].SampleOffset)
}

func TestPushDefersOffsetPastBlockSize(t *testing.T) {
	q := New()
	q.SetBlockSize(512)
	q.Push(Event{Type: TypeNoteOn, SampleOffset: 600})
	q.BeginBlock()
	require.Equal(t, 0, q.Len(), "event past blockSize should be deferred, not in this block")

	q.BeginBlock() // the deferred event arrives in the following block
	require.Equal(t, 1, q.Len())
}

func TestEachRunCoversWholeBlockWithNoEvents(t *testing.T) {
	q := New()
	q.SetBlockSize(256)
	q.BeginBlock()

	var runs []Run
	q.EachRun(256, func(r Run) { runs = append(runs, r) }, func([]Event) {})
	require.Equal(t, []Run{{Start: 0, End: 256}}, runs)
}

func TestEachRunPartitionsAtEventOffsets(t *testing.T) {
	q := New()
	q.SetBlockSize(256)
	q.Push(Event{Type: TypeNoteOn, SampleOffset: 100})
	q.BeginBlock()

	var runs []Run
	var applied int
	q.EachRun(256, func(r Run) { runs = append(runs, r) }, func(evts []Event) { applied += len(evts) })

	require.Equal(t, []Run{{Start: 0, End: 100}, {Start: 100, End: 256}}, runs)
	require.Equal(t, 1, applied)
}

func TestClearEmptiesQueue(t *testing.T) {
	q := New()
	q.SetBlockSize(256)
	q.Push(Event{Type: TypeNoteOn, SampleOffset: 0})
	q.BeginBlock()
	q.Clear()
	require.Equal(t, 0, q.Len())
}

func TestClampOffsetNegativeGoesToZero(t *testing.T) {
	e := Event{SampleOffset: -10}.ClampOffset(256)
	require.Equal(t, int32(0), e.SampleOffset)
}

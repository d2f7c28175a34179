package pm

import (
	"math"
	"testing"

	"github.com/driftwave/synthcore/pkg/engine"
	"github.com/driftwave/synthcore/pkg/eventqueue"
	"github.com/stretchr/testify/require"
)

func prepared(t *testing.T) *Engine {
	t.Helper()
	e := New()
	require.NoError(t, e.Prepare(engine.BlockDescriptor{SampleRate: 48000, BlockSize: 512, NumChannels: 2, Format: engine.FormatPlanar}))
	return e
}

func runBlocks(e *Engine, numSamples int32, blockSize int32) [][]float32 {
	left := make([]float32, numSamples)
	right := make([]float32, numSamples)
	for start := int32(0); start < numSamples; start += blockSize {
		n := blockSize
		if start+n > numSamples {
			n = numSamples - start
		}
		bl := make([]float32, n)
		br := make([]float32, n)
		e.Process([][]float32{bl, br}, n)
		copy(left[start:start+n], bl)
		copy(right[start:start+n], br)
	}
	return [][]float32{left, right}
}

func peakDb(buf []float32) float64 {
	var peak float32
	for _, s := range buf {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak <= 0 {
		return -300.0
	}
	return 20 * math.Log10(float64(peak))
}

func TestProcessBeforePrepareWritesZeros(t *testing.T) {
	e := New()
	left := []float32{1, 1, 1}
	right := []float32{1, 1, 1}
	e.Process([][]float32{left, right}, 3)
	for _, v := range left {
		require.Equal(t, float32(0), v)
	}
}

func TestPluckDecaysFromLoudAttackToSilence(t *testing.T) {
	e := prepared(t)
	e.SetParameter("articulation", float32(ArticulationPluck))
	e.SetParameter("damping", 0.995)

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 48, Velocity: 1.0}})

	attack := runBlocks(e, 2400, 512) // first 50ms
	require.Greater(t, peakDb(attack[0]), -6.0)

	for _, ch := range attack {
		for _, s := range ch {
			require.False(t, math.IsNaN(float64(s)))
			require.False(t, math.IsInf(float64(s), 0))
		}
	}

	tail := runBlocks(e, int32(1*48000), 512) // samples from 50ms to ~1.05s
	for _, ch := range tail {
		for _, s := range ch {
			require.False(t, math.IsNaN(float64(s)))
			require.False(t, math.IsInf(float64(s), 0))
		}
	}

	far := runBlocks(e, 48000, 512) // samples from ~1.05s to ~2.05s
	require.Less(t, peakDb(far[0]), -30.0)
}

func TestVoiceStealingAtPolyphonyLimit(t *testing.T) {
	e := prepared(t)
	require.Equal(t, 6, e.MaxPolyphony())

	for n := int8(40); n < 48; n++ { // 8 notes, over the 6-voice cap
		e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: n, Velocity: 0.7}})
		runBlocks(e, 480, 512)
	}
	require.Equal(t, 6, e.ActiveVoiceCount())

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 90, Velocity: 0.7}})
	runBlocks(e, 480, 512)

	require.LessOrEqual(t, e.ActiveVoiceCount(), e.MaxPolyphony())
}

func TestPresetRoundTrip(t *testing.T) {
	e := prepared(t)
	e.SetParameter("damping", 0.998)
	e.SetParameter("stiffness", 0.4)
	e.SetParameter("bodyPreset", float32(BodyOrchestral))

	data, err := e.SavePreset()
	require.NoError(t, err)

	e2 := prepared(t)
	require.NoError(t, e2.LoadPreset(data))

	for _, id := range []string{"damping", "stiffness", "bodyPreset"} {
		require.Equal(t, e.GetParameter(id), e2.GetParameter(id))
	}
}

func TestLoadPresetRejectsWrongEngine(t *testing.T) {
	e := prepared(t)
	err := e.LoadPreset([]byte(`{"engine":"va","version":"v1.0","parameters":{}}`))
	require.Error(t, err)
}

func TestResetIsIdempotent(t *testing.T) {
	e := prepared(t)
	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 48, Velocity: 0.8}})
	runBlocks(e, 512, 512)
	e.Reset()
	e.Reset()
	require.Equal(t, 0, e.ActiveVoiceCount())
}

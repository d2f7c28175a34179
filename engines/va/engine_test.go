package va

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

func peakAbs(buf []float32) float32 {
	var peak float32
	for _, s := range buf {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	return peak
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

func TestSawFilterSweepProducesAudibleOutput(t *testing.T) {
	e := prepared(t)
	e.SetParameter("osc1Shape", 0) // saw
	e.SetParameter("filterType", 0)
	e.SetParameter("filterCutoff", 500)
	e.SetParameter("filterResonance", 0.3)

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 0.8}})

	out := runBlocks(e, 4800, 512) // first 100ms at 48kHz
	peak := peakAbs(out[0])
	peakDb := 20 * math.Log10(float64(peak))
	require.Greater(t, peakDb, -18.0)

	for _, ch := range out {
		for _, s := range ch {
			require.False(t, math.IsNaN(float64(s)))
			require.False(t, math.IsInf(float64(s), 0))
			require.LessOrEqual(t, s, float32(1.0))
			require.GreaterOrEqual(t, s, float32(-1.0))
		}
	}
}

func TestVoiceStealingAtPolyphonyLimit(t *testing.T) {
	e := prepared(t)
	require.Equal(t, 16, e.MaxPolyphony())

	for n := int8(60); n < 76; n++ { // 16 notes: 60..75
		e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: n, Velocity: 0.7}})
		runBlocks(e, 480, 512) // ~10ms
	}
	require.Equal(t, 16, e.ActiveVoiceCount())

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 91, Velocity: 0.7}})
	runBlocks(e, 480, 512)

	require.LessOrEqual(t, e.ActiveVoiceCount(), e.MaxPolyphony())
}

func TestAllLevelsZeroYieldsSilence(t *testing.T) {
	e := prepared(t)
	e.SetParameter("osc1Level", 0)
	e.SetParameter("osc2Level", 0)
	e.SetParameter("subLevel", 0)
	e.SetParameter("noiseLevel", 0)

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 1.0}})
	out := runBlocks(e, 4800, 512)

	peak := peakAbs(out[0])
	peakDb := -200.0
	if peak > 0 {
		peakDb = 20 * math.Log10(float64(peak))
	}
	require.Less(t, peakDb, -80.0)
}

func TestNoteOffEventuallyReturnsToZeroVoices(t *testing.T) {
	e := prepared(t)
	e.SetParameter("ampEnvRelease", 0.1)
	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 0.8}})
	runBlocks(e, 4800, 512)
	require.Equal(t, 1, e.ActiveVoiceCount())

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOff, SampleOffset: 0, NoteOff: eventqueue.NoteOffPayload{MIDINote: 60}})
	runBlocks(e, int32(2*48000), 512) // release(0.1s) + 1s margin well covered by 2s
	require.Equal(t, 0, e.ActiveVoiceCount())
}

func TestPresetRoundTrip(t *testing.T) {
	e := prepared(t)
	e.SetParameter("osc1Shape", 0.3)
	e.SetParameter("filterCutoff", 1234)
	e.SetParameter("masterVolume", 0.6)

	data, err := e.SavePreset()
	require.NoError(t, err)

	e2 := prepared(t)
	require.NoError(t, e2.LoadPreset(data))

	for _, id := range []string{"osc1Shape", "filterCutoff", "masterVolume"} {
		require.Equal(t, e.GetParameter(id), e2.GetParameter(id))
	}
}

func TestLoadPresetRejectsWrongEngine(t *testing.T) {
	e := prepared(t)
	err := e.LoadPreset([]byte(`{"engine":"fm","version":"v1.0","parameters":{}}`))
	require.Error(t, err)
}

func TestResetIsIdempotent(t *testing.T) {
	e := prepared(t)
	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 0.8}})
	runBlocks(e, 512, 512)
	e.Reset()
	e.Reset()
	require.Equal(t, 0, e.ActiveVoiceCount())
}

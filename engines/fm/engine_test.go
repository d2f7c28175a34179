package fm

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

func peakDb(buf []float32) float64 {
	peak := peakAbs(buf)
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

// configureBellAlgorithm isolates operators 0 and 1 into a single two-op
// chain (op0 modulates op1, op1 carries) by cutting every other boundary in
// the chain-grouping mask, leaving operators 2..5 as silent standalone
// carriers at their default zero level.
func configureBellAlgorithm(e *Engine) {
	const twoOpChainMask = 30 // 0b11110: keep boundary 0..1 joined, cut the rest
	e.SetParameter("algorithm", float32(twoOpChainMask))
	e.SetParameter("op1Ratio", 2.0)
	e.SetParameter("op1Level", 0.9)
	e.SetParameter("op2Ratio", 1.0)
	e.SetParameter("op2Level", 1.0)
	// Fast attack, long decay to sustain 0, so the bell rings out and dies.
	for _, op := range []int{0, 1} {
		e.SetParameter(opEgParamID(op, 0, "EgRate"), 99)
		e.SetParameter(opEgParamID(op, 0, "EgLevel"), 1.0)
		e.SetParameter(opEgParamID(op, 1, "EgRate"), 40)
		e.SetParameter(opEgParamID(op, 1, "EgLevel"), 0.3)
		e.SetParameter(opEgParamID(op, 2, "EgRate"), 30)
		e.SetParameter(opEgParamID(op, 2, "EgLevel"), 0)
		e.SetParameter(opEgParamID(op, 3, "EgRate"), 30)
		e.SetParameter(opEgParamID(op, 3, "EgLevel"), 0)
	}
}

func TestBellAlgorithmProducesAudibleDecayingOutput(t *testing.T) {
	e := prepared(t)
	configureBellAlgorithm(e)

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 0.9}})

	attack := runBlocks(e, 4800, 512) // first 100ms
	require.Greater(t, peakDb(attack[0]), -24.0)

	for _, ch := range attack {
		for _, s := range ch {
			require.False(t, math.IsNaN(float64(s)))
			require.False(t, math.IsInf(float64(s), 0))
			require.LessOrEqual(t, s, float32(1.0))
			require.GreaterOrEqual(t, s, float32(-1.0))
		}
	}

	tail := runBlocks(e, 48000, 512) // next second, envelope should have decayed to sustain 0
	require.Less(t, peakDb(tail[0]), -40.0)
}

func TestVoiceStealingAtPolyphonyLimit(t *testing.T) {
	e := prepared(t)
	require.Equal(t, 16, e.MaxPolyphony())

	for n := int8(60); n < 76; n++ {
		e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: n, Velocity: 0.7}})
		runBlocks(e, 480, 512)
	}
	require.Equal(t, 16, e.ActiveVoiceCount())

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 91, Velocity: 0.7}})
	runBlocks(e, 480, 512)

	require.LessOrEqual(t, e.ActiveVoiceCount(), e.MaxPolyphony())
}

func TestNoteOffEventuallyReturnsToZeroVoices(t *testing.T) {
	e := prepared(t)
	configureBellAlgorithm(e)
	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 0.8}})
	runBlocks(e, 4800, 512)
	require.Equal(t, 1, e.ActiveVoiceCount())

	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOff, SampleOffset: 0, NoteOff: eventqueue.NoteOffPayload{MIDINote: 60}})
	runBlocks(e, int32(3*48000), 512)
	require.Equal(t, 0, e.ActiveVoiceCount())
}

func TestPresetRoundTrip(t *testing.T) {
	e := prepared(t)
	e.SetParameter("algorithm", 16)
	e.SetParameter("op1Ratio", 3.5)
	e.SetParameter("masterVolume", 0.6)

	data, err := e.SavePreset()
	require.NoError(t, err)

	e2 := prepared(t)
	require.NoError(t, e2.LoadPreset(data))

	for _, id := range []string{"algorithm", "op1Ratio", "masterVolume"} {
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
	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 60, Velocity: 0.8}})
	runBlocks(e, 512, 512)
	e.Reset()
	e.Reset()
	require.Equal(t, 0, e.ActiveVoiceCount())
}

package dm

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

func renderOneBar(e *Engine, blockSize int32) []float32 {
	const numSamples = 96000 // 16 sixteenth-note steps at 120bpm, 48kHz
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
	return left
}

// firstOnsetSample returns the index of the first sample whose magnitude
// crosses threshold, or -1 if the buffer never does.
func firstOnsetSample(buf []float32, threshold float64) int {
	for i, s := range buf {
		if math.Abs(float64(s)) > threshold {
			return i
		}
	}
	return -1
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

func TestKickFiresOnGridAtPocketRole(t *testing.T) {
	e := prepared(t)
	e.SetParameter("tempo", 120)
	require.NoError(t, e.Pattern().SetTrackKind(0, Kick))
	require.NoError(t, e.Pattern().SetStep(0, 0, true, 1.0, 0))

	out := renderOneBar(e, 512)
	onset := firstOnsetSample(out, 1e-4)
	require.GreaterOrEqual(t, onset, 0)
	require.InDelta(t, 0, onset, 32) // pocket role, no push/pull/dilla: lands on grid
}

func TestPushedHatFiresEarlyOfGrid(t *testing.T) {
	e := prepared(t)
	e.SetParameter("tempo", 120)
	e.SetParameter("pushOffset", -0.04)
	require.NoError(t, e.Pattern().SetTrackKind(0, ClosedHat))
	require.NoError(t, e.Pattern().SetTrackRole(0, RolePush))
	require.NoError(t, e.Pattern().SetStep(0, 4, true, 1.0, 0))

	out := renderOneBar(e, 512)
	onset := firstOnsetSample(out, 1e-4)
	require.GreaterOrEqual(t, onset, 0)

	stepDurSamples := 60.0 / 120.0 / 4.0 * 48000.0 // 6000
	nominal := 4 * stepDurSamples
	expected := nominal - 0.04*stepDurSamples // ~240 samples (5ms) early
	require.InDelta(t, expected, float64(onset), 32)
}

func TestPulledSnareFiresLateOfGrid(t *testing.T) {
	e := prepared(t)
	e.SetParameter("tempo", 120)
	e.SetParameter("pullOffset", 0.06)
	require.NoError(t, e.Pattern().SetTrackKind(0, Snare))
	require.NoError(t, e.Pattern().SetTrackRole(0, RolePull))
	require.NoError(t, e.Pattern().SetStep(0, 4, true, 1.0, 0))

	out := renderOneBar(e, 512)
	onset := firstOnsetSample(out, 1e-4)
	require.GreaterOrEqual(t, onset, 0)

	stepDurSamples := 60.0 / 120.0 / 4.0 * 48000.0
	nominal := 4 * stepDurSamples
	expected := nominal + 0.06*stepDurSamples // ~360 samples (7.5ms) late
	require.InDelta(t, expected, float64(onset), 32)
}

func TestIdenticalSeedPatternTempoProducesIdenticalDrift(t *testing.T) {
	build := func() *Engine {
		e := prepared(t)
		e.SetParameter("tempo", 96)
		e.SetParameter("dillaAmount", 0.8)
		require.NoError(t, e.Pattern().SetTrackKind(0, ClosedHat))
		for _, s := range []int{0, 2, 4, 6, 8, 10, 12, 14} {
			require.NoError(t, e.Pattern().SetStep(0, s, true, 1.0, 0))
		}
		return e
	}

	a := renderOneBar(build(), 512)
	b := renderOneBar(build(), 512)
	require.Equal(t, a, b)
}

func TestVoiceStealingAtPolyphonyLimit(t *testing.T) {
	e := prepared(t)
	require.Equal(t, 16, e.MaxPolyphony())

	for n := int8(36); n < 36+20; n++ {
		e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: n, Velocity: 0.8, Channel: int8(n - 36)}})
		out := make([]float32, 512)
		e.Process([][]float32{out, make([]float32, 512)}, 512)
	}
	require.LessOrEqual(t, e.ActiveVoiceCount(), e.MaxPolyphony())
}

func TestPresetRoundTrip(t *testing.T) {
	e := prepared(t)
	e.SetParameter("tempo", 140)
	e.SetParameter("swing", 0.3)
	require.NoError(t, e.Pattern().SetTrackKind(2, Snare))
	require.NoError(t, e.Pattern().SetStep(2, 4, true, 0.9, 0.1))

	data, err := e.SavePreset()
	require.NoError(t, err)

	e2 := prepared(t)
	require.NoError(t, e2.LoadPreset(data))

	require.Equal(t, e.GetParameter("tempo"), e2.GetParameter("tempo"))
	require.Equal(t, e.GetParameter("swing"), e2.GetParameter("swing"))
	require.Equal(t, e.Pattern().Tracks[2].Kind, e2.Pattern().Tracks[2].Kind)
	require.Equal(t, e.Pattern().Tracks[2].Steps[4], e2.Pattern().Tracks[2].Steps[4])
}

func TestLoadPresetRejectsWrongEngine(t *testing.T) {
	e := prepared(t)
	err := e.LoadPreset([]byte(`{"engine":"va","version":"v1.0","parameters":{}}`))
	require.Error(t, err)
}

func TestResetIsIdempotent(t *testing.T) {
	e := prepared(t)
	e.HandleEvent(eventqueue.Event{Type: eventqueue.TypeNoteOn, SampleOffset: 0, NoteOn: eventqueue.NoteOnPayload{MIDINote: 36, Velocity: 0.8}})
	out := make([]float32, 512)
	e.Process([][]float32{out, make([]float32, 512)}, 512)
	e.Reset()
	e.Reset()
	require.Equal(t, 0, e.ActiveVoiceCount())
}

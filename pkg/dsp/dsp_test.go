package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-5, 0, 10))
	require.Equal(t, 10.0, Clamp(50, 0, 10))
	require.Equal(t, 5.0, Clamp(5, 0, 10))
}

func TestNoteToFrequencyA4(t *testing.T) {
	require.InDelta(t, 440.0, NoteToFrequency(69, 0), 1e-9)
}

func TestSemitonesToRatioOctave(t *testing.T) {
	require.InDelta(t, 2.0, SemitonesToRatio(12), 1e-9)
	require.InDelta(t, 0.5, SemitonesToRatio(-12), 1e-9)
}

func TestSoftClipIsBounded(t *testing.T) {
	for _, x := range []float64{0, 1, -1, 100, -100, 1e9} {
		out := SoftClip(x)
		require.False(t, math.IsNaN(out))
		require.False(t, math.IsInf(out, 0))
		require.LessOrEqual(t, out, 1.0)
		require.GreaterOrEqual(t, out, -1.0)
	}
}

func TestFiniteOrReplacesNaNAndInf(t *testing.T) {
	require.Equal(t, 0.0, FiniteOr(math.NaN(), 0))
	require.Equal(t, 0.0, FiniteOr(math.Inf(1), 0))
	require.Equal(t, 0.0, FiniteOr(math.Inf(-1), 0))
	require.Equal(t, 3.5, FiniteOr(3.5, 0))
}

func TestPanIsConstantPower(t *testing.T) {
	for _, p := range []float64{-1, -0.5, 0, 0.5, 1} {
		l, r := Pan(p)
		power := l*l + r*r
		require.InDelta(t, 1.0, power, 1e-9)
	}
}

func TestPanCenterIsEqualGain(t *testing.T) {
	l, r := Pan(0)
	require.InDelta(t, l, r, 1e-9)
}

func TestOnePoleSmootherConverges(t *testing.T) {
	s := NewOnePoleSmoother(0.01, 48000)
	s.SetImmediate(0)
	s.SetTarget(1)
	for i := 0; i < 48000; i++ {
		s.Next()
	}
	require.True(t, s.Done())
	require.InDelta(t, 1.0, s.Value(), 1e-6)
}

func TestAdvancePhaseWraps(t *testing.T) {
	phase := AdvancePhase(0.9, 48000, 48000) // +1.0 cycle
	require.GreaterOrEqual(t, phase, 0.0)
	require.Less(t, phase, 1.0)
}

func TestPolyBLEPSawStaysInRange(t *testing.T) {
	inc := PhaseIncrement(440, 48000)
	phase := 0.0
	for i := 0; i < 48000; i++ {
		out := PolyBLEPSaw(phase, inc)
		require.False(t, math.IsNaN(out))
		require.InDelta(t, 0, out, 2.5)
		phase = AdvancePhase(phase, 440, 48000)
	}
}

func TestHashSeedIsDeterministic(t *testing.T) {
	a := HashSeed(42, 1, 2, 3)
	b := HashSeed(42, 1, 2, 3)
	require.Equal(t, a, b)
}

func TestHashSeedVariesWithCoordinates(t *testing.T) {
	a := HashSeed(42, 1, 2, 3)
	b := HashSeed(42, 1, 2, 4)
	require.NotEqual(t, a, b)
}

func TestRandFloat64InUnitRange(t *testing.T) {
	r := NewRand(12345)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestRandIsReproducibleFromSameSeed(t *testing.T) {
	a := NewRand(777)
	b := NewRand(777)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestSVFProducesFiniteOutputAtExtremeResonance(t *testing.T) {
	f := NewSVF(48000)
	f.SetCutoff(48000 * 0.49)
	f.SetResonance(0.99)
	for i := 0; i < 1000; i++ {
		out := f.Process(1.0, FilterLowpass)
		require.False(t, math.IsNaN(out))
		require.False(t, math.IsInf(out, 0))
	}
}

func TestSVFStableAtLowCutoff(t *testing.T) {
	f := NewSVF(48000)
	f.SetCutoff(20)
	f.SetResonance(0.1)
	for i := 0; i < 1000; i++ {
		out := f.Process(1.0, FilterLowpass)
		require.False(t, math.IsNaN(out))
	}
}

func TestAllpassPreservesEnergyRoughly(t *testing.T) {
	var a Allpass
	a.SetCoefficient(0.5)
	out := a.Process(1.0)
	require.False(t, math.IsNaN(out))
}

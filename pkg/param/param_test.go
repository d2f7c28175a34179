package param

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndGetDefault(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Unit("level", "Level", 0.5)))
	require.Equal(t, float32(0.5), s.Get("level"))
}

func TestRegisterRejectsBadRange(t *testing.T) {
	s := NewStore()
	err := s.Register(Descriptor{ID: "bad", Name: "Bad", Min: 1, Max: 0, Default: 0.5})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestRegisterRejectsDefaultOutOfRange(t *testing.T) {
	s := NewStore()
	err := s.Register(Descriptor{ID: "bad", Name: "Bad", Min: 0, Max: 1, Default: 2})
	require.ErrorIs(t, err, ErrDefaultOutOfRange)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Unit("a", "A", 0)))
	err := s.Register(Unit("a", "A", 0))
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSetClampsToRange(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Unit("level", "Level", 0.5)))
	s.Set("level", 5.0)
	require.Equal(t, float32(1.0), s.Get("level"))
	s.Set("level", -5.0)
	require.Equal(t, float32(0.0), s.Get("level"))
}

func TestSetClampIsIdempotent(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Unit("level", "Level", 0.5)))
	s.Set("level", 5.0)
	once := s.Get("level")
	s.Set("level", 5.0)
	require.Equal(t, once, s.Get("level"))
}

func TestSetUnknownIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.Set("nope", 1.0)
	require.Equal(t, float32(0), s.Get("nope"))
}

func TestSnapshotAndApplySnapshotRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.RegisterAll(Unit("a", "A", 0.1), Unit("b", "B", 0.2)))
	s.Set("a", 0.9)
	snap := s.Snapshot()

	s2 := NewStore()
	require.NoError(t, s2.RegisterAll(Unit("a", "A", 0.1), Unit("b", "B", 0.2)))
	s2.ApplySnapshot(snap)

	require.Equal(t, s.Get("a"), s2.Get("a"))
	require.Equal(t, s.Get("b"), s2.Get("b"))
}

func TestApplySnapshotBumpsGeneration(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Unit("a", "A", 0)))
	before := s.Generation()
	s.ApplySnapshot(map[string]float32{"a": 1})
	require.Greater(t, s.Generation(), before)
}

func TestResetToDefaults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(Unit("a", "A", 0.3)))
	s.Set("a", 0.9)
	s.ResetToDefaults()
	require.Equal(t, float32(0.3), s.Get("a"))
}

func TestFormatValueAndParseValueRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(NewBuilder("cutoff", "Cutoff").Range(20, 20000, 1000).Format(FormatHertz).MustBuild()))
	text := s.FormatValue("cutoff")
	require.Contains(t, text, "Hz")

	v, err := s.ParseValue("cutoff", "500 Hz")
	require.NoError(t, err)
	require.InDelta(t, 500.0, float64(v), 1e-6)
}

func TestParseValueUnknownID(t *testing.T) {
	s := NewStore()
	_, err := s.ParseValue("nope", "1.0")
	require.ErrorIs(t, err, ErrUnknownParameter)
}

func TestChoiceFactoryIsStepped(t *testing.T) {
	d := Choice("mode", "Mode", 4, 2)
	require.NotZero(t, d.Flags&FlagStepped)
	require.Equal(t, float32(0), d.Min)
	require.Equal(t, float32(3), d.Max)
	require.Equal(t, float32(2), d.Default)
}

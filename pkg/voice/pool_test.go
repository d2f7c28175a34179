package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateFreeSlotFirst(t *testing.T) {
	p := NewPool(4)
	idx, stolen := p.Allocate(1, 0, 60, func(int) bool { return false })
	require.False(t, stolen)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, p.ActiveCount())
}

func TestAllocateStealsOldestActiveWhenFull(t *testing.T) {
	p := NewPool(2)
	isSilent := func(int) bool { return false }

	idx0, stolen0 := p.Allocate(1, 0, 60, isSilent)
	require.False(t, stolen0)
	p.Advance(100)
	idx1, stolen1 := p.Allocate(2, 0, 61, isSilent)
	require.False(t, stolen1)
	p.Advance(100)

	idx2, stolen2 := p.Allocate(3, 0, 62, isSilent)
	require.True(t, stolen2)
	require.Equal(t, idx0, idx2, "oldest slot (triggered first) must be the one reused")
	require.NotEqual(t, idx1, idx2)
}

func TestAllocatePrefersSilentReleasingOverOldestActive(t *testing.T) {
	p := NewPool(2)
	isSilent := func(int) bool { return false }

	idx0, _ := p.Allocate(1, 0, 60, isSilent)
	idx1, _ := p.Allocate(2, 0, 61, isSilent)
	p.Release(2, 0, make([]int, 0, 2)) // idx1 -> releasing

	silentAt := func(i int) bool { return i == idx1 }
	idx2, stolen := p.Allocate(3, 0, 62, silentAt)
	require.False(t, stolen, "a silent releasing slot holds no sounding voice")
	require.Equal(t, idx1, idx2)
	require.NotEqual(t, idx0, idx2)
}

func TestReleaseMatchesNoteAndChannel(t *testing.T) {
	p := NewPool(4)
	p.Allocate(1, 0, 60, func(int) bool { return false })
	p.Allocate(1, 1, 60, func(int) bool { return false }) // same note id, different channel

	out := p.Release(1, 0, nil)
	require.Len(t, out, 1)
	require.Equal(t, StateReleasing, p.Slot(out[0]).State)
	require.Equal(t, StateActive, p.Slot(1).State)
}

func TestFreeAndReset(t *testing.T) {
	p := NewPool(2)
	idx, _ := p.Allocate(1, 0, 60, func(int) bool { return false })
	p.Free(idx)
	require.Equal(t, 0, p.ActiveCount())

	p.Allocate(2, 0, 61, func(int) bool { return false })
	p.Reset()
	require.Equal(t, 0, p.ActiveCount())
}

func TestActiveCountNeverExceedsCapacity(t *testing.T) {
	p := NewPool(3)
	isSilent := func(int) bool { return false }
	for n := int32(1); n <= 10; n++ {
		p.Allocate(n, 0, int8(60+n), isSilent)
	}
	require.LessOrEqual(t, p.ActiveCount(), p.Len())
	require.Equal(t, 3, p.ActiveCount())
}

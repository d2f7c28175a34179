// Package param implements the ParameterStore: a flat string-id -> float32
// map with atomic control->audio handoff. Every synthesis core embeds one
// Store and registers its namespace against it in its constructor.
package param

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 stores a float32 behind an atomic uint32: a lock-free
// scalar each parameter uses for its control->audio handoff.
type AtomicFloat32 struct {
	bits uint32
}

// NewAtomicFloat32 creates a new atomic scalar with the given initial value.
func NewAtomicFloat32(initial float32) *AtomicFloat32 {
	a := &AtomicFloat32{}
	a.Store(initial)
	return a
}

// Load atomically reads the current value. Safe to call from the audio
// thread at sub-block boundaries (relaxed memory order is sufficient since
// each parameter is independent and no cross-parameter ordering is
// required within a block).
func (a *AtomicFloat32) Load() float32 {
	return math.Float32frombits(atomic.LoadUint32(&a.bits))
}

// Store atomically writes value, called from the control thread.
func (a *AtomicFloat32) Store(value float32) {
	atomic.StoreUint32(&a.bits, math.Float32bits(value))
}

// Package engine defines InstrumentEngine, the uniform block-rate contract
// every synthesis core satisfies, plus the BlockDescriptor and lifecycle
// types shared by all four concrete engines in engines/*.
package engine

import (
	"errors"

	"github.com/driftwave/synthcore/pkg/eventqueue"
)

// BufferFormat selects how process() expects its output channels laid out.
// The core only ever writes planar float32 per channel; the interleaved
// tag exists so a host-facing adapter outside this package can request
// interleaving without the core knowing about hosts at all.
type BufferFormat int

const (
	FormatPlanar BufferFormat = iota
	FormatInterleaved
)

// BlockDescriptor fixes an engine's operating parameters for its lifetime
// until the next Prepare call.
type BlockDescriptor struct {
	SampleRate  float64
	BlockSize   int32
	NumChannels int32
	Format      BufferFormat
}

// Validate checks the descriptor against the engine's accepted ranges.
func (b BlockDescriptor) Validate() error {
	if b.SampleRate < 8000 || b.SampleRate > 192000 {
		return ErrSampleRateOutOfRange
	}
	if b.BlockSize < 1 || b.BlockSize > 8192 {
		return ErrBlockSizeOutOfRange
	}
	if b.NumChannels != 1 && b.NumChannels != 2 {
		return ErrChannelCountUnsupported
	}
	return nil
}

// Errors surfaced by the control-path Prepare/LoadPreset/SavePreset
// operations. Audio-path operations never return error.
var (
	ErrSampleRateOutOfRange    = errors.New("engine: sample rate out of range [8000, 192000]")
	ErrBlockSizeOutOfRange     = errors.New("engine: block size out of range [1, 8192]")
	ErrChannelCountUnsupported = errors.New("engine: only mono or stereo output is supported")
	ErrMalformedPreset         = errors.New("engine: malformed preset JSON")
	ErrVersionMismatch         = errors.New("engine: preset version incompatible with engine version")
	ErrBufferTooSmall          = errors.New("engine: savePreset buffer too small")
)

// InstrumentEngine is the operation set every synthesis core must
// implement. The four concrete types in engines/va, engines/fm,
// engines/pm, and engines/dm each implement it; a host selects one
// concretely, giving compile-time dispatch per instance and one indirect
// call per process(), never per sample.
//
// Threading: Prepare, Process, HandleEvent, and ActiveVoiceCount are called
// by a single audio thread. SetParameter, GetParameter, SavePreset,
// LoadPreset, and Reset are called by a single control thread. Multiple
// engine instances are independent.
type InstrumentEngine interface {
	// Prepare configures the engine for a fixed sample rate/block size. It
	// is the only point where the engine may allocate. Idempotent: calling
	// it again with the same descriptor reshapes nothing.
	Prepare(desc BlockDescriptor) error

	// Reset zeroes voice state, delay lines, and envelope phases.
	// Parameters are preserved. Infallible.
	Reset()

	// HandleEvent enqueues evt for the block it falls within, clamping its
	// offset into range. Unknown event types are dropped silently. Never
	// blocks or allocates.
	HandleEvent(evt eventqueue.Event)

	// Process renders numSamples frames into outputs, one slice per
	// channel, per the descriptor passed to Prepare. Writes exactly
	// numSamples finite samples per channel. Never allocates, blocks, or
	// panics.
	Process(outputs [][]float32, numSamples int32)

	// SetParameter clamps value to the parameter's declared domain and
	// stores it. Unknown ids are a no-op.
	SetParameter(id string, value float32)

	// GetParameter returns the current value of id, or 0 if unknown.
	GetParameter(id string) float32

	// SavePreset serializes the engine's full state (parameters plus any
	// engine-specific tables) as UTF-8 JSON.
	SavePreset() ([]byte, error)

	// LoadPreset atomically replaces the parameter set (and any
	// engine-specific tables) from a UTF-8 JSON document. On failure the
	// engine state is unchanged. On success, all voices are force-released
	// before the next Process call.
	LoadPreset(data []byte) error

	// ActiveVoiceCount returns how many voices are currently producing
	// sound.
	ActiveVoiceCount() int

	// MaxPolyphony returns the engine's fixed voice pool size.
	MaxPolyphony() int

	// Name returns the engine's constant display name.
	Name() string

	// Version returns the engine's constant preset-format version string,
	// compared against a loaded preset's declared version.
	Version() string
}

// Diagnostics are the internal recovery counters every engine exposes:
// audio-path failures are absorbed locally and counted, never surfaced
// synchronously.
type Diagnostics struct {
	NaNRecoveries        uint64
	DenormalRecoveries   uint64
	VoiceSteals          uint64
	ProcessBeforePrepare uint64
	PresetLoadFailures   uint64
}

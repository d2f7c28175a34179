package param

import "errors"

// Errors returned by Store's control-path operations.
var (
	ErrAlreadyRegistered = errors.New("parameter already registered")
	ErrInvalidRange      = errors.New("parameter min must be less than max")
	ErrDefaultOutOfRange = errors.New("parameter default outside min/max")
	ErrUnknownParameter  = errors.New("unknown parameter id")
)

// Flags describe a parameter's capabilities: whether a value is an
// integer-stepped choice (polyMode, filterType, lfo waveform, algorithm
// index, ...) versus a continuous knob, and whether the modulation matrix
// may target it.
type Flags uint8

const (
	FlagStepped Flags = 1 << iota
	FlagModulatable
)

// Descriptor is a parameter's static metadata: its declared [min,max]
// domain plus enough information to format/parse it for a host control
// surface.
type Descriptor struct {
	ID      string
	Name    string
	Min     float32
	Max     float32
	Default float32
	Flags   Flags
	Format  Format
}

// Clamp restricts value to the descriptor's declared domain.
func (d Descriptor) Clamp(value float32) float32 {
	if value < d.Min {
		return d.Min
	}
	if value > d.Max {
		return d.Max
	}
	return value
}

// entry pairs a Descriptor with its live atomic value.
type entry struct {
	desc  Descriptor
	value *AtomicFloat32
}
